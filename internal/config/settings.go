// Package config loads clock settings from YAML and reloads them when the file
// changes on disk.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"frameclock/pkg/clock"
)

// ErrInvalidSettings is wrapped by every parse and validation error.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings is the on-disk form of a clock's tunables. Fields left out of the
// file keep their defaults; nil TimeScale and Paused leave the clock alone.
type Settings struct {
	Clock     clock.Config `yaml:"clock"`
	TimeScale *float64     `yaml:"time_scale,omitempty"`
	Paused    *bool        `yaml:"paused,omitempty"`
}

// Default returns settings holding clock.DefaultConfig and nothing else.
func Default() Settings {
	return Settings{Clock: clock.DefaultConfig()}
}

// Load reads and parses a settings file.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (Settings, error) {
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the clock config and the time scale.
func (s Settings) Validate() error {
	if err := s.Clock.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if s.TimeScale != nil {
		ts := *s.TimeScale
		if ts < 0 || math.IsNaN(ts) || math.IsInf(ts, 0) {
			return fmt.Errorf("%w: time_scale must be a finite non-negative number, got %v", ErrInvalidSettings, ts)
		}
	}
	return nil
}

// Apply pushes the settings into c through its setters. The stepping state
// (accumulator, last sample) is untouched. When both TimeScale and Paused are
// set the scale is applied first, so a paused clock resumes at that scale.
func (s Settings) Apply(c *clock.FrameClock) {
	c.SetPhysicsRate(s.Clock.PhysicsRate)
	c.SetMaxFrameTime(s.Clock.MaxFrameTime)
	c.SetMaxPhysicsSteps(s.Clock.MaxPhysicsSteps)
	if s.TimeScale != nil {
		if c.IsPaused() && (s.Paused == nil || *s.Paused) {
			// Keep the clock paused but remember the new scale for Resume.
			c.Resume()
			c.SetTimeScale(*s.TimeScale)
			c.Pause()
		} else {
			c.SetTimeScale(*s.TimeScale)
		}
	}
	if s.Paused != nil {
		if *s.Paused {
			c.Pause()
		} else {
			c.Resume()
		}
	}
}

package clock

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Default construction values.
const (
	DefaultPhysicsRate     = 60
	DefaultMaxFrameTime    = 0.25
	DefaultMaxPhysicsSteps = 5
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("invalid clock config")

// Config holds the values a FrameClock is constructed with.
type Config struct {
	PhysicsRate     int     `yaml:"physics_rate"`
	MaxFrameTime    float64 `yaml:"max_frame_time"`
	MaxPhysicsSteps int     `yaml:"max_physics_steps"`
}

// DefaultConfig returns 60 Hz physics, a 250ms frame cap and at most five
// physics steps per frame.
func DefaultConfig() Config {
	return Config{
		PhysicsRate:     DefaultPhysicsRate,
		MaxFrameTime:    DefaultMaxFrameTime,
		MaxPhysicsSteps: DefaultMaxPhysicsSteps,
	}
}

// Validate reports the first field that is not strictly positive.
func (c Config) Validate() error {
	if c.PhysicsRate <= 0 {
		return fmt.Errorf("%w: physics rate %d must be positive", ErrInvalidConfig, c.PhysicsRate)
	}
	if !(c.MaxFrameTime > 0) || math.IsInf(c.MaxFrameTime, 0) {
		return fmt.Errorf("%w: max frame time %v must be a positive number of seconds", ErrInvalidConfig, c.MaxFrameTime)
	}
	if c.MaxPhysicsSteps <= 0 {
		return fmt.Errorf("%w: max physics steps %d must be positive", ErrInvalidConfig, c.MaxPhysicsSteps)
	}
	return nil
}

// TimeStep returns the physics step in seconds implied by PhysicsRate.
func (c Config) TimeStep() float64 {
	if c.PhysicsRate <= 0 {
		return 0
	}
	return 1 / float64(c.PhysicsRate)
}

// FromMap overlays flag-style key/value pairs onto base. Unparseable or
// out-of-range entries are skipped. physics_time_step wins over physics_rate
// when both are present.
func FromMap(base Config, kv map[string]string) Config {
	c := base
	if kv == nil {
		return c
	}
	if v, ok := kv["physics_rate"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.PhysicsRate = parsed
		}
	}
	if v, ok := kv["physics_time_step"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.PhysicsRate = rateForStep(parsed)
		}
	}
	if v, ok := kv["max_frame_time"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 && !math.IsInf(parsed, 0) {
			c.MaxFrameTime = parsed
		}
	}
	if v, ok := kv["max_physics_steps"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.MaxPhysicsSteps = parsed
		}
	}
	return c
}

// rateForStep rounds 1/step to the nearest whole rate, never below 1.
func rateForStep(step float64) int {
	r := math.Round(1 / step)
	if r < 1 || math.IsNaN(r) {
		return 1
	}
	if r > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(r)
}

package app

import (
	"flag"
	"fmt"

	"frameclock/pkg/clock"
)

// Config represents the command-line parameters for the demo window.
type Config struct {
	PhysicsRate     int
	MaxFrameTime    float64
	MaxPhysicsSteps int
	TimeScale       float64

	// Settings is an optional YAML file that is applied at start and
	// reloaded on change.
	Settings string

	Width    int
	Height   int
	HUDWidth int
	LogLevel string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		PhysicsRate:     clock.DefaultPhysicsRate,
		MaxFrameTime:    clock.DefaultMaxFrameTime,
		MaxPhysicsSteps: clock.DefaultMaxPhysicsSteps,
		TimeScale:       1,
		Width:           640,
		Height:          480,
		HUDWidth:        260,
		LogLevel:        "info",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.PhysicsRate, "rate", c.PhysicsRate, "physics steps per second")
	fs.Float64Var(&c.MaxFrameTime, "max-frame", c.MaxFrameTime, "longest frame the clock will account for, in seconds")
	fs.IntVar(&c.MaxPhysicsSteps, "max-steps", c.MaxPhysicsSteps, "physics steps allowed per frame")
	fs.Float64Var(&c.TimeScale, "time-scale", c.TimeScale, "initial time scale")
	fs.StringVar(&c.Settings, "config", c.Settings, "settings file to load and watch")
	fs.IntVar(&c.Width, "width", c.Width, "view width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "view height in pixels")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "HUD panel width in pixels, 0 hides it")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "zerolog level")
}

// ClockConfig returns the clock portion of c.
func (c *Config) ClockConfig() clock.Config {
	return clock.Config{
		PhysicsRate:     c.PhysicsRate,
		MaxFrameTime:    c.MaxFrameTime,
		MaxPhysicsSteps: c.MaxPhysicsSteps,
	}
}

// Validate checks the clock flags and the window size before anything is
// built from them.
func (c *Config) Validate() error {
	if err := c.ClockConfig().Validate(); err != nil {
		return err
	}
	if !(c.TimeScale >= 0) {
		return fmt.Errorf("time scale must be non-negative, got %v", c.TimeScale)
	}
	if c.Width <= 2*markerRadius || c.Height <= 0 || c.HUDWidth < 0 {
		return fmt.Errorf("invalid window size %dx%d (hud %d)", c.Width, c.Height, c.HUDWidth)
	}
	return nil
}

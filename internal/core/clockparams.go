package core

import (
	"strconv"

	"frameclock/pkg/clock"
)

// Parameter keys understood by ClockTunables.
const (
	KeyPhysicsRate     = "physics_rate"
	KeyPhysicsTimeStep = "physics_time_step"
	KeyMaxFrameTime    = "max_frame_time"
	KeyMaxPhysicsSteps = "max_physics_steps"
	KeyTimeScale       = "time_scale"
	KeyPaused          = "paused"
	KeyAverageFPS      = "average_fps"
	KeyAccumulator     = "accumulator"
	KeyPhysicsSteps    = "physics_steps"
)

// ClockTunables exposes a FrameClock through the parameter model so it can be
// shown and adjusted from a HUD. Setters route to the clock's own setters and
// keep their ignore/clamp rules.
type ClockTunables struct {
	Clock *clock.FrameClock
}

// NewClockTunables wraps c.
func NewClockTunables(c *clock.FrameClock) *ClockTunables {
	return &ClockTunables{Clock: c}
}

func (t *ClockTunables) Parameters() ParameterSnapshot {
	c := t.Clock
	groups := []ParameterGroup{
		{
			Name: "Physics",
			Params: []Parameter{
				intParam(KeyPhysicsRate, "Physics rate (Hz)", c.PhysicsRate()),
				floatParam(KeyPhysicsTimeStep, "Time step (s)", c.PhysicsTimeStep()),
			},
		},
		{
			Name: "Limits",
			Params: []Parameter{
				floatParam(KeyMaxFrameTime, "Max frame time (s)", c.MaxFrameTime()),
				intParam(KeyMaxPhysicsSteps, "Max steps/frame", c.MaxPhysicsSteps()),
			},
		},
		{
			Name: "Playback",
			Params: []Parameter{
				floatParam(KeyTimeScale, "Time scale", c.TimeScale()),
				boolParam(KeyPaused, "Paused", c.IsPaused()),
			},
		},
		{
			Name: "Stats",
			Params: []Parameter{
				floatParam(KeyAverageFPS, "Average FPS", c.AverageFPS()),
				floatParam(KeyAccumulator, "Accumulator (s)", c.Accumulator()),
				intParam(KeyPhysicsSteps, "Steps last frame", c.PhysicsSteps()),
			},
		},
	}
	return ParameterSnapshot{Groups: groups}
}

func (t *ClockTunables) ParameterControls() []ParameterControl {
	return []ParameterControl{
		{Key: KeyPhysicsRate, Label: "Physics Hz", Type: ParamTypeInt, Step: 10, Min: 1, HasMin: true, Max: 1000, HasMax: true},
		{Key: KeyMaxPhysicsSteps, Label: "Max steps", Type: ParamTypeInt, Step: 1, Min: 1, HasMin: true, Max: 64, HasMax: true},
		{Key: KeyMaxFrameTime, Label: "Max frame (s)", Type: ParamTypeFloat, Step: 0.05, Min: 0.05, HasMin: true, Max: 2, HasMax: true},
		{Key: KeyTimeScale, Label: "Time scale", Type: ParamTypeFloat, Step: 0.25, Min: 0, HasMin: true, Max: 8, HasMax: true},
	}
}

// SetIntParameter reports whether key names an integer parameter.
func (t *ClockTunables) SetIntParameter(key string, value int) bool {
	switch key {
	case KeyPhysicsRate:
		t.Clock.SetPhysicsRate(value)
	case KeyMaxPhysicsSteps:
		t.Clock.SetMaxPhysicsSteps(value)
	default:
		return false
	}
	return true
}

// SetFloatParameter reports whether key names a float parameter. A
// non-positive max frame time is refused rather than passed to the clock.
func (t *ClockTunables) SetFloatParameter(key string, value float64) bool {
	switch key {
	case KeyPhysicsTimeStep:
		t.Clock.SetPhysicsTimeStep(value)
	case KeyMaxFrameTime:
		if !(value > 0) {
			return false
		}
		t.Clock.SetMaxFrameTime(value)
	case KeyTimeScale:
		t.Clock.SetTimeScale(value)
	default:
		return false
	}
	return true
}

// TogglePause pauses a running clock or resumes a paused one.
func (t *ClockTunables) TogglePause() {
	if t.Clock.IsPaused() {
		t.Clock.Resume()
		return
	}
	t.Clock.Pause()
}

func intParam(key, label string, value int) Parameter {
	return Parameter{
		Key:   key,
		Label: label,
		Type:  ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func floatParam(key, label string, value float64) Parameter {
	return Parameter{
		Key:   key,
		Label: label,
		Type:  ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func boolParam(key, label string, value bool) Parameter {
	return Parameter{
		Key:   key,
		Label: label,
		Type:  ParamTypeBool,
		Value: strconv.FormatBool(value),
	}
}

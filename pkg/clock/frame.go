package clock

import "time"

// FrameTiming is what BeginFrame reports for one iteration of the caller's
// loop. All times are in seconds.
type FrameTiming struct {
	// PhysicsSteps is how many fixed updates to run before rendering.
	PhysicsSteps int
	// FixedTimestep is the duration of one physics update.
	FixedTimestep float64
	// InterpolationAlpha in [0, 1] blends the previous and current physics
	// state for rendering.
	InterpolationAlpha float64
	// FrameTime is the capped, scaled elapsed time.
	FrameTime float64
	// Lagging is set when more steps were due than the per-frame cap allows;
	// the excess was discarded.
	Lagging bool
	// RawFrameTime is the measured elapsed time before capping and scaling.
	RawFrameTime float64
	// UnscaledFrameTime is capped but unscaled.
	UnscaledFrameTime float64
	// CurrentTimeScale is the scale that was applied.
	CurrentTimeScale float64
}

// Run calls step once per physics step with the fixed timestep.
func (f FrameTiming) Run(step func(dt float64)) {
	for i := 0; i < f.PhysicsSteps; i++ {
		step(f.FixedTimestep)
	}
}

// FixedDuration returns FixedTimestep as a time.Duration.
func (f FrameTiming) FixedDuration() time.Duration {
	return time.Duration(f.FixedTimestep * float64(time.Second))
}

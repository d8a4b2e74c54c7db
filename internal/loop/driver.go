package loop

import (
	"github.com/rs/zerolog"

	"frameclock/pkg/clock"
)

// Stepper advances a fixed-rate simulation by dt seconds.
type Stepper interface {
	Step(dt float64)
}

// StepperFunc adapts a function to Stepper.
type StepperFunc func(dt float64)

// Step calls f.
func (f StepperFunc) Step(dt float64) { f(dt) }

// Stats accumulates what a Driver has done since it was created or reset.
type Stats struct {
	Frames        int
	Steps         int
	LaggingFrames int
	SimulatedTime float64
	RawTime       float64
}

// Driver runs one clock frame per Frame call and hands the due fixed steps
// to its Stepper. It does not own a loop; the host calls Frame from its own.
type Driver struct {
	Clock   *clock.FrameClock
	Stepper Stepper
	Logger  zerolog.Logger

	stats   Stats
	lagRun  int
	lagging bool
}

// NewDriver builds a Driver with a disabled logger.
func NewDriver(c *clock.FrameClock, s Stepper) *Driver {
	return &Driver{Clock: c, Stepper: s, Logger: zerolog.Nop()}
}

// Frame begins a clock frame, runs its physics steps and returns the timing.
func (d *Driver) Frame() clock.FrameTiming {
	ft := d.Clock.BeginFrame()
	if d.Stepper != nil {
		ft.Run(d.Stepper.Step)
	}

	d.stats.Frames++
	d.stats.Steps += ft.PhysicsSteps
	d.stats.SimulatedTime += float64(ft.PhysicsSteps) * ft.FixedTimestep
	d.stats.RawTime += ft.RawFrameTime

	switch {
	case ft.Lagging:
		d.stats.LaggingFrames++
		d.lagRun++
		if !d.lagging {
			d.lagging = true
			d.Logger.Warn().
				Float64("raw_frame_time", ft.RawFrameTime).
				Int("max_steps", d.Clock.MaxPhysicsSteps()).
				Msg("physics falling behind, dropping backlog")
		}
	case d.lagging:
		d.Logger.Info().Int("lagging_frames", d.lagRun).Msg("physics caught up")
		d.lagging = false
		d.lagRun = 0
	}

	d.Logger.Trace().
		Int("steps", ft.PhysicsSteps).
		Float64("alpha", ft.InterpolationAlpha).
		Float64("frame_time", ft.FrameTime).
		Msg("frame")
	return ft
}

// Lagging reports whether the most recent frame hit the step cap.
func (d *Driver) Lagging() bool { return d.lagging }

// Stats returns a copy of the running totals.
func (d *Driver) Stats() Stats { return d.stats }

// Reset clears the totals and resets the clock.
func (d *Driver) Reset() {
	d.stats = Stats{}
	d.lagRun = 0
	d.lagging = false
	d.Clock.Reset()
}

// TickCounter is a Stepper that only counts what it is asked to do. Hosts use
// it in place of a real simulation.
type TickCounter struct {
	Ticks   int
	Elapsed float64
}

// Step records one tick of dt seconds.
func (t *TickCounter) Step(dt float64) {
	t.Ticks++
	t.Elapsed += dt
}

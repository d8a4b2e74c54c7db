package clock

import (
	"fmt"
	"math"
	"time"
)

// dblEpsilon is the gap between 1.0 and the next float64.
const dblEpsilon = 2.220446049250313e-16

// stepEpsilon absorbs rounding that would otherwise drop a step that is
// exactly due.
const stepEpsilon = 1e-12

// FrameClock turns variable frame arrival into a bounded number of fixed
// physics steps plus an interpolation alpha. It is not safe for concurrent
// use; own it from the goroutine that runs the loop.
type FrameClock struct {
	physicsRate     int
	physicsTimeStep float64
	maxFrameTime    float64
	maxPhysicsSteps int

	accumulator float64
	lastSample  time.Time
	firstCall   bool

	timeScale            float64
	timeScaleBeforePause float64
	// paused is set by Pause and cleared by Resume, Reset and SetTimeScale.
	// A zero scale set directly is not a pause.
	paused bool

	stepsThisFrame int
	fps            FPSAverager

	src Source
}

// New constructs a FrameClock. A nil cfg selects DefaultConfig and a nil src
// selects System. New panics if cfg fails Validate.
func New(cfg *Config, src Source) *FrameClock {
	c := DefaultConfig()
	if cfg != nil {
		c = *cfg
	}
	if err := c.Validate(); err != nil {
		panic(fmt.Sprintf("clock.New: %v", err))
	}
	if src == nil {
		src = System()
	}
	fc := &FrameClock{
		physicsRate:          c.PhysicsRate,
		physicsTimeStep:      c.TimeStep(),
		maxFrameTime:         math.Max(c.MaxFrameTime, dblEpsilon),
		maxPhysicsSteps:      c.MaxPhysicsSteps,
		firstCall:            true,
		timeScale:            1.0,
		timeScaleBeforePause: 1.0,
		src:                  src,
	}
	fc.lastSample = src.Now()
	return fc
}

// BeginFrame measures the time since the previous call and reports how many
// physics steps are due. The first call after New or Reset only records a
// sample and reports zero elapsed time.
func (c *FrameClock) BeginFrame() FrameTiming {
	if c.firstCall {
		c.firstCall = false
		c.lastSample = c.src.Now()
		c.stepsThisFrame = 0
		return FrameTiming{
			FixedTimestep:    c.physicsTimeStep,
			CurrentTimeScale: c.timeScale,
		}
	}
	if !(c.physicsTimeStep > 0) {
		panic(fmt.Sprintf("clock: physics time step must be positive, got %v", c.physicsTimeStep))
	}

	now := c.src.Now()
	raw := math.Max(now.Sub(c.lastSample).Seconds(), 0)
	c.lastSample = now

	capped := math.Min(raw, c.maxFrameTime)
	scaled := capped * c.timeScale
	c.accumulator += scaled

	due := math.Floor((c.accumulator + stepEpsilon) / c.physicsTimeStep)
	lagging := due > float64(c.maxPhysicsSteps)
	steps := c.maxPhysicsSteps
	if !lagging {
		steps = int(due)
	}
	c.stepsThisFrame = steps

	// Reducing modulo the step discards every whole step, including the
	// backlog beyond maxPhysicsSteps when lagging.
	c.accumulator = remainder(c.accumulator, c.physicsTimeStep)

	alpha := clamp(c.accumulator/c.physicsTimeStep, 0, 1)

	c.fps.Add(raw)

	return FrameTiming{
		PhysicsSteps:       steps,
		FixedTimestep:      c.physicsTimeStep,
		InterpolationAlpha: alpha,
		FrameTime:          scaled,
		Lagging:            lagging,
		RawFrameTime:       raw,
		UnscaledFrameTime:  capped,
		CurrentTimeScale:   c.timeScale,
	}
}

// remainder returns acc mod step in [0, step). A result within stepEpsilon of
// a full step belongs to a step that was already counted and becomes zero.
func remainder(acc, step float64) float64 {
	r := math.Mod(acc, step)
	if r < 0 {
		r += step
	}
	if step-r <= stepEpsilon {
		r = 0
	}
	return r
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(math.Min(x, hi), lo)
}

// SetPhysicsRate sets the physics rate in Hz and derives the time step.
// Non-positive rates are ignored.
func (c *FrameClock) SetPhysicsRate(rate int) {
	if rate <= 0 {
		return
	}
	c.physicsRate = rate
	c.physicsTimeStep = 1 / float64(rate)
}

// SetPhysicsTimeStep sets the step in seconds and derives the nearest whole
// rate, at least 1. Non-positive steps are ignored.
func (c *FrameClock) SetPhysicsTimeStep(step float64) {
	if !(step > 0) || math.IsInf(step, 0) {
		return
	}
	c.physicsTimeStep = step
	c.physicsRate = rateForStep(step)
}

// SetMaxFrameTime caps the elapsed time a single frame may contribute.
// It panics unless seconds is positive.
func (c *FrameClock) SetMaxFrameTime(seconds float64) {
	if !(seconds > 0) {
		panic(fmt.Sprintf("clock: max frame time must be positive, got %v", seconds))
	}
	c.maxFrameTime = math.Max(seconds, dblEpsilon)
}

// SetMaxPhysicsSteps caps steps per frame. Values below 1 become 1.
func (c *FrameClock) SetMaxPhysicsSteps(n int) {
	if n <= 0 {
		n = 1
	}
	c.maxPhysicsSteps = n
}

// SetTimeScale sets the multiplier applied to measured time. Negative values
// and NaN clamp to 0; +Inf is ignored. An accepted scale ends a pause, so a
// later Resume does not bring back the scale saved by Pause.
func (c *FrameClock) SetTimeScale(scale float64) {
	if math.IsInf(scale, 1) {
		return
	}
	if !(scale > 0) {
		scale = 0
	}
	c.timeScale = scale
	c.paused = false
}

// SetTimeSource swaps the time source and re-seeds the last sample from it so
// the next frame does not see a jump between the two sources.
func (c *FrameClock) SetTimeSource(src Source) {
	if src == nil {
		panic("clock: nil time source")
	}
	c.src = src
	c.lastSample = src.Now()
}

// Pause stops simulated time. Pausing an already paused clock keeps the scale
// saved by the first Pause, including a scale that was already 0.
func (c *FrameClock) Pause() {
	if !c.paused {
		c.timeScaleBeforePause = c.timeScale
		c.paused = true
	}
	c.timeScale = 0
}

// Resume restores the scale saved by Pause. It does nothing unless Pause was
// called since the last Resume, Reset or SetTimeScale.
func (c *FrameClock) Resume() {
	if !c.paused {
		return
	}
	c.timeScale = c.timeScaleBeforePause
	c.paused = false
}

// IsPaused reports whether the time scale is zero.
func (c *FrameClock) IsPaused() bool {
	return math.Abs(c.timeScale) <= dblEpsilon
}

// Reset returns the clock to its post-construction stepping state. The
// configuration is kept.
func (c *FrameClock) Reset() {
	c.firstCall = true
	c.accumulator = 0
	c.stepsThisFrame = 0
	c.fps.Reset()
	c.timeScale = 1.0
	c.timeScaleBeforePause = 1.0
	c.paused = false
	c.lastSample = c.src.Now()
}

func (c *FrameClock) PhysicsRate() int { return c.physicsRate }
func (c *FrameClock) PhysicsTimeStep() float64 { return c.physicsTimeStep }
func (c *FrameClock) MaxFrameTime() float64 { return c.maxFrameTime }
func (c *FrameClock) MaxPhysicsSteps() int { return c.maxPhysicsSteps }
func (c *FrameClock) TimeScale() float64 { return c.timeScale }
func (c *FrameClock) Accumulator() float64 { return c.accumulator }
func (c *FrameClock) AverageFPS() float64 { return c.fps.Average() }
func (c *FrameClock) PhysicsSteps() int { return c.stepsThisFrame }
func (c *FrameClock) TimeSource() Source { return c.src }
func (c *FrameClock) pausedScale() float64 { return c.timeScaleBeforePause }

// Config returns the current settings as a Config. PhysicsRate is the derived
// rate when the step was set directly.
func (c *FrameClock) Config() Config {
	return Config{
		PhysicsRate:     c.physicsRate,
		MaxFrameTime:    c.maxFrameTime,
		MaxPhysicsSteps: c.maxPhysicsSteps,
	}
}

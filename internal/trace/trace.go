// Package trace replays recorded or hand-written frame timings through a
// FrameClock and summarizes how the clock responded.
package trace

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"frameclock/internal/loop"
	"frameclock/pkg/clock"
)

// ErrInvalidTrace is wrapped by every validation error.
var ErrInvalidTrace = errors.New("invalid trace")

// Action is a control operation applied before a frame.
type Action string

const (
	ActionNone   Action = ""
	ActionPause  Action = "pause"
	ActionResume Action = "resume"
	ActionReset  Action = "reset"
)

// Document is a trace file.
type Document struct {
	Clock     *clock.Config `yaml:"clock,omitempty"`
	TimeScale *float64      `yaml:"time_scale,omitempty"`
	Frames    []Frame       `yaml:"frames"`
}

// Frame is one trace entry. An entry without dt only applies its action and
// time scale; otherwise it produces Repeat frames (default 1) of dt each.
type Frame struct {
	DT        *time.Duration `yaml:"dt,omitempty"`
	Repeat    int            `yaml:"repeat,omitempty"`
	Action    Action         `yaml:"action,omitempty"`
	TimeScale *float64       `yaml:"time_scale,omitempty"`
}

// Sample is the clock's answer to one replayed frame.
type Sample struct {
	Index       int
	Timing      clock.FrameTiming
	Accumulator float64
	// Dropped is scaled time discarded because the frame hit the step cap.
	Dropped    float64
	AverageFPS float64
}

// Load reads and parses a trace file.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read trace %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes and validates a YAML trace.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidTrace, err)
	}
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Validate checks the clock config and every entry.
func (d Document) Validate() error {
	if d.Clock != nil {
		if err := d.Clock.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTrace, err)
		}
	}
	for i, f := range d.Frames {
		if f.DT != nil && *f.DT < 0 {
			return fmt.Errorf("%w: frame %d: negative dt %s", ErrInvalidTrace, i, *f.DT)
		}
		if f.Repeat < 0 {
			return fmt.Errorf("%w: frame %d: negative repeat %d", ErrInvalidTrace, i, f.Repeat)
		}
		switch f.Action {
		case ActionNone, ActionPause, ActionResume, ActionReset:
		default:
			return fmt.Errorf("%w: frame %d: unknown action %q", ErrInvalidTrace, i, f.Action)
		}
		if f.DT == nil && f.Action == ActionNone && f.TimeScale == nil {
			return fmt.Errorf("%w: frame %d: entry has no dt, action or time_scale", ErrInvalidTrace, i)
		}
	}
	return nil
}

// Config returns the document's clock config or the default one.
func (d Document) Config() clock.Config {
	if d.Clock != nil {
		return *d.Clock
	}
	return clock.DefaultConfig()
}

// Replay runs the document through a fresh clock over a manual time source.
// The clock's first call is made before the first entry so every recorded
// frame measures real elapsed time, except the frame following a reset.
func Replay(doc Document, log zerolog.Logger) ([]Sample, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	cfg := doc.Config()
	src := clock.NewManualSource(clock.Epoch)
	fc := clock.New(&cfg, src)
	if doc.TimeScale != nil {
		fc.SetTimeScale(*doc.TimeScale)
	}
	d := loop.NewDriver(fc, nil)
	d.Logger = log
	d.Frame()

	var samples []Sample
	for _, f := range doc.Frames {
		switch f.Action {
		case ActionPause:
			fc.Pause()
		case ActionResume:
			fc.Resume()
		case ActionReset:
			d.Reset()
		}
		if f.TimeScale != nil {
			fc.SetTimeScale(*f.TimeScale)
		}
		if f.DT == nil {
			continue
		}
		n := f.Repeat
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			src.Advance(*f.DT)
			before := fc.Accumulator()
			ft := d.Frame()
			samples = append(samples, sampleFrom(len(samples), before, ft, fc))
		}
	}
	return samples, nil
}

func sampleFrom(index int, before float64, ft clock.FrameTiming, fc *clock.FrameClock) Sample {
	s := Sample{
		Index:       index,
		Timing:      ft,
		Accumulator: fc.Accumulator(),
		AverageFPS:  fc.AverageFPS(),
	}
	if ft.Lagging {
		dropped := before + ft.FrameTime - float64(ft.PhysicsSteps)*ft.FixedTimestep - s.Accumulator
		if dropped > 0 {
			s.Dropped = dropped
		}
	}
	return s
}

// Summary aggregates a run of samples.
type Summary struct {
	Frames        int     `yaml:"frames"`
	Steps         int     `yaml:"steps"`
	LaggingFrames int     `yaml:"lagging_frames"`
	MaxSteps      int     `yaml:"max_steps"`
	RawTime       float64 `yaml:"raw_time"`
	ScaledTime    float64 `yaml:"scaled_time"`
	SimulatedTime float64 `yaml:"simulated_time"`
	DroppedTime   float64 `yaml:"dropped_time"`
	AverageFPS    float64 `yaml:"average_fps"`
}

// LagRatio is the fraction of frames that hit the step cap.
func (s Summary) LagRatio() float64 {
	if s.Frames == 0 {
		return 0
	}
	return float64(s.LaggingFrames) / float64(s.Frames)
}

func (s *Summary) add(sm Sample) {
	ft := sm.Timing
	s.Frames++
	s.Steps += ft.PhysicsSteps
	if ft.PhysicsSteps > s.MaxSteps {
		s.MaxSteps = ft.PhysicsSteps
	}
	if ft.Lagging {
		s.LaggingFrames++
	}
	s.RawTime += ft.RawFrameTime
	s.ScaledTime += ft.FrameTime
	s.SimulatedTime += float64(ft.PhysicsSteps) * ft.FixedTimestep
	s.DroppedTime += sm.Dropped
	s.AverageFPS = sm.AverageFPS
}

// Summarize folds samples into a Summary.
func Summarize(samples []Sample) Summary {
	var s Summary
	for _, sm := range samples {
		s.add(sm)
	}
	return s
}

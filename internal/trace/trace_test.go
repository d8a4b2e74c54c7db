package trace

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"frameclock/pkg/clock"
)

const basicTrace = `
clock:
  physics_rate: 60
  max_frame_time: 0.25
  max_physics_steps: 5
frames:
  - dt: 16ms
  - dt: 16ms
`

func TestParseBasicTrace(t *testing.T) {
	doc, err := Parse([]byte(basicTrace))
	require.NoError(t, err)
	require.Len(t, doc.Frames, 2)
	require.Equal(t, 16*time.Millisecond, *doc.Frames[0].DT)
	require.Equal(t, clock.DefaultConfig(), doc.Config())
}

func TestReplayBasicStepping(t *testing.T) {
	doc, err := Parse([]byte(basicTrace))
	require.NoError(t, err)

	samples, err := Replay(doc, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, samples, 2)

	require.Equal(t, 0, samples[0].Timing.PhysicsSteps)
	require.Greater(t, samples[0].Timing.InterpolationAlpha, 0.9)
	require.Equal(t, 1, samples[1].Timing.PhysicsSteps)
	require.Equal(t, 1, samples[1].Index)
}

func TestReplayActionsAndScale(t *testing.T) {
	doc, err := Parse([]byte(`
time_scale: 2
frames:
  - dt: 10ms
  - action: pause
  - dt: 100ms
  - action: resume
  - dt: 10ms
    time_scale: 0.5
  - action: reset
  - dt: 1s
  - dt: 20ms
    repeat: 3
`))
	require.NoError(t, err)

	samples, err := Replay(doc, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, samples, 7)

	require.InDelta(t, 0.02, samples[0].Timing.FrameTime, 1e-12)
	require.Equal(t, 2.0, samples[0].Timing.CurrentTimeScale)

	require.Zero(t, samples[1].Timing.FrameTime, "paused")
	require.InDelta(t, 0.1, samples[1].Timing.RawFrameTime, 1e-12)

	require.InDelta(t, 0.005, samples[2].Timing.FrameTime, 1e-12)

	require.Zero(t, samples[3].Timing.RawFrameTime, "first frame after reset")
	require.Equal(t, 1.0, samples[3].Timing.CurrentTimeScale)

	for _, s := range samples[4:] {
		require.InDelta(t, 0.02, s.Timing.RawFrameTime, 1e-12)
	}
}

func TestReplayRecordsDroppedTime(t *testing.T) {
	doc, err := Parse([]byte(`
clock: {physics_rate: 100, max_frame_time: 1, max_physics_steps: 2}
frames:
  - dt: 95ms
  - dt: 5ms
`))
	require.NoError(t, err)

	samples, err := Replay(doc, zerolog.Nop())
	require.NoError(t, err)
	require.True(t, samples[0].Timing.Lagging)
	require.InDelta(t, 0.07, samples[0].Dropped, 1e-9)
	require.InDelta(t, 0.005, samples[0].Accumulator, 1e-9)
	require.Zero(t, samples[1].Dropped)

	sum := Summarize(samples)
	require.Equal(t, 2, sum.Frames)
	require.Equal(t, 3, sum.Steps)
	require.Equal(t, 2, sum.MaxSteps)
	require.Equal(t, 1, sum.LaggingFrames)
	require.InDelta(t, 0.5, sum.LagRatio(), 1e-12)
	require.InDelta(t, 0.1, sum.RawTime, 1e-9)
	require.InDelta(t, 0.1, sum.ScaledTime, 1e-9)
	require.InDelta(t, 0.03, sum.SimulatedTime, 1e-9)
	require.InDelta(t, 0.07, sum.DroppedTime, 1e-9)
	require.InDelta(t, sum.ScaledTime, sum.SimulatedTime+sum.DroppedTime+samples[1].Accumulator, 1e-9)
}

func TestReplayResetClearsLagState(t *testing.T) {
	doc, err := Parse([]byte(`
frames:
  - dt: 1s
  - action: reset
  - dt: 16ms
    repeat: 2
`))
	require.NoError(t, err)

	var buf bytes.Buffer
	samples, err := Replay(doc, zerolog.New(&buf).Level(zerolog.InfoLevel))
	require.NoError(t, err)
	require.True(t, samples[0].Timing.Lagging)
	require.False(t, samples[1].Timing.Lagging)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "only the lag warning before the reset is logged")
	require.Contains(t, lines[0], "falling behind")
}

func TestReplayIsDeterministic(t *testing.T) {
	doc, err := Parse([]byte(`
frames:
  - dt: 7ms
    repeat: 40
  - dt: 300ms
  - dt: 33ms
    repeat: 40
`))
	require.NoError(t, err)

	a, err := Replay(doc, zerolog.Nop())
	require.NoError(t, err)
	b, err := Replay(doc, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Len(t, a, 81)
}

func TestParseRejectsInvalidTraces(t *testing.T) {
	for name, doc := range map[string]string{
		"negative dt":    "frames: [{dt: -5ms}]",
		"negative reps":  "frames: [{dt: 5ms, repeat: -1}]",
		"unknown action": "frames: [{action: rewind}]",
		"empty entry":    "frames: [{}]",
		"bad clock":      "clock: {physics_rate: 0, max_frame_time: 0.25, max_physics_steps: 5}\nframes: []",
		"bad yaml":       "frames: [",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.ErrorIs(t, err, ErrInvalidTrace)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trace.yaml")
	require.NoError(t, os.WriteFile(path, []byte(basicTrace), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	require.Len(t, doc.Frames, 2)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSweepOrdersByLag(t *testing.T) {
	spec := SweepSpec{
		Rates:         []int{30, 240},
		MaxSteps:      []int{1, 8},
		MaxFrameTimes: []float64{0.25},
		Profile:       clock.JitterProfile{Base: 16 * time.Millisecond, Jitter: 4 * time.Millisecond},
		Seed:          3,
		Frames:        300,
	}
	results, err := Sweep(context.Background(), spec, 3)
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i := 1; i < len(results); i++ {
		require.LessOrEqual(t, results[i-1].Summary.LagRatio(), results[i].Summary.LagRatio())
	}
	worst := results[len(results)-1]
	require.Equal(t, clock.Config{PhysicsRate: 240, MaxFrameTime: 0.25, MaxPhysicsSteps: 1}, worst.Config)
	require.Equal(t, 300, worst.Summary.Frames)
	require.Zero(t, results[0].Summary.LaggingFrames)
}

func TestSweepIsDeterministic(t *testing.T) {
	spec := SweepSpec{
		Rates:         []int{60, 120},
		MaxSteps:      []int{2, 4},
		MaxFrameTimes: []float64{0.1, 0.25},
		Profile:       clock.JitterProfile{Base: 12 * time.Millisecond, Jitter: 8 * time.Millisecond, StallChance: 0.05, Stall: 200 * time.Millisecond},
		Seed:          11,
		Frames:        200,
	}
	a, err := Sweep(context.Background(), spec, 4)
	require.NoError(t, err)
	b, err := Sweep(context.Background(), spec, 1)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestSweepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	spec := SweepSpec{
		Rates:         []int{60},
		MaxSteps:      []int{5},
		MaxFrameTimes: []float64{0.25},
		Profile:       clock.JitterProfile{Base: 16 * time.Millisecond},
		Frames:        1000,
	}
	_, err := Sweep(ctx, spec, 2)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSweepRejectsBadGrids(t *testing.T) {
	_, err := Sweep(context.Background(), SweepSpec{Rates: []int{60}, MaxSteps: []int{5}, MaxFrameTimes: []float64{0.25}}, 1)
	require.ErrorIs(t, err, ErrInvalidTrace)

	_, err = Sweep(context.Background(), SweepSpec{Rates: []int{0}, MaxSteps: []int{5}, MaxFrameTimes: []float64{0.25}, Frames: 10}, 1)
	require.ErrorIs(t, err, ErrInvalidTrace)
}

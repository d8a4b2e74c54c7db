package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frameclock/pkg/clock"
)

func TestParseFillsDefaults(t *testing.T) {
	s, err := Parse([]byte("clock:\n  physics_rate: 120\n"))
	require.NoError(t, err)
	assert.Equal(t, 120, s.Clock.PhysicsRate)
	assert.Equal(t, clock.DefaultMaxFrameTime, s.Clock.MaxFrameTime)
	assert.Equal(t, clock.DefaultMaxPhysicsSteps, s.Clock.MaxPhysicsSteps)
	assert.Nil(t, s.TimeScale)
	assert.Nil(t, s.Paused)

	s, err = Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestParseRejects(t *testing.T) {
	for name, doc := range map[string]string{
		"zero rate":      "clock: {physics_rate: 0}",
		"negative frame": "clock: {max_frame_time: -1}",
		"zero steps":     "clock: {max_physics_steps: 0}",
		"negative scale": "time_scale: -2",
		"nan scale":      "time_scale: .nan",
		"not yaml":       "clock: [",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.ErrorIs(t, err, ErrInvalidSettings)
		})
	}
}

func TestApply(t *testing.T) {
	src := clock.NewManualSource(clock.Epoch)
	fc := clock.New(nil, src)
	s, err := Parse([]byte(`
clock: {physics_rate: 30, max_frame_time: 0.5, max_physics_steps: 3}
time_scale: 2
paused: true
`))
	require.NoError(t, err)

	s.Apply(fc)
	assert.Equal(t, clock.Config{PhysicsRate: 30, MaxFrameTime: 0.5, MaxPhysicsSteps: 3}, fc.Config())
	assert.True(t, fc.IsPaused())
	fc.Resume()
	assert.Equal(t, 2.0, fc.TimeScale())
}

func TestApplyScaleWhilePaused(t *testing.T) {
	fc := clock.New(nil, clock.NewManualSource(clock.Epoch))
	fc.Pause()

	scale := 4.0
	Settings{Clock: clock.DefaultConfig(), TimeScale: &scale}.Apply(fc)
	require.True(t, fc.IsPaused(), "a scale change keeps the clock paused")
	fc.Resume()
	assert.Equal(t, 4.0, fc.TimeScale())

	resume := false
	Settings{Clock: clock.DefaultConfig(), Paused: &resume}.Apply(fc)
	assert.Equal(t, 4.0, fc.TimeScale())
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clock.yaml")
	require.NoError(t, os.WriteFile(path, []byte("clock: {physics_rate: 60}\n"), 0o644))

	var logs bytes.Buffer
	w, err := NewWatcher(path, zerolog.New(&logs))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("clock: {physics_rate: 0}\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("clock: {physics_rate: 144}\n"), 0o644))

	deadline := time.After(5 * time.Second)
	for got := false; !got; {
		select {
		case s := <-w.Updates():
			require.NotEqual(t, 0, s.Clock.PhysicsRate)
			got = s.Clock.PhysicsRate == 144
		case <-deadline:
			t.Fatal("no settings update received")
		}
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
	for range w.Updates() {
	}
}

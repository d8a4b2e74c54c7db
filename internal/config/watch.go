package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher reloads a settings file whenever it is written or replaced and
// publishes each valid version on Updates. It never touches a clock itself;
// the loop that owns the clock applies what it receives.
type Watcher struct {
	path    string
	log     zerolog.Logger
	fsw     *fsnotify.Watcher
	updates chan Settings
}

// NewWatcher starts watching the directory that holds path. The directory is
// watched instead of the file so editors that save by rename keep working.
func NewWatcher(path string, log zerolog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:    abs,
		log:     log.With().Str("settings", abs).Logger(),
		fsw:     fsw,
		updates: make(chan Settings, 1),
	}, nil
}

// Updates delivers reloaded settings. It is closed when Run returns.
func (w *Watcher) Updates() <-chan Settings { return w.updates }

// Run processes file events until ctx is cancelled or the underlying watcher
// fails. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.updates)
	defer w.fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("settings watcher error")
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			s, err := Load(w.path)
			if err != nil {
				w.log.Warn().Err(err).Msg("ignoring settings change")
				continue
			}
			w.log.Info().
				Int("physics_rate", s.Clock.PhysicsRate).
				Float64("max_frame_time", s.Clock.MaxFrameTime).
				Int("max_physics_steps", s.Clock.MaxPhysicsSteps).
				Msg("settings reloaded")
			select {
			case w.updates <- s:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

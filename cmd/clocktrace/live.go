package main

import (
	"context"
	"fmt"
	"time"

	"frameclock/internal/config"
	"frameclock/internal/loop"
	"frameclock/pkg/clock"
)

// LiveCmd runs a clock against wall time.
type LiveCmd struct {
	Overrides

	FPS        int           `name:"fps" help:"Target frames per second." default:"60"`
	Duration   time.Duration `help:"How long to run; 0 runs until interrupted." default:"5s"`
	Config     string        `type:"existingfile" help:"Settings file to apply and watch for changes."`
	StallEvery int           `help:"Sleep an extra --stall every N frames to provoke lag; 0 disables."`
	Stall      time.Duration `help:"Extra sleep used by --stall-every." default:"200ms"`
}

func (c *LiveCmd) Run(ctx context.Context, g *Globals) error {
	log := g.Logger()
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}

	if c.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Duration)
		defer cancel()
	}

	base := clock.DefaultConfig()
	var updates <-chan config.Settings
	var settings *config.Settings
	if c.Config != "" {
		s, err := config.Load(c.Config)
		if err != nil {
			return err
		}
		settings = &s
		base = s.Clock

		w, err := config.NewWatcher(c.Config, log)
		if err != nil {
			return err
		}
		updates = w.Updates()
		go func() {
			if err := w.Run(ctx); err != nil {
				log.Error().Err(err).Msg("settings watcher stopped")
			}
		}()
	}
	cfg, err := c.apply(base)
	if err != nil {
		return fmt.Errorf("apply overrides: %w", err)
	}

	fc := clock.New(&cfg, clock.System())
	if settings != nil {
		settings.Clock = cfg
		settings.Apply(fc)
	}
	var ticks loop.TickCounter
	d := loop.NewDriver(fc, &ticks)
	d.Logger = log

	frame := time.NewTicker(time.Second / time.Duration(c.FPS))
	defer frame.Stop()
	report := time.NewTicker(time.Second)
	defer report.Stop()

	log.Info().
		Int("physics_rate", fc.PhysicsRate()).
		Int("fps", c.FPS).
		Dur("duration", c.Duration).
		Msg("running live clock")

	d.Frame()
	frames := 0
	for {
		select {
		case <-ctx.Done():
			st := d.Stats()
			fmt.Fprintf(g.stdout(), "frames=%d steps=%d lagging=%d raw=%.3fs simulated=%.3fs fps=%.1f\n",
				st.Frames, st.Steps, st.LaggingFrames, st.RawTime, st.SimulatedTime, fc.AverageFPS())
			return nil
		case s, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			s.Apply(fc)
		case <-report.C:
			st := d.Stats()
			log.Info().
				Float64("fps", fc.AverageFPS()).
				Int("steps", st.Steps).
				Int("lagging_frames", st.LaggingFrames).
				Float64("accumulator", fc.Accumulator()).
				Float64("time_scale", fc.TimeScale()).
				Msg("clock stats")
		case <-frame.C:
			frames++
			if c.StallEvery > 0 && frames%c.StallEvery == 0 {
				time.Sleep(c.Stall)
			}
			d.Frame()
		}
	}
}

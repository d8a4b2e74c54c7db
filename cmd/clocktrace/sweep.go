package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"frameclock/internal/trace"
	"frameclock/pkg/clock"
)

// SweepCmd runs the clock over a configuration grid.
type SweepCmd struct {
	Rates         []int     `help:"Physics rates to try." default:"30,60,120,240"`
	MaxSteps      []int     `help:"Step caps to try." default:"1,3,5,8"`
	MaxFrameTimes []float64 `name:"max-frame-times" help:"Frame time caps to try, in seconds." default:"0.1,0.25"`

	Profile     string        `type:"existingfile" help:"YAML jitter profile; overrides the individual profile flags."`
	Base        time.Duration `help:"Nominal frame interval." default:"16ms"`
	Jitter      time.Duration `help:"Maximum deviation from the nominal interval." default:"4ms"`
	StallChance float64       `help:"Per-frame probability of a stall." default:"0.01"`
	Stall       time.Duration `help:"Length of a stall." default:"150ms"`
	BurstChance float64       `help:"Per-frame probability of a burst of zero-length frames."`
	BurstLen    int           `help:"Frames in a burst." default:"3"`

	Seed      int64   `help:"Seed for the jitter generator." default:"1337"`
	Frames    int     `help:"Frames per configuration." default:"3600"`
	TimeScale float64 `help:"Time scale for every run." default:"1"`
	Workers   int     `help:"Worker goroutines; 0 uses every CPU." default:"0"`
	Top       int     `help:"Results to print." default:"10"`
}

func (c *SweepCmd) profile() (clock.JitterProfile, error) {
	if c.Profile == "" {
		return clock.JitterProfile{
			Base:        c.Base,
			Jitter:      c.Jitter,
			StallChance: c.StallChance,
			Stall:       c.Stall,
			BurstChance: c.BurstChance,
			BurstLen:    c.BurstLen,
		}, nil
	}
	data, err := os.ReadFile(c.Profile)
	if err != nil {
		return clock.JitterProfile{}, fmt.Errorf("read profile: %w", err)
	}
	var p clock.JitterProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return clock.JitterProfile{}, fmt.Errorf("parse profile %s: %w", c.Profile, err)
	}
	return p, nil
}

func (c *SweepCmd) Run(ctx context.Context, g *Globals) error {
	log := g.Logger()
	prof, err := c.profile()
	if err != nil {
		return err
	}
	spec := trace.SweepSpec{
		Rates:         c.Rates,
		MaxSteps:      c.MaxSteps,
		MaxFrameTimes: c.MaxFrameTimes,
		Profile:       prof,
		Seed:          c.Seed,
		Frames:        c.Frames,
		TimeScale:     c.TimeScale,
	}
	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	out := g.stdout()
	fmt.Fprintf(out, "Sweeping %d configurations (%d workers, %d frames)\n", len(spec.Configs()), workers, c.Frames)
	start := time.Now()
	results, err := trace.Sweep(ctx, spec, workers)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	log.Debug().Dur("elapsed", elapsed).Int("results", len(results)).Msg("sweep finished")

	top := c.Top
	if top <= 0 || top > len(results) {
		top = len(results)
	}
	fmt.Fprintf(out, "\nTop %d results (elapsed %s):\n", top, elapsed.Round(time.Millisecond))
	for i, res := range results[:top] {
		s := res.Summary
		fmt.Fprintf(out, "%2d) rate=%d max_steps=%d max_frame=%.3f lag=%.2f%% dropped=%.3fs max_seen=%d fps=%.1f\n",
			i+1, res.Config.PhysicsRate, res.Config.MaxPhysicsSteps, res.Config.MaxFrameTime,
			100*s.LagRatio(), s.DroppedTime, s.MaxSteps, s.AverageFPS)
	}
	return nil
}

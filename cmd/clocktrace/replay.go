package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"frameclock/internal/trace"
)

// ReplayCmd replays a trace file.
type ReplayCmd struct {
	Overrides

	Trace  string `arg:"" type:"existingfile" help:"Trace file to replay."`
	Frames bool   `help:"Print every replayed frame, not only the summary."`
	YAML   bool   `name:"yaml" help:"Print the summary as YAML."`
}

func (c *ReplayCmd) Run(g *Globals) error {
	log := g.Logger()
	doc, err := trace.Load(c.Trace)
	if err != nil {
		return err
	}
	if len(c.Set) > 0 {
		cfg, err := c.apply(doc.Config())
		if err != nil {
			return fmt.Errorf("apply overrides: %w", err)
		}
		doc.Clock = &cfg
	}
	cfg := doc.Config()
	log.Debug().
		Int("physics_rate", cfg.PhysicsRate).
		Float64("max_frame_time", cfg.MaxFrameTime).
		Int("max_physics_steps", cfg.MaxPhysicsSteps).
		Int("entries", len(doc.Frames)).
		Msg("replaying trace")

	samples, err := trace.Replay(doc, log)
	if err != nil {
		return err
	}
	out := g.stdout()
	if c.Frames {
		if err := writeFrames(out, samples); err != nil {
			return err
		}
	}
	return writeSummary(out, trace.Summarize(samples), c.YAML)
}

func writeFrames(w io.Writer, samples []trace.Sample) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "frame\traw\tscaled\tsteps\talpha\tacc\tlag\tdropped\t")
	for _, s := range samples {
		lag := ""
		if s.Timing.Lagging {
			lag = "yes"
		}
		fmt.Fprintf(tw, "%d\t%.4f\t%.4f\t%d\t%.3f\t%.5f\t%s\t%.4f\t\n",
			s.Index, s.Timing.RawFrameTime, s.Timing.FrameTime, s.Timing.PhysicsSteps,
			s.Timing.InterpolationAlpha, s.Accumulator, lag, s.Dropped)
	}
	return tw.Flush()
}

func writeSummary(w io.Writer, s trace.Summary, asYAML bool) error {
	if asYAML {
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(s)
	}
	_, err := fmt.Fprintf(w, "frames=%d steps=%d max_steps=%d lagging=%d (%.1f%%) raw=%.3fs scaled=%.3fs simulated=%.3fs dropped=%.3fs fps=%.1f\n",
		s.Frames, s.Steps, s.MaxSteps, s.LaggingFrames, 100*s.LagRatio(),
		s.RawTime, s.ScaledTime, s.SimulatedTime, s.DroppedTime, s.AverageFPS)
	return err
}

// Command clocktrace exercises a FrameClock outside a game loop: it replays
// trace files, sweeps configurations against jittered frame arrival and runs
// the clock live against the system clock.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"frameclock/pkg/clock"
)

// Globals are flags shared by every subcommand.
type Globals struct {
	LogLevel string `help:"Log level." default:"info" enum:"trace,debug,info,warn,error"`

	Out io.Writer `kong:"-"`
}

// Logger builds a console logger on stderr at the configured level.
func (g *Globals) Logger() zerolog.Logger {
	lvl, err := zerolog.ParseLevel(g.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(lvl).With().Timestamp().Logger()
}

func (g *Globals) stdout() io.Writer {
	if g.Out != nil {
		return g.Out
	}
	return os.Stdout
}

// Overrides are repeatable key=value clock settings applied with clock.FromMap.
type Overrides struct {
	Set map[string]string `help:"Clock override in key=value form (physics_rate, physics_time_step, max_frame_time, max_physics_steps)." placeholder:"KEY=VALUE"`
}

func (o Overrides) apply(base clock.Config) (clock.Config, error) {
	cfg := clock.FromMap(base, o.Set)
	return cfg, cfg.Validate()
}

type cli struct {
	Globals

	Replay ReplayCmd `cmd:"" help:"Replay a YAML trace and print the clock's response."`
	Sweep  SweepCmd  `cmd:"" help:"Run a grid of clock configurations against jittered frames."`
	Live   LiveCmd   `cmd:"" help:"Drive a clock from the system clock at a target frame rate."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var c cli
	k := kong.Parse(&c,
		kong.Name("clocktrace"),
		kong.Description("Inspect fixed-timestep frame clock behaviour."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	k.FatalIfErrorf(k.Run(&c.Globals))
}

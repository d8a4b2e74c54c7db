//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"frameclock/internal/app"
	"frameclock/internal/config"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(lvl).With().Timestamp().Logger()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid flags")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var updates <-chan config.Settings
	var initial *config.Settings
	if cfg.Settings != "" {
		s, err := config.Load(cfg.Settings)
		if err != nil {
			log.Fatal().Err(err).Msg("load settings")
		}
		initial = &s
		w, err := config.NewWatcher(cfg.Settings, log)
		if err != nil {
			log.Fatal().Err(err).Msg("watch settings")
		}
		updates = w.Updates()
		go func() {
			if err := w.Run(ctx); err != nil {
				log.Error().Err(err).Msg("settings watcher stopped")
			}
		}()
	}

	game := app.New(cfg, updates, log)
	if initial != nil {
		initial.Apply(game.Clock())
	}

	ebiten.SetWindowTitle("frameclock")
	ebiten.SetTPS(ebiten.SyncWithFPS)
	ebiten.SetWindowSize(cfg.Width+cfg.HUDWidth, cfg.Height)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal().Err(err).Msg("run game")
	}
}

//go:build !ebiten

package app

import (
	"fmt"

	"frameclock/internal/config"
	"frameclock/pkg/clock"

	"github.com/rs/zerolog"
)

// Game is a placeholder that satisfies the API expected by the GUI build.
type Game struct{}

// New panics to indicate that the ebiten build tag is required for GUI support.
func New(*Config, <-chan config.Settings, zerolog.Logger) *Game {
	panic("app.New requires building with the 'ebiten' tag")
}

// Clock returns nil in the headless build.
func (g *Game) Clock() *clock.FrameClock { return nil }

// Reset is a no-op placeholder.
func (g *Game) Reset() {}

// Update always reports that the GUI build tag is missing.
func (g *Game) Update() error {
	return fmt.Errorf("app.Game.Update requires building with the 'ebiten' tag")
}

// Draw is a no-op placeholder to satisfy the interface shape.
func (g *Game) Draw(any) {}

// Layout returns zeros in the headless build.
func (g *Game) Layout(int, int) (int, int) { return 0, 0 }

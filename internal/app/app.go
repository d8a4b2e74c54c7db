//go:build ebiten

package app

import (
	"fmt"
	"image/color"

	"frameclock/internal/config"
	"frameclock/internal/core"
	"frameclock/internal/loop"
	"frameclock/internal/render"
	"frameclock/internal/ui"
	"frameclock/pkg/clock"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"
	"golang.org/x/image/font/basicfont"
)

// Game drives a FrameClock from ebiten's update loop and draws a marker that
// only moves on fixed steps.
type Game struct {
	clock    *clock.FrameClock
	driver   *loop.Driver
	tunables *core.ClockTunables
	marker   *Marker
	hud      *ui.HUD
	history  *render.StepHistory
	strip    *ebiten.Image
	stripBuf []byte
	updates  <-chan config.Settings
	log      zerolog.Logger

	width, height, hudWidth int

	last clock.FrameTiming
}

// New constructs a Game. updates may be nil; when set, settings received on it
// are applied at the start of the next Update.
func New(cfg *Config, updates <-chan config.Settings, log zerolog.Logger) *Game {
	cc := cfg.ClockConfig()
	fc := clock.New(&cc, clock.System())
	fc.SetTimeScale(cfg.TimeScale)

	m := NewMarker(float64(cfg.Width-2*markerRadius), float64(cfg.Width)/2)
	d := loop.NewDriver(fc, m)
	d.Logger = log

	t := core.NewClockTunables(fc)
	g := &Game{
		clock:    fc,
		driver:   d,
		tunables: t,
		marker:   m,
		updates:  updates,
		log:      log,
		width:    cfg.Width,
		height:   cfg.Height,
		hudWidth: cfg.HUDWidth,
		history:  render.NewStepHistory(cfg.Width),
		strip:    ebiten.NewImage(cfg.Width, historyHeight),
		stripBuf: make([]byte, cfg.Width*historyHeight*4),
	}
	if cfg.HUDWidth > 0 {
		g.hud = ui.NewHUD(t, cfg.HUDWidth, cfg.Height)
	}
	return g
}

// Clock exposes the game's clock.
func (g *Game) Clock() *clock.FrameClock { return g.clock }

// Reset restarts the clock and the marker.
func (g *Game) Reset() {
	g.driver.Reset()
	g.marker.Reset()
	g.history.Clear()
	g.last = clock.FrameTiming{}
}

// Update handles input and runs one clock frame.
func (g *Game) Update() error {
	g.drainSettings()

	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.tunables.TogglePause()
		g.log.Debug().Bool("paused", g.clock.IsPaused()).Msg("toggled pause")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset()
		g.log.Debug().Msg("clock reset")
	}

	g.last = g.driver.Frame()
	g.history.Push(g.last.PhysicsSteps, g.last.Lagging)
	g.hud.Update(g.width)
	return nil
}

func (g *Game) drainSettings() {
	if g.updates == nil {
		return
	}
	for {
		select {
		case s, ok := <-g.updates:
			if !ok {
				g.updates = nil
				return
			}
			s.Apply(g.clock)
		default:
			return
		}
	}
}

// Draw renders the marker and the timing readout.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 8, G: 8, B: 12, A: 255})

	g.history.FillRGBA(g.stripBuf, g.width, historyHeight, historyUnit, render.DefaultBarPalette)
	g.strip.WritePixels(g.stripBuf)
	screen.DrawImage(g.strip, nil)

	y := float32(g.height) / 2
	vector.StrokeLine(screen, markerRadius, y, float32(g.width-markerRadius), y, 1, color.RGBA{R: 60, G: 60, B: 70, A: 255}, false)
	x := float32(markerRadius + g.marker.At(g.last.InterpolationAlpha))
	fill := color.RGBA{R: 90, G: 200, B: 120, A: 255}
	if g.last.Lagging {
		fill = color.RGBA{R: 220, G: 80, B: 70, A: 255}
	}
	vector.DrawFilledCircle(screen, x, y, markerRadius, fill, true)

	status := fmt.Sprintf("steps %d  alpha %.2f  fps %.1f", g.last.PhysicsSteps, g.last.InterpolationAlpha, g.clock.AverageFPS())
	if g.clock.IsPaused() {
		status += "  paused"
	}
	text.Draw(screen, status, basicfont.Face7x13, 8, g.height-10, color.White)

	g.hud.Draw(screen, g.width)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width + g.hudWidth, g.height
}

const (
	historyHeight = 48
	historyUnit   = 6
)

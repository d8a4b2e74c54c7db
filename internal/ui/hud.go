//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"frameclock/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Tunables is what the HUD needs from whatever it displays.
type Tunables interface {
	Parameters() core.ParameterSnapshot
	core.ParameterControlsProvider
	core.IntParameterSetter
	core.FloatParameterSetter
}

// HUD renders a panel with the clock's readouts and +/- controls for its
// adjustable settings.
type HUD struct {
	src      Tunables
	width    int
	height   int
	panel    *ebiten.Image
	pixel    *ebiten.Image
	snapshot core.ParameterSnapshot

	controls     []controlState
	readoutsTop  int
	panelOffsetX int
}

type controlState struct {
	control  core.ParameterControl
	value    float64
	hasValue bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

// NewHUD builds a HUD of the given size for src.
func NewHUD(src Tunables, width, height int) *HUD {
	h := &HUD{src: src, width: max(width, 0), height: max(height, 0)}
	if h.width > 0 && h.height > 0 {
		h.panel = ebiten.NewImage(h.width, h.height)
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	for _, ctrl := range src.ParameterControls() {
		h.controls = append(h.controls, controlState{control: ctrl})
	}
	h.layout()
	return h
}

// Update refreshes the snapshot and handles clicks on the buttons. offsetX is
// where the panel sits on screen.
func (h *HUD) Update(offsetX int) {
	if h == nil {
		return
	}
	h.panelOffsetX = offsetX
	h.snapshot = h.src.Parameters()
	for i := range h.controls {
		st := &h.controls[i]
		st.value, st.hasValue = 0, false
		p, ok := h.snapshot.Lookup(st.control.Key)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(p.Value, 64)
		if err != nil {
			continue
		}
		st.value, st.hasValue = v, true
	}
	h.handleClick()
}

// Draw paints the panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int) {
	if h == nil || h.panel == nil {
		return
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	face := basicfont.Face7x13
	text.Draw(h.panel, "Frame Clock", face, panelPadding, panelPadding+headerBaseline, headerColor)

	for i := range h.controls {
		st := &h.controls[i]
		y := st.top + labelBaseline
		text.Draw(h.panel, st.control.Label, face, panelPadding, y, labelColor)
		value, vc := "--", dimColor
		if st.hasValue {
			value, vc = formatValue(st.control, st.value), labelColor
		}
		w := text.BoundString(face, value).Dx()
		text.Draw(h.panel, value, face, st.minusRect.Min.X-buttonGap-w, y, vc)
		_, minusOK := h.target(st, -1)
		_, plusOK := h.target(st, 1)
		h.drawButton(st.minusRect, "-", minusOK)
		h.drawButton(st.plusRect, "+", plusOK)
	}

	y := h.readoutsTop
	for _, g := range h.snapshot.Groups {
		text.Draw(h.panel, g.Name, face, panelPadding, y, headerColor)
		y += readoutLine
		for _, p := range g.Params {
			text.Draw(h.panel, p.Label, face, panelPadding+8, y, dimColor)
			v := formatReadout(p)
			w := text.BoundString(face, v).Dx()
			text.Draw(h.panel, v, face, h.width-panelPadding-w, y, labelColor)
			y += readoutLine
		}
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) handleClick() {
	if len(h.controls) == 0 || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	px := mx - h.panelOffsetX
	if px < 0 {
		return
	}
	for i := range h.controls {
		st := &h.controls[i]
		dir := 0
		switch {
		case pointInRect(px, my, st.minusRect):
			dir = -1
		case pointInRect(px, my, st.plusRect):
			dir = 1
		default:
			continue
		}
		v, ok := h.target(st, dir)
		if !ok {
			return
		}
		if st.control.Type == core.ParamTypeInt {
			ok = h.src.SetIntParameter(st.control.Key, int(v))
		} else {
			ok = h.src.SetFloatParameter(st.control.Key, v)
		}
		if ok {
			st.value = v
		}
		return
	}
}

// target computes the value one click in dir would set, clamped to the
// control's bounds. ok is false when the click would change nothing.
func (h *HUD) target(st *controlState, dir int) (v float64, ok bool) {
	if !st.hasValue {
		return 0, false
	}
	step := st.control.Step
	if step <= 0 {
		step = defaultStep(st.control.Type)
	}
	v = st.value + float64(dir)*step
	if st.control.Type == core.ParamTypeInt {
		v = math.Round(v)
	}
	if st.control.HasMin && v < st.control.Min {
		v = st.control.Min
	}
	if st.control.HasMax && v > st.control.Max {
		v = st.control.Max
	}
	return v, math.Abs(v-st.value) >= 1e-9
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg, fg := color.RGBA{R: 54, G: 56, B: 64, A: 255}, color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg, fg = color.RGBA{R: 32, G: 34, B: 40, A: 255}, color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-b.Dx())/2
	y := rect.Min.Y + (rect.Dy()-b.Dy())/2 + b.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) layout() {
	for i := range h.controls {
		top := controlsTop + i*lineHeight
		by := top + (lineHeight-buttonSize)/2
		plus := image.Rect(h.width-panelPadding-buttonSize, by, h.width-panelPadding, by+buttonSize)
		minus := image.Rect(plus.Min.X-buttonGap-buttonSize, by, plus.Min.X-buttonGap, by+buttonSize)
		h.controls[i].top = top
		h.controls[i].minusRect = minus
		h.controls[i].plusRect = plus
	}
	h.readoutsTop = controlsTop + len(h.controls)*lineHeight + readoutLine
}

func defaultStep(t core.ParamType) float64 {
	if t == core.ParamTypeInt {
		return 1
	}
	return 0.05
}

func formatValue(ctrl core.ParameterControl, v float64) string {
	if ctrl.Type == core.ParamTypeInt {
		return strconv.Itoa(int(v))
	}
	step := ctrl.Step
	if step <= 0 {
		step = 0.05
	}
	precision := 1
	switch {
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

func formatReadout(p core.Parameter) string {
	if p.Type != core.ParamTypeFloat {
		return p.Value
	}
	v, err := strconv.ParseFloat(p.Value, 64)
	if err != nil {
		return p.Value
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func pointInRect(x, y int, r image.Rectangle) bool {
	return x >= r.Min.X && x < r.Max.X && y >= r.Min.Y && y < r.Max.Y
}

var (
	headerColor = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	labelColor  = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor    = color.RGBA{R: 160, G: 160, B: 170, A: 255}
)

const (
	panelPadding   = 12
	lineHeight     = 36
	readoutLine    = 16
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	controlsTop    = panelPadding + headerBaseline + 14
)

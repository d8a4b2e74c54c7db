package render

import "image/color"

// BarPalette colours a step history strip.
type BarPalette struct {
	Background color.RGBA
	Bar        color.RGBA
	Lag        color.RGBA
}

// DefaultBarPalette is used when the caller has no preference.
var DefaultBarPalette = BarPalette{
	Background: color.RGBA{R: 20, G: 20, B: 26, A: 255},
	Bar:        color.RGBA{R: 90, G: 160, B: 220, A: 255},
	Lag:        color.RGBA{R: 220, G: 80, B: 70, A: 255},
}

// StepHistory is a ring of per-frame physics step counts.
type StepHistory struct {
	steps   []int
	lagging []bool
	next    int
	n       int
}

// NewStepHistory keeps the last capacity frames. capacity is at least 1.
func NewStepHistory(capacity int) *StepHistory {
	capacity = max(capacity, 1)
	return &StepHistory{steps: make([]int, capacity), lagging: make([]bool, capacity)}
}

// Push records one frame, evicting the oldest when full.
func (h *StepHistory) Push(steps int, lagging bool) {
	h.steps[h.next] = steps
	h.lagging[h.next] = lagging
	h.next = (h.next + 1) % len(h.steps)
	if h.n < len(h.steps) {
		h.n++
	}
}

// Len is the number of frames held.
func (h *StepHistory) Len() int { return h.n }

// At returns the i-th oldest frame.
func (h *StepHistory) At(i int) (steps int, lagging bool) {
	idx := (h.next - h.n + i + len(h.steps)) % len(h.steps)
	return h.steps[idx], h.lagging[idx]
}

// Clear drops every frame.
func (h *StepHistory) Clear() { h.next, h.n = 0, 0 }

// FillRGBA draws the history into buf as a width x height RGBA image, one
// column per frame with the oldest on the left. Each step is unit pixels tall
// and bars grow up from the bottom row. buf must hold width*height*4 bytes.
func (h *StepHistory) FillRGBA(buf []byte, width, height, unit int, p BarPalette) {
	unit = max(unit, 1)
	for i := 0; i < width*height; i++ {
		setRGBA(buf, i, p.Background)
	}
	for x := 0; x < width && x < h.n; x++ {
		steps, lag := h.At(x)
		col := p.Bar
		if lag {
			col = p.Lag
		}
		top := height - min(steps*unit, height)
		for y := top; y < height; y++ {
			setRGBA(buf, y*width+x, col)
		}
	}
}

func setRGBA(buf []byte, i int, c color.RGBA) {
	base := i * 4
	buf[base+0] = c.R
	buf[base+1] = c.G
	buf[base+2] = c.B
	buf[base+3] = c.A
}

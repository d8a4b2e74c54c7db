package app

// markerRadius is the drawn radius of the marker in pixels.
const markerRadius = 10

// Marker is a point bouncing between 0 and Span at a fixed speed. It is
// advanced only by physics steps, so its drawn position shows how well the
// interpolation alpha hides the gap between steps and frames.
type Marker struct {
	Span  float64
	Speed float64

	prev, pos float64
	dir       float64
}

// NewMarker starts a marker at 0 moving towards Span.
func NewMarker(span, speed float64) *Marker {
	return &Marker{Span: span, Speed: speed, dir: 1}
}

// Step moves the marker dt seconds forward, reflecting at both ends.
func (m *Marker) Step(dt float64) {
	m.prev = m.pos
	m.pos += m.dir * m.Speed * dt
	for m.Span > 0 && (m.pos < 0 || m.pos > m.Span) {
		if m.pos > m.Span {
			m.pos = 2*m.Span - m.pos
		} else {
			m.pos = -m.pos
		}
		m.dir = -m.dir
	}
}

// At blends the last two step positions by alpha.
func (m *Marker) At(alpha float64) float64 {
	return m.prev + (m.pos-m.prev)*alpha
}

// Reset moves the marker back to 0.
func (m *Marker) Reset() {
	m.prev, m.pos, m.dir = 0, 0, 1
}

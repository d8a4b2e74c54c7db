package clock

// FPSAverager folds frame durations into a one-second window. The average is
// recomputed only when the window fills, so between rollovers it reports the
// previous window's value.
type FPSAverager struct {
	elapsed float64
	frames  int
	average float64
}

// Add records one frame that took seconds.
func (f *FPSAverager) Add(seconds float64) {
	f.elapsed += seconds
	f.frames++
	if f.elapsed >= 1.0 {
		f.average = float64(f.frames) / f.elapsed
		f.elapsed = 0
		f.frames = 0
	}
}

// Average returns frames per second over the last completed window, or zero
// before the first window completes.
func (f *FPSAverager) Average() float64 { return f.average }

// Pending returns the partially filled window.
func (f *FPSAverager) Pending() (seconds float64, frames int) { return f.elapsed, f.frames }

// Reset clears the window and the average.
func (f *FPSAverager) Reset() { *f = FPSAverager{} }

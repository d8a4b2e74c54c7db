package clock

import "time"

// Source returns the current instant of a monotonic clock. Implementations
// must be cheap and non-blocking; BeginFrame calls Now exactly once.
type Source interface {
	Now() time.Time
}

// SourceFunc adapts an ordinary function to the Source interface.
type SourceFunc func() time.Time

// Now calls f.
func (f SourceFunc) Now() time.Time { return f() }

type systemSource struct{}

// Now returns time.Now, which carries a monotonic reading that Sub prefers
// over the wall clock.
func (systemSource) Now() time.Time { return time.Now() }

// System returns the process monotonic clock.
func System() Source { return systemSource{} }

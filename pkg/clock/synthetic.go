package clock

import (
	"math/rand/v2"
	"time"
)

// Epoch is the instant synthetic sources count from.
var Epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// ScriptedSource returns Epoch plus each offset in turn. Once the script is
// exhausted the last offset repeats; an empty script always returns Epoch.
type ScriptedSource struct {
	offsets []time.Duration
	next    int
}

// NewScriptedSource copies offsets into a new script.
func NewScriptedSource(offsets ...time.Duration) *ScriptedSource {
	return &ScriptedSource{offsets: append([]time.Duration(nil), offsets...)}
}

// Now returns the next scripted instant.
func (s *ScriptedSource) Now() time.Time {
	if len(s.offsets) == 0 {
		return Epoch
	}
	i := s.next
	if i < len(s.offsets) {
		s.next++
	} else {
		i = len(s.offsets) - 1
	}
	return Epoch.Add(s.offsets[i])
}

// Calls reports how many scripted samples have been consumed.
func (s *ScriptedSource) Calls() int { return s.next }

// SteadySource returns Start, Start+Step, Start+2*Step, ... on successive
// calls.
type SteadySource struct {
	Start time.Time
	Step  time.Duration

	calls int64
}

// NewSteadySource returns a source that advances by step on every call.
func NewSteadySource(step time.Duration) *SteadySource {
	return &SteadySource{Start: Epoch, Step: step}
}

// Now returns the current instant and advances by Step.
func (s *SteadySource) Now() time.Time {
	t := s.Start.Add(time.Duration(s.calls) * s.Step)
	s.calls++
	return t
}

// ManualSource only moves when told to.
type ManualSource struct {
	now time.Time
}

// NewManualSource starts a manual source at start.
func NewManualSource(start time.Time) *ManualSource {
	return &ManualSource{now: start}
}

// Now returns the current instant without advancing it.
func (m *ManualSource) Now() time.Time { return m.now }

// Advance moves the source forward by d. Negative durations move it
// backwards, which is useful for exercising non-monotonic samples.
func (m *ManualSource) Advance(d time.Duration) { m.now = m.now.Add(d) }

// Set jumps the source to t.
func (m *ManualSource) Set(t time.Time) { m.now = t }

// JitterProfile describes a noisy frame-arrival pattern.
type JitterProfile struct {
	// Base is the nominal interval between frames.
	Base time.Duration `yaml:"base"`
	// Jitter is the maximum deviation from Base in either direction.
	Jitter time.Duration `yaml:"jitter"`
	// StallChance is the per-frame probability of a Stall-long hitch.
	StallChance float64       `yaml:"stall_chance"`
	Stall       time.Duration `yaml:"stall"`
	// BurstChance is the per-frame probability of BurstLen frames arriving
	// back to back with no time between them.
	BurstChance float64 `yaml:"burst_chance"`
	BurstLen    int     `yaml:"burst_len"`
}

// JitterSource produces a deterministic, seeded sequence of instants that
// follows a JitterProfile.
type JitterSource struct {
	profile JitterProfile
	r       *rand.Rand
	now     time.Time
	burst   int
	primed  bool
}

// NewJitterSource seeds a PCG generator with seed.
func NewJitterSource(profile JitterProfile, seed int64) *JitterSource {
	return &JitterSource{
		profile: profile,
		r:       rand.New(rand.NewPCG(uint64(seed), 0)),
		now:     Epoch,
	}
}

// Now returns Epoch on the first call and a jittered later instant on every
// call after that.
func (j *JitterSource) Now() time.Time {
	if !j.primed {
		j.primed = true
		return j.now
	}
	j.now = j.now.Add(j.nextInterval())
	return j.now
}

func (j *JitterSource) nextInterval() time.Duration {
	p := j.profile
	if j.burst > 0 {
		j.burst--
		return 0
	}
	if p.BurstLen > 0 && p.BurstChance > 0 && j.r.Float64() < p.BurstChance {
		j.burst = p.BurstLen - 1
		return 0
	}
	d := p.Base
	if p.Jitter > 0 {
		d += time.Duration(j.r.Int64N(int64(2*p.Jitter)+1)) - p.Jitter
	}
	if p.StallChance > 0 && j.r.Float64() < p.StallChance {
		d += p.Stall
	}
	if d < 0 {
		d = 0
	}
	return d
}

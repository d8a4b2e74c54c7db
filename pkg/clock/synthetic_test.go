package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestScriptedSourceRepeatsLastSample(t *testing.T) {
	s := NewScriptedSource(0, ms(5))
	require.Equal(t, Epoch, s.Now())
	require.Equal(t, Epoch.Add(ms(5)), s.Now())
	require.Equal(t, Epoch.Add(ms(5)), s.Now())
	require.Equal(t, 2, s.Calls())

	require.Equal(t, Epoch, NewScriptedSource().Now())
}

func TestSteadySource(t *testing.T) {
	s := NewSteadySource(ms(20))
	require.Equal(t, Epoch, s.Now())
	require.Equal(t, Epoch.Add(ms(20)), s.Now())
	require.Equal(t, Epoch.Add(ms(40)), s.Now())
}

func TestManualSource(t *testing.T) {
	m := NewManualSource(Epoch)
	require.Equal(t, Epoch, m.Now())
	require.Equal(t, Epoch, m.Now())
	m.Advance(time.Second)
	require.Equal(t, Epoch.Add(time.Second), m.Now())
	m.Set(Epoch)
	require.Equal(t, Epoch, m.Now())
}

func TestJitterSourceDeterministic(t *testing.T) {
	p := JitterProfile{Base: ms(16), Jitter: ms(4), StallChance: 0.1, Stall: ms(300), BurstChance: 0.1, BurstLen: 3}
	a := NewJitterSource(p, 7)
	b := NewJitterSource(p, 7)
	require.Equal(t, Epoch, a.Now())
	b.Now()

	prev := Epoch
	for i := 0; i < 200; i++ {
		ta, tb := a.Now(), b.Now()
		require.Equal(t, ta, tb)
		require.False(t, ta.Before(prev), "jitter source must be monotonic")
		require.LessOrEqual(t, ta.Sub(prev), ms(16+4+300))
		prev = ta
	}
}

func TestJitterSourceWithoutNoise(t *testing.T) {
	j := NewJitterSource(JitterProfile{Base: ms(10)}, 1)
	j.Now()
	require.Equal(t, Epoch.Add(ms(10)), j.Now())
	require.Equal(t, Epoch.Add(ms(20)), j.Now())
}

package clock

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// subtractAndDiscard is the explicit form of the remainder rule: consume the
// extracted steps, then throw away whole steps left over past the cap.
func subtractAndDiscard(acc, step float64, maxSteps int) (float64, int) {
	due := int(math.Floor((acc + stepEpsilon) / step))
	steps := due
	if steps > maxSteps {
		steps = maxSteps
	}
	acc -= float64(steps) * step
	for acc >= step-stepEpsilon {
		acc -= step
	}
	if acc < 0 {
		acc = 0
	}
	return acc, steps
}

func TestRemainderPoliciesAgreeOnDyadicFrames(t *testing.T) {
	// Every value here is exactly representable, so both policies must match
	// bit for bit.
	deltas := []time.Duration{
		62500 * time.Microsecond,
		125 * time.Millisecond,
		250 * time.Millisecond,
		437500 * time.Microsecond,
		0,
		time.Second,
		187500 * time.Microsecond,
		31250 * time.Microsecond,
	}
	for _, maxSteps := range []int{1, 2, 3, 8} {
		src := NewManualSource(Epoch)
		fc := New(&Config{PhysicsRate: 8, MaxFrameTime: 1, MaxPhysicsSteps: maxSteps}, src)
		fc.BeginFrame()

		ref := 0.0
		for round := 0; round < 4; round++ {
			for _, d := range deltas {
				src.Advance(d)
				ft := fc.BeginFrame()

				var steps int
				ref, steps = subtractAndDiscard(ref+ft.FrameTime, fc.PhysicsTimeStep(), maxSteps)
				require.Equal(t, steps, ft.PhysicsSteps, "maxSteps=%d delta=%v", maxSteps, d)
				require.Equal(t, ref, fc.Accumulator(), "maxSteps=%d delta=%v", maxSteps, d)
			}
		}
	}
}

func TestRemainderPoliciesAgreeUnderJitter(t *testing.T) {
	profile := JitterProfile{
		Base:        16 * time.Millisecond,
		Jitter:      9 * time.Millisecond,
		StallChance: 0.03,
		Stall:       400 * time.Millisecond,
		BurstChance: 0.02,
		BurstLen:    4,
	}
	for seed := int64(1); seed <= 20; seed++ {
		for _, cfg := range []Config{
			{PhysicsRate: 60, MaxFrameTime: 0.25, MaxPhysicsSteps: 5},
			{PhysicsRate: 144, MaxFrameTime: 0.1, MaxPhysicsSteps: 3},
			{PhysicsRate: 30, MaxFrameTime: 1, MaxPhysicsSteps: 1},
		} {
			cfg := cfg
			fc := New(&cfg, NewJitterSource(profile, seed))
			fc.SetTimeScale(float64(seed%4) * 0.5)
			fc.BeginFrame()
			for i := 0; i < 500; i++ {
				before := fc.Accumulator()
				ft := fc.BeginFrame()
				ref, steps := subtractAndDiscard(before+ft.FrameTime, ft.FixedTimestep, cfg.MaxPhysicsSteps)
				require.Equal(t, steps, ft.PhysicsSteps, "seed=%d frame=%d", seed, i)
				require.InDelta(t, ref, fc.Accumulator(), 1e-9, "seed=%d frame=%d", seed, i)
			}
		}
	}
}

func TestSteadyStateInvariants(t *testing.T) {
	profile := JitterProfile{
		Base:        10 * time.Millisecond,
		Jitter:      10 * time.Millisecond,
		StallChance: 0.05,
		Stall:       2 * time.Second,
		BurstChance: 0.05,
		BurstLen:    3,
	}
	for seed := int64(0); seed < 25; seed++ {
		cfg := Config{
			PhysicsRate:     20 + int(seed)*11,
			MaxFrameTime:    0.05 + float64(seed)*0.02,
			MaxPhysicsSteps: 1 + int(seed%6),
		}
		fc := New(&cfg, NewJitterSource(profile, seed))
		fc.SetTimeScale(0.25 * float64(seed%9))
		fc.BeginFrame()
		for i := 0; i < 400; i++ {
			ft := fc.BeginFrame()
			acc := fc.Accumulator()
			require.GreaterOrEqual(t, acc, 0.0)
			require.Less(t, acc, fc.PhysicsTimeStep()+1e-12)
			require.LessOrEqual(t, ft.PhysicsSteps, cfg.MaxPhysicsSteps)
			require.GreaterOrEqual(t, ft.PhysicsSteps, 0)
			require.GreaterOrEqual(t, ft.InterpolationAlpha, 0.0)
			require.LessOrEqual(t, ft.InterpolationAlpha, 1.0)
			require.GreaterOrEqual(t, ft.RawFrameTime, ft.UnscaledFrameTime)
			require.LessOrEqual(t, ft.UnscaledFrameTime, cfg.MaxFrameTime)
		}
	}
}

func TestTimeIsConservedWithoutLag(t *testing.T) {
	profile := JitterProfile{Base: 7 * time.Millisecond, Jitter: 6 * time.Millisecond}
	for seed := int64(0); seed < 10; seed++ {
		fc := New(&Config{PhysicsRate: 240, MaxFrameTime: 0.25, MaxPhysicsSteps: 1000}, NewJitterSource(profile, seed))
		fc.BeginFrame()

		scaled, consumed := 0.0, 0.0
		for i := 0; i < 2000; i++ {
			ft := fc.BeginFrame()
			require.False(t, ft.Lagging)
			scaled += ft.FrameTime
			consumed += float64(ft.PhysicsSteps) * ft.FixedTimestep
		}
		require.InDelta(t, scaled, consumed+fc.Accumulator(), 1e-9, "seed=%d", seed)
	}
}

func TestFirstCallAfterResetIsAlwaysZero(t *testing.T) {
	src := NewManualSource(Epoch)
	fc := New(nil, src)
	for _, gap := range []time.Duration{0, time.Millisecond, time.Second, time.Hour} {
		fc.Reset()
		src.Advance(gap)
		ft := fc.BeginFrame()
		require.Zero(t, ft.PhysicsSteps)
		require.Zero(t, ft.FrameTime)
		require.Zero(t, ft.InterpolationAlpha)
		require.False(t, ft.Lagging)
	}
}

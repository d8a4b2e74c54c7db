package trace

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"frameclock/internal/loop"
	"frameclock/pkg/clock"
)

// SweepSpec is a grid of clock configurations run against one jittered
// arrival pattern.
type SweepSpec struct {
	Rates         []int
	MaxSteps      []int
	MaxFrameTimes []float64

	Profile clock.JitterProfile
	Seed    int64
	Frames  int
	// TimeScale applies to every run; zero keeps the clock's default of 1.
	TimeScale float64
}

// Configs expands the grid. Invalid combinations are skipped.
func (s SweepSpec) Configs() []clock.Config {
	var out []clock.Config
	for _, rate := range s.Rates {
		for _, steps := range s.MaxSteps {
			for _, mft := range s.MaxFrameTimes {
				cfg := clock.Config{PhysicsRate: rate, MaxFrameTime: mft, MaxPhysicsSteps: steps}
				if cfg.Validate() != nil {
					continue
				}
				out = append(out, cfg)
			}
		}
	}
	return out
}

// SweepResult pairs a configuration with the summary of its run.
type SweepResult struct {
	Config  clock.Config
	Summary Summary
}

// Sweep runs every configuration on its own clock across workers goroutines.
// Results are ordered by lag ratio, then dropped time, then rate. A
// cancelled context stops the sweep and returns its error.
func Sweep(ctx context.Context, spec SweepSpec, workers int) ([]SweepResult, error) {
	if spec.Frames <= 0 {
		return nil, fmt.Errorf("%w: sweep needs a positive frame count", ErrInvalidTrace)
	}
	if spec.Profile.Base < 0 || spec.Profile.Jitter < 0 || spec.Profile.Stall < 0 {
		return nil, fmt.Errorf("%w: negative jitter profile duration", ErrInvalidTrace)
	}
	configs := spec.Configs()
	if len(configs) == 0 {
		return nil, fmt.Errorf("%w: sweep grid is empty", ErrInvalidTrace)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan clock.Config)
	results := make(chan SweepResult)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cfg := range jobs {
				res := SweepResult{Config: cfg, Summary: runScenario(ctx, spec, cfg)}
				select {
				case results <- res:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		defer close(jobs)
		for _, cfg := range configs {
			select {
			case jobs <- cfg:
			case <-ctx.Done():
				return
			}
		}
	}()

	all := make([]SweepResult, 0, len(configs))
	for res := range results {
		all = append(all, res)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.Summary.LagRatio() != b.Summary.LagRatio() {
			return a.Summary.LagRatio() < b.Summary.LagRatio()
		}
		if a.Summary.DroppedTime != b.Summary.DroppedTime {
			return a.Summary.DroppedTime < b.Summary.DroppedTime
		}
		if a.Config.PhysicsRate != b.Config.PhysicsRate {
			return a.Config.PhysicsRate < b.Config.PhysicsRate
		}
		if a.Config.MaxPhysicsSteps != b.Config.MaxPhysicsSteps {
			return a.Config.MaxPhysicsSteps < b.Config.MaxPhysicsSteps
		}
		return a.Config.MaxFrameTime < b.Config.MaxFrameTime
	})
	return all, nil
}

func runScenario(ctx context.Context, spec SweepSpec, cfg clock.Config) Summary {
	fc := clock.New(&cfg, clock.NewJitterSource(spec.Profile, spec.Seed))
	if spec.TimeScale > 0 {
		fc.SetTimeScale(spec.TimeScale)
	}
	d := loop.NewDriver(fc, nil)
	d.Frame()

	var s Summary
	for i := 0; i < spec.Frames; i++ {
		if i%256 == 0 && ctx.Err() != nil {
			break
		}
		before := fc.Accumulator()
		ft := d.Frame()
		s.add(sampleFrom(i, before, ft, fc))
	}
	return s
}

package integrate

import (
	"fmt"
	"math"
	"time"

	"github.com/utkarsh5026/refine/pool"
)

// Integrate refines the trapezoidal estimate of the integrand over
// [req.A, req.B] until two successive levels differ by at most
// ToleranceScale*req.Tolerance.
//
// With A == B the result is 0 and the integrand is never evaluated.
// Without WithMaxLevels the loop is unbounded; an integrand that is not
// smooth on the interval may keep it refining indefinitely.
//
// Example:
//
//	res, err := integrate.Integrate(integrate.Request{
//	    A: 0.1, B: 3.0, Tolerance: 1e-4, Threads: pool.Auto,
//	})
func Integrate(req Request, opts ...Option) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	cfg := newConfig(opts...)
	region := pool.NewRegion(req.Threads,
		pool.WithSchedule(cfg.schedule),
		pool.WithChunkSize(cfg.chunkSize),
		pool.WithAffinity(cfg.affinity),
	)

	start := time.Now()
	if req.A == req.B {
		return Result{Threads: region.Threads(), Elapsed: time.Since(start)}, nil
	}

	est := estimator{f: cfg.f, a: req.A, b: req.B, region: region}
	scaled := ToleranceScale * req.Tolerance

	n := InitialTrapezoids
	prev := est.at(n / 2)
	cfg.report(Level{Index: 0, Trapezoids: n / 2, Estimate: prev, Delta: math.NaN()})

	cur := est.at(n)
	levels := 2
	cfg.report(Level{Index: 1, Trapezoids: n, Estimate: cur, Delta: math.Abs(prev - cur)})

	for math.Abs(prev-cur) > scaled {
		if cfg.maxLevels > 0 && levels >= cfg.maxLevels {
			return result(cur, n, levels, region, start), fmt.Errorf("%w after %d levels (%d trapezoids, delta %g)",
				ErrNotConverged, levels, n, math.Abs(prev-cur))
		}

		n *= 2
		prev = cur
		cur = est.at(n)
		cfg.report(Level{Index: levels, Trapezoids: n, Estimate: cur, Delta: math.Abs(prev - cur)})
		levels++
	}

	return result(cur, n, levels, region, start), nil
}

func result(value float64, n, levels int, region *pool.Region, start time.Time) Result {
	return Result{
		Value:      value,
		Elapsed:    time.Since(start),
		Trapezoids: n,
		Levels:     levels,
		Threads:    region.Threads(),
	}
}

func (cfg *config) report(l Level) {
	if cfg.onLevel != nil {
		cfg.onLevel(l)
	}
}

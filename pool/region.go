package pool

import (
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/refine/internal/cpu"
	"github.com/utkarsh5026/refine/internal/partition"
)

// Region is a fork-join parallel loop driver with a fixed worker count.
// The worker count is resolved once, in NewRegion; every For call forks
// that many goroutines and joins them before returning.
//
// A Region holds no goroutines between calls and may be reused, but calls
// must not overlap.
type Region struct {
	spec    ThreadSpec
	threads int
	cfg     regionConfig
}

// NewRegion creates a region for the given thread spec.
// An invalid spec (Fixed(0)) falls back to a single worker.
//
// Example:
//
//	r := NewRegion(Fixed(4), WithSchedule(ScheduleDynamic), WithChunkSize(256))
//	r.For(0, n, body)
func NewRegion(spec ThreadSpec, opts ...Option) *Region {
	var cfg regionConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Region{
		spec:    spec,
		threads: spec.Resolve(),
		cfg:     cfg,
	}
}

// Threads returns the resolved worker count (1 for Sequential).
func (r *Region) Threads() int { return r.threads }

// For runs body over the half-open index range [lo, hi).
//
// body receives the worker id and a sub-range [lo, hi) it owns exclusively;
// it is called once per claimed chunk. Every index is handed to exactly one
// call. For a Sequential region body runs once, inline, with worker 0 and
// the whole range.
//
// For returns after all workers have finished. If a body panics, the panic
// is re-raised here as a *WorkerPanic once the other workers are done.
func (r *Region) For(lo, hi int, body func(worker, lo, hi int)) {
	if hi <= lo {
		return
	}

	if r.spec.IsSequential() {
		start := time.Now()
		body(0, lo, hi)
		if r.cfg.workerEnd != nil {
			r.cfg.workerEnd(WorkerStats{Worker: 0, Chunks: 1, Items: hi - lo, Elapsed: time.Since(start)})
		}
		return
	}

	r.fork(lo, hi, func(w int, next func() (int, int, bool)) {
		for {
			s, e, ok := next()
			if !ok {
				return
			}
			body(w, s, e)
		}
	})
}

// fork starts one goroutine per worker over a fresh partitioner for
// [lo, hi), runs fn on each and waits for all of them. fn pulls chunks
// through next, which also keeps the per-worker statistics.
func (r *Region) fork(lo, hi int, fn func(worker int, next func() (int, int, bool))) {
	parts := partition.New(r.cfg.schedule.kind(), lo, hi, r.threads, r.cfg.chunkSize)

	var g errgroup.Group
	for w := range r.threads {
		g.Go(func() (err error) {
			defer recoverWorker(w, &err)
			r.work(w, parts, fn)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		panic(err)
	}
}

// work runs fn for one worker, wrapped in pinning and the lifecycle hooks.
func (r *Region) work(w int, parts partition.Partitioner, fn func(worker int, next func() (int, int, bool))) {
	if r.cfg.affinity {
		release := cpu.Pin(w)
		defer release()
	}

	if r.cfg.workerStart != nil {
		r.cfg.workerStart(w)
	}

	stats := WorkerStats{Worker: w}
	start := time.Now()
	fn(w, func() (int, int, bool) {
		s, e, ok := parts.Next(w)
		if ok {
			stats.Chunks++
			stats.Items += e - s
		}
		return s, e, ok
	})
	stats.Elapsed = time.Since(start)

	if r.cfg.workerEnd != nil {
		r.cfg.workerEnd(stats)
	}
}

// Reduce folds the index range [lo, hi) into a single value.
//
// Every worker starts from its own identity() accumulator and feeds it
// through body once per claimed chunk; this per-worker state is private and
// unsynchronized. When a worker runs out of chunks, its partial result is
// folded into the shared total with combine while holding a mutex, so no
// two workers ever update the total at the same time. The shared total
// itself starts from identity().
//
// The order in which partial results are combined is unspecified; combine
// should be commutative and associative up to the precision the caller
// needs.
func Reduce[A any](
	r *Region,
	lo, hi int,
	identity func() A,
	body func(acc A, lo, hi int) A,
	combine func(total, part A) A,
) A {
	total := identity()
	if hi <= lo {
		return total
	}

	if r.spec.IsSequential() {
		r.For(lo, hi, func(_, s, e int) {
			total = combine(total, body(identity(), s, e))
		})
		return total
	}

	var mu sync.Mutex
	r.fork(lo, hi, func(_ int, next func() (int, int, bool)) {
		acc := identity()
		claimed := false
		for {
			s, e, ok := next()
			if !ok {
				break
			}
			acc = body(acc, s, e)
			claimed = true
		}
		if !claimed {
			return
		}

		mu.Lock()
		defer mu.Unlock()
		total = combine(total, acc)
	})
	return total
}

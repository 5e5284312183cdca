package histogram

import (
	"sync/atomic"

	"github.com/utkarsh5026/refine/pool"
)

// Compute counts how often every byte value occurs in samples.
//
// The result is identical for every ThreadSpec, schedule and mode: the sum
// of all counters equals len(samples) and every counter equals the
// sequential count. samples is only read.
func Compute(samples []byte, threads pool.ThreadSpec, opts ...Option) Histogram {
	cfg := newConfig(opts...)

	regionOpts := []pool.Option{
		pool.WithSchedule(cfg.schedule),
		pool.WithChunkSize(cfg.chunkSize),
		pool.WithAffinity(cfg.affinity),
	}
	if cfg.progress != nil {
		regionOpts = append(regionOpts, pool.WithWorkerEnd(func(s pool.WorkerStats) {
			cfg.progress(s.Items)
		}))
	}
	region := pool.NewRegion(threads, regionOpts...)

	if threads.IsSequential() {
		var h Histogram
		region.For(0, len(samples), func(_, lo, hi int) {
			countInto(&h, samples[lo:hi])
		})
		return h
	}

	if cfg.mode == ModePrivate {
		return computePrivate(region, samples)
	}
	return computeAtomic(region, samples)
}

func countInto(h *Histogram, samples []byte) {
	for _, v := range samples {
		h[v]++
	}
}

// computeAtomic increments one shared counter array from every worker.
func computeAtomic(region *pool.Region, samples []byte) Histogram {
	var shared [Bins]atomic.Uint32

	region.For(0, len(samples), func(_, lo, hi int) {
		for _, v := range samples[lo:hi] {
			shared[v].Add(1)
		}
	})

	var h Histogram
	for v := range shared {
		h[v] = shared[v].Load()
	}
	return h
}

// computePrivate counts into per-worker histograms and merges them.
func computePrivate(region *pool.Region, samples []byte) Histogram {
	total := pool.Reduce(region, 0, len(samples),
		func() *Histogram { return new(Histogram) },
		func(acc *Histogram, lo, hi int) *Histogram {
			countInto(acc, samples[lo:hi])
			return acc
		},
		func(total, part *Histogram) *Histogram {
			total.Add(part)
			return total
		},
	)
	return *total
}

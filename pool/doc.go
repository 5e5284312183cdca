// Package pool provides fork-join data parallelism over index ranges.
//
// A Region is a fixed-size team of worker goroutines that is spun up for a
// single parallel loop and joined before the loop returns. There is no
// persistent pool: every call to For or Reduce forks fresh workers, each
// worker claims chunks of the index range from a partitioner until the
// range is drained, and the call returns only after every worker is done.
//
// # Thread Specs
//
// The number of workers is described by a ThreadSpec:
//
//   - Sequential: no region at all, the loop runs on the calling goroutine
//   - Auto: as many workers as the runtime can run in parallel (GOMAXPROCS)
//   - Fixed(n): exactly n workers
//
// ParseThreadSpec decodes the compact integer form used on command lines
// (-1 = Sequential, 0 = Auto, n >= 1 = Fixed(n)).
//
// # Basic Usage
//
//	r := pool.NewRegion(pool.Auto, pool.WithSchedule(pool.ScheduleDynamic))
//	r.For(0, len(data), func(worker, lo, hi int) {
//	    for i := lo; i < hi; i++ {
//	        process(data[i])
//	    }
//	})
//
// # Reductions
//
// Reduce gives every worker a private accumulator and folds the private
// results into the shared total under a mutex once each worker finishes:
//
//	sum := pool.Reduce(r, 0, len(xs),
//	    func() float64 { return 0 },
//	    func(acc float64, lo, hi int) float64 {
//	        for _, x := range xs[lo:hi] {
//	            acc += x
//	        }
//	        return acc
//	    },
//	    func(total, part float64) float64 { return total + part },
//	)
//
// # Scheduling
//
//   - ScheduleStatic: one contiguous block per worker, or round-robin blocks
//     when a chunk size is set
//   - ScheduleDynamic: workers claim fixed-size chunks at run time
//   - ScheduleGuided: claims shrink as the range drains
//
// # Panics
//
// A panic inside a worker is recovered with its stack trace. Once every
// worker has joined, the region re-panics on the calling goroutine with a
// *WorkerPanic, so a failing loop body never leaves stray goroutines behind.
package pool

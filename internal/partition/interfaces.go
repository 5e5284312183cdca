package partition

// Partitioner hands out disjoint sub-ranges of an index range to workers.
//
// Every index of the range is returned exactly once across all workers,
// regardless of how calls interleave. Next is safe for concurrent use as
// long as each worker ID is used by a single goroutine at a time.
type Partitioner interface {
	// Next claims the next chunk for the given worker.
	// It returns the half-open range [lo, hi) and ok=false once the worker
	// has nothing left to do.
	Next(worker int) (lo, hi int, ok bool)
}

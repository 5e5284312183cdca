package partition

// block splits the range into one contiguous block per worker.
// The first (n % workers) blocks are one element longer than the rest.
//
// Each worker touches only its own slot of done, so no synchronization
// is needed.
type block struct {
	lo, n   int
	workers int
	done    []bool
}

func newBlock(lo, hi, workers int) *block {
	return &block{
		lo:      lo,
		n:       hi - lo,
		workers: workers,
		done:    make([]bool, workers),
	}
}

func (b *block) Next(worker int) (int, int, bool) {
	if worker < 0 || worker >= b.workers || b.done[worker] {
		return 0, 0, false
	}
	b.done[worker] = true

	lo, hi := Bounds(b.n, b.workers, worker)
	if lo == hi {
		return 0, 0, false
	}
	return b.lo + lo, b.lo + hi, true
}

// Bounds returns the half-open block of [0, n) owned by worker when the
// range is split into parts near-equal contiguous blocks.
func Bounds(n, parts, worker int) (int, int) {
	q, r := n/parts, n%parts
	lo := worker*q + min(worker, r)
	hi := lo + q
	if worker < r {
		hi++
	}
	return lo, hi
}

// cyclic deals chunks of a fixed size round-robin: worker w owns chunks
// w, w+workers, w+2*workers, ...
type cyclic struct {
	lo, hi  int
	workers int
	chunk   int
	next    []int
}

func newCyclic(lo, hi, workers, chunk int) *cyclic {
	next := make([]int, workers)
	for w := range next {
		next[w] = w
	}
	return &cyclic{lo: lo, hi: hi, workers: workers, chunk: chunk, next: next}
}

func (c *cyclic) Next(worker int) (int, int, bool) {
	if worker < 0 || worker >= c.workers {
		return 0, 0, false
	}

	k := c.next[worker]
	start := c.lo + k*c.chunk
	if start >= c.hi || start < c.lo {
		return 0, 0, false
	}
	c.next[worker] = k + c.workers

	return start, min(start+c.chunk, c.hi), true
}

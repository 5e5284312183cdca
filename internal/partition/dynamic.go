package partition

import "sync/atomic"

const cacheLinePadding = 64

// dynamic hands out fixed-size chunks from a shared cursor. Workers that
// finish early simply claim more, which balances uneven per-element cost.
type dynamic struct {
	_      [cacheLinePadding]byte
	cursor atomic.Int64
	_      [cacheLinePadding - 8]byte

	hi    int64
	chunk int64
}

func newDynamic(lo, hi, chunk int) *dynamic {
	d := &dynamic{hi: int64(hi), chunk: int64(chunk)}
	d.cursor.Store(int64(lo))
	return d
}

func (d *dynamic) Next(int) (int, int, bool) {
	// Load first so an exhausted cursor is not pushed further past hi by
	// every worker's final call.
	if d.cursor.Load() >= d.hi {
		return 0, 0, false
	}

	end := d.cursor.Add(d.chunk)
	start := end - d.chunk
	if start >= d.hi {
		return 0, 0, false
	}
	return int(start), int(min(end, d.hi)), true
}

// guided claims chunks proportional to the remaining work divided by the
// worker count, so early claims are large and late claims small.
type guided struct {
	_      [cacheLinePadding]byte
	cursor atomic.Int64
	_      [cacheLinePadding - 8]byte

	hi       int64
	workers  int64
	minChunk int64
}

func newGuided(lo, hi, workers, minChunk int) *guided {
	g := &guided{hi: int64(hi), workers: int64(workers), minChunk: int64(minChunk)}
	g.cursor.Store(int64(lo))
	return g
}

func (g *guided) Next(int) (int, int, bool) {
	for {
		start := g.cursor.Load()
		remaining := g.hi - start
		if remaining <= 0 {
			return 0, 0, false
		}

		size := max(remaining/(2*g.workers), g.minChunk)
		end := min(start+size, g.hi)
		if g.cursor.CompareAndSwap(start, end) {
			return int(start), int(end), true
		}
	}
}

package partition

import (
	"sync"
	"testing"
)

// drain runs workers concurrently against p and returns how many times
// each index in [lo, hi) was handed out.
func drain(t *testing.T, p Partitioner, lo, hi, workers int) []int {
	t.Helper()

	seen := make([][]int, workers)
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				s, e, ok := p.Next(w)
				if !ok {
					return
				}
				if s >= e {
					t.Errorf("worker %d: empty chunk [%d, %d)", w, s, e)
					return
				}
				for i := s; i < e; i++ {
					seen[w] = append(seen[w], i)
				}
			}
		}()
	}
	wg.Wait()

	counts := make([]int, max(hi-lo, 0))
	for _, idx := range seen {
		for _, i := range idx {
			if i < lo || i >= hi {
				t.Fatalf("index %d outside [%d, %d)", i, lo, hi)
			}
			counts[i-lo]++
		}
	}
	return counts
}

func TestPartitioners_CoverEveryIndexOnce(t *testing.T) {
	kinds := []Kind{Static, Dynamic, Guided}
	shapes := []struct {
		name    string
		lo, hi  int
		workers int
		chunk   int
	}{
		{"empty range", 5, 5, 4, 0},
		{"single element", 0, 1, 8, 0},
		{"fewer elements than workers", 1, 4, 8, 0},
		{"even split", 0, 1000, 4, 0},
		{"uneven split", 1, 1023, 7, 0},
		{"small chunks", 0, 10007, 5, 3},
		{"chunk larger than range", 0, 50, 3, 128},
		{"one worker", 0, 333, 1, 10},
		{"offset range", 100, 5100, 6, 64},
	}

	for _, kind := range kinds {
		for _, tt := range shapes {
			t.Run(kind.String()+"/"+tt.name, func(t *testing.T) {
				p := New(kind, tt.lo, tt.hi, tt.workers, tt.chunk)
				counts := drain(t, p, tt.lo, tt.hi, tt.workers)
				for i, c := range counts {
					if c != 1 {
						t.Fatalf("index %d handed out %d times", tt.lo+i, c)
					}
				}
			})
		}
	}
}

func TestPartitioners_InvertedRangeIsEmpty(t *testing.T) {
	for _, kind := range []Kind{Static, Dynamic, Guided} {
		p := New(kind, 10, 3, 2, 0)
		if _, _, ok := p.Next(0); ok {
			t.Errorf("%s: expected no work for inverted range", kind)
		}
	}
}

func TestBlock_ContiguousNearEqual(t *testing.T) {
	p := New(Static, 0, 10, 3, 0)

	want := [][2]int{{0, 4}, {4, 7}, {7, 10}}
	for w, bounds := range want {
		lo, hi, ok := p.Next(w)
		if !ok {
			t.Fatalf("worker %d: expected a block", w)
		}
		if lo != bounds[0] || hi != bounds[1] {
			t.Errorf("worker %d: expected [%d, %d), got [%d, %d)", w, bounds[0], bounds[1], lo, hi)
		}
		if _, _, ok := p.Next(w); ok {
			t.Errorf("worker %d: expected exactly one block", w)
		}
	}
}

func TestBlock_UnknownWorker(t *testing.T) {
	p := New(Static, 0, 10, 2, 0)
	if _, _, ok := p.Next(2); ok {
		t.Error("expected no work for worker outside the region")
	}
	if _, _, ok := p.Next(-1); ok {
		t.Error("expected no work for negative worker")
	}
}

func TestCyclic_RoundRobin(t *testing.T) {
	p := New(Static, 0, 10, 2, 3)

	var got [][2]int
	for {
		lo, hi, ok := p.Next(1)
		if !ok {
			break
		}
		got = append(got, [2]int{lo, hi})
	}

	want := [][2]int{{3, 6}, {9, 10}}
	if len(got) != len(want) {
		t.Fatalf("expected %d chunks, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestDynamic_DefaultChunk(t *testing.T) {
	p := New(Dynamic, 0, 3*DefaultDynamicChunk, 4, 0)

	lo, hi, ok := p.Next(0)
	if !ok || lo != 0 || hi != DefaultDynamicChunk {
		t.Fatalf("expected [0, %d), got [%d, %d) ok=%v", DefaultDynamicChunk, lo, hi, ok)
	}
}

func TestGuided_ShrinkingClaims(t *testing.T) {
	p := New(Guided, 0, 1000, 2, 10)

	first := 0
	prev := -1
	for {
		lo, hi, ok := p.Next(0)
		if !ok {
			break
		}
		size := hi - lo
		if prev == -1 {
			first = size
		} else if size > prev {
			t.Fatalf("claim grew from %d to %d", prev, size)
		}
		prev = size
	}

	if first != 250 {
		t.Errorf("expected first claim of 250, got %d", first)
	}
}

func TestBounds(t *testing.T) {
	tests := []struct {
		n, parts, worker int
		lo, hi           int
	}{
		{10, 3, 0, 0, 4},
		{10, 3, 2, 7, 10},
		{2, 4, 3, 2, 2},
		{0, 2, 1, 0, 0},
	}

	for _, tt := range tests {
		lo, hi := Bounds(tt.n, tt.parts, tt.worker)
		if lo != tt.lo || hi != tt.hi {
			t.Errorf("Bounds(%d, %d, %d) = [%d, %d), expected [%d, %d)",
				tt.n, tt.parts, tt.worker, lo, hi, tt.lo, tt.hi)
		}
	}
}

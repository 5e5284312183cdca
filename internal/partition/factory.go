package partition

// Kind selects how an index range is split among workers.
type Kind int

const (
	// Static assigns work up front. With a zero chunk size every worker gets
	// one contiguous block of near-equal length; with a positive chunk size
	// blocks of that size are dealt round-robin.
	Static Kind = iota
	// Dynamic lets workers claim fixed-size chunks from a shared cursor at
	// run time.
	Dynamic
	// Guided is like Dynamic but claims shrink as the range drains, never
	// below the chunk size.
	Guided
)

// DefaultDynamicChunk is the claim size used by Dynamic and Guided when no
// chunk size is configured.
const DefaultDynamicChunk = 1024

func (k Kind) String() string {
	switch k {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	case Guided:
		return "guided"
	default:
		return "unknown"
	}
}

// New creates a partitioner over [lo, hi) for the given number of workers.
// A non-positive worker count is treated as one worker and an empty or
// inverted range yields a partitioner that never hands out work.
func New(kind Kind, lo, hi, workers, chunk int) Partitioner {
	workers = max(workers, 1)
	hi = max(hi, lo)
	chunk = max(chunk, 0)

	switch kind {
	case Dynamic:
		if chunk == 0 {
			chunk = DefaultDynamicChunk
		}
		return newDynamic(lo, hi, chunk)

	case Guided:
		if chunk == 0 {
			chunk = 1
		}
		return newGuided(lo, hi, workers, chunk)

	default:
		if chunk == 0 {
			return newBlock(lo, hi, workers)
		}
		return newCyclic(lo, hi, workers, chunk)
	}
}

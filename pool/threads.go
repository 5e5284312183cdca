package pool

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/utkarsh5026/refine/internal/cpu"
)

// ThreadKind tags the variant held by a ThreadSpec.
type ThreadKind uint8

const (
	// KindSequential runs work on the calling goroutine without a region.
	KindSequential ThreadKind = iota
	// KindAuto sizes the region to the usable hardware concurrency.
	KindAuto
	// KindFixed uses an explicit worker count.
	KindFixed
)

// Integer encodings of the special thread specs.
const (
	SequentialCode = -1
	AutoCode       = 0
)

// ErrInvalidThreads is returned for thread counts that do not encode a
// ThreadSpec.
var ErrInvalidThreads = errors.New("invalid thread count")

// ThreadSpec describes how many workers a parallel computation uses.
// The zero value is Sequential.
type ThreadSpec struct {
	kind ThreadKind
	n    uint32
}

var (
	// Sequential runs without any worker goroutines.
	Sequential = ThreadSpec{kind: KindSequential}
	// Auto resolves to the usable hardware concurrency when a region starts.
	Auto = ThreadSpec{kind: KindAuto}
)

// Fixed returns a spec for exactly n workers. Fixed(0) is invalid; use Auto.
func Fixed(n uint32) ThreadSpec {
	return ThreadSpec{kind: KindFixed, n: n}
}

// Kind reports which variant the spec holds.
func (s ThreadSpec) Kind() ThreadKind { return s.kind }

// IsSequential reports whether the spec runs without a parallel region.
func (s ThreadSpec) IsSequential() bool { return s.kind == KindSequential }

// Validate reports whether the spec is well formed.
func (s ThreadSpec) Validate() error {
	switch s.kind {
	case KindSequential, KindAuto:
		return nil
	case KindFixed:
		if s.n == 0 {
			return fmt.Errorf("%w: fixed thread count must be at least 1", ErrInvalidThreads)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidThreads, s.kind)
	}
}

// Resolve returns the number of workers the spec stands for right now.
// Sequential resolves to 1. Auto is evaluated on every call, so callers
// resolve once and keep the result for the lifetime of a computation.
func (s ThreadSpec) Resolve() int {
	switch s.kind {
	case KindAuto:
		return cpu.MaxThreads()
	case KindFixed:
		return max(int(s.n), 1)
	default:
		return 1
	}
}

// Resolved returns the spec with Auto replaced by Fixed(Resolve()), so the
// worker count stays the same however many times it is resolved later.
func (s ThreadSpec) Resolved() ThreadSpec {
	if s.kind == KindAuto {
		return Fixed(uint32(s.Resolve()))
	}
	return s
}

// Code returns the integer encoding of the spec.
func (s ThreadSpec) Code() int64 {
	switch s.kind {
	case KindAuto:
		return AutoCode
	case KindFixed:
		return int64(s.n)
	default:
		return SequentialCode
	}
}

func (s ThreadSpec) String() string {
	switch s.kind {
	case KindAuto:
		return "auto"
	case KindFixed:
		return fmt.Sprintf("fixed(%d)", s.n)
	default:
		return "sequential"
	}
}

// ThreadSpecFromCode decodes -1 (Sequential), 0 (Auto) and n >= 1 (Fixed).
// Anything below -1 or above the uint32 range is rejected.
func ThreadSpecFromCode(code int64) (ThreadSpec, error) {
	switch {
	case code == SequentialCode:
		return Sequential, nil
	case code == AutoCode:
		return Auto, nil
	case code < SequentialCode:
		return ThreadSpec{}, fmt.Errorf("%w: %d, must be >= %d", ErrInvalidThreads, code, SequentialCode)
	case code > int64(^uint32(0)):
		return ThreadSpec{}, fmt.Errorf("%w: %d is too large", ErrInvalidThreads, code)
	default:
		return Fixed(uint32(code)), nil
	}
}

// ParseThreadSpec decodes the command-line form of a thread count.
func ParseThreadSpec(s string) (ThreadSpec, error) {
	code, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return ThreadSpec{}, fmt.Errorf("%w: %q is not an integer", ErrInvalidThreads, s)
	}
	return ThreadSpecFromCode(code)
}

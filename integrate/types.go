package integrate

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/utkarsh5026/refine/pool"
)

// ToleranceScale multiplies the requested tolerance before it is compared
// with the difference of two successive estimates.
const ToleranceScale = 3

// InitialTrapezoids is the trapezoid count of the first refinement level.
const InitialTrapezoids = 2

var (
	// ErrInvalidRequest is returned for requests that fail Validate.
	ErrInvalidRequest = errors.New("invalid integration request")

	// ErrNotConverged is returned when WithMaxLevels is set and the
	// estimates have not converged after that many levels.
	ErrNotConverged = errors.New("integral did not converge")
)

// Integrand is the function being integrated. It must be finite at both
// bounds and at every interior node of the interval.
type Integrand func(x float64) float64

// LogSin is the default integrand, log(sin(x)). It is finite on (0, π).
func LogSin(x float64) float64 {
	return math.Log(math.Sin(x))
}

// Request describes one integration.
type Request struct {
	A, B      float64
	Tolerance float64
	Threads   pool.ThreadSpec
}

// Validate checks that the bounds are finite, the tolerance is positive and
// finite, and the thread spec is well formed.
func (r Request) Validate() error {
	switch {
	case math.IsNaN(r.A) || math.IsInf(r.A, 0):
		return fmt.Errorf("%w: lower bound %v is not finite", ErrInvalidRequest, r.A)
	case math.IsNaN(r.B) || math.IsInf(r.B, 0):
		return fmt.Errorf("%w: upper bound %v is not finite", ErrInvalidRequest, r.B)
	case !(r.Tolerance > 0) || math.IsInf(r.Tolerance, 0):
		return fmt.Errorf("%w: tolerance %v must be positive and finite", ErrInvalidRequest, r.Tolerance)
	}

	if err := r.Threads.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return nil
}

// Result is the converged estimate of one request.
type Result struct {
	Value      float64
	Elapsed    time.Duration
	Trapezoids int // trapezoid count of the final level
	Levels     int // number of estimates computed
	Threads    int // resolved worker count
}

// ElapsedSeconds returns the wall time of the refinement loop in seconds.
func (r Result) ElapsedSeconds() float64 {
	return r.Elapsed.Seconds()
}

// Level reports one refinement step to a level hook.
type Level struct {
	Index      int
	Trapezoids int
	Estimate   float64
	Delta      float64 // |previous - current|, NaN for the first level
}

package integrate

import (
	"math"

	"github.com/utkarsh5026/refine/pool"
)

// Estimate computes the composite trapezoidal rule with n trapezoids
// serially:
//
//	(h/2) * (f(a) + f(b) + 2 * sum f(a + i*h)), i in [1, n), h = |b-a|/n
func Estimate(f Integrand, a, b float64, n int) float64 {
	h := math.Abs(b-a) / float64(n)
	return h / 2 * (f(a) + f(b) + 2*interiorSum(f, a, h, 1, n))
}

// interiorSum adds f at nodes a + i*h for i in [lo, hi).
func interiorSum(f Integrand, a, h float64, lo, hi int) float64 {
	var sum float64
	for i := lo; i < hi; i++ {
		sum += f(a + float64(i)*h)
	}
	return sum
}

// estimator computes whole levels, using the region to parallelize the
// sum over interior nodes.
type estimator struct {
	f      Integrand
	a, b   float64
	region *pool.Region
}

func (e *estimator) at(n int) float64 {
	h := math.Abs(e.b-e.a) / float64(n)

	sum := pool.Reduce(e.region, 1, n,
		func() float64 { return 0 },
		func(acc float64, lo, hi int) float64 {
			return acc + interiorSum(e.f, e.a, h, lo, hi)
		},
		func(total, part float64) float64 { return total + part },
	)

	return h / 2 * (e.f(e.a) + e.f(e.b) + 2*sum)
}

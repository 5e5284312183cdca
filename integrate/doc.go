// Package integrate estimates definite integrals with an adaptive
// composite trapezoidal rule.
//
// The number of trapezoids starts at 2 and doubles until two successive
// estimates differ by at most ToleranceScale times the requested tolerance.
// Every level is computed from scratch; with a parallel ThreadSpec the sum
// over interior nodes is a fork-join reduction (see package pool), so the
// final value may differ in the last bits between thread counts while
// always meeting the same convergence criterion.
package integrate

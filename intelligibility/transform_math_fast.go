//go:build fastmath

package intelligibility

import (
	"math"

	"github.com/meko-christian/algo-approx"
)

// mathSqrt computes sqrt(x) using fast approximation.
func mathSqrt(x float64) float64 {
	return approx.FastSqrt(x)
}

// mathPow computes x^y using fast approximation.
// Uses the identity: x^y = e^(y * ln(x)) for positive x.
// Note: algo-approx has no direct power function, and the log/exp identity
// only holds for x > 0, so other inputs fall back to math.Pow.
func mathPow(x, y float64) float64 {
	if x <= 0 {
		return math.Pow(x, y)
	}

	return approx.FastExp(y * approx.FastLog(x))
}

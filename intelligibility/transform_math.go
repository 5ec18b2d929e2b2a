//go:build !fastmath

package intelligibility

import "math"

// mathSqrt computes sqrt(x) using standard library math.
func mathSqrt(x float64) float64 {
	return math.Sqrt(x)
}

// mathPow computes x^y using standard library math.
func mathPow(x, y float64) float64 {
	return math.Pow(x, y)
}

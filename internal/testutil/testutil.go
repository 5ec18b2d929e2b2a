// Package testutil provides deterministic data generators for the model and
// fitting tests.
package testutil

import (
	"math"
	"math/rand"
)

// LinSpace generates n evenly spaced values from start to stop inclusive.
func LinSpace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}

	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}

	return out
}

// LogSpace generates n values spaced evenly on a log10 scale, from
// 10^startExp to 10^stopExp inclusive.
func LogSpace(startExp, stopExp float64, n int) []float64 {
	out := LinSpace(startExp, stopExp, n)
	for i, e := range out {
		out[i] = math.Pow(10, e)
	}

	return out
}

// DeterministicNoise generates uniform noise in [-amplitude, amplitude] with
// a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

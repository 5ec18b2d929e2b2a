package intelligibility

import "math"

// PsyFn evaluates a Gaussian psychometric function elementwise: the percent
// correct (0-100) of a cumulative normal with midpoint mu and spread sigma.
// The canonical standard curve uses mu = 0, sigma = 1.
//
// PsyFn is stateless and has no error conditions; sigma == 0 produces the
// usual non-finite division results per element.
func PsyFn(x []float64, mu, sigma float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = 100 * math.Erfc(-(v-mu)/(math.Sqrt2*sigma)) / 2
	}

	return out
}

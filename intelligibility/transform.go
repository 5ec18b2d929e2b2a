package intelligibility

import (
	"errors"

	"github.com/cwbudde/algo-vecmath"

	"github.com/craigatencio/pambox/internal/normdist"
)

// Errors returned by parameter validation.
var (
	ErrInvalidM      = errors.New("intelligibility: m must be greater than 1")
	ErrInvalidSigmaS = errors.New("intelligibility: sigma_s must not be negative")
)

const (
	// Gumbel-approximation constants for the maximum of m standard normal
	// draws: the scale ties the extreme-value spread to the upper 1/m
	// quantile, and the Euler-Mascheroni constant shifts its mode to the
	// mean.
	extremeValueScale = 1.28255
	eulerMascheroni   = 0.5772
)

// SNREnvToPC converts SNRenv values to percent correct (0-100) through the
// ideal-observer transform with the given parameters.
//
// The detection index k*snrenv^q is compared against a noisy decision
// criterion whose location and spread follow from an m-alternative
// forced-choice approximation. A negative SNRenv combined with a fractional
// q has no real power and yields NaN for that element; no error is returned
// for it.
func SNREnvToPC(snrenv []float64, k, q, sigmaS, m float64) ([]float64, error) {
	if m <= 1 {
		return nil, ErrInvalidM
	}
	if sigmaS < 0 {
		return nil, ErrInvalidSigmaS
	}

	un := normdist.Quantile(1 - 1/m)
	sn := extremeValueScale / un
	criterion := un + eulerMascheroni/un
	spread := mathSqrt(sigmaS*sigmaS + sn*sn)

	dp := make([]float64, len(snrenv))
	for i, v := range snrenv {
		dp[i] = mathPow(v, q)
	}

	vecmath.ScaleBlockInPlace(dp, k)

	out := make([]float64, len(snrenv))
	for i, d := range dp {
		out[i] = 100 * normdist.CDF(d, criterion, spread)
	}

	return out, nil
}

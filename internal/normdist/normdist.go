// Package normdist provides the standard normal cumulative distribution and
// its inverse (quantile), shared by the intelligibility model packages.
package normdist

import "math"

// Branch point between the central rational approximation and the tail
// approximation of the quantile function.
const quantileTailCut = 0.02425

// Coefficients of Acklam's rational approximation to the inverse normal CDF.
var (
	quantA = [6]float64{
		-3.969683028665376e+01,
		2.209460984245205e+02,
		-2.759285104469687e+02,
		1.383577518672690e+02,
		-3.066479806614716e+01,
		2.506628277459239e+00,
	}
	quantB = [5]float64{
		-5.447609879822406e+01,
		1.615858368580409e+02,
		-1.556989798598866e+02,
		6.680131188771972e+01,
		-1.328068155288572e+01,
	}
	quantC = [6]float64{
		-7.784894002430293e-03,
		-3.223964580411365e-01,
		-2.400758277161838e+00,
		-2.549732539343734e+00,
		4.374664141464968e+00,
		2.938163982698783e+00,
	}
	quantD = [4]float64{
		7.784695709041462e-03,
		3.224671290700398e-01,
		2.445134137142996e+00,
		3.754408661907416e+00,
	}
)

// CDF evaluates the normal cumulative distribution function with mean mu and
// standard deviation sigma at x. A zero or negative sigma yields the usual
// floating-point results (step function at mu for sigma == 0) rather than an
// error.
func CDF(x, mu, sigma float64) float64 {
	return 0.5 * math.Erfc(-(x-mu)/(sigma*math.Sqrt2))
}

// Quantile returns the argument at which the standard normal CDF equals p
// (the inverse CDF). It uses Acklam's rational approximation followed by one
// Halley refinement step, giving full double precision over (0, 1).
//
// Quantile(0) is -Inf, Quantile(1) is +Inf, and values outside [0, 1]
// return NaN.
func Quantile(p float64) float64 {
	switch {
	case math.IsNaN(p) || p < 0 || p > 1:
		return math.NaN()
	case p == 0:
		return math.Inf(-1)
	case p == 1:
		return math.Inf(1)
	}

	var x float64

	switch {
	case p < quantileTailCut:
		q := math.Sqrt(-2 * math.Log(p))
		x = numer6(quantC, q) / denom4(quantD, q)
	case p > 1-quantileTailCut:
		q := math.Sqrt(-2 * math.Log(1-p))
		x = -numer6(quantC, q) / denom4(quantD, q)
	default:
		q := p - 0.5
		r := q * q
		x = q * numer6(quantA, r) / denom5(quantB, r)
	}

	return halleyRefine(x, p)
}

// halleyRefine performs one Halley step of Newton's method on
// CDF(x) - p = 0, sharpening the rational approximation to machine
// precision.
func halleyRefine(x, p float64) float64 {
	e := 0.5*math.Erfc(-x/math.Sqrt2) - p
	u := e * math.Sqrt(2*math.Pi) * math.Exp(x*x/2)

	return x - u/(1+x*u/2)
}

func numer6(c [6]float64, x float64) float64 {
	return ((((c[0]*x+c[1])*x+c[2])*x+c[3])*x+c[4])*x + c[5]
}

// denom5 and denom4 evaluate the monic denominators of the rational
// approximations (implicit constant term 1).
func denom5(c [5]float64, x float64) float64 {
	return ((((c[0]*x+c[1])*x+c[2])*x+c[3])*x+c[4])*x + 1
}

func denom4(c [4]float64, x float64) float64 {
	return (((c[0]*x+c[1])*x+c[2])*x+c[3])*x + 1
}

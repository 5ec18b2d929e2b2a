// Package leastsq implements a Levenberg-Marquardt solver for small
// unconstrained nonlinear least-squares problems. The Jacobian is formed by
// forward finite differences, and the damped normal equations are solved by
// Gaussian elimination with partial pivoting.
package leastsq

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by the solver.
var (
	ErrNoResiduals       = errors.New("leastsq: residual count must be positive")
	ErrNoParams          = errors.New("leastsq: parameter vector is empty")
	ErrNonFiniteResidual = errors.New("leastsq: residual is not finite at the initial guess")
	ErrSingularMatrix    = errors.New("leastsq: normal equations are singular")
	ErrNoConvergence     = errors.New("leastsq: failed to converge")
)

const (
	defaultMaxIter  = 5000
	defaultTol      = 1e-12
	defaultDiffStep = 1e-8
	defaultDamping  = 1e-3

	dampingGrow   = 10.0
	dampingShrink = 0.1
	dampingFloor  = 1e-14
	dampingCeil   = 1e14
)

// Func evaluates the residual vector for the parameter vector p, writing the
// result into out. len(out) is fixed across calls; implementations must not
// retain either slice.
type Func func(p, out []float64)

// Options control the solver. The zero value selects defaults.
type Options struct {
	MaxIter  int     // maximum outer iterations (default 5000)
	Tol      float64 // relative step and gradient tolerance (default 1e-12)
	DiffStep float64 // relative finite-difference step (default 1e-8)
	Damping  float64 // initial Levenberg-Marquardt damping (default 1e-3)
}

// Result holds the solver outcome.
type Result struct {
	Params     []float64 // solution vector
	SumSquares float64   // final sum of squared residuals
	Iterations int       // outer iterations performed
}

func (o Options) withDefaults() Options {
	if o.MaxIter <= 0 {
		o.MaxIter = defaultMaxIter
	}
	if o.Tol <= 0 {
		o.Tol = defaultTol
	}
	if o.DiffStep <= 0 {
		o.DiffStep = defaultDiffStep
	}
	if o.Damping <= 0 {
		o.Damping = defaultDamping
	}

	return o
}

// Solve minimizes the sum of squared residuals of fn starting from p0. The
// residual vector has numResiduals elements. Convergence is local; the result
// depends on the initial guess.
func Solve(fn Func, p0 []float64, numResiduals int, opts Options) (Result, error) {
	if numResiduals <= 0 {
		return Result{}, ErrNoResiduals
	}
	if len(p0) == 0 {
		return Result{}, ErrNoParams
	}

	opts = opts.withDefaults()

	dim := len(p0)
	p := append([]float64(nil), p0...)

	r := make([]float64, numResiduals)
	fn(p, r)

	if !allFinite(r) {
		return Result{}, ErrNonFiniteResidual
	}

	sse := vecmath.DotProduct(r, r)
	lambda := opts.Damping

	// Scratch space reused across iterations.
	negR := make([]float64, numResiduals)
	rTrial := make([]float64, numResiduals)
	pTrial := make([]float64, dim)
	step := make([]float64, dim)
	grad := make([]float64, dim)

	jac := make([][]float64, dim)
	for j := range jac {
		jac[j] = make([]float64, numResiduals)
	}

	normal := make([][]float64, dim)
	for i := range normal {
		normal[i] = make([]float64, dim)
	}

	for iter := 1; iter <= opts.MaxIter; iter++ {
		jacobian(fn, p, r, negR, pTrial, jac, opts.DiffStep)

		// grad = J^T r, normal = J^T J.
		for i := range dim {
			grad[i] = vecmath.DotProduct(jac[i], r)
			for j := i; j < dim; j++ {
				normal[i][j] = vecmath.DotProduct(jac[i], jac[j])
				normal[j][i] = normal[i][j]
			}
		}

		if vecmath.MaxAbs(grad) <= opts.Tol {
			return Result{Params: p, SumSquares: sse, Iterations: iter - 1}, nil
		}

		accepted := false
		solvedAny := false

		for lambda <= dampingCeil {
			if !solveDamped(normal, grad, lambda, step) {
				lambda *= dampingGrow
				continue
			}

			solvedAny = true

			// As damping grows the step shrinks; a negligible step means
			// no further descent is possible from this point.
			if stepConverged(step, p, opts.Tol) {
				return Result{Params: p, SumSquares: sse, Iterations: iter}, nil
			}

			vecmath.AddBlock(pTrial, p, step)
			fn(pTrial, rTrial)

			trialSSE := math.Inf(1)
			if allFinite(rTrial) {
				trialSSE = vecmath.DotProduct(rTrial, rTrial)
			}

			if trialSSE < sse {
				copy(p, pTrial)
				copy(r, rTrial)

				improvement := sse - trialSSE
				sse = trialSSE
				lambda = math.Max(lambda*dampingShrink, dampingFloor)
				accepted = true

				if stepConverged(step, p, opts.Tol) || improvement <= opts.Tol*(sse+opts.Tol) {
					return Result{Params: p, SumSquares: sse, Iterations: iter}, nil
				}

				break
			}

			lambda *= dampingGrow
		}

		if !accepted {
			if !solvedAny {
				return Result{}, ErrSingularMatrix
			}

			return Result{}, ErrNoConvergence
		}
	}

	return Result{}, ErrNoConvergence
}

// jacobian fills jac with forward finite-difference columns, one per
// parameter: jac[j][i] = (r_i(p + h_j e_j) - r_i(p)) / h_j. The caller's
// base residual r is not modified; negR and pScratch are scratch buffers.
func jacobian(fn Func, p, r, negR, pScratch []float64, jac [][]float64, diffStep float64) {
	vecmath.ScaleBlock(negR, r, -1)

	for j := range p {
		h := diffStep * math.Max(math.Abs(p[j]), 1)

		copy(pScratch, p)
		pScratch[j] += h
		fn(pScratch, jac[j])

		// jac[j] = (jac[j] - r) / h.
		vecmath.AddMulBlock(jac[j], jac[j], negR, 1/h)
	}
}

// solveDamped solves (normal + lambda*diag(normal)) * step = -grad in place.
// It reports false when elimination hits a zero pivot.
func solveDamped(normal [][]float64, grad []float64, lambda float64, step []float64) bool {
	dim := len(grad)

	a := make([][]float64, dim)
	for i := range a {
		a[i] = append([]float64(nil), normal[i]...)

		d := normal[i][i] * lambda
		if d == 0 {
			d = lambda
		}

		a[i][i] += d
		step[i] = -grad[i]
	}

	// Gaussian elimination with partial pivoting.
	for col := range dim {
		pivot := col
		for row := col + 1; row < dim; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}

		if a[pivot][col] == 0 {
			return false
		}

		a[col], a[pivot] = a[pivot], a[col]
		step[col], step[pivot] = step[pivot], step[col]

		for row := col + 1; row < dim; row++ {
			f := a[row][col] / a[col][col]
			if f == 0 {
				continue
			}

			for k := col; k < dim; k++ {
				a[row][k] -= f * a[col][k]
			}

			step[row] -= f * step[col]
		}
	}

	for col := dim - 1; col >= 0; col-- {
		s := step[col]
		for k := col + 1; k < dim; k++ {
			s -= a[col][k] * step[k]
		}

		step[col] = s / a[col][col]
	}

	return allFinite(step)
}

func stepConverged(step, p []float64, tol float64) bool {
	return vecmath.MaxAbs(step) <= tol*(vecmath.MaxAbs(p)+tol)
}

func allFinite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

package leastsq

import (
	"errors"
	"math"
	"testing"
)

// expDecay builds a residual function for y = a*exp(-b*x) against data
// sampled from the true parameters (2.5, 1.3).
func expDecayProblem() (Func, []float64, int) {
	xs := []float64{0, 0.5, 1, 1.5, 2, 3, 4, 5}

	data := make([]float64, len(xs))
	for i, x := range xs {
		data[i] = 2.5 * math.Exp(-1.3*x)
	}

	fn := func(p, out []float64) {
		for i, x := range xs {
			out[i] = p[0]*math.Exp(-p[1]*x) - data[i]
		}
	}

	return fn, []float64{2.5, 1.3}, len(xs)
}

func TestSolveExponentialDecay(t *testing.T) {
	fn, want, n := expDecayProblem()

	res, err := Solve(fn, []float64{1, 0.5}, n, Options{})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	for i, w := range want {
		if math.Abs(res.Params[i]-w) > 1e-6 {
			t.Errorf("param[%d] = %v, want %v", i, res.Params[i], w)
		}
	}

	if res.SumSquares > 1e-15 {
		t.Errorf("SumSquares = %v, want near zero", res.SumSquares)
	}
}

func TestSolvePerfectInitialGuess(t *testing.T) {
	fn, want, n := expDecayProblem()

	res, err := Solve(fn, want, n, Options{})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	if res.Iterations != 0 {
		t.Errorf("Iterations = %d, want 0 for a zero-gradient start", res.Iterations)
	}

	if res.SumSquares != 0 {
		t.Errorf("SumSquares = %v, want 0", res.SumSquares)
	}
}

func TestSolveLineMatchesClosedForm(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4}
	ys := []float64{1.0, 2.9, 5.2, 6.9, 9.1}

	fn := func(p, out []float64) {
		for i := range xs {
			out[i] = p[0] + p[1]*xs[i] - ys[i]
		}
	}

	res, err := Solve(fn, []float64{0, 0}, len(xs), Options{})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	// Ordinary least-squares closed form.
	n := float64(len(xs))
	var sx, sy, sxx, sxy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
		sxx += xs[i] * xs[i]
		sxy += xs[i] * ys[i]
	}
	slope := (n*sxy - sx*sy) / (n*sxx - sx*sx)
	intercept := (sy - slope*sx) / n

	if math.Abs(res.Params[0]-intercept) > 1e-6 {
		t.Errorf("intercept = %v, want %v", res.Params[0], intercept)
	}
	if math.Abs(res.Params[1]-slope) > 1e-6 {
		t.Errorf("slope = %v, want %v", res.Params[1], slope)
	}
}

func TestSolveDoesNotMutateInitialGuess(t *testing.T) {
	fn, _, n := expDecayProblem()

	p0 := []float64{1, 0.5}
	if _, err := Solve(fn, p0, n, Options{}); err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	if p0[0] != 1 || p0[1] != 0.5 {
		t.Errorf("initial guess mutated: %v", p0)
	}
}

func TestSolveNonFiniteResidual(t *testing.T) {
	fn := func(p, out []float64) {
		out[0] = math.NaN()
	}

	_, err := Solve(fn, []float64{1}, 1, Options{})
	if !errors.Is(err, ErrNonFiniteResidual) {
		t.Fatalf("err = %v, want ErrNonFiniteResidual", err)
	}
}

func TestSolveInvalidArguments(t *testing.T) {
	fn := func(p, out []float64) {}

	if _, err := Solve(fn, []float64{1}, 0, Options{}); !errors.Is(err, ErrNoResiduals) {
		t.Errorf("numResiduals=0: err = %v, want ErrNoResiduals", err)
	}

	if _, err := Solve(fn, nil, 3, Options{}); !errors.Is(err, ErrNoParams) {
		t.Errorf("empty p0: err = %v, want ErrNoParams", err)
	}
}

func TestSolveMaxIterExceeded(t *testing.T) {
	fn, _, n := expDecayProblem()

	_, err := Solve(fn, []float64{1, 0.5}, n, Options{MaxIter: 1})
	if !errors.Is(err, ErrNoConvergence) {
		t.Fatalf("err = %v, want ErrNoConvergence", err)
	}
}

func TestSolveFlatParameterConverges(t *testing.T) {
	// The second parameter does not influence the residual. Its Jacobian
	// column is zero, so the damped normal equations must still be solvable
	// and the free direction left untouched.
	xs := []float64{0, 1, 2, 3}

	fn := func(p, out []float64) {
		for i, x := range xs {
			out[i] = p[0]*x - 2*x
		}
	}

	res, err := Solve(fn, []float64{0.5, 7}, len(xs), Options{})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	if math.Abs(res.Params[0]-2) > 1e-6 {
		t.Errorf("param[0] = %v, want 2", res.Params[0])
	}
	if res.Params[1] != 7 {
		t.Errorf("param[1] = %v, want unchanged 7", res.Params[1])
	}
}

package intelligibility

import (
	"errors"
	"fmt"
	"math"

	"github.com/craigatencio/pambox/internal/leastsq"
)

// Errors returned by fitting.
var (
	ErrShapeMismatch = errors.New("intelligibility: snrenv and pc must have the same length")
	ErrNoData        = errors.New("intelligibility: no observations to fit")
	ErrNoConvergence = errors.New("intelligibility: fit did not converge")
)

// Default observer parameters from Jørgensen and Dau (2011).
var defaultK = math.Sqrt(1.2)

const (
	defaultQ      = 0.5
	defaultSigmaS = 0.6
	defaultM      = 8000.0
)

// Params is an immutable snapshot of observer parameters.
type Params struct {
	K      float64 // sensitivity scale of the detection index
	Q      float64 // exponent applied to SNRenv
	SigmaS float64 // internal listener-noise standard deviation
	M      float64 // effective response-set (vocabulary) size
}

// Config defines observer construction parameters.
type Config struct {
	K      float64
	Q      float64
	SigmaS float64
	M      float64
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the Jørgensen and Dau (2011) parameter set.
func DefaultConfig() Config {
	return Config{
		K:      defaultK,
		Q:      defaultQ,
		SigmaS: defaultSigmaS,
		M:      defaultM,
	}
}

// WithK sets the sensitivity scale k.
func WithK(k float64) Option {
	return func(cfg *Config) {
		cfg.K = k
	}
}

// WithQ sets the SNRenv exponent q.
func WithQ(q float64) Option {
	return func(cfg *Config) {
		cfg.Q = q
	}
}

// WithSigmaS sets the internal-noise standard deviation.
func WithSigmaS(sigmaS float64) Option {
	return func(cfg *Config) {
		cfg.SigmaS = sigmaS
	}
}

// WithM sets the effective response-set size.
func WithM(m float64) Option {
	return func(cfg *Config) {
		cfg.M = m
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// Observer is a statistical ideal observer converting SNRenv values to
// percent correct.
//
// Transform and Params are safe for concurrent use; Fit and Apply mutate the
// observer and require external synchronization against any concurrent call.
type Observer struct {
	k      float64
	q      float64
	sigmaS float64
	m      float64
}

// NewObserver creates an observer with the given options. Parameters left
// unset keep their defaults. An m of 1 or less, or a negative sigmaS, is
// rejected.
func NewObserver(opts ...Option) (*Observer, error) {
	cfg := ApplyOptions(opts...)

	obs := &Observer{}
	if err := obs.Apply(Params(cfg)); err != nil {
		return nil, err
	}

	return obs, nil
}

// Params returns a snapshot of the current observer parameters.
func (o *Observer) Params() Params {
	return Params{K: o.k, Q: o.q, SigmaS: o.sigmaS, M: o.m}
}

// Apply validates a parameter snapshot and installs it as the observer
// state.
func (o *Observer) Apply(p Params) error {
	if p.M <= 1 {
		return ErrInvalidM
	}
	if p.SigmaS < 0 {
		return ErrInvalidSigmaS
	}

	o.k = p.K
	o.q = p.Q
	o.sigmaS = p.SigmaS
	o.m = p.M

	return nil
}

// Transform converts SNRenv values to percent correct (0-100) using the
// observer's current parameters. The result depends only on the inputs and
// the current state.
func (o *Observer) Transform(snrenv []float64) ([]float64, error) {
	return SNREnvToPC(snrenv, o.k, o.q, o.sigmaS, o.m)
}

// FitConfig defines fitting behavior.
type FitConfig struct {
	SigmaS    float64
	FixSigmaS bool
	M         float64
	HasM      bool
	MaxIter   int
	Tol       float64
}

// FitOption mutates a FitConfig.
type FitOption func(*FitConfig)

// FitWithSigmaS holds sigmaS fixed at the given value during the fit instead
// of optimizing it alongside k and q. The fixed value is stored in the
// observer after a successful fit.
func FitWithSigmaS(sigmaS float64) FitOption {
	return func(cfg *FitConfig) {
		cfg.SigmaS = sigmaS
		cfg.FixSigmaS = true
	}
}

// FitWithM replaces the observer's m for the fit. It is never optimized; the
// value is stored in the observer after a successful fit.
func FitWithM(m float64) FitOption {
	return func(cfg *FitConfig) {
		cfg.M = m
		cfg.HasM = true
	}
}

// FitWithMaxIter caps the optimizer's iteration count. Zero or negative
// keeps the solver default.
func FitWithMaxIter(maxIter int) FitOption {
	return func(cfg *FitConfig) {
		cfg.MaxIter = maxIter
	}
}

// FitWithTolerance sets the optimizer's relative step and gradient
// tolerance. Zero or negative keeps the solver default.
func FitWithTolerance(tol float64) FitOption {
	return func(cfg *FitConfig) {
		cfg.Tol = tol
	}
}

// FitParams finds the parameters k, q, and (unless fixed) sigmaS that
// minimize the squared error between the transformed snrenv values and the
// observed percent-correct data, which must be on the same 0-100 scale as
// [Observer.Transform]. The observer's current parameters seed the search,
// so fitting refines the present state rather than searching globally; the
// result is a local minimum.
//
// The observer itself is not modified. Use [Observer.Apply] to install the
// result, or [Observer.Fit] for both steps at once.
func (o *Observer) FitParams(snrenv, pc []float64, opts ...FitOption) (Params, error) {
	if len(snrenv) != len(pc) {
		return Params{}, ErrShapeMismatch
	}
	if len(snrenv) == 0 {
		return Params{}, ErrNoData
	}

	cfg := FitConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	m := o.m
	if cfg.HasM {
		if cfg.M <= 1 {
			return Params{}, ErrInvalidM
		}

		m = cfg.M
	}

	if cfg.FixSigmaS && cfg.SigmaS < 0 {
		return Params{}, ErrInvalidSigmaS
	}

	var (
		p0       []float64
		residual leastsq.Func
	)

	if cfg.FixSigmaS {
		p0 = []float64{o.k, o.q}
		residual = func(p, out []float64) {
			predictionResidual(out, snrenv, pc, p[0], p[1], cfg.SigmaS, m)
		}
	} else {
		p0 = []float64{o.k, o.q, o.sigmaS}
		residual = func(p, out []float64) {
			predictionResidual(out, snrenv, pc, p[0], p[1], p[2], m)
		}
	}

	res, err := leastsq.Solve(residual, p0, len(snrenv), leastsq.Options{
		MaxIter: cfg.MaxIter,
		Tol:     cfg.Tol,
	})
	if err != nil {
		return Params{}, fmt.Errorf("%w: %v", ErrNoConvergence, err)
	}

	fitted := Params{K: res.Params[0], Q: res.Params[1], M: m}
	if cfg.FixSigmaS {
		fitted.SigmaS = cfg.SigmaS
	} else {
		// sigmaS enters the transform only squared, so the optimizer may
		// land on either sign; canonicalize to the non-negative root.
		fitted.SigmaS = math.Abs(res.Params[2])
	}

	if !paramsFinite(fitted) {
		return Params{}, ErrNoConvergence
	}

	return fitted, nil
}

// Fit calibrates the observer against measured data and stores the result,
// returning the mutated observer for chaining. See [Observer.FitParams] for
// the fitting contract.
func (o *Observer) Fit(snrenv, pc []float64, opts ...FitOption) (*Observer, error) {
	fitted, err := o.FitParams(snrenv, pc, opts...)
	if err != nil {
		return nil, err
	}

	if err := o.Apply(fitted); err != nil {
		return nil, err
	}

	return o, nil
}

// predictionResidual writes transform(snrenv) - pc into out. The transform
// cannot fail here: m and sigmaS were validated before the solver started,
// and trial sigmaS values only occur squared.
func predictionResidual(out, snrenv, pc []float64, k, q, sigmaS, m float64) {
	pred, err := SNREnvToPC(snrenv, k, q, math.Abs(sigmaS), m)
	if err != nil {
		for i := range out {
			out[i] = math.NaN()
		}

		return
	}

	for i := range out {
		out[i] = pred[i] - pc[i]
	}
}

func paramsFinite(p Params) bool {
	for _, v := range []float64{p.K, p.Q, p.SigmaS, p.M} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

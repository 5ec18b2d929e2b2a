// Package intelligibility predicts speech intelligibility scores from
// envelope-domain signal-to-noise ratios (SNRenv) using a statistical ideal
// observer, after Jørgensen and Dau (2011).
//
// The central type is [Observer], which maps SNRenv values to percent of
// correctly identified speech tokens through a closed-form transform with
// four parameters: a sensitivity scale k, a metric exponent q, an internal
// listener-noise deviation sigmaS, and an effective response-set size m.
// Observer parameters can be calibrated against behavioral data with
// [Observer.Fit], a nonlinear least-squares refinement of the current state.
//
// [PsyFn] is an independent Gaussian psychometric function, useful for
// generating reference curves and synthetic data sets.
//
// All percent-correct values, both predicted and observed, are on the 0-100
// scale.
package intelligibility

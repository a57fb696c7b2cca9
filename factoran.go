// Package factoran computes a factor analysis of a data matrix via
// principal component decomposition of its sample covariance.
package factoran

import (
	"context"
	"errors"
	"fmt"

	"github.com/yyyoichi/factoran/internal/factor"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidArgument reports a precondition violation on the inputs,
	// such as a factor count outside [1, number of variables].
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNumerical reports a failure inside the numeric pipeline:
	// non-finite covariance entries, a non-converging eigen solver, or a
	// negative retained eigenvalue. The wrapped error names the stage.
	ErrNumerical = errors.New("numerical failure")
)

// FactorAnalysis runs a factor analysis on row-major data, one observation
// per row, and retains the numFactors strongest components.
// This is a convenience function that creates an Analyzer and calls its
// Analyze method.
func FactorAnalysis(ctx context.Context, x [][]float64, numFactors int, opts ...Option) (*Result, error) {
	a, err := New(opts...)
	if err != nil {
		return nil, err
	}
	m, err := denseFromRows(x)
	if err != nil {
		return nil, err
	}
	return a.Analyze(ctx, m, numFactors)
}

type Analyzer struct {
	symmetrize bool
}

// New initializes a factor analysis structure.
// Explicit covariance symmetrization can be optionally enabled.
func New(opts ...Option) (*Analyzer, error) {
	a := new(Analyzer)
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Analyze computes loadings, scores and retained eigenvalues for x.
//
// Process:
//  1. Validates numFactors against the number of variables.
//  2. Subtracts the per-column mean from a copy of x.
//  3. Estimates the sample covariance matrix (n-1 denominator).
//  4. Eigen-decomposes the covariance matrix.
//  5. Sorts eigenpairs by eigenvalue descending and keeps the first numFactors.
//  6. Scales the kept eigenvectors into loadings and projects the centered
//     data onto them for scores.
//
// x is never modified. All numeric failures, including the division by zero
// a single-observation input produces in the covariance denominator, are
// reported as ErrNumerical; no partial results are returned.
func (a *Analyzer) Analyze(ctx context.Context, x mat.Matrix, numFactors int) (*Result, error) {
	_, numVars := x.Dims()
	if numFactors < 1 {
		return nil, fmt.Errorf("%w: numFactors must be positive, got %d", ErrInvalidArgument, numFactors)
	}
	if numFactors > numVars {
		return nil, fmt.Errorf("%w: numFactors %d exceeds %d variables", ErrInvalidArgument, numFactors, numVars)
	}
	out, err := factor.Analyze(ctx, x, numFactors, a.symmetrize)
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return nil, err
		}
		return nil, fmt.Errorf("%w:%w", ErrNumerical, err)
	}
	return &Result{
		Loadings:      out.Loadings,
		Scores:        out.Scores,
		Eigenvalues:   out.Eigenvalues,
		totalVariance: out.TotalVariance,
	}, nil
}

func denseFromRows(x [][]float64) (*mat.Dense, error) {
	if len(x) == 0 || len(x[0]) == 0 {
		return nil, fmt.Errorf("%w: empty data matrix", ErrInvalidArgument)
	}
	numVars := len(x[0])
	m := mat.NewDense(len(x), numVars, nil)
	for i, row := range x {
		if len(row) != numVars {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrInvalidArgument, i, len(row), numVars)
		}
		m.SetRow(i, row)
	}
	return m, nil
}

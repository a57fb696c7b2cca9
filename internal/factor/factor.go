// Package factor runs the factor analysis pipeline: centering, covariance
// estimation, eigen-decomposition, and loadings/scores computation.
package factor

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/yyyoichi/factoran/internal/eigen"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var ErrNegativeEigenvalue = errors.New("negative retained eigenvalue")

// Output carries the results of one pipeline run. TotalVariance is the trace
// of the covariance matrix, captured before truncation.
type Output struct {
	Loadings      *mat.Dense
	Scores        *mat.Dense
	Eigenvalues   []float64
	TotalVariance float64
}

// Analyze computes loadings, scores and the numFactors largest eigenvalues
// of the sample covariance of x. Arguments are assumed validated. x is read
// only; every stage works on fresh allocations. Cancellation is checked
// between stages, the stages themselves run to completion.
func Analyze(ctx context.Context, x mat.Matrix, numFactors int, symmetrize bool) (*Output, error) {
	numObs, _ := x.Dims()
	centered := Center(x)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cov := Covariance(centered, numObs, symmetrize)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dec, err := eigen.Decompose(cov)
	if err != nil {
		return nil, err
	}
	values, vectors := dec.Truncate(numFactors)

	loadings, err := Loadings(values, vectors)
	if err != nil {
		return nil, err
	}
	var scores mat.Dense
	scores.Mul(centered, vectors)

	return &Output{
		Loadings:      loadings,
		Scores:        &scores,
		Eigenvalues:   values,
		TotalVariance: dec.TotalVariance(),
	}, nil
}

// Center returns a copy of x with the arithmetic mean of each column
// subtracted from that column. x is not modified.
func Center(x mat.Matrix) *mat.Dense {
	numObs, numVars := x.Dims()
	centered := mat.NewDense(numObs, numVars, nil)
	col := make([]float64, numObs)
	for j := 0; j < numVars; j++ {
		mat.Col(col, j, x)
		mean := stat.Mean(col, nil)
		for i, v := range col {
			centered.Set(i, j, v-mean)
		}
	}
	return centered
}

// Covariance estimates the sample covariance of already-centered data using
// the n-1 denominator. With numObs == 1 the denominator is zero and the
// entries come out NaN; that is left for the eigen stage to reject.
// When symmetrize is set, the matrix is averaged with its transpose to
// cancel floating-point asymmetry from the product.
func Covariance(centered *mat.Dense, numObs int, symmetrize bool) *mat.SymDense {
	_, numVars := centered.Dims()
	var prod mat.Dense
	prod.Mul(centered.T(), centered)
	prod.Scale(1/float64(numObs-1), &prod)

	cov := mat.NewSymDense(numVars, nil)
	for i := 0; i < numVars; i++ {
		for j := i; j < numVars; j++ {
			if symmetrize {
				cov.SetSym(i, j, (prod.At(i, j)+prod.At(j, i))/2)
			} else {
				cov.SetSym(i, j, prod.At(i, j))
			}
		}
	}
	return cov
}

// Loadings scales each eigenvector column by the square root of its
// eigenvalue. A negative eigenvalue, possible through floating-point error
// on a near-singular covariance, would turn into a silent NaN under
// math.Sqrt and is reported as ErrNegativeEigenvalue instead.
func Loadings(values []float64, vectors *mat.Dense) (*mat.Dense, error) {
	numVars, k := vectors.Dims()
	l := mat.NewDense(numVars, k, nil)
	for j, v := range values {
		if v < 0 {
			return nil, fmt.Errorf("%w: eigenvalue %d is %v", ErrNegativeEigenvalue, j, v)
		}
		scale := math.Sqrt(v)
		for i := 0; i < numVars; i++ {
			l.Set(i, j, scale*vectors.At(i, j))
		}
	}
	return l, nil
}

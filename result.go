package factoran

import "gonum.org/v1/gonum/mat"

// Result holds the outputs of one factor analysis.
//
// The sign of each eigenvector is not canonical: the solver may flip any
// loading column and the matching score column together between runs or
// library versions. This is inherent to symmetric eigen-decomposition, not a
// defect. Callers comparing results should compare squared quantities or
// reconstructed products rather than raw entries. The same holds for the
// eigenvector basis of a repeated eigenvalue, where any orthonormal basis of
// the shared subspace is valid.
type Result struct {
	// Loadings is numVars x numFactors; column j is the j-th retained
	// eigenvector scaled by the square root of its eigenvalue.
	Loadings *mat.Dense
	// Scores is numObs x numFactors; the centered data projected onto the
	// retained eigenvector directions.
	Scores *mat.Dense
	// Eigenvalues are the retained eigenvalues, sorted descending.
	Eigenvalues []float64

	totalVariance float64
}

// VarianceExplained reports the proportion of total variance carried by each
// retained factor, in the same order as Eigenvalues. The denominator is the
// trace of the covariance matrix, so the proportions are exact even when
// factors were truncated.
func (r *Result) VarianceExplained() []float64 {
	out := make([]float64, len(r.Eigenvalues))
	if r.totalVariance == 0 {
		return out
	}
	for i, v := range r.Eigenvalues {
		out[i] = v / r.totalVariance
	}
	return out
}

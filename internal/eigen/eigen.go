// Package eigen wraps the symmetric eigen-decomposition and fixes an
// eigenvalue-descending ordering on its output.
package eigen

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrNotFinite     = errors.New("matrix contains non-finite values")
	ErrNoConvergence = errors.New("eigen solver failed to converge")
)

// Decomposition holds the full set of eigenpairs of a symmetric matrix,
// sorted by eigenvalue descending. Column j of the vectors pairs with
// value j. Eigenvector signs are solver-dependent.
type Decomposition struct {
	values  []float64
	vectors *mat.Dense
}

// Decompose computes all eigenpairs of c. It returns ErrNotFinite when c
// carries NaN or Inf entries and ErrNoConvergence when the solver gives up;
// both leave no partial result.
func Decompose(c *mat.SymDense) (*Decomposition, error) {
	n, _ := c.Dims()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if v := c.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: entry (%d,%d) is %v", ErrNotFinite, i, j, v)
			}
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(c, true); !ok {
		return nil, ErrNoConvergence
	}
	values := es.Values(nil)
	var vectors mat.Dense
	es.VectorsTo(&vectors)

	// The solver reports eigenvalues ascending; reorder both values and
	// vector columns through a descending index permutation. Stable, so
	// equal eigenvalues keep the solver's order.
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return values[perm[a]] > values[perm[b]]
	})

	d := &Decomposition{
		values:  make([]float64, n),
		vectors: mat.NewDense(n, n, nil),
	}
	for to, from := range perm {
		d.values[to] = values[from]
		for r := 0; r < n; r++ {
			d.vectors.Set(r, to, vectors.At(r, from))
		}
	}
	return d, nil
}

// Truncate returns the k largest eigenvalues and their eigenvectors as the
// columns of an n x k matrix. Both are fresh copies.
func (d *Decomposition) Truncate(k int) ([]float64, *mat.Dense) {
	n, _ := d.vectors.Dims()
	values := make([]float64, k)
	copy(values, d.values[:k])
	vectors := mat.NewDense(n, k, nil)
	vectors.Copy(d.vectors.Slice(0, n, 0, k))
	return values, vectors
}

// TotalVariance is the sum of all eigenvalues, i.e. the trace of the
// decomposed matrix.
func (d *Decomposition) TotalVariance() float64 {
	return floats.Sum(d.values)
}

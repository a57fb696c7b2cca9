package factoran

type Option func(*Analyzer) error

// WithSymmetrize averages the covariance matrix with its transpose before
// the eigen-decomposition. The covariance is symmetric by construction up to
// floating-point rounding and the solver tolerates that asymmetry, so this
// is off by default; enabling it is a numerical-robustness choice, not a
// behavior change.
func WithSymmetrize() Option {
	return func(a *Analyzer) error {
		a.symmetrize = true
		return nil
	}
}

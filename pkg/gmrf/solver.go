package gmrf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// cgTolerance is the relative residual at which the conjugate gradient
// iteration is considered converged.
const cgTolerance = 1e-10

// Solve recomputes the posterior mean of every cell from all accumulated
// observations plus the smoothness prior between 4-neighbours, and unless
// variance estimation is skipped, an approximate posterior standard
// deviation per cell.
//
// The posterior mean minimizes
//
//	lambdaPrior * sum_{i~j} (u_i - u_j)^2  +  sum_obs lambda_k (u_c - z_k)^2
//
// which is the SPD linear system (lambdaPrior*L + D) u = b with L the
// grid graph Laplacian, D the per-cell observation precision and b the
// precision-weighted observation sums. The system is solved matrix-free
// with conjugate gradient; the factorization strategy is an internal
// detail and callers only rely on the solved field.
func (e *Estimator) Solve() error {
	n := e.rows * e.cols
	if n == 0 {
		return fmt.Errorf("%w: grid not sized", ErrInvalidGridConfig)
	}
	if e.nObs == 0 {
		// Without evidence the prior alone is translation invariant;
		// leave every cell at its default value.
		return nil
	}

	u := make([]float64, n)
	for i := range u {
		u[i] = e.cells[i].Mean
	}
	if err := e.conjugateGradient(u, e.obsWeight); err != nil {
		return err
	}

	for i := range e.cells {
		e.cells[i].Mean = u[i]
	}
	e.updateVariance()
	return nil
}

// applyPrecision computes dst = (lambdaPrior*L + D) src without forming
// the sparse precision matrix.
func (e *Estimator) applyPrecision(dst, src []float64) {
	for r := 0; r < e.rows; r++ {
		for c := 0; c < e.cols; c++ {
			i := r*e.cols + c
			acc := e.obsLambda[i] * src[i]
			if c > 0 {
				acc += e.lambdaPrior * (src[i] - src[i-1])
			}
			if c < e.cols-1 {
				acc += e.lambdaPrior * (src[i] - src[i+1])
			}
			if r > 0 {
				acc += e.lambdaPrior * (src[i] - src[i-e.cols])
			}
			if r < e.rows-1 {
				acc += e.lambdaPrior * (src[i] - src[i+e.cols])
			}
			dst[i] = acc
		}
	}
}

// conjugateGradient solves (lambdaPrior*L + D) u = b in place, starting
// from the current contents of u.
func (e *Estimator) conjugateGradient(u, b []float64) error {
	n := len(u)
	r := make([]float64, n)
	p := make([]float64, n)
	ap := make([]float64, n)

	e.applyPrecision(ap, u)
	for i := range r {
		r[i] = b[i] - ap[i]
	}
	copy(p, r)

	bNorm := math.Sqrt(floats.Dot(b, b))
	if bNorm == 0 {
		bNorm = 1
	}
	rsOld := floats.Dot(r, r)

	maxIter := 10 * n
	for iter := 0; iter < maxIter; iter++ {
		if math.Sqrt(rsOld) <= cgTolerance*bNorm {
			return nil
		}
		e.applyPrecision(ap, p)
		pap := floats.Dot(p, ap)
		if pap <= 0 {
			return fmt.Errorf("gmrf solve: precision operator lost positive definiteness (p'Ap=%g)", pap)
		}
		alpha := rsOld / pap
		floats.AddScaled(u, alpha, p)
		floats.AddScaled(r, -alpha, ap)

		rsNew := floats.Dot(r, r)
		beta := rsNew / rsOld
		for i := range p {
			p[i] = r[i] + beta*p[i]
		}
		rsOld = rsNew
	}
	return fmt.Errorf("gmrf solve: conjugate gradient did not converge in %d iterations (residual %g)",
		maxIter, math.Sqrt(rsOld)/bNorm)
}

// updateVariance fills Cell.Std from the diagonal of the precision
// operator. This is the standard cheap approximation sigma_i^2 = 1/A_ii;
// the exact marginal variances would need the full inverse.
func (e *Estimator) updateVariance() {
	if e.skipVariance {
		for i := range e.cells {
			e.cells[i].Std = 0
		}
		return
	}
	for r := 0; r < e.rows; r++ {
		for c := 0; c < e.cols; c++ {
			i := r*e.cols + c
			diag := e.obsLambda[i]
			if c > 0 {
				diag += e.lambdaPrior
			}
			if c < e.cols-1 {
				diag += e.lambdaPrior
			}
			if r > 0 {
				diag += e.lambdaPrior
			}
			if r < e.rows-1 {
				diag += e.lambdaPrior
			}
			if diag > 0 {
				e.cells[i].Std = math.Sqrt(1.0 / diag)
			} else {
				e.cells[i].Std = 0
			}
		}
	}
}

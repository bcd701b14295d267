// Package stability performs linear stability analysis of deterministic
// dynamical systems: fixed points, numerical Jacobians, and eigenvalue
// classification.
package stability

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Field is the right-hand side of an autonomous ODE dx/dt = f(x).
type Field func(x []float64) []float64

// Verdict classifies a fixed point by the real parts of the Jacobian
// eigenvalues.
type Verdict string

const (
	Stable      Verdict = "stable"
	Unstable    Verdict = "unstable"
	Marginal    Verdict = "marginal"
	marginalEps         = 1e-9
)

var ErrEigenFailed = errors.New("stability: eigenvalue decomposition failed")

// Jacobian approximates df/dx at x by central differences.
func Jacobian(f Field, x []float64, eps float64) *mat.Dense {
	n := len(x)
	j := mat.NewDense(n, n, nil)
	for col := 0; col < n; col++ {
		xp := append([]float64(nil), x...)
		xm := append([]float64(nil), x...)
		xp[col] += eps
		xm[col] -= eps
		fp := f(xp)
		fm := f(xm)
		for row := 0; row < n; row++ {
			j.Set(row, col, (fp[row]-fm[row])/(2*eps))
		}
	}
	return j
}

// Eigenvalues factorizes the matrix and returns its spectrum.
func Eigenvalues(m *mat.Dense) ([]complex128, error) {
	var eig mat.Eigen
	if ok := eig.Factorize(m, mat.EigenNone); !ok {
		return nil, ErrEigenFailed
	}
	return eig.Values(nil), nil
}

// Classify turns a spectrum into a stability verdict. Oscillatory reports
// whether the leading eigenvalue pair is complex.
func Classify(eigs []complex128) (v Verdict, oscillatory bool) {
	maxRe := math.Inf(-1)
	for _, e := range eigs {
		re := real(e)
		if re > maxRe {
			maxRe = re
			oscillatory = imag(e) != 0
		}
	}
	switch {
	case maxRe < -marginalEps:
		return Stable, oscillatory
	case maxRe > marginalEps:
		return Unstable, oscillatory
	default:
		return Marginal, oscillatory
	}
}

// FixedPoint is a fixed point of a one-dimensional flow together with the
// derivative of the field there.
type FixedPoint struct {
	X       float64
	Slope   float64
	Verdict Verdict
}

// LogisticFixedPoints analyzes dn/dt = r·n·(1−n/K): the extinction state
// n=0 with slope r and the carrying capacity n=K with slope −r.
func LogisticFixedPoints(r, k float64) []FixedPoint {
	classify := func(slope float64) Verdict {
		switch {
		case slope < -marginalEps:
			return Stable
		case slope > marginalEps:
			return Unstable
		default:
			return Marginal
		}
	}
	return []FixedPoint{
		{X: 0, Slope: r, Verdict: classify(r)},
		{X: k, Slope: -r, Verdict: classify(-r)},
	}
}

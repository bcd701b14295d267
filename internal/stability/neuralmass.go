package stability

import (
	"errors"
	"math"
)

var ErrNoConvergence = errors.New("stability: fixed point search did not converge")

// WilsonCowan is the two-population neural-mass model: mean activity of an
// excitatory and an inhibitory pool with sigmoidal coupling.
type WilsonCowan struct {
	WEE, WEI float64 // excitatory couplings (onto E: from E, from I)
	WIE, WII float64 // inhibitory couplings (onto I: from E, from I)
	TauE     float64
	TauI     float64
	PE, PI   float64 // external drives
	Gain     float64 // sigmoid steepness
	Thresh   float64 // sigmoid midpoint
}

func NewWilsonCowan() *WilsonCowan {
	return &WilsonCowan{
		WEE: 12, WEI: 10,
		WIE: 10, WII: 2,
		TauE: 1, TauI: 2,
		PE: 1.0, PI: 0.0,
		Gain: 1.0, Thresh: 4.0,
	}
}

func (w *WilsonCowan) sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-w.Gain*(x-w.Thresh)))
}

// Derive is the flow field over (E, I).
func (w *WilsonCowan) Derive(x []float64) []float64 {
	e, i := x[0], x[1]
	de := (-e + w.sigmoid(w.WEE*e-w.WEI*i+w.PE)) / w.TauE
	di := (-i + w.sigmoid(w.WIE*e-w.WII*i+w.PI)) / w.TauI
	return []float64{de, di}
}

// FixedPoint finds a fixed point by damped iteration from x0.
func (w *WilsonCowan) FixedPoint(x0 []float64) ([]float64, error) {
	const (
		damping  = 0.2
		maxIter  = 20000
		tol      = 1e-12
		stepSize = 1.0
	)
	x := append([]float64(nil), x0...)
	for iter := 0; iter < maxIter; iter++ {
		d := w.Derive(x)
		norm := 0.0
		for i := range x {
			x[i] += damping * stepSize * d[i]
			norm += d[i] * d[i]
		}
		if norm < tol*tol {
			return x, nil
		}
	}
	return nil, ErrNoConvergence
}

// Stability classifies the fixed point via the Jacobian spectrum.
func (w *WilsonCowan) Stability(fp []float64) (Verdict, bool, error) {
	j := Jacobian(w.Derive, fp, 1e-6)
	eigs, err := Eigenvalues(j)
	if err != nil {
		return "", false, err
	}
	v, osc := Classify(eigs)
	return v, osc, nil
}

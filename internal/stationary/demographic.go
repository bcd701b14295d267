package stationary

import (
	"math"

	"github.com/isottongloria/LivingSysPhys/internal/logistic"
)

// gridPoints controls the resolution of the numerical normalization and
// CDF integration for the demographic law.
const gridPoints = 4000

// Demographic is the stationary law of the sub-linear multiplicative
// regime. It is not a named distribution; the density is the closed-form
// power-law-times-exponential
//
//	p(n) = C · n^(-1) · exp((2r/σ²)(n − n²/(2K)))
//
// normalized numerically on [nMin, nMax]. The lower support edge
// nMin = σ²·dt is the population below which a single one-sigma noise kick
// of the discretized process reaches zero, so mass below it is absorbed
// rather than stationary.
type Demographic struct {
	R, K, Sigma float64
	nMin, nMax  float64
	logShift    float64
	norm        float64
}

func NewDemographic(cfg logistic.Config) *Demographic {
	d := &Demographic{
		R:     cfg.R,
		K:     cfg.K,
		Sigma: cfg.Sigma,
		nMin:  cfg.Sigma * cfg.Sigma * cfg.Dt,
		nMax:  4 * cfg.K,
	}
	if d.nMin <= 0 {
		d.nMin = 1e-9 * cfg.K
	}

	// The log density reaches rK/σ² at the mode, past what Exp can hold
	// for weak noise, so shift by the grid maximum before exponentiating
	// and fold the shift into the normalization constant.
	d.logShift = d.logUnnormalized(d.nMin)
	h := (d.nMax - d.nMin) / gridPoints
	for i := 1; i <= gridPoints; i++ {
		if l := d.logUnnormalized(d.nMin + float64(i)*h); l > d.logShift {
			d.logShift = l
		}
	}

	d.norm = 1
	d.norm = 1 / d.integrate(d.nMax)
	return d
}

// Support returns the interval the density is normalized on.
func (d *Demographic) Support() (lo, hi float64) { return d.nMin, d.nMax }

func (d *Demographic) logUnnormalized(n float64) float64 {
	c := 2 * d.R / (d.Sigma * d.Sigma)
	return c*(n-n*n/(2*d.K)) - math.Log(n)
}

func (d *Demographic) unnormalized(n float64) float64 {
	if n < d.nMin || n > d.nMax {
		return 0
	}
	return math.Exp(d.logUnnormalized(n) - d.logShift)
}

// integrate computes the trapezoidal integral of the density from the
// lower support edge to x.
func (d *Demographic) integrate(x float64) float64 {
	if x <= d.nMin {
		return 0
	}
	if x > d.nMax {
		x = d.nMax
	}
	h := (x - d.nMin) / gridPoints
	sum := (d.unnormalized(d.nMin) + d.unnormalized(x)) / 2
	for i := 1; i < gridPoints; i++ {
		sum += d.unnormalized(d.nMin + float64(i)*h)
	}
	return sum * h * d.norm
}

func (d *Demographic) Prob(x float64) float64 {
	return d.unnormalized(x) * d.norm
}

func (d *Demographic) CDF(x float64) float64 {
	if x >= d.nMax {
		return 1
	}
	return d.integrate(x)
}

// Mean computes the first moment of the normalized density.
func (d *Demographic) Mean() float64 {
	h := (d.nMax - d.nMin) / gridPoints
	sum := (d.nMin*d.unnormalized(d.nMin) + d.nMax*d.unnormalized(d.nMax)) / 2
	for i := 1; i < gridPoints; i++ {
		n := d.nMin + float64(i)*h
		sum += n * d.unnormalized(n)
	}
	return sum * h * d.norm
}

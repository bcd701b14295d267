package stationary

import (
	"math"
	"sort"

	"github.com/isottongloria/LivingSysPhys/internal/logistic"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	fitAlpha    = 0.05
	fitBins     = 30
	minExpected = 5.0 // bins with a smaller expected count are merged
)

// FitResult measures agreement between an empirical snapshot and a
// theoretical stationary law. The KS statistic is the primary figure; the
// chi-squared test gives an accept/reject at alpha = 0.05.
type FitResult struct {
	KS            float64
	Chi2          float64
	Chi2Critical  float64
	DegreesOfFree int
	Accepted      bool
	TheoryMean    float64
	SampleMean    float64
	SampleVar     float64
}

// Fit compares the snapshot against the stationary law of its own config.
// It is a pure function of the snapshot: calling it twice yields the same
// result.
func Fit(snap *logistic.Snapshot) (FitResult, error) {
	if len(snap.Samples) == 0 {
		return FitResult{}, logistic.ErrEmptySnapshot
	}
	law, err := ForConfig(snap.Config)
	if err != nil {
		return FitResult{}, err
	}
	return FitAgainst(snap, law), nil
}

// FitAgainst compares the snapshot against an explicit law.
func FitAgainst(snap *logistic.Snapshot, law Law) FitResult {
	sorted := make([]float64, len(snap.Samples))
	copy(sorted, snap.Samples)
	sort.Float64s(sorted)

	res := FitResult{KS: ksStatistic(sorted, law)}
	res.Chi2, res.DegreesOfFree = chiSquared(sorted, law)
	if res.DegreesOfFree > 0 {
		res.Chi2Critical = distuv.ChiSquared{K: float64(res.DegreesOfFree)}.Quantile(1 - fitAlpha)
		res.Accepted = res.Chi2 <= res.Chi2Critical
	}

	res.SampleMean, res.SampleVar = snap.MeanVariance()
	switch l := law.(type) {
	case distuv.Gamma:
		res.TheoryMean = l.Mean()
	case *Demographic:
		res.TheoryMean = l.Mean()
	}
	return res
}

// ksStatistic computes the two-sided Kolmogorov-Smirnov distance between
// the empirical CDF of sorted samples and the law's CDF.
func ksStatistic(sorted []float64, law Law) float64 {
	n := float64(len(sorted))
	d := 0.0
	for i, x := range sorted {
		cdf := law.CDF(x)
		upper := math.Abs(float64(i+1)/n - cdf)
		lower := math.Abs(float64(i)/n - cdf)
		if upper > d {
			d = upper
		}
		if lower > d {
			d = lower
		}
	}
	return d
}

// chiSquared bins the samples and accumulates (observed-expected)^2/expected
// against the expected counts implied by the law, merging sparse tail bins.
func chiSquared(sorted []float64, law Law) (chi2 float64, df int) {
	n := len(sorted)
	if n < 2 {
		return 0, 0
	}
	max := sorted[n-1]
	if max <= 0 {
		return 0, 0
	}
	width := max / fitBins

	used := 0
	var obsAcc, expAcc float64
	idx := 0
	for b := 0; b < fitBins; b++ {
		lo := float64(b) * width
		hi := lo + width
		if b == fitBins-1 {
			hi = max
		}

		observed := 0.0
		for idx < n && (sorted[idx] <= hi || b == fitBins-1) {
			observed++
			idx++
		}
		expected := float64(n) * (law.CDF(hi) - law.CDF(lo))

		obsAcc += observed
		expAcc += expected
		if expAcc < minExpected && b < fitBins-1 {
			continue
		}
		if expAcc > 0 {
			diff := obsAcc - expAcc
			chi2 += diff * diff / expAcc
			used++
		}
		obsAcc, expAcc = 0, 0
	}

	if used < 2 {
		return chi2, 0
	}
	return chi2, used - 1
}

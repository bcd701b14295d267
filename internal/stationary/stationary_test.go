package stationary

import (
	"context"
	"math"
	"testing"

	"github.com/isottongloria/LivingSysPhys/internal/logistic"
	. "github.com/onsi/gomega"
	exprand "golang.org/x/exp/rand"
)

func envConfig() logistic.Config {
	return logistic.Config{
		Regime: logistic.Environmental,
		R:      1.0, K: 100.0, Sigma: 0.2,
		Dt: 0.01, Steps: 5000, Trajectories: 2000, N0: 50,
	}
}

func demConfig() logistic.Config {
	cfg := envConfig()
	cfg.Regime = logistic.Demographic
	cfg.Sigma = 1.0
	return cfg
}

func TestGammaParameters(t *testing.T) {
	g := NewWithT(t)

	gamma := Gamma(envConfig())
	// shape 2r/sigma^2 = 50, rate 2r/(sigma^2 K) = 0.5
	g.Expect(gamma.Alpha).To(BeNumerically("~", 50.0, 1e-12))
	g.Expect(gamma.Beta).To(BeNumerically("~", 0.5, 1e-12))
	// mean K, variance sigma^2 K^2 / (2r)
	g.Expect(gamma.Mean()).To(BeNumerically("~", 100.0, 1e-9))
	g.Expect(gamma.Variance()).To(BeNumerically("~", 200.0, 1e-9))
}

func TestForConfig(t *testing.T) {
	g := NewWithT(t)

	law, err := ForConfig(envConfig())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(law).NotTo(BeNil())

	law, err = ForConfig(demConfig())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(law).NotTo(BeNil())

	bad := envConfig()
	bad.Regime = "thermal"
	_, err = ForConfig(bad)
	g.Expect(err).To(MatchError(logistic.ErrUnknownRegime))
}

func TestDemographicNormalization(t *testing.T) {
	g := NewWithT(t)

	d := NewDemographic(demConfig())
	lo, hi := d.Support()
	g.Expect(lo).To(BeNumerically(">", 0))
	g.Expect(hi).To(BeNumerically(">", lo))

	g.Expect(d.CDF(lo)).To(BeNumerically("~", 0.0, 1e-9))
	g.Expect(d.CDF(hi)).To(BeNumerically("~", 1.0, 1e-6))

	// CDF is monotone
	prev := 0.0
	for x := lo; x <= hi; x += (hi - lo) / 50 {
		c := d.CDF(x)
		g.Expect(c).To(BeNumerically(">=", prev-1e-9))
		prev = c
	}

	// density is non-negative and peaks near the carrying capacity
	g.Expect(d.Prob(50)).To(BeNumerically(">=", 0))
	g.Expect(d.Prob(100)).To(BeNumerically(">", d.Prob(20)))

	// mean close to K for this noise level
	g.Expect(d.Mean()).To(BeNumerically("~", 100.0, 10.0))
}

func TestDemographicWeakNoiseFinite(t *testing.T) {
	g := NewWithT(t)

	// sigma=0.2 puts the peak log density near rK/sigma^2 = 2500; the
	// law must stay finite there, not overflow during normalization
	cfg := demConfig()
	cfg.Sigma = 0.2

	d := NewDemographic(cfg)
	lo, hi := d.Support()

	p := d.Prob(cfg.K)
	g.Expect(math.IsNaN(p)).To(BeFalse())
	g.Expect(math.IsInf(p, 0)).To(BeFalse())
	g.Expect(p).To(BeNumerically(">", 0))

	g.Expect(d.CDF(lo)).To(BeNumerically("~", 0.0, 1e-9))
	g.Expect(d.CDF(hi)).To(BeNumerically("~", 1.0, 1e-6))
	g.Expect(d.CDF(cfg.K)).To(BeNumerically(">", 0.3))
	g.Expect(d.CDF(cfg.K)).To(BeNumerically("<", 0.7))

	// weak noise concentrates the law tightly around K
	g.Expect(d.Mean()).To(BeNumerically("~", 100.0, 3.0))
}

func TestDemographicEnsembleMatchesLaw(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping ensemble simulation in short mode")
	}
	g := NewWithT(t)

	cfg := demConfig()
	cfg.Seed = 9

	sim, err := logistic.New(cfg)
	g.Expect(err).NotTo(HaveOccurred())
	snap, err := sim.RunEnsemble(context.Background())
	g.Expect(err).NotTo(HaveOccurred())

	fit, err := Fit(snap)
	g.Expect(err).NotTo(HaveOccurred())

	d := NewDemographic(cfg)
	mean, _ := snap.MeanVariance()
	g.Expect(mean).To(BeNumerically("~", d.Mean(), 2.0))
	g.Expect(fit.KS).To(BeNumerically("<", 0.1))
	g.Expect(fit.TheoryMean).To(BeNumerically("~", d.Mean(), 1e-9))
}

func gammaSnapshot(cfg logistic.Config, n int, seed uint64) *logistic.Snapshot {
	gamma := Gamma(cfg)
	gamma.Src = exprand.NewSource(seed)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = gamma.Rand()
	}
	return &logistic.Snapshot{Samples: samples, Config: cfg}
}

func TestFitAcceptsOwnLaw(t *testing.T) {
	g := NewWithT(t)

	snap := gammaSnapshot(envConfig(), 2000, 7)
	fit, err := Fit(snap)
	g.Expect(err).NotTo(HaveOccurred())

	// samples drawn from the law itself: KS small, chi2 unexceptional
	g.Expect(fit.KS).To(BeNumerically("<", 0.06))
	g.Expect(fit.DegreesOfFree).To(BeNumerically(">", 1))
	g.Expect(fit.Chi2).To(BeNumerically("<", 2*fit.Chi2Critical))
	g.Expect(fit.TheoryMean).To(BeNumerically("~", 100.0, 1e-9))
}

func TestFitRejectsWrongLaw(t *testing.T) {
	g := NewWithT(t)

	// samples from K=100 compared against the K=60 law
	snap := gammaSnapshot(envConfig(), 2000, 7)
	wrong := envConfig()
	wrong.K = 60
	law, err := ForConfig(wrong)
	g.Expect(err).NotTo(HaveOccurred())

	fit := FitAgainst(snap, law)
	g.Expect(fit.KS).To(BeNumerically(">", 0.2))
	g.Expect(fit.Accepted).To(BeFalse())
}

func TestFitIdempotent(t *testing.T) {
	g := NewWithT(t)

	snap := gammaSnapshot(envConfig(), 500, 11)
	first, err := Fit(snap)
	g.Expect(err).NotTo(HaveOccurred())
	second, err := Fit(snap)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(second).To(Equal(first))
}

func TestFitEmptySnapshot(t *testing.T) {
	g := NewWithT(t)

	_, err := Fit(&logistic.Snapshot{Config: envConfig()})
	g.Expect(err).To(MatchError(logistic.ErrEmptySnapshot))
}

func TestKSStatisticBounds(t *testing.T) {
	snap := gammaSnapshot(envConfig(), 300, 3)
	fit, err := Fit(snap)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if fit.KS < 0 || fit.KS > 1 || math.IsNaN(fit.KS) {
		t.Errorf("ks statistic out of [0,1]: %f", fit.KS)
	}
}

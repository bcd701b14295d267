package spikes_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/isottongloria/LivingSysPhys/internal/spikes"
)

var _ = Describe("Homogeneous", func() {
	It("rejects non-positive rates and durations", func() {
		_, err := spikes.Homogeneous(0, 10, 1)
		Expect(err).To(MatchError(spikes.ErrBadRate))

		_, err = spikes.Homogeneous(-5, 10, 1)
		Expect(err).To(MatchError(spikes.ErrBadRate))

		_, err = spikes.Homogeneous(20, 0, 1)
		Expect(err).To(MatchError(spikes.ErrBadDuration))
	})

	It("is deterministic for a fixed seed", func() {
		a, err := spikes.Homogeneous(20, 10, 42)
		Expect(err).NotTo(HaveOccurred())
		b, err := spikes.Homogeneous(20, 10, 42)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Times).To(Equal(b.Times))

		c, err := spikes.Homogeneous(20, 10, 43)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Times).NotTo(Equal(a.Times))
	})

	It("keeps spike times ordered inside the window", func() {
		tr, err := spikes.Homogeneous(20, 10, 7)
		Expect(err).NotTo(HaveOccurred())
		for i, t := range tr.Times {
			Expect(t).To(BeNumerically(">", 0))
			Expect(t).To(BeNumerically("<", tr.Duration))
			if i > 0 {
				Expect(t).To(BeNumerically(">", tr.Times[i-1]))
			}
		}
	})

	It("recovers the nominal rate over a long window", func() {
		// rate 20 over T=100: standard error sqrt(20/100) ~ 0.45
		tr, err := spikes.Homogeneous(20, 100, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.MeanRate()).To(BeNumerically("~", 20, 1.5))
	})

	It("has ISI coefficient of variation near one", func() {
		tr, err := spikes.Homogeneous(50, 200, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.CV()).To(BeNumerically("~", 1, 0.1))
	})

	It("has Fano factor near one", func() {
		tr, err := spikes.Homogeneous(20, 500, 9)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.FanoFactor(1.0)).To(BeNumerically("~", 1, 0.25))
	})
})

var _ = Describe("Inhomogeneous", func() {
	sinusoid := func(base, depth, freq float64) spikes.RateFunc {
		return func(t float64) float64 {
			return base * (1 + depth*math.Sin(2*math.Pi*freq*t))
		}
	}

	It("rejects a rate function exceeding its bound", func() {
		_, err := spikes.Inhomogeneous(sinusoid(20, 0.5, 1), 25, 10, 1)
		Expect(err).To(MatchError(spikes.ErrRateBound))
	})

	It("recovers the cycle-averaged rate", func() {
		// <lambda> = 20 regardless of modulation depth
		tr, err := spikes.Inhomogeneous(sinusoid(20, 0.5, 1), 30, 200, 13)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.MeanRate()).To(BeNumerically("~", 20, 1.5))
	})

	It("reduces to the homogeneous process for a flat rate", func() {
		flat := func(float64) float64 { return 15.0 }
		tr, err := spikes.Inhomogeneous(flat, 15, 300, 17)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.MeanRate()).To(BeNumerically("~", 15, 1))
		Expect(tr.CV()).To(BeNumerically("~", 1, 0.1))
	})

	It("concentrates spiking where the rate is high", func() {
		// rate is zero on the second half of the window
		gate := func(t float64) float64 {
			if t < 50 {
				return 30.0
			}
			return 0.0
		}
		tr, err := spikes.Inhomogeneous(gate, 30, 100, 19)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Count()).To(BeNumerically(">", 0))
		for _, t := range tr.Times {
			Expect(t).To(BeNumerically("<", 50))
		}
	})
})

var _ = Describe("Train statistics", func() {
	It("returns no intervals for fewer than two spikes", func() {
		tr := spikes.Train{Times: []float64{1.0}, Duration: 10}
		Expect(tr.ISI()).To(BeNil())
		Expect(math.IsNaN(tr.CV())).To(BeTrue())
	})

	It("computes intervals between consecutive spikes", func() {
		tr := spikes.Train{Times: []float64{1, 2.5, 3}, Duration: 10}
		Expect(tr.ISI()).To(Equal([]float64{1.5, 0.5}))
	})

	It("rejects degenerate Fano windows", func() {
		tr := spikes.Train{Times: []float64{1, 2}, Duration: 10}
		Expect(math.IsNaN(tr.FanoFactor(0))).To(BeTrue())
		Expect(math.IsNaN(tr.FanoFactor(8))).To(BeTrue())
	})
})

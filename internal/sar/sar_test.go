package sar

import (
	"math"
	"testing"
)

func TestValidation(t *testing.T) {
	if _, err := FitLogLog([]Sample{{Area: 10, Species: 5}}); err == nil {
		t.Error("expected error for a single sample")
	}
	if _, err := FitLogLog([]Sample{{Area: 10, Species: 5}, {Area: -1, Species: 3}}); err == nil {
		t.Error("expected error for non-positive area")
	}
	if _, err := FitBisection([]Sample{{Area: 10, Species: 5}, {Area: 20, Species: 0}}); err == nil {
		t.Error("expected error for non-positive species count")
	}
}

func TestFitLogLogExact(t *testing.T) {
	// noiseless power law: both parameters recovered exactly
	truth := Fit{C: 3.0, Z: 0.25}
	var samples []Sample
	for _, a := range []float64{10, 100, 1000, 10000} {
		samples = append(samples, Sample{Area: a, Species: truth.Predict(a)})
	}

	fit, err := FitLogLog(samples)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if math.Abs(fit.Z-truth.Z) > 1e-10 {
		t.Errorf("z = %f, want %f", fit.Z, truth.Z)
	}
	if math.Abs(fit.C-truth.C) > 1e-8 {
		t.Errorf("c = %f, want %f", fit.C, truth.C)
	}
}

func TestFitBisectionExact(t *testing.T) {
	truth := Fit{C: 2.0, Z: 0.3}
	var samples []Sample
	for _, a := range []float64{10, 100, 1000, 10000} {
		samples = append(samples, Sample{Area: a, Species: truth.Predict(a)})
	}

	fit, err := FitBisection(samples)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if math.Abs(fit.Z-truth.Z) > 1e-6 {
		t.Errorf("z = %f, want %f", fit.Z, truth.Z)
	}
	if math.Abs(fit.C-truth.C) > 1e-4 {
		t.Errorf("c = %f, want %f", fit.C, truth.C)
	}
}

func TestFittersAgreeOnScatteredData(t *testing.T) {
	samples := Synthetic(3.0, 0.25, 0.05, 60, 21)

	logFit, err := FitLogLog(samples)
	if err != nil {
		t.Fatalf("log-log fit failed: %v", err)
	}
	bisFit, err := FitBisection(samples)
	if err != nil {
		t.Fatalf("bisection fit failed: %v", err)
	}

	if math.Abs(logFit.Z-0.25) > 0.05 {
		t.Errorf("log-log z = %f, want near 0.25", logFit.Z)
	}
	if math.Abs(bisFit.Z-0.25) > 0.05 {
		t.Errorf("bisection z = %f, want near 0.25", bisFit.Z)
	}
	if math.Abs(logFit.Z-bisFit.Z) > 0.1 {
		t.Errorf("fitters disagree: %f vs %f", logFit.Z, bisFit.Z)
	}
}

func TestSyntheticDeterminism(t *testing.T) {
	a := Synthetic(3, 0.25, 0.1, 20, 5)
	b := Synthetic(3, 0.25, 0.1, 20, 5)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs for same seed: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestPredict(t *testing.T) {
	f := Fit{C: 2, Z: 0.5}
	if got := f.Predict(100); math.Abs(got-20) > 1e-12 {
		t.Errorf("predict(100) = %f, want 20", got)
	}
}

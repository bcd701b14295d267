package storage

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/isottongloria/LivingSysPhys/internal/logistic"
)

func testSnapshot() *logistic.Snapshot {
	cfg := logistic.DefaultConfig()
	cfg.Seed = 7
	return &logistic.Snapshot{
		Samples: []float64{98.2, 101.5, 95.0, 110.3},
		Extinct: 1,
		Config:  cfg,
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	snap := testSnapshot()
	fit := map[string]float64{"ks": 0.03, "chi2": 21.4}
	runID, err := store.Save(snap, fit)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "environmental_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.ID != runID || meta.Regime != "environmental" {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.Seed != 7 || meta.Extinct != 1 {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.Fit["ks"] != 0.03 {
		t.Errorf("fit figures not preserved: %v", meta.Fit)
	}

	rebuilt := meta.Config()
	if rebuilt != snap.Config {
		t.Errorf("config round trip mismatch:\n got %+v\nwant %+v", rebuilt, snap.Config)
	}
}

func TestSaveDistinctIDs(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	// two immediate saves of the same regime must not share a run dir
	first, err := store.Save(testSnapshot(), nil)
	if err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	second, err := store.Save(testSnapshot(), nil)
	if err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	if first == second {
		t.Fatalf("consecutive saves reused run id %q", first)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestLoadSamples(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	snap := testSnapshot()
	runID, err := store.Save(snap, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	samples, err := store.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if len(samples) != len(snap.Samples) {
		t.Fatalf("expected %d samples, got %d", len(snap.Samples), len(samples))
	}
	for i := range samples {
		if samples[i] != snap.Samples[i] {
			t.Errorf("sample %d: got %f, want %f", i, samples[i], snap.Samples[i])
		}
	}
}

func TestTrajectoryRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := store.Save(testSnapshot(), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	traj := logistic.Trajectory{50, 52.1, 55.7, 60.3}
	if err := store.SaveTrajectory(runID, traj, 0.01); err != nil {
		t.Fatalf("save trajectory failed: %v", err)
	}

	loaded, err := store.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if len(loaded) != len(traj) {
		t.Fatalf("expected %d points, got %d", len(traj), len(loaded))
	}
	for i := range loaded {
		if loaded[i] != traj[i] {
			t.Errorf("point %d: got %f, want %f", i, loaded[i], traj[i])
		}
	}
}

func TestLoadTrajectory_Missing(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := store.Save(testSnapshot(), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := store.LoadTrajectory(runID); err == nil {
		t.Error("expected error when no trajectory was saved")
	}
}

func TestList(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list on empty store failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	if _, err := store.Save(testSnapshot(), nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = store.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestList_MissingBaseDir(t *testing.T) {
	store := New("/nonexistent/path/for/tests")
	runs, err := store.List()
	if err != nil {
		t.Fatalf("list should tolerate a missing base dir: %v", err)
	}
	if runs != nil {
		t.Errorf("expected nil, got %v", runs)
	}
}

func TestExportJSON(t *testing.T) {
	meta := &RunMetadata{
		ID:     "environmental_123",
		Regime: "environmental",
		R:      1, K: 100, Sigma: 0.2, Dt: 0.01,
		Steps: 5000, Trajectories: 4, N0: 50,
		Fit: map[string]float64{"ks": 0.02},
	}
	samples := []float64{98.2, 101.5}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, samples); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var out ExportData
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if out.ID != meta.ID || out.K != 100 {
		t.Errorf("export mismatch: %+v", out)
	}
	if len(out.Samples) != 2 || out.Samples[1] != 101.5 {
		t.Errorf("samples mismatch: %v", out.Samples)
	}
	if out.Fit["ks"] != 0.02 {
		t.Errorf("fit mismatch: %v", out.Fit)
	}
}

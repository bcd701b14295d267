package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/isottongloria/LivingSysPhys/internal/logistic"
)

// Store keeps one directory per ensemble run: metadata.json with the
// config and fit figures, samples.csv with the final-time populations,
// and optionally trajectory.csv with one full path.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Regime       string             `json:"regime"`
	Timestamp    time.Time          `json:"timestamp"`
	R            float64            `json:"r"`
	K            float64            `json:"k"`
	Sigma        float64            `json:"sigma"`
	Dt           float64            `json:"dt"`
	Steps        int                `json:"steps"`
	Trajectories int                `json:"trajectories"`
	Seed         int64              `json:"seed"`
	N0           float64            `json:"n0"`
	Extinct      int                `json:"extinct"`
	Invalid      int                `json:"invalid"`
	Degraded     bool               `json:"degraded"`
	Fit          map[string]float64 `json:"fit"`
}

func metaFromSnapshot(runID string, snap *logistic.Snapshot, fit map[string]float64) RunMetadata {
	cfg := snap.Config
	return RunMetadata{
		ID:           runID,
		Regime:       string(cfg.Regime),
		Timestamp:    time.Now(),
		R:            cfg.R,
		K:            cfg.K,
		Sigma:        cfg.Sigma,
		Dt:           cfg.Dt,
		Steps:        cfg.Steps,
		Trajectories: cfg.Trajectories,
		Seed:         cfg.Seed,
		N0:           cfg.N0,
		Extinct:      snap.Extinct,
		Invalid:      snap.Invalid,
		Degraded:     snap.Degraded(),
		Fit:          fit,
	}
}

// Config rebuilds the simulation config recorded in the metadata.
func (m RunMetadata) Config() logistic.Config {
	return logistic.Config{
		Regime:       logistic.Regime(m.Regime),
		R:            m.R,
		K:            m.K,
		Sigma:        m.Sigma,
		Dt:           m.Dt,
		Steps:        m.Steps,
		Trajectories: m.Trajectories,
		Seed:         m.Seed,
		N0:           m.N0,
	}
}

func (s *Store) Save(snap *logistic.Snapshot, fit map[string]float64) (string, error) {
	// nanoseconds so back-to-back runs of one regime never share an ID
	runID := fmt.Sprintf("%s_%d", snap.Config.Regime, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := metaFromSnapshot(runID, snap, fit)
	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"trajectory", "final_n"}); err != nil {
		return "", err
	}
	for i, v := range snap.Samples {
		row := []string{strconv.Itoa(i), strconv.FormatFloat(v, 'f', 6, 64)}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// SaveTrajectory writes one full path next to the run's samples.
func (s *Store) SaveTrajectory(runID string, traj logistic.Trajectory, dt float64) error {
	csvFile, err := os.Create(filepath.Join(s.baseDir, runID, "trajectory.csv"))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"time", "n"}); err != nil {
		return err
	}
	for i, v := range traj {
		row := []string{
			strconv.FormatFloat(float64(i)*dt, 'f', 6, 64),
			strconv.FormatFloat(v, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSamples reads back the final-time populations of a run.
func (s *Store) LoadSamples(runID string) ([]float64, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	samples := make([]float64, 0, len(records))
	for i, rec := range records {
		if i == 0 || len(rec) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("samples.csv row %d: %w", i, err)
		}
		samples = append(samples, v)
	}
	return samples, nil
}

// LoadTrajectory reads back a stored path, if one was saved.
func (s *Store) LoadTrajectory(runID string) (logistic.Trajectory, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "trajectory.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	traj := make(logistic.Trajectory, 0, len(records))
	for i, rec := range records {
		if i == 0 || len(rec) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("trajectory.csv row %d: %w", i, err)
		}
		traj = append(traj, v)
	}
	return traj, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

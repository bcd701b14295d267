package storage

import (
	"encoding/json"
	"io"
)

// ExportData is the JSON export shape for one run.
type ExportData struct {
	ID           string             `json:"id"`
	Regime       string             `json:"regime"`
	R            float64            `json:"r"`
	K            float64            `json:"k"`
	Sigma        float64            `json:"sigma"`
	Dt           float64            `json:"dt"`
	Steps        int                `json:"steps"`
	Trajectories int                `json:"trajectories"`
	Seed         int64              `json:"seed"`
	N0           float64            `json:"n0"`
	Samples      []float64          `json:"samples"`
	Fit          map[string]float64 `json:"fit"`
}

// ExportJSON writes a run's metadata and samples as a single JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, samples []float64) error {
	data := ExportData{
		ID:           meta.ID,
		Regime:       meta.Regime,
		R:            meta.R,
		K:            meta.K,
		Sigma:        meta.Sigma,
		Dt:           meta.Dt,
		Steps:        meta.Steps,
		Trajectories: meta.Trajectories,
		Seed:         meta.Seed,
		N0:           meta.N0,
		Samples:      samples,
		Fit:          meta.Fit,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

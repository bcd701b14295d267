package config

import "sort"

var Presets = map[string]*Config{
	// The canonical Gamma check: stationary mean K, variance sigma^2*K^2/(2r).
	"gamma-check": {
		Regime: "environmental", R: 1.0, K: 100.0, Sigma: 0.2,
		Dt: 0.01, Steps: 5000, Trajectories: 2000, N0: 50.0,
	},
	"demographic": {
		Regime: "demographic", R: 1.0, K: 100.0, Sigma: 1.0,
		Dt: 0.01, Steps: 5000, Trajectories: 2000, N0: 50.0,
	},
	// Strong environmental noise; extinction is the normal outcome.
	"extinction": {
		Regime: "environmental", R: 0.5, K: 100.0, Sigma: 1.2,
		Dt: 0.01, Steps: 10000, Trajectories: 500, N0: 20.0,
	},
	"quick": {
		Regime: "environmental", R: 1.0, K: 100.0, Sigma: 0.2,
		Dt: 0.01, Steps: 500, Trajectories: 200, N0: 50.0,
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

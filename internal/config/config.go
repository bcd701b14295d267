package config

import (
	"os"

	"github.com/isottongloria/LivingSysPhys/internal/logistic"
	"gopkg.in/yaml.v3"
)

const (
	DefaultR            = 1.0
	DefaultK            = 100.0
	DefaultSigma        = 0.2
	DefaultDt           = 0.01
	DefaultSteps        = 5000
	DefaultTrajectories = 1000
	DefaultN0           = 50.0
)

type Config struct {
	Regime       string  `yaml:"regime"`
	R            float64 `yaml:"r"`
	K            float64 `yaml:"k"`
	Sigma        float64 `yaml:"sigma"`
	Dt           float64 `yaml:"dt"`
	Steps        int     `yaml:"steps"`
	Trajectories int     `yaml:"trajectories"`
	Seed         int64   `yaml:"seed"`
	N0           float64 `yaml:"n0"`
}

func DefaultConfig() *Config {
	return &Config{
		Regime:       string(logistic.Environmental),
		R:            DefaultR,
		K:            DefaultK,
		Sigma:        DefaultSigma,
		Dt:           DefaultDt,
		Steps:        DefaultSteps,
		Trajectories: DefaultTrajectories,
		N0:           DefaultN0,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Logistic converts to the simulator config and validates it.
func (c *Config) Logistic() (logistic.Config, error) {
	cfg := logistic.Config{
		Regime:       logistic.Regime(c.Regime),
		R:            c.R,
		K:            c.K,
		Sigma:        c.Sigma,
		Dt:           c.Dt,
		Steps:        c.Steps,
		Trajectories: c.Trajectories,
		Seed:         c.Seed,
		N0:           c.N0,
	}
	return cfg, cfg.Validate()
}

package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSteps    = 2000
	DefaultStepSize = 0.1
	DefaultDim      = 2
	DefaultWarmup   = 0.2
	DefaultSeed     = 42
)

type Config struct {
	Target    string    `yaml:"target"`
	Dim       int       `yaml:"dim"`
	Steps     int       `yaml:"steps"`
	StepSizes []float64 `yaml:"step_sizes"`
	Thin      int       `yaml:"thin"`
	Seed      int64     `yaml:"seed"`
	Warmup    float64   `yaml:"warmup"`
	NoiseStd  float64   `yaml:"noise_std"`
	Rho       float64   `yaml:"rho"`
	InitState []float64 `yaml:"init_state"`
	Parallel  bool      `yaml:"parallel"`
}

func DefaultConfig() *Config {
	return &Config{
		Target:    "gaussian",
		Dim:       DefaultDim,
		Steps:     DefaultSteps,
		StepSizes: []float64{DefaultStepSize},
		Thin:      0,
		Seed:      DefaultSeed,
		Warmup:    DefaultWarmup,
		Rho:       0.5,
		Parallel:  true,
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

// GetInitState returns the configured starting point, padded or truncated
// to the configured dimension; missing entries default to zero.
func (c *Config) GetInitState() []float64 {
	x0 := make([]float64, c.Dim)
	for i := range x0 {
		if i < len(c.InitState) {
			x0[i] = c.InitState[i]
		}
	}
	return x0
}

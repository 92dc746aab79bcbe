package config

var Presets = map[string]map[string]*Config{
	"gaussian": {
		"quick": {
			Target: "gaussian", Dim: 1, Steps: 2000,
			StepSizes: []float64{0.1}, Warmup: 0.2,
			InitState: []float64{5.0},
		},
		"sweep": {
			Target: "gaussian", Dim: 2, Steps: 5000,
			StepSizes: []float64{0.01, 0.05, 0.1, 0.5, 1.0}, Warmup: 0.2,
			InitState: []float64{5.0, -5.0},
		},
		"highdim": {
			Target: "gaussian", Dim: 20, Steps: 10000,
			StepSizes: []float64{0.05}, Warmup: 0.25, Thin: 5,
		},
	},
	"correlated": {
		"mild": {
			Target: "correlated", Dim: 5, Steps: 5000,
			StepSizes: []float64{0.1}, Warmup: 0.2, Rho: 0.3,
		},
		"strong": {
			Target: "correlated", Dim: 5, Steps: 10000,
			StepSizes: []float64{0.05}, Warmup: 0.25, Rho: 0.49,
		},
	},
	"doublewell": {
		"bimodal": {
			Target: "doublewell", Dim: 1, Steps: 20000,
			StepSizes: []float64{0.2}, Warmup: 0.1,
			InitState: []float64{1.0},
		},
		"noisy": {
			Target: "doublewell", Dim: 1, Steps: 20000,
			StepSizes: []float64{0.2}, Warmup: 0.1, NoiseStd: 0.5,
			InitState: []float64{1.0},
		},
	},
	"rosenbrock": {
		"banana": {
			Target: "rosenbrock", Dim: 2, Steps: 20000,
			StepSizes: []float64{0.05}, Warmup: 0.2, Thin: 2,
			InitState: []float64{1.0, 1.0},
		},
	},
}

func GetPreset(target, name string) *Config {
	group, ok := Presets[target]
	if !ok {
		return nil
	}
	cfg, ok := group[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(target string) []string {
	group, ok := Presets[target]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	return names
}

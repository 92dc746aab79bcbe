package experiment

import (
	"fmt"
	"sort"

	"github.com/simedcn/Langevin-GJI-2020/internal/config"
	"github.com/simedcn/Langevin-GJI-2020/internal/metrics"
	"github.com/simedcn/Langevin-GJI-2020/internal/sampler"
	"github.com/simedcn/Langevin-GJI-2020/internal/targets"
)

type Registry struct {
	targets map[string]func(cfg *config.Config) sampler.Oracle
}

func NewRegistry() *Registry {
	r := &Registry{
		targets: make(map[string]func(cfg *config.Config) sampler.Oracle),
	}

	r.targets["gaussian"] = func(cfg *config.Config) sampler.Oracle {
		return targets.NewGaussian(cfg.Dim)
	}
	r.targets["correlated"] = func(cfg *config.Config) sampler.Oracle {
		return targets.NewCorrelatedGaussian(cfg.Dim, cfg.Rho)
	}
	r.targets["doublewell"] = func(cfg *config.Config) sampler.Oracle {
		return targets.NewDoubleWell(cfg.Dim)
	}
	r.targets["rosenbrock"] = func(cfg *config.Config) sampler.Oracle {
		return targets.NewRosenbrock()
	}

	return r
}

// GetTarget builds the named oracle; a non-zero NoiseStd wraps it in a
// stochastic-gradient layer seeded from the run seed.
func (r *Registry) GetTarget(name string, cfg *config.Config) (sampler.Oracle, error) {
	fn, ok := r.targets[name]
	if !ok {
		return nil, fmt.Errorf("unknown target: %s", name)
	}
	oracle := fn(cfg)
	if cfg.NoiseStd > 0 {
		oracle = targets.NewNoisy(oracle, cfg.NoiseStd, cfg.Seed)
	}
	return oracle, nil
}

func (r *Registry) ListTargets() []string {
	names := make([]string, 0, len(r.targets))
	for name := range r.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics is the standard instrumentation attached to CLI runs.
func (r *Registry) DefaultMetrics() []metrics.Metric {
	return []metrics.Metric{
		metrics.NewMeanStepSize(),
		metrics.NewJumpDistance(),
	}
}

package experiment

import (
	"context"
	"fmt"

	"github.com/simedcn/Langevin-GJI-2020/internal/config"
	"github.com/simedcn/Langevin-GJI-2020/internal/metrics"
	"github.com/simedcn/Langevin-GJI-2020/internal/sampler"
)

// Experiment binds a configuration, an oracle, and instrumentation into a
// single runnable sampling job.
type Experiment struct {
	cfg     *config.Config
	smp     *sampler.Sampler
	metrics []metrics.Metric
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(oracle sampler.Oracle, ms []metrics.Metric) error {
	if oracle == nil {
		return fmt.Errorf("experiment: nil oracle")
	}
	e.smp = sampler.New(oracle)
	e.metrics = ms
	for _, m := range ms {
		e.smp.AddObserver(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sampler.Result, error) {
	if e.smp == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	for _, m := range e.metrics {
		m.Reset()
	}

	x0 := sampler.State(e.cfg.GetInitState())
	cfg := sampler.Config{
		Steps:     e.cfg.Steps,
		StepSizes: e.cfg.StepSizes,
		Thin:      e.cfg.Thin,
		Seed:      e.cfg.Seed,
	}

	if e.cfg.Parallel {
		return e.smp.RunParallel(ctx, x0, cfg)
	}
	return e.smp.Run(ctx, x0, cfg)
}

// MetricValues collects the configured metric values by name.
func (e *Experiment) MetricValues() map[string]float64 {
	out := make(map[string]float64, len(e.metrics))
	for _, m := range e.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// GetSampler returns the underlying sampler for adding observers
func (e *Experiment) GetSampler() *sampler.Sampler {
	return e.smp
}

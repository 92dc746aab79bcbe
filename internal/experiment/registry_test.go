package experiment

import (
	"context"
	"sort"
	"testing"

	"github.com/simedcn/Langevin-GJI-2020/internal/config"
	"github.com/simedcn/Langevin-GJI-2020/internal/targets"
)

func TestRegistryGetTarget(t *testing.T) {
	r := NewRegistry()
	cfg := config.DefaultConfig()

	for _, name := range []string{"gaussian", "correlated", "doublewell", "rosenbrock"} {
		oracle, err := r.GetTarget(name, cfg)
		if err != nil {
			t.Errorf("%s: %v", name, err)
		}
		if oracle == nil {
			t.Errorf("%s: nil oracle", name)
		}
	}

	if _, err := r.GetTarget("unknown", cfg); err == nil {
		t.Error("expected error for unknown target")
	}
}

func TestRegistryNoisyWrap(t *testing.T) {
	r := NewRegistry()
	cfg := config.DefaultConfig()
	cfg.NoiseStd = 0.5

	oracle, err := r.GetTarget("gaussian", cfg)
	if err != nil {
		t.Fatalf("get target failed: %v", err)
	}
	if _, ok := oracle.(*targets.Noisy); !ok {
		t.Errorf("expected noisy wrapper, got %T", oracle)
	}
}

func TestRegistryListTargets(t *testing.T) {
	names := NewRegistry().ListTargets()
	if len(names) != 4 {
		t.Errorf("expected 4 targets, got %d", len(names))
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("expected sorted names, got %v", names)
	}
}

func TestExperimentNotSetup(t *testing.T) {
	exp := New(config.DefaultConfig())
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error before setup")
	}
}

func TestExperimentRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dim = 1
	cfg.Steps = 100
	cfg.StepSizes = []float64{0.1}
	cfg.InitState = []float64{2}
	cfg.Parallel = false

	r := NewRegistry()
	oracle, err := r.GetTarget("gaussian", cfg)
	if err != nil {
		t.Fatalf("get target failed: %v", err)
	}

	exp := New(cfg)
	if err := exp.Setup(oracle, r.DefaultMetrics()); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(res.Chains) != 1 {
		t.Fatalf("expected 1 chain, got %d", len(res.Chains))
	}

	vals := exp.MetricValues()
	if _, ok := vals["mean_step_size"]; !ok {
		t.Error("expected mean_step_size metric")
	}
	if _, ok := vals["mean_sq_jump"]; !ok {
		t.Error("expected mean_sq_jump metric")
	}
	if vals["mean_step_size"] <= 0 {
		t.Errorf("expected positive mean step size, got %f", vals["mean_step_size"])
	}
}

package sampler

import (
	"context"
	"testing"
)

func TestFinalizeStride(t *testing.T) {
	s := New(&flat{dim: 1})
	cfg := Config{Steps: 10, StepSizes: []float64{0.1}, Seed: 1}

	full, err := s.Run(context.Background(), State{0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	cfg.Thin = 3
	thinned, err := New(&flat{dim: 1}).Run(context.Background(), State{0}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// ceil(10/3) = 4 rows, starting from the first recorded step.
	if got := len(thinned.Chains[0].States); got != 4 {
		t.Fatalf("expected 4 thinned steps, got %d", got)
	}
	if thinned.Steps != 4 {
		t.Errorf("result steps not updated, got %d", thinned.Steps)
	}

	for i, k := range []int{0, 3, 6, 9} {
		if thinned.Chains[0].States[i][0] != full.Chains[0].States[k][0] {
			t.Errorf("thinned row %d does not match full step %d", i, k)
		}
	}
}

func TestFinalizeNoop(t *testing.T) {
	res := &Result{
		Chains: []*Chain{{States: zeroMatrix(5, 1), Grads: zeroMatrix(5, 1)}},
		Dim:    1,
		Steps:  5,
	}

	Finalize(res, 0)
	if len(res.Chains[0].States) != 5 {
		t.Errorf("stride 0 should keep all steps, got %d", len(res.Chains[0].States))
	}

	Finalize(res, 1)
	if len(res.Chains[0].States) != 5 {
		t.Errorf("stride 1 should keep all steps, got %d", len(res.Chains[0].States))
	}
}

func TestFinalizeKeepsSentinels(t *testing.T) {
	s := New(&divergent{dim: 1})
	cfg := Config{Steps: 9, StepSizes: []float64{0.1}, Thin: 2, Seed: 1}

	res, err := s.Run(context.Background(), State{1}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if got := len(res.Chains[0].States); got != 5 {
		t.Fatalf("expected ceil(9/2)=5 steps, got %d", got)
	}
	for k, x := range res.Chains[0].States {
		if x[0] != 0 {
			t.Errorf("expected zero sentinel at thinned step %d, got %f", k, x[0])
		}
	}
}

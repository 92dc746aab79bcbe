package analysis

import (
	"math"
	"testing"

	"github.com/simedcn/Langevin-GJI-2020/internal/sampler"
)

func TestMoments(t *testing.T) {
	states := []sampler.State{{1, 10}, {2, 20}, {3, 30}}

	mean, variance := Moments(states, 0)

	if math.Abs(mean[0]-2) > 1e-12 || math.Abs(mean[1]-20) > 1e-12 {
		t.Errorf("unexpected mean %v", mean)
	}
	if math.Abs(variance[0]-1) > 1e-12 || math.Abs(variance[1]-100) > 1e-12 {
		t.Errorf("unexpected variance %v", variance)
	}
}

func TestMomentsWarmup(t *testing.T) {
	// First half is far from the rest; a 50% warmup must discard it.
	states := []sampler.State{{100}, {100}, {1}, {3}}

	mean, _ := Moments(states, 0.5)
	if math.Abs(mean[0]-2) > 1e-12 {
		t.Errorf("expected warm-up discard to leave mean 2, got %f", mean[0])
	}
}

func TestMomentsEmpty(t *testing.T) {
	mean, variance := Moments(nil, 0.2)
	if mean != nil || variance != nil {
		t.Error("expected nil moments for empty trajectory")
	}
}

func TestStdDev(t *testing.T) {
	states := []sampler.State{{1}, {2}, {3}}
	sd := StdDev(states, 0)
	if math.Abs(sd[0]-1) > 1e-12 {
		t.Errorf("expected stddev 1, got %f", sd[0])
	}
}

func TestMeanSquaredJump(t *testing.T) {
	states := []sampler.State{{0}, {2}, {2}}

	// Jumps are 2 then 0: mean of squares is 2.
	if got := MeanSquaredJump(states); math.Abs(got-2) > 1e-12 {
		t.Errorf("expected 2, got %f", got)
	}

	if got := MeanSquaredJump(states[:1]); got != 0 {
		t.Errorf("expected 0 for a single state, got %f", got)
	}
}

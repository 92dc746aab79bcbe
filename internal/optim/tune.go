package optim

import (
	"context"
	"math"

	"github.com/simedcn/Langevin-GJI-2020/internal/sampler"
)

// TargetAcceptance is the optimal-scaling acceptance rate for
// Langevin-type proposals (Roberts & Rosenthal), in percent.
const TargetAcceptance = 57.4

type SweepResult struct {
	Tau        float64
	AcceptRate float64
	Diverged   bool
}

// TuneStepSize runs one short pilot chain per candidate step length and
// returns the candidate whose acceptance rate lands closest to
// TargetAcceptance, together with the full sweep. Diverged pilots are
// scored but never win.
func TuneStepSize(ctx context.Context, oracle sampler.Oracle, x0 sampler.State, grid []float64, pilotSteps int, seed int64) (float64, []SweepResult, error) {
	cfg := sampler.Config{
		Steps:     pilotSteps,
		StepSizes: grid,
		Seed:      seed,
	}

	res, err := sampler.New(oracle).RunParallel(ctx, x0, cfg)
	if err != nil {
		return 0, nil, err
	}

	sweep := make([]SweepResult, len(res.Chains))
	best := math.Inf(1)
	bestTau := 0.0

	for i, ch := range res.Chains {
		sweep[i] = SweepResult{
			Tau:        ch.StepSize,
			AcceptRate: ch.AcceptRate,
			Diverged:   ch.Diverged,
		}
		if ch.Diverged {
			continue
		}
		score := math.Abs(ch.AcceptRate - TargetAcceptance)
		if score < best {
			best = score
			bestTau = ch.StepSize
		}
	}

	if bestTau == 0 && len(grid) > 0 {
		// Every pilot diverged; fall back to the smallest candidate.
		bestTau = grid[0]
		for _, tau := range grid {
			if tau < bestTau {
				bestTau = tau
			}
		}
	}

	return bestTau, sweep, nil
}

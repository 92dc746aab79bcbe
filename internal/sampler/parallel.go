package sampler

import (
	"context"
	"math/rand"
	"sync"
)

// RunParallel behaves exactly like Run but executes one goroutine per
// configured step size. Chains share nothing but the oracle: each owns its
// generator (seeded cfg.Seed+index, so results match the sequential run)
// and writes into its own pre-assigned result slot, so no locking is needed.
func (s *Sampler) RunParallel(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	s.ensurePool(len(x0))

	result := &Result{
		Chains: make([]*Chain, len(cfg.StepSizes)),
		Dim:    len(x0),
		Steps:  cfg.Steps,
	}

	var wg sync.WaitGroup
	for idx, tau := range cfg.StepSizes {
		wg.Add(1)
		go func(idx int, tau float64) {
			defer wg.Done()

			rng := rand.New(rand.NewSource(cfg.Seed + int64(idx)))
			result.Chains[idx] = s.runChain(ctx, x0, tau, idx, cfg, rng)
		}(idx, tau)
	}
	wg.Wait()

	Finalize(result, cfg.Thin)

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

package targets

import (
	"math/rand"
	"sync"

	"github.com/simedcn/Langevin-GJI-2020/internal/sampler"
)

// Noisy wraps another oracle and perturbs its gradient with seeded Gaussian
// noise, mimicking a gradient estimated on a stochastic subsample. The
// energy passes through exactly, so the Metropolis correction still sees
// the true target. The generator is mutex-guarded: the oracle contract
// requires safe concurrent calls from parallel chains.
type Noisy struct {
	base sampler.Oracle
	std  float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewNoisy(base sampler.Oracle, std float64, seed int64) *Noisy {
	return &Noisy{
		base: base,
		std:  std,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

func (n *Noisy) Dim() int { return n.base.Dim() }

func (n *Noisy) Evaluate(x sampler.State) (float64, sampler.State) {
	energy, grad := n.base.Evaluate(x)

	n.mu.Lock()
	for i := range grad {
		grad[i] += n.std * n.rng.NormFloat64()
	}
	n.mu.Unlock()

	return energy, grad
}

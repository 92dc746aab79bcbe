package sampler

import (
	"context"
	"fmt"
	"math"
	"math/rand"
)

// noiseFloor is the fixed-scale injection sqrt(0.01) added to every proposal
// on top of the Langevin diffusion term. It stabilizes the variance induced
// by stochastic gradients.
const noiseFloor = 0.1

type Sampler struct {
	oracle    Oracle
	observers []Observer
	pool      *StatePool
}

func New(oracle Oracle) *Sampler {
	return &Sampler{
		oracle:    oracle,
		observers: make([]Observer, 0),
	}
}

func (s *Sampler) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// chainState is the per-step loop state: current position, its cached
// energy/gradient, the adaptive step length tau and the growth cap theta.
// The transition function returns a fresh record instead of mutating,
// which keeps a single step testable without a driver loop.
type chainState struct {
	x      State
	energy float64
	grad   State
	tau    float64
	theta  float64
}

type outcome int

const (
	rejected outcome = iota
	accepted
	diverged
)

// Run executes one chain per configured step size, sequentially, and
// returns the stacked trajectories. Chains are statistically independent:
// chain i draws from its own generator seeded with cfg.Seed+i.
func (s *Sampler) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	s.ensurePool(len(x0))

	result := &Result{
		Chains: make([]*Chain, len(cfg.StepSizes)),
		Dim:    len(x0),
		Steps:  cfg.Steps,
	}

	for idx, tau := range cfg.StepSizes {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		rng := rand.New(rand.NewSource(cfg.Seed + int64(idx)))
		result.Chains[idx] = s.runChain(ctx, x0, tau, idx, cfg, rng)
	}

	Finalize(result, cfg.Thin)
	return result, nil
}

func (s *Sampler) validate(x0 State, cfg Config) error {
	if cfg.Steps <= 0 {
		return fmt.Errorf("%w, got %d", ErrBadSteps, cfg.Steps)
	}
	if len(cfg.StepSizes) == 0 {
		return ErrNoStepSizes
	}
	for i, tau := range cfg.StepSizes {
		if tau <= 0 || math.IsNaN(tau) || math.IsInf(tau, 0) {
			return fmt.Errorf("%w, got %f at index %d", ErrBadStepSize, tau, i)
		}
	}
	if cfg.Thin < 0 {
		return fmt.Errorf("%w, got %d", ErrBadThin, cfg.Thin)
	}
	if len(x0) == 0 {
		return ErrEmptyState
	}
	if d := s.oracle.Dim(); d > 0 && len(x0) != d {
		return fmt.Errorf("%w: state has %d, target wants %d", ErrDimensionMismatch, len(x0), d)
	}
	return nil
}

func (s *Sampler) runChain(ctx context.Context, x0 State, tau0 float64, idx int, cfg Config, rng *rand.Rand) *Chain {
	d := len(x0)
	ch := &Chain{
		States:     zeroMatrix(cfg.Steps, d),
		Grads:      zeroMatrix(cfg.Steps, d),
		StepSize:   tau0,
		FinalTau:   tau0,
		DivergedAt: -1,
	}

	energy, grad := s.oracle.Evaluate(x0)
	if !finite(energy) || !grad.IsValid() {
		// The starting point itself is outside the oracle's valid
		// region; the whole buffer stays at the zero sentinel.
		ch.Diverged = true
		ch.DivergedAt = 0
		ch.AcceptRate = 0
		return ch
	}

	cs := chainState{
		x:      x0.Clone(),
		energy: energy,
		grad:   grad.Clone(),
		tau:    tau0,
		theta:  math.Inf(1),
	}

	for k := 0; k < cfg.Steps; k++ {
		select {
		case <-ctx.Done():
			ch.AcceptRate = rate(ch.Accepted, cfg.Steps)
			ch.FinalTau = cs.tau
			return ch
		default:
		}

		next, out := s.step(cs, rng)
		if out == diverged {
			// Zero sentinel already occupies this and all later slots.
			ch.Diverged = true
			ch.DivergedAt = k
			break
		}

		if out == accepted {
			ch.Accepted++
		}
		cs = next

		copy(ch.States[k], cs.x)
		for i, g := range cs.grad {
			ch.Grads[k][i] = -g
		}

		for _, o := range s.observers {
			o.OnStep(idx, k, cs.x, cs.tau, out == accepted)
		}
	}

	// The denominator is the configured chain length even after an early
	// stop, so diverged chains report a proportionally lower rate.
	ch.AcceptRate = rate(ch.Accepted, cfg.Steps)
	ch.FinalTau = cs.tau
	return ch
}

func (s *Sampler) ensurePool(dim int) {
	if s.pool == nil || s.pool.size != dim {
		s.pool = NewStatePool(dim)
	}
}

// step advances the chain by one proposal/accept/adapt cycle.
func (s *Sampler) step(cs chainState, rng *rand.Rand) (chainState, outcome) {
	d := len(cs.x)
	sqrtTau := math.Sqrt(cs.tau)

	s.ensurePool(d)
	prop := s.pool.Get()
	for i := range prop {
		drift := cs.x[i] - 0.5*cs.tau*cs.grad[i]
		prop[i] = drift + noiseFloor*cs.tau*rng.NormFloat64() + sqrtTau*rng.NormFloat64()
	}

	propEnergy, propGrad := s.oracle.Evaluate(prop)
	if !finite(propEnergy) {
		s.pool.Put(prop)
		return cs, diverged
	}

	// Both transition kernels are Gaussians of variance tau centered at
	// the endpoint's half-gradient-step mean. Working in log space avoids
	// the exp underflow that an explicit density ratio hits in high
	// dimension.
	fwd := 0.0
	rev := 0.0
	for i := 0; i < d; i++ {
		df := prop[i] - (cs.x[i] - 0.5*cs.tau*cs.grad[i])
		dr := cs.x[i] - (prop[i] - 0.5*cs.tau*propGrad[i])
		fwd += df * df
		rev += dr * dr
	}

	logAlpha := (-propEnergy - 0.5/cs.tau*rev) - (-cs.energy - 0.5/cs.tau*fwd)
	if logAlpha > 0 {
		logAlpha = 0
	}

	// rng.Float64 can return exactly 0, whose log is -Inf: always accept.
	u := rng.Float64()
	if u != 0 && math.Log(u) >= logAlpha {
		s.pool.Put(prop)
		return cs, rejected
	}

	next := s.adapt(cs, prop, propEnergy, propGrad)
	s.pool.Put(cs.x)
	return next, accepted
}

// adapt re-estimates the step length after an accepted move from a local
// Lipschitz estimate of the gradient field, capped by a bounded growth rule.
func (s *Sampler) adapt(cs chainState, x State, energy float64, grad State) chainState {
	dx := x.Sub(cs.x).Norm()
	dg := grad.Sub(cs.grad).Norm()

	t2 := math.Sqrt(1+cs.theta) * cs.tau
	t1 := t2
	if dg > 0 {
		// Inverse empirical Lipschitz constant of the gradient over
		// the just-completed transition. A zero gradient delta carries
		// no curvature information, so it defers to the growth bound.
		t1 = 0.5 * dx / dg
	}

	tauNew := math.Min(t1, t2)
	if !finite(tauNew) || tauNew <= 0 {
		// Both terms degenerate (first accepted step in a flat region,
		// where the growth bound is still unbounded): keep the current
		// step length rather than poisoning the chain.
		tauNew = cs.tau
	}

	return chainState{
		x:      x,
		energy: energy,
		grad:   grad,
		tau:    tauNew,
		theta:  tauNew / cs.tau,
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func rate(accepted, steps int) float64 {
	return float64(accepted) / float64(steps) * 100
}

func zeroMatrix(rows, cols int) []State {
	m := make([]State, rows)
	for i := range m {
		m[i] = make(State, cols)
	}
	return m
}

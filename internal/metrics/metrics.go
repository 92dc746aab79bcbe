package metrics

import (
	"sync"

	"github.com/simedcn/Langevin-GJI-2020/internal/sampler"
)

// Metric accumulates a scalar summary over sampler steps. All metrics here
// lock internally because chains may deliver observations concurrently.
type Metric interface {
	sampler.Observer
	Name() string
	Value() float64
	Reset()
}

// AcceptanceRate reports the fraction of observed steps that were accepted,
// as a percentage across all chains.
type AcceptanceRate struct {
	mu       sync.Mutex
	accepted int
	steps    int
}

func NewAcceptanceRate() *AcceptanceRate { return &AcceptanceRate{} }

func (a *AcceptanceRate) Name() string { return "acceptance_rate" }

func (a *AcceptanceRate) OnStep(chain, step int, x sampler.State, tau float64, accepted bool) {
	a.mu.Lock()
	a.steps++
	if accepted {
		a.accepted++
	}
	a.mu.Unlock()
}

func (a *AcceptanceRate) Value() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.steps == 0 {
		return 0
	}
	return float64(a.accepted) / float64(a.steps) * 100
}

func (a *AcceptanceRate) Reset() {
	a.mu.Lock()
	a.accepted = 0
	a.steps = 0
	a.mu.Unlock()
}

// MeanStepSize averages the adaptive step length over all observed steps.
type MeanStepSize struct {
	mu    sync.Mutex
	sum   float64
	steps int
}

func NewMeanStepSize() *MeanStepSize { return &MeanStepSize{} }

func (m *MeanStepSize) Name() string { return "mean_step_size" }

func (m *MeanStepSize) OnStep(chain, step int, x sampler.State, tau float64, accepted bool) {
	m.mu.Lock()
	m.sum += tau
	m.steps++
	m.mu.Unlock()
}

func (m *MeanStepSize) Value() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.steps == 0 {
		return 0
	}
	return m.sum / float64(m.steps)
}

func (m *MeanStepSize) Reset() {
	m.mu.Lock()
	m.sum = 0
	m.steps = 0
	m.mu.Unlock()
}

// JumpDistance averages the squared move between consecutive recorded
// states per chain; rejected steps contribute zero. Large values indicate
// good mixing.
type JumpDistance struct {
	mu    sync.Mutex
	last  map[int]sampler.State
	sum   float64
	jumps int
}

func NewJumpDistance() *JumpDistance {
	return &JumpDistance{last: make(map[int]sampler.State)}
}

func (j *JumpDistance) Name() string { return "mean_sq_jump" }

func (j *JumpDistance) OnStep(chain, step int, x sampler.State, tau float64, accepted bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	prev, ok := j.last[chain]
	if ok {
		d := x.Sub(prev).Norm()
		j.sum += d * d
		j.jumps++
	}
	j.last[chain] = x.Clone()
}

func (j *JumpDistance) Value() float64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.jumps == 0 {
		return 0
	}
	return j.sum / float64(j.jumps)
}

func (j *JumpDistance) Reset() {
	j.mu.Lock()
	j.last = make(map[int]sampler.State)
	j.sum = 0
	j.jumps = 0
	j.mu.Unlock()
}

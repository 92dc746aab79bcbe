package sampler

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

// Oracle is the energy/gradient collaborator: for a state x it returns the
// negative log-density (energy) and its gradient. Lower energy means higher
// probability. Implementations must tolerate repeated and concurrent calls
// and must return slices the caller may keep. A NaN or infinite energy
// signals numerical breakdown at x; the gradient is not trusted in that case.
type Oracle interface {
	Evaluate(x State) (float64, State)
	Dim() int
}

// Observer receives a notification after every recorded chain step.
// When chains run in parallel, implementations must be safe for
// concurrent use.
type Observer interface {
	OnStep(chain, step int, x State, tau float64, accepted bool)
}

type Config struct {
	// Steps is the number of proposal/accept iterations per chain.
	Steps int
	// StepSizes holds the initial step length for each independent chain.
	StepSizes []float64
	// Thin subsamples the recorded trajectory at this stride; 0 or 1
	// keeps every step.
	Thin int
	// Seed drives per-chain random streams (chain i uses Seed+i).
	Seed int64
}

func DefaultConfig() Config {
	return Config{
		Steps:     2000,
		StepSizes: []float64{0.1},
		Thin:      0,
		Seed:      42,
	}
}

// Chain holds one chain's recorded trajectory. States[k] is the state at
// step k (the previous state repeated on rejection) and Grads[k] the negated
// gradient there. After a divergence all remaining rows stay zero-filled;
// that sentinel is deliberate and distinguishes "never reached" from data.
type Chain struct {
	States     []State
	Grads      []State
	StepSize   float64
	FinalTau   float64
	Accepted   int
	AcceptRate float64
	Diverged   bool
	DivergedAt int
}

type Result struct {
	Chains []*Chain
	Dim    int
	Steps  int
}

// AcceptRates returns the per-chain acceptance percentages in chain order.
func (r *Result) AcceptRates() []float64 {
	rates := make([]float64, len(r.Chains))
	for i, c := range r.Chains {
		rates[i] = c.AcceptRate
	}
	return rates
}

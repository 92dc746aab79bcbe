package targets

import "github.com/simedcn/Langevin-GJI-2020/internal/sampler"

// DoubleWell is a separable bistable potential with modes near +-sqrt(B):
// energy sum_i A*(x_i^2 - B)^2.
type DoubleWell struct {
	A, B float64
	dim  int
}

func NewDoubleWell(dim int) *DoubleWell {
	return &DoubleWell{A: 1.0, B: 1.0, dim: dim}
}

func (d *DoubleWell) Dim() int { return d.dim }

func (d *DoubleWell) Evaluate(x sampler.State) (float64, sampler.State) {
	energy := 0.0
	grad := make(sampler.State, len(x))
	for i, v := range x {
		w := v*v - d.B
		energy += d.A * w * w
		grad[i] = 4 * d.A * v * w
	}
	return energy, grad
}

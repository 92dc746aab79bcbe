package targets

import "github.com/simedcn/Langevin-GJI-2020/internal/sampler"

// Rosenbrock is the 2-d banana-shaped density with energy
// (A - x)^2 + B*(y - x^2)^2. The default B is far smaller than the
// optimization benchmark's 100 so the ridge stays sampleable.
type Rosenbrock struct {
	A, B float64
}

func NewRosenbrock() *Rosenbrock {
	return &Rosenbrock{A: 1.0, B: 5.0}
}

func (r *Rosenbrock) Dim() int { return 2 }

func (r *Rosenbrock) Evaluate(x sampler.State) (float64, sampler.State) {
	if len(x) < 2 {
		return 0, make(sampler.State, len(x))
	}
	u, v := x[0], x[1]
	w := v - u*u

	energy := (r.A-u)*(r.A-u) + r.B*w*w
	grad := sampler.State{
		-2*(r.A-u) - 4*r.B*u*w,
		2 * r.B * w,
	}
	return energy, grad
}

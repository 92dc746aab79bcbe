package targets

import "github.com/simedcn/Langevin-GJI-2020/internal/sampler"

// Gaussian is an isotropic standard normal in dim dimensions:
// energy 0.5*||x||^2, gradient x.
type Gaussian struct {
	dim int
}

func NewGaussian(dim int) *Gaussian {
	return &Gaussian{dim: dim}
}

func (g *Gaussian) Dim() int { return g.dim }

func (g *Gaussian) Evaluate(x sampler.State) (float64, sampler.State) {
	energy := 0.0
	grad := make(sampler.State, len(x))
	for i, v := range x {
		energy += 0.5 * v * v
		grad[i] = v
	}
	return energy, grad
}

// CorrelatedGaussian is a zero-mean normal with tridiagonal precision:
// Rho on the off-diagonals couples neighboring coordinates.
type CorrelatedGaussian struct {
	Rho float64
	dim int
}

func NewCorrelatedGaussian(dim int, rho float64) *CorrelatedGaussian {
	return &CorrelatedGaussian{Rho: rho, dim: dim}
}

func (c *CorrelatedGaussian) Dim() int { return c.dim }

func (c *CorrelatedGaussian) Evaluate(x sampler.State) (float64, sampler.State) {
	n := len(x)
	grad := make(sampler.State, n)
	for i, v := range x {
		grad[i] = v
		if i > 0 {
			grad[i] += c.Rho * x[i-1]
		}
		if i < n-1 {
			grad[i] += c.Rho * x[i+1]
		}
	}

	// energy = 0.5 * x'Px with grad already holding Px
	energy := 0.0
	for i, v := range x {
		energy += 0.5 * v * grad[i]
	}
	return energy, grad
}

package analysis

import (
	"math"

	"github.com/simedcn/Langevin-GJI-2020/internal/sampler"
)

// Moments computes the per-dimension empirical mean and variance of a
// chain's states after discarding the leading warmup fraction (clamped to
// [0, 1)). Zero-sentinel rows past a divergence are included as recorded;
// callers wanting clean statistics should pass an undiverged chain.
func Moments(states []sampler.State, warmup float64) (mean, variance []float64) {
	if len(states) == 0 {
		return nil, nil
	}
	if warmup < 0 {
		warmup = 0
	}
	if warmup >= 1 {
		warmup = 0
	}

	start := int(float64(len(states)) * warmup)
	kept := states[start:]
	d := len(kept[0])

	mean = make([]float64, d)
	variance = make([]float64, d)
	n := float64(len(kept))

	for _, x := range kept {
		for i, v := range x {
			mean[i] += v
		}
	}
	for i := range mean {
		mean[i] /= n
	}

	if len(kept) < 2 {
		return mean, variance
	}

	for _, x := range kept {
		for i, v := range x {
			dv := v - mean[i]
			variance[i] += dv * dv
		}
	}
	for i := range variance {
		variance[i] /= n - 1
	}

	return mean, variance
}

// StdDev returns the square roots of Moments' variances.
func StdDev(states []sampler.State, warmup float64) []float64 {
	_, variance := Moments(states, warmup)
	out := make([]float64, len(variance))
	for i, v := range variance {
		out[i] = math.Sqrt(v)
	}
	return out
}

// MeanSquaredJump is the average squared distance between consecutive
// states, a cheap mixing indicator (repeated states from rejections
// contribute zero).
func MeanSquaredJump(states []sampler.State) float64 {
	if len(states) < 2 {
		return 0
	}
	sum := 0.0
	for k := 1; k < len(states); k++ {
		d := states[k].Sub(states[k-1]).Norm()
		sum += d * d
	}
	return sum / float64(len(states)-1)
}

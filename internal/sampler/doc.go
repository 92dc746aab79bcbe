// Package sampler implements a Metropolis-Hastings adjusted stochastic
// gradient Langevin dynamics (MH-SGLD) sampler with adaptive step length.
//
// The target distribution is known only through an [Oracle] returning an
// energy (negative log-density) and its gradient. Each step drifts along
// the negative gradient, injects Gaussian noise, and corrects the move with
// an asymmetric-kernel Metropolis-Hastings test; accepted steps re-estimate
// the step length from a local Lipschitz constant of the gradient field:
//
//	x' = x - 0.5*tau*g + sqrt(0.01)*tau*xi1 + sqrt(tau)*xi2
//
// One independent chain runs per configured initial step length.
//
// # Thread Safety
//
// Sampler instances are NOT safe for concurrent use. Within a single run,
// [Sampler.RunParallel] executes the configured chains on independent
// goroutines; the oracle must then tolerate concurrent calls.
package sampler

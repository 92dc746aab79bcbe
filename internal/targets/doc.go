// Package targets provides reference energy/gradient oracles for the
// sampler: analytic densities whose posteriors are known, plus a noisy
// wrapper that turns any of them into a stochastic-gradient oracle.
package targets

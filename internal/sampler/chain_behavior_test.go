package sampler_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/simedcn/Langevin-GJI-2020/internal/sampler"
	"github.com/simedcn/Langevin-GJI-2020/internal/targets"
)

var _ = Describe("Sampler", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("running against the Gaussian target", func() {
		It("returns one chain per configured step size", func() {
			cfg := sampler.Config{Steps: 100, StepSizes: []float64{0.05, 0.1, 0.2}, Seed: 1}
			res, err := sampler.New(targets.NewGaussian(2)).Run(ctx, sampler.State{1, -1}, cfg)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Chains).To(HaveLen(3))
			Expect(res.Dim).To(Equal(2))
			Expect(res.Steps).To(Equal(100))
		})

		It("keeps every acceptance rate inside [0, 100]", func() {
			cfg := sampler.Config{Steps: 200, StepSizes: []float64{0.01, 0.1, 1.0, 10.0}, Seed: 2}
			res, err := sampler.New(targets.NewGaussian(3)).RunParallel(ctx, sampler.State{2, 2, 2}, cfg)

			Expect(err).NotTo(HaveOccurred())
			for _, rate := range res.AcceptRates() {
				Expect(rate).To(BeNumerically(">=", 0))
				Expect(rate).To(BeNumerically("<=", 100))
			}
		})

		It("reports a strictly positive final step length", func() {
			cfg := sampler.Config{Steps: 500, StepSizes: []float64{0.1}, Seed: 3}
			res, err := sampler.New(targets.NewGaussian(1)).Run(ctx, sampler.State{4}, cfg)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Chains[0].FinalTau).To(BeNumerically(">", 0))
		})
	})

	Describe("thinning", func() {
		It("keeps ceil(N/m) steps starting from the first", func() {
			cfg := sampler.Config{Steps: 1000, StepSizes: []float64{0.1}, Thin: 7, Seed: 4}
			res, err := sampler.New(targets.NewGaussian(1)).Run(ctx, sampler.State{0}, cfg)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Chains[0].States).To(HaveLen(143))
			Expect(res.Steps).To(Equal(143))
		})
	})

	Describe("a stochastic-gradient oracle", func() {
		It("still samples without diverging on a well-conditioned target", func() {
			oracle := targets.NewNoisy(targets.NewGaussian(1), 0.1, 99)
			cfg := sampler.Config{Steps: 500, StepSizes: []float64{0.1}, Seed: 5}
			res, err := sampler.New(oracle).Run(ctx, sampler.State{1}, cfg)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Chains[0].Diverged).To(BeFalse())
			Expect(res.Chains[0].Accepted).To(BeNumerically(">", 0))
		})
	})

	Describe("invalid configurations", func() {
		It("rejects an empty step-size list before sampling", func() {
			_, err := sampler.New(targets.NewGaussian(1)).Run(ctx, sampler.State{0}, sampler.Config{Steps: 10})
			Expect(err).To(MatchError(sampler.ErrNoStepSizes))
		})

		It("rejects a state that does not match the target dimension", func() {
			cfg := sampler.Config{Steps: 10, StepSizes: []float64{0.1}}
			_, err := sampler.New(targets.NewGaussian(3)).Run(ctx, sampler.State{0}, cfg)
			Expect(err).To(MatchError(sampler.ErrDimensionMismatch))
		})
	})

	Describe("the double well target", func() {
		It("visits both modes over a long run", func() {
			cfg := sampler.Config{Steps: 20000, StepSizes: []float64{0.2}, Seed: 6}
			res, err := sampler.New(targets.NewDoubleWell(1)).Run(ctx, sampler.State{1}, cfg)

			Expect(err).NotTo(HaveOccurred())

			minX, maxX := math.Inf(1), math.Inf(-1)
			for _, x := range res.Chains[0].States {
				minX = math.Min(minX, x[0])
				maxX = math.Max(maxX, x[0])
			}
			Expect(minX).To(BeNumerically("<", 0))
			Expect(maxX).To(BeNumerically(">", 0))
		})
	})
})

package targets

import (
	"math"
	"testing"

	"github.com/simedcn/Langevin-GJI-2020/internal/sampler"
)

// checkGradient verifies the analytic gradient against central differences.
func checkGradient(t *testing.T, oracle sampler.Oracle, x sampler.State) {
	t.Helper()

	const h = 1e-6
	_, grad := oracle.Evaluate(x)

	for i := range x {
		xp := x.Clone()
		xm := x.Clone()
		xp[i] += h
		xm[i] -= h

		fp, _ := oracle.Evaluate(xp)
		fm, _ := oracle.Evaluate(xm)
		numeric := (fp - fm) / (2 * h)

		if math.Abs(numeric-grad[i]) > 1e-4*(1+math.Abs(numeric)) {
			t.Errorf("dim %d: analytic gradient %f, numeric %f", i, grad[i], numeric)
		}
	}
}

func TestGaussianGradient(t *testing.T) {
	checkGradient(t, NewGaussian(3), sampler.State{0.5, -1.2, 2.0})
}

func TestGaussianEnergyAtOrigin(t *testing.T) {
	f, g := NewGaussian(2).Evaluate(sampler.State{0, 0})
	if f != 0 {
		t.Errorf("expected zero energy at origin, got %f", f)
	}
	for i, v := range g {
		if v != 0 {
			t.Errorf("expected zero gradient at origin, dim %d got %f", i, v)
		}
	}
}

func TestCorrelatedGaussianGradient(t *testing.T) {
	checkGradient(t, NewCorrelatedGaussian(4, 0.4), sampler.State{1, -0.5, 0.3, 2})
}

func TestCorrelatedGaussianEnergyPositive(t *testing.T) {
	// Rho below 0.5 keeps the tridiagonal precision positive definite.
	oracle := NewCorrelatedGaussian(3, 0.4)
	for _, x := range []sampler.State{{1, 0, 0}, {1, -1, 1}, {-2, 3, -1}} {
		f, _ := oracle.Evaluate(x)
		if f <= 0 {
			t.Errorf("expected positive energy at %v, got %f", x, f)
		}
	}
}

func TestDoubleWellGradient(t *testing.T) {
	checkGradient(t, NewDoubleWell(2), sampler.State{0.7, -1.3})
}

func TestDoubleWellModes(t *testing.T) {
	oracle := NewDoubleWell(1)
	fMode, gMode := oracle.Evaluate(sampler.State{1})
	fBarrier, _ := oracle.Evaluate(sampler.State{0})

	if fMode != 0 {
		t.Errorf("expected zero energy at the mode, got %f", fMode)
	}
	if gMode[0] != 0 {
		t.Errorf("expected zero gradient at the mode, got %f", gMode[0])
	}
	if fBarrier <= fMode {
		t.Error("barrier should sit above the modes")
	}
}

func TestRosenbrockGradient(t *testing.T) {
	checkGradient(t, NewRosenbrock(), sampler.State{0.3, 1.8})
}

func TestRosenbrockMinimum(t *testing.T) {
	r := NewRosenbrock()
	f, g := r.Evaluate(sampler.State{r.A, r.A * r.A})
	if f != 0 {
		t.Errorf("expected zero energy at the minimum, got %f", f)
	}
	if g[0] != 0 || g[1] != 0 {
		t.Errorf("expected zero gradient at the minimum, got %v", g)
	}
}

func TestNoisyPreservesEnergy(t *testing.T) {
	base := NewGaussian(2)
	noisy := NewNoisy(base, 0.5, 7)

	x := sampler.State{1.5, -0.5}
	fBase, gBase := base.Evaluate(x)
	fNoisy, gNoisy := noisy.Evaluate(x)

	if fNoisy != fBase {
		t.Errorf("noise must not touch the energy: %f vs %f", fNoisy, fBase)
	}

	same := true
	for i := range gBase {
		if gBase[i] != gNoisy[i] {
			same = false
		}
	}
	if same {
		t.Error("expected the gradient to be perturbed")
	}
}

func TestNoisyDeterministicWithSeed(t *testing.T) {
	x := sampler.State{0.2, 0.8}
	_, g1 := NewNoisy(NewGaussian(2), 0.3, 42).Evaluate(x)
	_, g2 := NewNoisy(NewGaussian(2), 0.3, 42).Evaluate(x)

	for i := range g1 {
		if g1[i] != g2[i] {
			t.Errorf("dim %d: same seed produced %f and %f", i, g1[i], g2[i])
		}
	}
}

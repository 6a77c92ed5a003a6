package analysis

import (
	"math"

	"github.com/san-kum/smoothfield/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent of the
// trajectory starting at x0 by following a neighbour perturbed in theta2
// and renormalising the separation back to perturbation after every step.
// A positive value indicates chaos.
//
// λ ≈ (1/t) Σ ln(|δx_k| / |δx_0|)
func LyapunovExponent(
	sys dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.PhasePoint,
	dt, duration float64,
	perturbation float64,
) float64 {
	xp := x0
	xp[1] += perturbation
	return lyapunovForPerturbation(sys, integ, x0, xp, dt, duration)
}

// LyapunovSpectrum perturbs each phase coordinate independently. Without
// Gram-Schmidt reorthonormalisation every entry converges towards the
// largest exponent, so the spread between entries is a convergence check
// rather than the true spectrum.
func LyapunovSpectrum(
	sys dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.PhasePoint,
	dt, duration float64,
	perturbation float64,
) []float64 {
	spectrum := make([]float64, len(x0))
	for i := range x0 {
		xp := x0
		xp[i] += perturbation
		spectrum[i] = lyapunovForPerturbation(sys, integ, x0, xp, dt, duration)
	}
	return spectrum
}

func lyapunovForPerturbation(
	sys dynamo.System,
	integ dynamo.Integrator,
	x, xp dynamo.PhasePoint,
	dt, duration float64,
) float64 {
	d0 := xp.Sub(x).Norm()
	if !(d0 > 0) || !(dt > 0) {
		return 0
	}

	t := 0.0
	sumLog := 0.0
	for t < duration {
		x = integ.Step(sys, x, dt)
		xp = integ.Step(sys, xp, dt)
		t += dt

		delta := xp.Sub(x)
		sep := delta.Norm()
		if !(sep > 0) || math.IsInf(sep, 0) || math.IsNaN(sep) {
			break
		}
		sumLog += math.Log(sep / d0)
		xp = x.Add(delta.Scale(d0 / sep))
	}

	if t == 0 {
		return 0
	}
	return sumLog / t
}

package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/smoothfield/internal/dynamo"
)

// Spectrum is the one-sided power spectrum of one phase coordinate.
type Spectrum struct {
	Freqs []float64
	Power []float64
}

// PowerSpectrum returns |X_k| for k < n/2 of the real signal data.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	x := fft.FFTReal(data)
	ps := make([]float64, len(x)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(x[i])
	}
	return ps
}

// GenerateSpectrum integrates x0 for n steps of dt, records coordinate idx
// with its mean removed, and returns its spectrum in cycles per unit time.
func GenerateSpectrum(
	sys dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.PhasePoint,
	idx int,
	dt float64,
	n int,
) *Spectrum {
	if idx < 0 || idx >= len(x0) || !(dt > 0) || n < 2 {
		return nil
	}

	signal := make([]float64, n)
	var mean float64
	x := x0
	for i := range signal {
		x = integ.Step(sys, x, dt)
		signal[i] = x[idx]
		mean += x[idx]
	}
	mean /= float64(n)
	for i := range signal {
		signal[i] -= mean
	}

	power := PowerSpectrum(signal)
	freqs := make([]float64, len(power))
	for k := range freqs {
		freqs[k] = float64(k) / (float64(n) * dt)
	}
	return &Spectrum{Freqs: freqs, Power: power}
}

// Dominant returns the frequency of the strongest non-DC bin.
func (s *Spectrum) Dominant() float64 {
	best, at := -1.0, 0.0
	for k := 1; k < len(s.Power); k++ {
		if s.Power[k] > best {
			best, at = s.Power[k], s.Freqs[k]
		}
	}
	return at
}

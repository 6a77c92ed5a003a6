package metrics

import (
	"github.com/san-kum/smoothfield/internal/field"
)

// Stability is the fraction of observed ticks on which some sample held a
// NaN or Inf, or some adjacent gap exceeded threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f *field.Field) {
	s.samples++
	violated := false
	f.Each(func(smp *field.Sample) {
		if !smp.Phase.IsValid() {
			violated = true
		}
	})
	if !violated && MaxGap(f) > s.threshold {
		violated = true
	}
	if violated {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.violations) / float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

package metrics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/smoothfield/internal/field"
)

// Gaps returns the angle gap of every adjacent pair in field order.
func Gaps(f *field.Field) []float64 {
	if f.Len() < 2 {
		return nil
	}
	out := make([]float64, 0, f.Len()-1)
	for s := f.Front(); s.Next() != nil; s = s.Next() {
		out = append(out, s.Phase.AngleGap(s.Next().Phase))
	}
	return out
}

// MaxGap returns the largest adjacent angle gap, or 0 for fewer than two
// samples.
func MaxGap(f *field.Field) float64 {
	g := Gaps(f)
	if len(g) == 0 {
		return 0
	}
	return floats.Max(g)
}

// PeakGap tracks the largest adjacent gap seen across ticks.
type PeakGap struct {
	name string
	peak float64
}

func NewPeakGap() *PeakGap {
	return &PeakGap{name: "peak_gap"}
}

func (p *PeakGap) Name() string { return p.name }

func (p *PeakGap) Observe(f *field.Field) {
	if g := MaxGap(f); g > p.peak {
		p.peak = g
	}
}

func (p *PeakGap) Value() float64 { return p.peak }
func (p *PeakGap) Reset()         { p.peak = 0 }

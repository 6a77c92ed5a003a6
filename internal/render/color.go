package render

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/smoothfield/internal/field"
)

// ColorByIndex maps a rank in a field of the given capacity onto the
// blue-to-cyan ramp. Alpha is low so overlapping strokes accumulate under
// additive blending.
func ColorByIndex(i, capacity int) field.Color {
	t := 0.0
	if capacity > 0 {
		t = float64(i) / float64(capacity)
	}
	return field.Color{
		R: 0.125 * t,
		G: 0.5 + 0.5*t,
		B: 1,
		A: 0.05,
	}
}

// Recolor assigns every sample its rank colour. Ranks are counted in the
// current field order, not read from Index.
func Recolor(f *field.Field) {
	i := 0
	f.Each(func(s *field.Sample) {
		s.Color = ColorByIndex(i, f.Capacity())
		i++
	})
}

func toColorful(c field.Color) colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped()
}

// Hex returns the opaque colour as #rrggbb.
func Hex(c field.Color) string {
	return toColorful(c).Hex()
}

// RGBA8 returns the colour as 8-bit channels.
func RGBA8(c field.Color) (r, g, b, a uint8) {
	r, g, b = toColorful(c).RGB255()
	a = uint8(clamp01(c.A)*255 + 0.5)
	return
}

// Scale multiplies the opaque colour by k in linear RGB, clamped. The
// terminal renderer uses it to show accumulated density.
func Scale(c field.Color, k float64) field.Color {
	lin := toColorful(c)
	r, g, b := lin.LinearRgb()
	out := colorful.LinearRgb(clamp01(r*k), clamp01(g*k), clamp01(b*k))
	return field.Color{R: out.R, G: out.G, B: out.B, A: 1}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

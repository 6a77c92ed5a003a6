package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/smoothfield/internal/field"
	"github.com/san-kum/smoothfield/internal/render"
)

func toColor(c field.Color) rl.Color {
	r, g, b, alpha := render.RGBA8(c)
	return rl.NewColor(r, g, b, alpha)
}

// drawField recolours by rank and draws every sample as a line strip
// under additive blending, so dense regions of the field glow.
func (a *App) drawField() {
	f := a.Sim.Field()
	render.Recolor(f)

	rl.BeginBlendMode(rl.BlendAdditive)
	strip := make([]rl.Vector2, 3)
	f.Each(func(s *field.Sample) {
		for i, p := range render.Segments(s) {
			q := a.View.ToScreen(p)
			strip[i] = rl.NewVector2(float32(q.X), float32(q.Y))
		}
		rl.DrawLineStrip(strip, toColor(s.Color))
	})
	rl.EndBlendMode()
}

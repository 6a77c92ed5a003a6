package render

import (
	"math"

	"github.com/san-kum/smoothfield/internal/field"
)

type Point struct {
	X, Y float64
}

// Segments returns the polyline anchor, hinge, tip of one sample in world
// coordinates (y up).
func Segments(s *field.Sample) [3]Point {
	x0, y0, x1, y1, x2, y2 := s.Joints()
	return [3]Point{{x0, y0}, {x1, y1}, {x2, y2}}
}

// Extent returns the half-width of a square centred on the anchor that
// contains every possible configuration of the samples' bodies.
func Extent(f *field.Field) float64 {
	ext := 0.0
	f.Each(func(s *field.Sample) {
		ext = math.Max(ext, 2*s.Body.Length)
	})
	return ext
}

const ZoomFactor = 1.1

// Viewport maps world coordinates onto a screen of Width x Height pixels
// with y down. Zoom is pixels per world unit.
type Viewport struct {
	Width, Height    float64
	CenterX, CenterY float64
	Zoom             float64
}

// Fit returns a viewport centred on (cx, cy) that shows a square of
// half-width extent with a small margin.
func Fit(width, height, cx, cy, extent float64) Viewport {
	zoom := 1.0
	if extent > 0 {
		zoom = 0.9 * math.Min(width, height) / (2 * extent)
	}
	return Viewport{Width: width, Height: height, CenterX: cx, CenterY: cy, Zoom: zoom}
}

func (v Viewport) ToScreen(p Point) Point {
	return Point{
		X: v.Width/2 + (p.X-v.CenterX)*v.Zoom,
		Y: v.Height/2 - (p.Y-v.CenterY)*v.Zoom,
	}
}

func (v *Viewport) ZoomIn()  { v.Zoom *= ZoomFactor }
func (v *Viewport) ZoomOut() { v.Zoom /= ZoomFactor }

package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/smoothfield/internal/field"
	"github.com/san-kum/smoothfield/internal/render"
)

const background = "#000000"

// FieldToSVG draws every sample as an anchor-hinge-tip polyline in its
// own colour and opacity. Overlapping strokes build up brightness the way
// additive blending does on screen. zoom scales the fitted view; 1 fits
// the full reach of the bodies.
func FieldToSVG(samples []field.Sample, width, height int, zoom float64) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="none" stroke-width="1" stroke-linejoin="round" style="mix-blend-mode:screen">
`, width, height, width, height, background))

	if len(samples) > 0 {
		extent := 0.0
		for i := range samples {
			extent = max(extent, 2*samples[i].Body.Length)
		}
		vp := render.Fit(float64(width), float64(height), samples[0].X, samples[0].Y, extent)
		if zoom > 0 {
			vp.Zoom *= zoom
		}

		for i := range samples {
			s := &samples[i]
			seg := render.Segments(s)
			sb.WriteString(`<polyline points="`)
			for j, p := range seg {
				q := vp.ToScreen(p)
				if j > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(fmt.Sprintf("%.2f,%.2f", q.X, q.Y))
			}
			sb.WriteString(fmt.Sprintf(`" stroke="%s" stroke-opacity="%.3f"/>
`, render.Hex(s.Color), s.Color.A))
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// WriteFieldSVG writes FieldToSVG output to path.
func WriteFieldSVG(path string, samples []field.Sample, width, height int, zoom float64) error {
	return os.WriteFile(path, []byte(FieldToSVG(samples, width, height, zoom)), 0644)
}

// TrajectoryToSVG draws a single polyline through points, scaled to fill
// the image with a 10% margin.
func TrajectoryToSVG(points []render.Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>
`)
	return sb.String()
}

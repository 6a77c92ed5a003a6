package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/smoothfield/internal/dynamo"
)

type Point struct {
	X, Y float64
}

// PhasePortrait2D holds one trajectory projected onto two phase
// coordinates.
type PhasePortrait2D struct {
	XIndex, YIndex int
	Points         []Point
	// EnergyDrift is the largest relative energy change along the
	// trajectory, or NaN when the system has no Hamiltonian.
	EnergyDrift float64
}

// GeneratePhasePortrait integrates x0 for duration and records the
// (xIdx, yIdx) projection after every step.
func GeneratePhasePortrait(
	sys dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.PhasePoint,
	xIdx, yIdx int,
	dt, duration float64,
) *PhasePortrait2D {
	if xIdx < 0 || yIdx < 0 || xIdx >= len(x0) || yIdx >= len(x0) || !(dt > 0) {
		return nil
	}

	portrait := &PhasePortrait2D{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]Point, 0, int(duration/dt)+1),
	}

	h, conserves := sys.(dynamo.Hamiltonian)
	var e0 float64
	if conserves {
		e0 = h.Energy(x0)
	} else {
		portrait.EnergyDrift = math.NaN()
	}

	x := x0
	for t := 0.0; t < duration; t += dt {
		x = integ.Step(sys, x, dt)
		portrait.Points = append(portrait.Points, Point{X: x[xIdx], Y: x[yIdx]})
		if conserves {
			portrait.EnergyDrift = max(portrait.EnergyDrift, math.Abs(h.Energy(x)-e0)/max(math.Abs(e0), 1e-12))
		}
	}
	return portrait
}

// PoincareSection holds the points recorded at each crossing.
type PoincareSection struct {
	Points []Point
}

// GeneratePoincareSection records (recordX, recordY) each time coordinate
// crossIdx crosses threshold upwards, linearly interpolated to the
// crossing.
func GeneratePoincareSection(
	sys dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.PhasePoint,
	crossIdx int,
	threshold float64,
	recordX, recordY int,
	dt, duration float64,
) *PoincareSection {
	for _, i := range []int{crossIdx, recordX, recordY} {
		if i < 0 || i >= len(x0) {
			return nil
		}
	}
	if !(dt > 0) {
		return nil
	}

	section := &PoincareSection{}
	x := x0
	for t := 0.0; t < duration; t += dt {
		prev := x
		x = integ.Step(sys, x, dt)

		if prev[crossIdx] < threshold && x[crossIdx] >= threshold {
			frac := (threshold - prev[crossIdx]) / (x[crossIdx] - prev[crossIdx])
			at := dynamo.Lerp(prev, x, frac)
			section.Points = append(section.Points, Point{X: at[recordX], Y: at[recordY]})
		}
	}
	return section
}

// PhasePortraitToASCII plots points on a width x height grid with axes
// drawn where they fall inside the bounds.
func PhasePortraitToASCII(points []Point, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
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

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	col := func(x float64) int { return int((x - minX) / rangeX * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/rangeY*float64(height-1)) }

	for _, p := range points {
		r, c := row(p.Y), col(p.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			canvas[r][c] = '•'
		}
	}

	if c := col(0); minX <= 0 && c >= 0 && c < width {
		for r := 0; r < height; r++ {
			if canvas[r][c] == ' ' {
				canvas[r][c] = '│'
			}
		}
	}
	if r := row(0); minY <= 0 && r >= 0 && r < height {
		for c := 0; c < width; c++ {
			if canvas[r][c] == ' ' {
				canvas[r][c] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, line := range canvas {
		sb.WriteString(string(line))
		sb.WriteRune('\n')
	}
	return sb.String()
}

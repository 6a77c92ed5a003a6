package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/smoothfield/internal/field"
	"github.com/san-kum/smoothfield/internal/metrics"
	"github.com/san-kum/smoothfield/internal/render"
	"github.com/san-kum/smoothfield/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 120
)

type TickMsg time.Time

// Factory builds a fresh simulation; the model calls it on start and on
// reset.
type Factory func() (*sim.Simulation, error)

// Model drives a simulation from a frame timer and draws the field on a
// braille canvas.
type Model struct {
	title      string
	factory    Factory
	sim        *sim.Simulation
	frame      time.Duration
	canvas     *Canvas
	vp         render.Viewport
	last       field.Stats
	gapHistory []float64
	err        error
	showHelp   bool
}

// NewModel seeds the first simulation from factory. frame is the
// wall-clock interval between ticks.
func NewModel(title string, factory Factory, frame time.Duration) (Model, error) {
	s, err := factory()
	if err != nil {
		return Model{}, err
	}
	if frame <= 0 {
		frame = 16 * time.Millisecond
	}
	m := Model{
		title:      title,
		factory:    factory,
		sim:        s,
		frame:      frame,
		canvas:     NewCanvas(width, height),
		gapHistory: make([]float64, 0, historyCapacity),
	}
	m.fit()
	return m, nil
}

func (m *Model) fit() {
	front := m.sim.Field().Front()
	m.vp = render.Fit(float64(m.canvas.SubWidth()), float64(m.canvas.SubHeight()), front.X, front.Y, render.Extent(m.sim.Field()))
}

func (m Model) Simulation() *sim.Simulation { return m.sim }
func (m Model) Err() error                  { return m.err }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation once per frame.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "s":
			m.sim.TogglePause()
		case "+", "=", "alt+up":
			m.vp.ZoomIn()
		case "-", "_", "alt+down":
			m.vp.ZoomOut()
		case "0":
			m.fit()
		case "r":
			m.reset()
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		w := max(20, msg.Width-48)
		h := max(8, msg.Height-4)
		if w != m.canvas.Width || h != m.canvas.Height {
			zoom := m.vp.Zoom
			m.canvas = NewCanvas(w, h)
			m.fit()
			if zoom > 0 {
				m.vp.Zoom = min(zoom, m.vp.Zoom)
			}
		}
	case TickMsg:
		if m.err != nil {
			return m, nil
		}
		if !m.sim.Paused() {
			st, err := m.sim.Tick()
			if err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.last = st
			m.gapHistory = append(m.gapHistory, metrics.MaxGap(m.sim.Field()))
			if len(m.gapHistory) > historyCapacity {
				m.gapHistory = m.gapHistory[1:]
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) reset() {
	s, err := m.factory()
	if err != nil {
		m.err = err
		return
	}
	m.sim = s
	m.last = field.Stats{}
	m.gapHistory = m.gapHistory[:0]
}

// draw recolours by rank and rasterises every sample.
func (m *Model) draw() {
	m.canvas.Clear()
	f := m.sim.Field()
	render.Recolor(f)
	f.Each(func(s *field.Sample) {
		seg := render.Segments(s)
		p0 := m.vp.ToScreen(seg[0])
		for _, p := range seg[1:] {
			p1 := m.vp.ToScreen(p)
			m.canvas.DrawLine(int(p0.X), int(p0.Y), int(p1.X), int(p1.Y), s.Color)
			p0 = p1
		}
	})
}

// View renders the canvas next to the stats panel.
func (m Model) View() string {
	st := themed(CurrentTheme)
	m.draw()
	canvasView := st.canvas.Render(m.canvas.Render())

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.title)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(st.warn.Render("HALTED") + "\n\n")
	case m.sim.Paused():
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	default:
		s.WriteString("RUNNING\n\n")
	}

	if len(m.gapHistory) > 1 {
		chart := asciigraph.Plot(m.gapHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("max gap"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	f := m.sim.Field()
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Tick", fmt.Sprintf("%d", m.sim.Ticks()))
	row("Time", fmt.Sprintf("%.2fs", float64(m.sim.Ticks())*m.sim.Step()))
	row("Samples", fmt.Sprintf("%d / %d", f.Len(), f.Capacity()))
	rs := m.sim.Resampler()
	row("Epsilon", fmt.Sprintf("%.4f ± %.0e", rs.Epsilon, rs.Jitter))
	row("Max gap", fmt.Sprintf("%.5f", metrics.MaxGap(f)))
	row("Split", fmt.Sprintf("%d pairs", m.last.Subdivided))
	row("Inserted", fmt.Sprintf("%d", m.last.Inserted))
	row("Evicted", fmt.Sprintf("%d front, %d back", m.last.EvictedFront, m.last.EvictedBack))
	row("Zoom", fmt.Sprintf("%.3f", m.vp.Zoom))
	if m.err != nil {
		s.WriteString("\n" + st.warn.Render(m.err.Error()) + "\n")
	}

	s.WriteString(st.help.Render("─────────────────────\nSP/S:Pause R:Reset Q:Quit\n+/-:Zoom 0:Fit T:Theme ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space/S  - Pause/Resume             ║
║  +/-      - Zoom in/out (x1.1)       ║
║  0        - Fit view                 ║
║  R        - Reseed the field         ║
║  T        - Cycle themes             ║
║  Q/Esc    - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Run opens the live view full screen and returns the simulation error
// that stopped it, if any.
func Run(title string, factory Factory, frame time.Duration) error {
	m, err := NewModel(title, factory, frame)
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok {
		return fm.Err()
	}
	return nil
}

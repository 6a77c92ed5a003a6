package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/smoothfield/internal/field"
	"github.com/san-kum/smoothfield/internal/metrics"
	"github.com/san-kum/smoothfield/internal/render"
	"github.com/san-kum/smoothfield/internal/sim"
)

var (
	ColBg      = rl.NewColor(0, 0, 0, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColAccent  = rl.NewColor(32, 200, 255, 255)
	ColError   = rl.NewColor(255, 68, 68, 255)
)

const (
	screenWidth  = 1280
	screenHeight = 720
	maxTelemetry = 240
)

// Factory builds a fresh simulation for start and reset.
type Factory func() (*sim.Simulation, error)

type App struct {
	Title     string
	Factory   Factory
	Sim       *sim.Simulation
	View      render.Viewport
	FPS       int32
	Last      field.Stats
	Telemetry []float64
	Err       error
	ShowHUD   bool
}

// initWindow opens a resizable window and makes Esc close it.
func initWindow(title string, fps int32) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(screenWidth, screenHeight, title)
	rl.SetTargetFPS(fps)
	rl.SetExitKey(rl.KeyEscape)
}

func NewApp(title string, factory Factory, fps int32) (*App, error) {
	s, err := factory()
	if err != nil {
		return nil, err
	}
	a := &App{
		Title:     title,
		Factory:   factory,
		Sim:       s,
		FPS:       fps,
		Telemetry: make([]float64, 0, maxTelemetry),
		ShowHUD:   true,
	}
	a.fit()
	return a, nil
}

func (a *App) fit() {
	front := a.Sim.Field().Front()
	a.View = render.Fit(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()), front.X, front.Y, render.Extent(a.Sim.Field()))
}

// Run opens the window and blocks until it is closed or a tick fails.
// The simulation advances once per frame at fps frames per second.
func Run(title string, factory Factory, fps int32) error {
	if fps <= 0 {
		fps = 60
	}
	initWindow(title, fps)
	defer rl.CloseWindow()

	app, err := NewApp(title, factory, fps)
	if err != nil {
		return err
	}
	app.RunLoop()
	return app.Err
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && a.Err == nil {
		a.Update()
		a.Draw()
	}
}

// Update handles input then advances the simulation one tick.
func (a *App) Update() {
	if rl.IsWindowResized() {
		zoom := a.View.Zoom
		a.View.Width = float64(rl.GetScreenWidth())
		a.View.Height = float64(rl.GetScreenHeight())
		a.View.Zoom = zoom
	}

	alt := rl.IsKeyDown(rl.KeyLeftAlt) || rl.IsKeyDown(rl.KeyRightAlt)
	switch {
	case rl.IsKeyPressed(rl.KeyS):
		a.Sim.TogglePause()
	case alt && rl.IsKeyPressed(rl.KeyUp):
		a.View.ZoomIn()
	case alt && rl.IsKeyPressed(rl.KeyDown):
		a.View.ZoomOut()
	case rl.IsKeyPressed(rl.KeyZero):
		a.fit()
	case rl.IsKeyPressed(rl.KeyH):
		a.ShowHUD = !a.ShowHUD
	case rl.IsKeyPressed(rl.KeyR):
		a.reset()
	}

	if a.Sim.Paused() {
		return
	}
	st, err := a.Sim.Tick()
	if err != nil {
		a.Err = err
		return
	}
	a.Last = st
	a.Telemetry = append(a.Telemetry, metrics.MaxGap(a.Sim.Field()))
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
}

func (a *App) reset() {
	s, err := a.Factory()
	if err != nil {
		a.Err = err
		return
	}
	a.Sim = s
	a.Last = field.Stats{}
	a.Telemetry = a.Telemetry[:0]
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawField()
	if a.ShowHUD {
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	rl.DrawText("smoothfield", 30, 30, 24, ColSelect)
	rl.DrawText(fmt.Sprintf(":: %s", a.Title), 200, 34, 16, ColText)

	status, col := "RUNNING", ColSelect
	if a.Sim.Paused() {
		status, col = "PAUSED", ColTextDim
	}
	rl.DrawText(status, int32(rl.GetScreenWidth())-130, 30, 16, col)

	f := a.Sim.Field()
	lines := []string{
		fmt.Sprintf("tick     %d", a.Sim.Ticks()),
		fmt.Sprintf("samples  %d / %d", f.Len(), f.Capacity()),
		fmt.Sprintf("inserted %d", a.Last.Inserted),
		fmt.Sprintf("evicted  %d front  %d back", a.Last.EvictedFront, a.Last.EvictedBack),
		fmt.Sprintf("zoom     %.3f", a.View.Zoom),
	}
	for i, l := range lines {
		rl.DrawText(l, 30, int32(70+18*i), 14, ColText)
	}

	a.DrawTelemetry()

	h := int32(rl.GetScreenHeight())
	rl.DrawText("[S] PAUSE  [ALT+UP/DOWN] ZOOM  [0] FIT  [R] RESET  [H] HUD  [ESC] QUIT", 30, h-40, 14, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), int32(rl.GetScreenWidth())-100, h-40, 14, ColTextDim)
}

// DrawTelemetry plots the recent max adjacent gap.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, rl.GetScreenHeight()-130
	width, height := 400, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal, maxVal = min(minVal, v), max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	rl.DrawText(fmt.Sprintf("gap %.4f", a.Telemetry[len(a.Telemetry)-1]), int32(rectX+width+10), int32(rectY+height-10), 14, ColText)
}

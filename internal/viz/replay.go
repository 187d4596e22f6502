package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/geodesim/internal/export"
	"github.com/san-kum/geodesim/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	canvasWidth  = 60
	canvasHeight = 20
	graphWidth   = 28
	graphHeight  = 6
	maxSpeed     = 64
	frameRate    = time.Second / 60
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Replay plays back a finished trajectory. The trajectory is computed up
// front; the model only moves a play head over its points.
type Replay struct {
	scene   export.Scene
	title   string
	canvas  *Canvas
	head    int
	speed   int
	running bool
}

func NewReplay(scene export.Scene, title string) Replay {
	return Replay{
		scene:   scene,
		title:   title,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		speed:   1,
		running: true,
	}
}

func (m Replay) Head() int     { return m.head }
func (m Replay) Speed() int    { return m.speed }
func (m Replay) Running() bool { return m.running }

// Done reports whether the play head sits on the last point.
func (m Replay) Done() bool { return m.head >= len(m.scene.Points)-1 }

func (m Replay) Init() tea.Cmd { return tick() }

func (m Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.head = 0
			m.running = true
		case "right", "l":
			m.advance(1)
		case "left", "h":
			m.advance(-1)
		case "+", "=":
			if m.speed < maxSpeed {
				m.speed *= 2
			}
		case "-", "_":
			if m.speed > 1 {
				m.speed /= 2
			}
		}
	case TickMsg:
		if m.running {
			m.advance(m.speed)
			if m.Done() {
				m.running = false
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Replay) advance(n int) {
	last := len(m.scene.Points) - 1
	m.head += n
	if m.head > last {
		m.head = last
	}
	if m.head < 0 {
		m.head = 0
	}
}

func (m Replay) View() string {
	DrawScene(m.canvas, m.scene, m.head)
	left := canvasStyle.Render(m.canvas.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, m.stats())
}

func (m Replay) stats() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(m.title) + "\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}

	switch {
	case m.Done():
		name := m.scene.Outcome.String()
		b.WriteString(outcomeStyle(name).Render(strings.ToUpper(name)) + "\n\n")
	case m.running:
		b.WriteString(statusRunning.Render("▶ PLAYING") + "\n\n")
	default:
		b.WriteString(statusPaused.Render("⏸ PAUSED") + "\n\n")
	}

	if len(m.scene.Points) > 0 {
		p := m.scene.Points[m.head]
		row("step", fmt.Sprintf("%d / %d", m.head, len(m.scene.Points)-1))
		row("x", fmt.Sprintf("%.4f", p.X))
		row("y", fmt.Sprintf("%.4f", p.Y))
		row("z", fmt.Sprintf("%.4f", p.Z))
	}
	row("speed", fmt.Sprintf("%dx", m.speed))

	if m.Done() && len(m.scene.Metrics) > 0 {
		b.WriteString("\n")
		keys := make([]string, 0, len(m.scene.Metrics))
		for k := range m.scene.Metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			row(k, fmt.Sprintf("%.4f", m.scene.Metrics[k]))
		}
	}

	if len(m.scene.Points) > 0 {
		if profile := HeightProfile(m.scene.Points[:m.head+1], graphWidth, graphHeight); profile != "" {
			b.WriteString(graphStyle.Render(profile) + "\n")
		}
	}
	b.WriteString(helpStyle.Render("space pause • ←/→ step • +/- speed • r restart • q quit"))
	return statsStyle.Render(b.String())
}

// HeightProfile plots z over the given points. It returns "" for fewer than
// two points.
func HeightProfile(points []sim.Point, width, height int) string {
	if len(points) < 2 {
		return ""
	}
	zs := make([]float64, len(points))
	for i, p := range points {
		zs[i] = p.Z
	}
	return asciigraph.Plot(zs,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption("height"),
		asciigraph.Precision(2),
	)
}

// DrawScene redraws c with the wells, the goal and the path up to head.
func DrawScene(c *Canvas, scene export.Scene, head int) {
	c.Clear()
	w, h := float64(c.DotsWide()-1), float64(c.DotsHigh()-1)
	dot := func(p r2.Vec) (int, int) {
		x, y := scene.Project(p, w, h)
		return int(x + 0.5), int(y + 0.5)
	}

	for _, m := range scene.Masses {
		cx, cy := dot(r2.Vec{X: m.X, Y: m.Y})
		c.DrawCircle(cx, cy, 1)
		c.Set(cx, cy)
	}
	if scene.Goal != nil {
		cx, cy := dot(*scene.Goal)
		r := int(scene.GoalRadius / (scene.Bounds.MaxX - scene.Bounds.MinX) * w)
		c.DrawCircle(cx, cy, max(r, 2))
	}

	if len(scene.Points) == 0 {
		return
	}
	head = min(max(head, 0), len(scene.Points)-1)
	px, py := dot(scene.Points[0].Vec())
	c.Set(px, py)
	for _, p := range scene.Points[1 : head+1] {
		x, y := dot(p.Vec())
		c.DrawLine(px, py, x, y)
		px, py = x, y
	}
}

package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/verlet/internal/particles"
	"github.com/san-kum/verlet/internal/sim"
)

const (
	canvasCols      = 80
	canvasRows      = 24
	canvasPadTop    = 1
	canvasPadLeft   = 2
	frameRate       = 60
	historyCapacity = 600
	cursorStep      = 20.0
	maxCatchUp      = 8
)

type TickMsg time.Time

// Options configure the live host.
type Options struct {
	Name       string
	Dt         float64
	Iterations int
	Controller sim.Controller
	Theme      string
}

// Model drives one engine from the bubbletea event loop. Physics runs at a
// fixed dt from an accumulator; rendering runs at the frame rate.
type Model struct {
	engine     *particles.Simulation
	clock      *sim.Clock
	iterations int
	controller sim.Controller
	name       string

	steps   int
	t       float64
	last    time.Time
	running bool
	err     error

	canvas *Canvas
	theme  Theme

	cursor   r2.Vec
	smooth   r2.Vec
	velocity r2.Vec
	spring   harmonica.Spring
	dragging bool

	energyHistory []float64
	showHelp      bool
}

func NewModel(engine *particles.Simulation, opts Options) Model {
	if opts.Dt <= 0 {
		opts.Dt = 1.0 / 120.0
	}
	if opts.Iterations < 0 {
		opts.Iterations = 0
	}
	center := r2.Vec{X: engine.Width() / 2, Y: engine.Height() / 2}
	if engine.AttractorEnabled {
		center = engine.Attractor
	}

	return Model{
		engine:        engine,
		clock:         sim.NewClock(opts.Dt, maxCatchUp),
		iterations:    opts.Iterations,
		controller:    opts.Controller,
		name:          opts.Name,
		running:       true,
		canvas:        NewCanvas(canvasCols, canvasRows),
		theme:         GetTheme(opts.Theme),
		cursor:        center,
		smooth:        center,
		spring:        harmonica.NewSpring(harmonica.FPS(frameRate), 8.0, 1.0),
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

// Err reports the engine error that stopped the loop, if any.
func (m Model) Err() error { return m.err }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case TickMsg:
		now := time.Time(msg)
		if !m.last.IsZero() {
			if err := m.advance(now.Sub(m.last)); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
		m.last = now
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.engine
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "g":
		e.GravityEnabled = true
	case "h":
		e.GravityEnabled = false
	case "c":
		e.CollisionsEnabled = true
	case "v":
		e.CollisionsEnabled = false
	case "m":
		e.AttractorEnabled = !e.AttractorEnabled
	case "r":
		e.Reset()
		m.energyHistory = m.energyHistory[:0]
	case "up", "w":
		m.moveCursor(0, cursorStep)
	case "down", "s":
		m.moveCursor(0, -cursorStep)
	case "left", "a":
		m.moveCursor(-cursorStep, 0)
	case "right", "d":
		m.moveCursor(cursorStep, 0)
	case "t":
		m.theme = NextTheme(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// handleMouse enables the attractor while the left button is held, with the
// cursor following the pointer.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	pos, inside := m.cellToWorld(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && inside {
			m.dragging = true
			m.engine.AttractorEnabled = true
			m.cursor = pos
		}
	case tea.MouseActionMotion:
		if m.dragging {
			m.cursor = pos
		}
	case tea.MouseActionRelease:
		if m.dragging {
			m.dragging = false
			m.engine.AttractorEnabled = false
		}
	}
}

// cellToWorld maps a terminal cell to world coordinates with y up. The
// result is clamped to the world.
func (m *Model) cellToWorld(x, y int) (r2.Vec, bool) {
	col := x - canvasPadLeft
	row := y - canvasPadTop
	inside := col >= 0 && col < m.canvas.Width && row >= 0 && row < m.canvas.Height

	w, h := m.engine.Width(), m.engine.Height()
	wx := (float64(col) + 0.5) / float64(m.canvas.Width) * w
	wy := h - (float64(row)+0.5)/float64(m.canvas.Height)*h
	return r2.Vec{X: clamp(wx, 0, w), Y: clamp(wy, 0, h)}, inside
}

func (m *Model) moveCursor(dx, dy float64) {
	m.cursor.X = clamp(m.cursor.X+dx, 0, m.engine.Width())
	m.cursor.Y = clamp(m.cursor.Y+dy, 0, m.engine.Height())
}

// advance runs the physics steps due for elapsed wall time. While paused
// the clock still drains so resuming does not burst.
func (m *Model) advance(elapsed time.Duration) error {
	m.smooth.X, m.velocity.X = m.spring.Update(m.smooth.X, m.velocity.X, m.cursor.X)
	m.smooth.Y, m.velocity.Y = m.spring.Update(m.smooth.Y, m.velocity.Y, m.cursor.Y)
	m.engine.Attractor = m.smooth

	n := m.clock.Advance(elapsed)
	if !m.running {
		return nil
	}

	dt := m.clock.Dt()
	for i := 0; i < n; i++ {
		if m.controller != nil {
			before := m.engine.Attractor
			if err := m.controller.Apply(m.engine, m.steps, m.t); err != nil {
				return err
			}
			if m.engine.Attractor != before {
				m.cursor, m.smooth, m.velocity = m.engine.Attractor, m.engine.Attractor, r2.Vec{}
			}
		}
		if err := m.engine.Step(dt, m.iterations); err != nil {
			return err
		}
		m.steps++
		m.t = float64(m.steps) * dt
	}

	if n > 0 {
		m.energyHistory = append(m.energyHistory, m.engine.KineticEnergy())
		if len(m.energyHistory) > historyCapacity {
			m.energyHistory = m.energyHistory[1:]
		}
	}
	return nil
}

// draw projects every particle into braille sub-pixels, y flipped.
func (m *Model) draw() {
	c := m.canvas
	c.Clear()
	cw, ch := c.Dots()
	sx := float64(cw) / m.engine.Width()
	sy := float64(ch) / m.engine.Height()

	for i := range m.engine.Particles {
		p := &m.engine.Particles[i]
		c.FillCircle(p.Pos.X*sx, (m.engine.Height()-p.Pos.Y)*sy, p.Radius*math.Min(sx, sy))
	}
}

func (m Model) cursorOverlay() (int, int) {
	cw, ch := m.canvas.Dots()
	x := m.smooth.X / m.engine.Width() * float64(cw)
	y := (m.engine.Height() - m.smooth.Y) / m.engine.Height() * float64(ch)
	return int(x) / 2, int(y) / 4
}

func (m Model) View() string {
	m.draw()

	particleStyle := lipgloss.NewStyle().Foreground(m.theme.Particles)
	canvasView := m.canvas.String()
	if m.engine.AttractorEnabled {
		canvasView = m.withCursor(particleStyle)
	} else {
		canvasView = particleStyle.Render(canvasView)
	}
	canvasView = canvasStyle.Render(canvasView)

	var s strings.Builder
	title := m.name
	if title == "" {
		title = "verlet"
	}
	s.WriteString(headerStyle.Foreground(m.theme.Accent).Render(strings.ToUpper(title)) + "\n")
	if m.running {
		s.WriteString(statusRunning.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(statusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Σ|v|²"))
		s.WriteString(lipgloss.NewStyle().Foreground(m.theme.Accent).Render(chart) + "\n\n")
	}

	energy := 0.0
	if n := len(m.energyHistory); n > 0 {
		energy = m.energyHistory[n-1]
	}
	s.WriteString(row("Time", fmt.Sprintf("%.2fs", m.t)))
	s.WriteString(row("Steps", fmt.Sprintf("%d", m.steps)))
	s.WriteString(row("Particles", fmt.Sprintf("%d", m.engine.Len())))
	s.WriteString(row("Energy", fmt.Sprintf("%.2f", energy)))
	s.WriteString(row("Iterations", fmt.Sprintf("%d", m.iterations)))
	s.WriteString("\n")
	s.WriteString(row("Gravity", onOff(m.engine.GravityEnabled)))
	s.WriteString(row("Collisions", onOff(m.engine.CollisionsEnabled)))
	s.WriteString(row("Attractor", onOff(m.engine.AttractorEnabled)))
	s.WriteString(row("Target", fmt.Sprintf("%.0f, %.0f", m.cursor.X, m.cursor.Y)))
	s.WriteString("\n" + Separator(34, m.theme) + "\n")
	s.WriteString(lipgloss.NewStyle().Foreground(m.theme.Muted).Render("SP:Pause R:Reset Q:Quit ?:Help"))

	panel := panelStyle.BorderForeground(m.theme.Border).Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panel)
	if m.showHelp {
		return m.help() + "\n" + mainView
	}
	return mainView
}

// withCursor renders the canvas with the attractor cell highlighted.
func (m Model) withCursor(particleStyle lipgloss.Style) string {
	col, rowIdx := m.cursorOverlay()
	cursorStyle := lipgloss.NewStyle().Foreground(m.theme.Cursor).Bold(true)

	var b strings.Builder
	for r, line := range m.canvas.Grid {
		if r == rowIdx && col >= 0 && col < len(line) {
			b.WriteString(particleStyle.Render(string(line[:col])))
			b.WriteString(cursorStyle.Render("✛"))
			b.WriteString(particleStyle.Render(string(line[col+1:])))
		} else {
			b.WriteString(particleStyle.Render(string(line)))
		}
		if r < len(m.canvas.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m Model) help() string {
	return helpBox.BorderForeground(m.theme.Border).Render(strings.Join([]string{
		"Space      pause / resume",
		"G / H      gravity on / off",
		"C / V      collisions on / off",
		"M          toggle attractor",
		"Mouse      hold left button to attract",
		"WASD/←↑↓→  move attractor target",
		"R          respawn particles",
		"T          cycle theme",
		"Q / Esc    quit",
	}, "\n"))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Run starts the live view on the alternate screen with mouse tracking.
func Run(engine *particles.Simulation, opts Options) error {
	p := tea.NewProgram(NewModel(engine, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}

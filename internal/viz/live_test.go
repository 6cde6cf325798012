package viz

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/verlet/internal/particles"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	e, err := particles.New(50, 400, 300, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return NewModel(e, Options{Name: "test", Dt: 0.01, Iterations: 2})
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestKeyToggles(t *testing.T) {
	m := newTestModel(t)
	e := m.engine

	tests := []struct {
		key   string
		check func() bool
	}{
		{"h", func() bool { return !e.GravityEnabled }},
		{"g", func() bool { return e.GravityEnabled }},
		{"v", func() bool { return !e.CollisionsEnabled }},
		{"c", func() bool { return e.CollisionsEnabled }},
		{"m", func() bool { return e.AttractorEnabled }},
		{"m", func() bool { return !e.AttractorEnabled }},
	}

	for _, tt := range tests {
		m = send(m, key(tt.key))
		if !tt.check() {
			t.Errorf("key %q did not take effect", tt.key)
		}
	}
}

func TestPauseStopsPhysics(t *testing.T) {
	m := newTestModel(t)
	start := time.Unix(0, 0)

	m = send(m, key(" "))
	if m.running {
		t.Fatal("space should pause")
	}

	m = send(m, TickMsg(start))
	m = send(m, TickMsg(start.Add(50*time.Millisecond)))
	if m.steps != 0 {
		t.Errorf("paused model stepped %d times", m.steps)
	}

	m = send(m, key(" "))
	m = send(m, TickMsg(start.Add(80*time.Millisecond)))
	if m.steps == 0 {
		t.Error("resumed model did not step")
	}
	if m.steps > 3 {
		t.Errorf("time accumulated while paused leaked into the resume: %d steps", m.steps)
	}
}

func TestTickStepsAtFixedRate(t *testing.T) {
	m := newTestModel(t)
	start := time.Unix(0, 0)

	m = send(m, TickMsg(start))
	m = send(m, TickMsg(start.Add(55*time.Millisecond)))

	if m.steps != 5 {
		t.Errorf("expected 5 steps of 10ms in 55ms, got %d", m.steps)
	}
	if len(m.energyHistory) != 1 {
		t.Errorf("expected one energy sample per frame, got %d", len(m.energyHistory))
	}
}

func TestTickCatchUpIsCapped(t *testing.T) {
	m := newTestModel(t)
	start := time.Unix(0, 0)

	m = send(m, TickMsg(start))
	m = send(m, TickMsg(start.Add(2*time.Second)))

	if m.steps != maxCatchUp {
		t.Errorf("expected catch-up cap of %d steps, got %d", maxCatchUp, m.steps)
	}
}

type stepTimes struct {
	times []float64
}

func (r *stepTimes) Apply(s *particles.Simulation, step int, t float64) error {
	r.times = append(r.times, t)
	return nil
}

func TestSimTimeFollowsStepCount(t *testing.T) {
	e, err := particles.New(10, 400, 300, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	rec := &stepTimes{}
	dt := 1.0 / 120.0
	m := NewModel(e, Options{Dt: dt, Iterations: 1, Controller: rec})

	start := time.Unix(0, 0)
	m = send(m, TickMsg(start))
	for i := 1; i <= 30; i++ {
		m = send(m, TickMsg(start.Add(time.Duration(i)*50*time.Millisecond)))
	}

	if m.steps <= 120 {
		t.Fatalf("expected more than 120 steps, got %d", m.steps)
	}
	for i, got := range rec.times {
		if want := float64(i) * dt; got != want {
			t.Fatalf("step %d: controller saw t=%v, want %v", i, got, want)
		}
	}
	if want := float64(m.steps) * dt; m.t != want {
		t.Errorf("t = %v after %d steps, want %v", m.t, m.steps, want)
	}
}

func TestCursorStaysInWorld(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 50; i++ {
		m = send(m, key("a"))
		m = send(m, key("w"))
	}
	if m.cursor != (r2.Vec{X: 0, Y: 300}) {
		t.Errorf("cursor should clamp to the top-left corner, got %v", m.cursor)
	}
}

func TestMouseDragAttracts(t *testing.T) {
	m := newTestModel(t)

	m = send(m, tea.MouseMsg{X: canvasPadLeft, Y: canvasPadTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !m.engine.AttractorEnabled || !m.dragging {
		t.Fatal("left press should enable the attractor")
	}
	if m.cursor.Y < 280 || m.cursor.X > 10 {
		t.Errorf("top-left cell should map near the world's top-left, got %v", m.cursor)
	}

	m = send(m, tea.MouseMsg{X: canvasPadLeft + canvasCols - 1, Y: canvasPadTop + canvasRows - 1, Action: tea.MouseActionMotion})
	if m.cursor.X < 390 || m.cursor.Y > 20 {
		t.Errorf("drag should follow the pointer, got %v", m.cursor)
	}

	m = send(m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if m.engine.AttractorEnabled {
		t.Error("release should disable the attractor")
	}
}

func TestResetClearsHistory(t *testing.T) {
	m := newTestModel(t)
	start := time.Unix(0, 0)
	m = send(m, TickMsg(start))
	m = send(m, TickMsg(start.Add(30*time.Millisecond)))

	before := m.engine.Particles[0].Pos
	m = send(m, key("r"))
	if len(m.energyHistory) != 0 {
		t.Error("reset should clear the energy history")
	}
	if m.engine.Particles[0].Pos == before {
		t.Error("reset should respawn particles")
	}
}

func TestView(t *testing.T) {
	m := newTestModel(t)
	out := m.View()
	for _, want := range []string{"TEST", "RUNNING", "Gravity", "Collisions"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = send(m, key("?"))
	if !strings.Contains(m.View(), "respawn particles") {
		t.Error("help overlay not shown")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

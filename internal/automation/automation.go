package automation

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/verlet/internal/particles"
	"gonum.org/v1/gonum/spatial/r2"
)

var ErrInvalidScenario = errors.New("automation: invalid scenario")

// timeSlack absorbs rounding in step times so an event at a whole second
// fires on the step that starts there.
const timeSlack = 1e-9

// Scenario is a scripted sequence of host commands.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Events      []Event `yaml:"events"`
}

// Event is applied before the first step whose start time is >= At.
// Unset fields leave the corresponding setting alone.
type Event struct {
	At         float64   `yaml:"at"`
	Gravity    *bool     `yaml:"gravity,omitempty"`
	Collisions *bool     `yaml:"collisions,omitempty"`
	Attractor  *bool     `yaml:"attractor,omitempty"`
	Target     []float64 `yaml:"target,omitempty"`
	Reset      bool      `yaml:"reset,omitempty"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &scenario, nil
}

func (sc *Scenario) Validate() error {
	for i, ev := range sc.Events {
		if ev.At < 0 || math.IsNaN(ev.At) || math.IsInf(ev.At, 0) {
			return fmt.Errorf("%w: event %d: time must be finite and non-negative, got %g", ErrInvalidScenario, i+1, ev.At)
		}
		if ev.Target != nil && len(ev.Target) != 2 {
			return fmt.Errorf("%w: event %d: target needs [x, y], got %d values", ErrInvalidScenario, i+1, len(ev.Target))
		}
	}
	return nil
}

// Script replays a scenario against an engine. It implements sim.Controller.
type Script struct {
	events []Event
	next   int
	logger *log.Logger
}

// NewScript orders the scenario events by time. A nil logger is silent.
func NewScript(sc *Scenario, logger *log.Logger) *Script {
	events := make([]Event, len(sc.Events))
	copy(events, sc.Events)
	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })
	return &Script{events: events, logger: logger}
}

// Apply fires every pending event due at time t.
func (s *Script) Apply(engine *particles.Simulation, step int, t float64) error {
	for s.next < len(s.events) && s.events[s.next].At <= t+timeSlack {
		ev := s.events[s.next]
		s.next++
		apply(engine, ev)
		if s.logger != nil {
			s.logger.Printf("step %d (t=%.3fs): fired event scheduled at %.3fs", step, t, ev.At)
		}
	}
	return nil
}

// Pending returns the number of events not yet fired.
func (s *Script) Pending() int { return len(s.events) - s.next }

// Rewind makes every event pending again.
func (s *Script) Rewind() { s.next = 0 }

func apply(engine *particles.Simulation, ev Event) {
	if ev.Gravity != nil {
		engine.GravityEnabled = *ev.Gravity
	}
	if ev.Collisions != nil {
		engine.CollisionsEnabled = *ev.Collisions
	}
	if ev.Attractor != nil {
		engine.AttractorEnabled = *ev.Attractor
	}
	if len(ev.Target) == 2 {
		engine.Attractor = r2.Vec{X: ev.Target[0], Y: ev.Target[1]}
	}
	if ev.Reset {
		engine.Reset()
	}
}

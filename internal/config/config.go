package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/verlet/internal/particles"
)

const (
	DefaultParticles  = 2000
	DefaultWidth      = 1200.0
	DefaultHeight     = 800.0
	DefaultDamping    = 0.999
	DefaultGravity    = 400.0
	DefaultDt         = 1.0 / 120.0
	DefaultIterations = 2
	DefaultDuration   = 10.0
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Particles int           `yaml:"particles"`
	Seed      int64         `yaml:"seed"`
	Duration  float64       `yaml:"duration"`
	World     WorldConfig   `yaml:"world"`
	Physics   PhysicsConfig `yaml:"physics"`
	Solver    SolverConfig  `yaml:"solver"`
}

type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type PhysicsConfig struct {
	Damping           float64 `yaml:"damping"`
	Gravity           float64 `yaml:"gravity"`
	GravityEnabled    bool    `yaml:"gravity_enabled"`
	CollisionsEnabled bool    `yaml:"collisions_enabled"`
	AttractorEnabled  bool    `yaml:"attractor_enabled"`

	// Attractor start position. Unset means the world center.
	AttractorX *float64 `yaml:"attractor_x,omitempty"`
	AttractorY *float64 `yaml:"attractor_y,omitempty"`
}

type SolverConfig struct {
	Dt         float64 `yaml:"dt"`
	Iterations int     `yaml:"iterations"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles: DefaultParticles,
		Duration:  DefaultDuration,
		World: WorldConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Physics: PhysicsConfig{
			Damping:           DefaultDamping,
			Gravity:           DefaultGravity,
			GravityEnabled:    true,
			CollisionsEnabled: true,
		},
		Solver: SolverConfig{
			Dt:         DefaultDt,
			Iterations: DefaultIterations,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of base; keys missing from the file keep
// base's values. base is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the ranges the engine and the runner rely on.
func (c *Config) Validate() error {
	switch {
	case c.Particles <= 0:
		return fmt.Errorf("%w: particles must be positive, got %d", ErrInvalidConfig, c.Particles)
	case !(c.World.Width > particles.MinWorldExtent) || !(c.World.Height > particles.MinWorldExtent) ||
		math.IsInf(c.World.Width, 0) || math.IsInf(c.World.Height, 0):
		return fmt.Errorf("%w: world must exceed %g in both axes, got %gx%g",
			ErrInvalidConfig, particles.MinWorldExtent, c.World.Width, c.World.Height)
	case !finiteOrUnset(c.Physics.AttractorX) || !finiteOrUnset(c.Physics.AttractorY):
		return fmt.Errorf("%w: attractor position must be finite", ErrInvalidConfig)
	case !(c.Physics.Damping > 0 && c.Physics.Damping < 1):
		return fmt.Errorf("%w: damping must be in (0, 1), got %g", ErrInvalidConfig, c.Physics.Damping)
	case !positive(c.Solver.Dt):
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Solver.Dt)
	case c.Solver.Iterations < 0:
		return fmt.Errorf("%w: iterations must be non-negative, got %d", ErrInvalidConfig, c.Solver.Iterations)
	case !positive(c.Duration):
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, c.Duration)
	}
	return nil
}

// Steps returns the number of fixed steps that fit in Duration.
func (c *Config) Steps() int {
	return int(math.Round(c.Duration / c.Solver.Dt))
}

// Clone returns a deep copy; pointer fields are not shared.
func (c *Config) Clone() *Config {
	out := *c
	out.Physics.AttractorX = clonePtr(c.Physics.AttractorX)
	out.Physics.AttractorY = clonePtr(c.Physics.AttractorY)
	return &out
}

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	x := *v
	return &x
}

func finiteOrUnset(v *float64) bool {
	return v == nil || !(math.IsNaN(*v) || math.IsInf(*v, 0))
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

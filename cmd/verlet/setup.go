package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/pflag"

	"github.com/san-kum/verlet/internal/automation"
	"github.com/san-kum/verlet/internal/config"
	"github.com/san-kum/verlet/internal/particles"
	"github.com/san-kum/verlet/internal/sim"
)

// resolveConfig layers preset < config file < flags set on the command line.
func resolveConfig(flags *pflag.FlagSet) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if flags.Changed("particles") {
		cfg.Particles = particleCount
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("dt") {
		cfg.Solver.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("iterations") {
		cfg.Solver.Iterations = iterations
	}
	if flags.Changed("width") {
		cfg.World.Width = worldWidth
	}
	if flags.Changed("height") {
		cfg.World.Height = worldHeight
	}
	if flags.Changed("damping") {
		cfg.Physics.Damping = damping
	}
	if flags.Changed("gravity") {
		cfg.Physics.Gravity = gravity
	}
	if flags.Changed("gravity-on") {
		cfg.Physics.GravityEnabled = gravityOn
	}
	if flags.Changed("collisions") {
		cfg.Physics.CollisionsEnabled = collisionsOn
	}
	if flags.Changed("attractor") {
		cfg.Physics.AttractorEnabled = attractorOn
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// effectiveSeed turns the "0 means time based" convention into a concrete,
// reportable seed.
func effectiveSeed(cfg *config.Config) int64 {
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return time.Now().UnixNano()
}

func buildEngine(cfg *config.Config, seed int64) (*particles.Simulation, error) {
	e, err := particles.New(cfg.Particles, cfg.World.Width, cfg.World.Height,
		rand.New(rand.NewSource(seed)),
		particles.WithDamping(cfg.Physics.Damping),
		particles.WithGravity(cfg.Physics.Gravity),
	)
	if err != nil {
		return nil, err
	}
	e.GravityEnabled = cfg.Physics.GravityEnabled
	e.CollisionsEnabled = cfg.Physics.CollisionsEnabled
	e.AttractorEnabled = cfg.Physics.AttractorEnabled
	if x := cfg.Physics.AttractorX; x != nil {
		e.Attractor.X = *x
	}
	if y := cfg.Physics.AttractorY; y != nil {
		e.Attractor.Y = *y
	}
	return e, nil
}

// loadController returns the scenario script for --scenario, or nil.
func loadController() (sim.Controller, error) {
	if scenario == "" {
		return nil, nil
	}
	sc, err := automation.LoadScenario(scenario)
	if err != nil {
		return nil, err
	}
	logger.Printf("scenario %q: %d events", sc.Name, len(sc.Events))
	return automation.NewScript(sc, logger), nil
}

// factory builds independent simulators that share cfg but not state.
// Each call loads its own script so replay positions are never shared.
func factory(cfg *config.Config) sim.Factory {
	return func(seed int64) (*sim.Simulator, error) {
		e, err := buildEngine(cfg, seed)
		if err != nil {
			return nil, err
		}
		ctrl, err := loadController()
		if err != nil {
			return nil, err
		}
		return sim.New(e, ctrl), nil
	}
}

func simConfig(cfg *config.Config) sim.Config {
	return sim.Config{
		Dt:            cfg.Solver.Dt,
		Duration:      cfg.Duration,
		Iterations:    cfg.Solver.Iterations,
		ValidateState: true,
	}
}

func runName() string {
	if preset != "" {
		return preset
	}
	return "run"
}

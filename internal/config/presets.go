package config

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"sparse": withOverrides(func(c *Config) {
		c.Particles = 300
		c.Physics.Damping = 0.9995
	}),
	"dense": withOverrides(func(c *Config) {
		c.Particles = 4000
		c.Solver.Iterations = 4
	}),
	"zero_g": withOverrides(func(c *Config) {
		c.Particles = 1000
		c.Physics.GravityEnabled = false
	}),
	"vortex": withOverrides(func(c *Config) {
		c.Particles = 1500
		c.Physics.GravityEnabled = false
		c.Physics.AttractorEnabled = true
		c.Duration = 20
	}),
	"gas": withOverrides(func(c *Config) {
		c.Particles = 800
		c.Physics.GravityEnabled = false
		c.Physics.CollisionsEnabled = false
		c.Physics.Damping = 0.9999
	}),
}

func withOverrides(fn func(*Config)) *Config {
	c := DefaultConfig()
	fn(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}

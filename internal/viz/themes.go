package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the particle canvas and the side panel.
type Theme struct {
	Name      string
	Particles lipgloss.Color
	Cursor    lipgloss.Color
	Accent    lipgloss.Color
	Muted     lipgloss.Color
	Border    lipgloss.Color
}

var (
	ThemeFrost = Theme{
		Name:      "frost",
		Particles: lipgloss.Color("#d0dcff"),
		Cursor:    lipgloss.Color("#ff6b6b"),
		Accent:    lipgloss.Color("#00ccff"),
		Muted:     lipgloss.Color("#666688"),
		Border:    lipgloss.Color("#444466"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Particles: lipgloss.Color("#00ff00"),
		Cursor:    lipgloss.Color("#ffff00"),
		Accent:    lipgloss.Color("#88ff88"),
		Muted:     lipgloss.Color("#005500"),
		Border:    lipgloss.Color("#00cc00"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Particles: lipgloss.Color("#feca57"),
		Cursor:    lipgloss.Color("#ff9ff3"),
		Accent:    lipgloss.Color("#ff6b6b"),
		Muted:     lipgloss.Color("#8b6b8c"),
		Border:    lipgloss.Color("#2d1b2e"),
	}

	Themes = []Theme{ThemeFrost, ThemeRetroGreen, ThemeSunset}
)

// GetTheme returns a theme by name, falling back to frost.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeFrost
}

// NextTheme returns the theme after t in Themes.
func NextTheme(t Theme) Theme {
	for i := range Themes {
		if Themes[i].Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(canvasPadTop, canvasPadLeft)
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			Padding(1, 2).
			Width(40)

	headerStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	statusRunning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	statusPaused  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))

	onStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	offStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))

	helpBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2)
)

func onOff(v bool) string {
	if v {
		return onStyle.Render("on")
	}
	return offStyle.Render("off")
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}

// Separator draws a muted rule with a center mark.
func Separator(width int, t Theme) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return lipgloss.NewStyle().Foreground(t.Muted).Render(left + " ◆ " + right)
}

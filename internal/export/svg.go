package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/verlet/internal/storage"
)

const background = "#0a0a0a"

// FrameToSVG draws every disc of a frame as a filled circle. World y points
// up, so it is flipped into SVG's downward axis.
func FrameToSVG(frame storage.Frame, scale float64) string {
	if scale <= 0 {
		scale = 1
	}
	width := frame.Width * scale
	height := frame.Height * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g>
`, width, height, width, height, background)

	for _, d := range frame.Discs {
		fmt.Fprintf(&sb, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>
`, d.X*scale, (frame.Height-d.Y)*scale, d.Radius*scale, hexColor(d.R, d.G, d.B))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// EnergyToSVG plots an energy series as a polyline scaled to fit.
func EnergyToSVG(times, energy []float64, width, height int, strokeColor string) string {
	n := min(len(times), len(energy))
	if n < 2 {
		return ""
	}

	minX, maxX := times[0], times[n-1]
	minY, maxY := energy[0], energy[0]
	for _, e := range energy[:n] {
		minY = math.Min(minY, e)
		maxY = math.Max(maxY, e)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor)

	for i := 0; i < n; i++ {
		x := (times[i] - minX) / rangeX * float64(width)
		y := float64(height) - (energy[i]-minY)/rangeY*float64(height)

		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func hexColor(r, g, b float64) string {
	return fmt.Sprintf("#%02x%02x%02x", channel(r), channel(g), channel(b))
}

func channel(v float64) int {
	return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

package export

import (
	"strings"
	"testing"

	"github.com/san-kum/verlet/internal/storage"
)

func TestFrameToSVG(t *testing.T) {
	frame := storage.Frame{
		Width:  100,
		Height: 50,
		Discs: []storage.Disc{
			{X: 10, Y: 10, Radius: 2, R: 1, G: 0.7, B: 0.7},
			{X: 90, Y: 40, Radius: 4, R: 0.7, G: 0.7, B: 1},
		},
	}

	svg := FrameToSVG(frame, 2)

	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("expected 2 circles, got %d", got)
	}
	if !strings.Contains(svg, `width="200" height="100"`) {
		t.Error("scale not applied to the viewport")
	}
	if !strings.Contains(svg, `cx="20.00" cy="80.00" r="4.00" fill="#ffb3b3"`) {
		t.Errorf("first disc not flipped or colored as expected:\n%s", svg)
	}
}

func TestFrameToSVG_Empty(t *testing.T) {
	svg := FrameToSVG(storage.Frame{Width: 10, Height: 10}, 0)
	if strings.Contains(svg, "<circle") || !strings.HasSuffix(svg, "</svg>") {
		t.Errorf("unexpected svg for empty frame:\n%s", svg)
	}
}

func TestEnergyToSVG(t *testing.T) {
	tests := []struct {
		name   string
		times  []float64
		energy []float64
		empty  bool
	}{
		{"too short", []float64{0}, []float64{1}, true},
		{"flat", []float64{0, 1, 2}, []float64{3, 3, 3}, false},
		{"decaying", []float64{0, 1, 2}, []float64{9, 4, 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svg := EnergyToSVG(tt.times, tt.energy, 400, 200, "#00ff00")
			if tt.empty {
				if svg != "" {
					t.Error("expected no output")
				}
				return
			}
			if strings.Count(svg, " L") != len(tt.times)-1 {
				t.Errorf("expected %d segments in:\n%s", len(tt.times)-1, svg)
			}
		})
	}
}

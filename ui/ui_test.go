package ui

import (
	"strings"
	"testing"
)

func TestHUDLines(t *testing.T) {
	d := HUDData{
		Particles: 3750,
		Links:     7375,
		Pinned:    75,
		Broken:    4,
		Frame:     600,
		FPS:       60,
		Wind:      true,
		ColorMode: "strain",
		Zoom:      1.5,
	}

	lines := d.Lines()
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	if lines[0] != "Particles: 3750 | Links: 7375 | Pinned: 75 | Broken: 4" {
		t.Errorf("counts line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "Zoom: 1.50x") {
		t.Errorf("frame line = %q", lines[1])
	}
	if lines[2] != "Wind: on | Colors: strain" {
		t.Errorf("wind line = %q", lines[2])
	}
	if lines[3] != "Running" {
		t.Errorf("status = %q", lines[3])
	}

	d.Paused = true
	d.Wind = false
	lines = d.Lines()
	if lines[3] != "PAUSED" || !strings.HasPrefix(lines[2], "Wind: off") {
		t.Errorf("paused lines = %q", lines)
	}
}

func TestStrainFraction(t *testing.T) {
	tests := []struct {
		name     string
		e, max   float64
		expected float32
	}{
		{"at rest", 1, 1.5, 0},
		{"compressed", 0.9, 1.5, 0},
		{"half", 1.25, 1.5, 0.5},
		{"breaking", 1.5, 1.5, 1},
		{"beyond", 2, 1.5, 1},
		{"no span", 1.2, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strainFraction(tt.e, tt.max); got != tt.expected {
				t.Errorf("strainFraction(%v, %v) = %v, want %v", tt.e, tt.max, got, tt.expected)
			}
		})
	}
}

func TestControlsPanelContains(t *testing.T) {
	c := NewControlsPanel(100, 50, 200)

	tests := []struct {
		name string
		x, y float32
		want bool
	}{
		{"inside", 150, 60, true},
		{"left of panel", 99, 60, false},
		{"right edge exclusive", 300, 60, false},
		{"below", 150, 50 + controlHeight, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}

	c.Toggle()
	if c.Contains(150, 60) {
		t.Error("hidden panel should not capture the mouse")
	}
}

func TestFormatFloat(t *testing.T) {
	if got := formatFloat(8000); got != "8000" {
		t.Errorf("formatFloat(8000) = %q", got)
	}
	if got := formatFloat(12.25); got != "12.2" && got != "12.3" {
		t.Errorf("formatFloat(12.25) = %q", got)
	}
}

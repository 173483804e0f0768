package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestBarChartLabelsAndHeight(t *testing.T) {
	values := []float64{100, 250, 400}
	labels := []string{"2024", "2025", "2026"}
	out := BarChart(values, labels, lipgloss.Color("#D4C19C"), 40, 6)

	lines := strings.Split(out, "\n")
	// 6 bar rows + axis + labels
	if len(lines) != 8 {
		t.Fatalf("got %d lines, want 8:\n%s", len(lines), out)
	}
	last := ansi.Strip(lines[len(lines)-1])
	for _, l := range labels {
		if !strings.Contains(last, l) {
			t.Errorf("label row %q missing %q", last, l)
		}
	}
	if !strings.Contains(ansi.Strip(lines[0]), "400") {
		t.Errorf("top tick should be the ceiling 400, got %q", ansi.Strip(lines[0]))
	}
}

func TestBarChartFallsBackToSparkline(t *testing.T) {
	out := BarChart([]float64{1, 2, 3}, nil, lipgloss.Color("2"), 10, 5)
	if strings.Contains(out, "\n") {
		t.Errorf("narrow chart should be a one-line sparkline, got %q", out)
	}
	if got := ansi.Strip(out); got != "▃▅█" {
		t.Errorf("sparkline = %q", got)
	}
}

func TestFormatChartLabel(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{500, "500"},
		{2000, "2k"},
		{2500, "2.5k"},
		{8_000_000, "8M"},
		{0.5, "0.50"},
	}
	for _, tt := range tests {
		if got := formatChartLabel(tt.in); got != tt.want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestShareBar(t *testing.T) {
	out := ansi.Strip(ShareBar(25, 100, lipgloss.Color("#27AE60"), 10))
	if !strings.HasSuffix(out, " 25%") {
		t.Errorf("ShareBar = %q", out)
	}
	if got := ansi.Strip(ShareBar(5, 0, lipgloss.Color("1"), 10)); !strings.HasSuffix(got, "  0%") {
		t.Errorf("ShareBar with zero total = %q", got)
	}
}

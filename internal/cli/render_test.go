package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestRenderTable_AlignsAccentedLabels(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Concepto", "2025"},
		Rows: [][]string{
			{"Petróleo", "1.0"},
			{SeparatorRow},
			{"IVA", "12,345.6"},
		},
	})
	lines := strings.Split(strings.TrimRight(ansi.Strip(out), "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	want := ansi.StringWidth(lines[0])
	for i, l := range lines {
		if w := ansi.StringWidth(l); w != want {
			t.Errorf("line %d width = %d, want %d: %q", i, w, want, l)
		}
	}
	if !strings.Contains(lines[3], "      1.0 │") {
		t.Errorf("figure column should be right-aligned: %q", lines[2])
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Errorf("RenderTable(empty) = %q", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline([]float64{0, 7, 14}); got != "▁▄█" {
		t.Errorf("RenderSparkline = %q, want ▁▄█", got)
	}
	if got := RenderSparkline(nil); got != "" {
		t.Errorf("RenderSparkline(nil) = %q", got)
	}
}

func TestRenderShareBar(t *testing.T) {
	got := ansi.Strip(RenderShareBar(1, 4, 8))
	if got != "██░░░░░░ 25.0%" {
		t.Errorf("RenderShareBar = %q", got)
	}
	if RenderShareBar(1, 0, 8) != "" {
		t.Error("zero total should render nothing")
	}
}

package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/ingresos/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values. Negative values are
// drawn at the floor.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	peak := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int(math.Max(v, 0) / peak * float64(len(sparkBlocks)-1))
		if idx >= len(sparkBlocks) {
			idx = len(sparkBlocks) - 1
		}
		buf.WriteRune(sparkBlocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// BarChart renders one vertical bar per value with its label centered under
// it. The y axis shows the ceiling and its midpoint. Narrow areas fall back to
// a sparkline.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	n := len(values)
	if n == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}

	t := theme.Active

	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}
	step := chartTickStep(maxVal)
	ceiling := math.Ceil(maxVal/step) * step

	yLabelW := len(formatChartLabel(ceiling)) + 1
	if yLabelW < 4 {
		yLabelW = 4
	}
	chartW := width - yLabelW - 1
	slot := chartW / n
	if slot < 2 {
		return Sparkline(values, color)
	}
	barW := slot - 2
	if barW < 1 {
		barW = 1
	}
	if barW > 8 {
		barW = 8
	}
	lead := (slot - barW) / 2

	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	bar := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	mid := (height + 1) / 2
	var b strings.Builder
	for row := height; row >= 1; row-- {
		top := ceiling * float64(row) / float64(height)
		bottom := ceiling * float64(row-1) / float64(height)

		label := ""
		switch row {
		case height:
			label = formatChartLabel(ceiling)
		case mid:
			label = formatChartLabel(ceiling * float64(mid) / float64(height))
		}
		b.WriteString(axis.Render(fmt.Sprintf("%*s", yLabelW, label)))
		b.WriteString(axis.Render("│"))

		for _, v := range values {
			cell := strings.Repeat(" ", barW)
			switch {
			case v >= top:
				cell = strings.Repeat("█", barW)
			case v > bottom:
				idx := int((v - bottom) / (top - bottom) * float64(len(sparkBlocks)))
				if idx >= len(sparkBlocks) {
					idx = len(sparkBlocks) - 1
				}
				cell = strings.Repeat(string(sparkBlocks[idx]), barW)
			}
			b.WriteString(blank.Render(strings.Repeat(" ", lead)))
			b.WriteString(bar.Render(cell))
			b.WriteString(blank.Render(strings.Repeat(" ", slot-lead-barW)))
		}
		b.WriteString("\n")
	}

	b.WriteString(axis.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axis.Render("└" + strings.Repeat("─", slot*n)))

	if len(labels) == n {
		b.WriteString("\n")
		b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
		for _, lbl := range labels {
			lbl = ansi.Truncate(lbl, slot, "")
			w := ansi.StringWidth(lbl)
			left := (slot - w) / 2
			b.WriteString(axis.Render(strings.Repeat(" ", left) + lbl + strings.Repeat(" ", slot-w-left)))
		}
	}

	return b.String()
}

// chartTickStep computes a round interval targeting about five ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

// formatChartLabel abbreviates an amount in millions of pesos: "k" is
// thousands of millions, "M" millions of millions.
func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		return trimZero(v/1e6) + "M"
	case v >= 1e3:
		return trimZero(v/1e3) + "k"
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func trimZero(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Theme colors (Hacienda)
var (
	ColorBorder    = lipgloss.Color("#8A8D91")
	ColorTextDim   = lipgloss.Color("#8A8D91")
	ColorTextMuted = lipgloss.Color("#6C757D")
	ColorText      = lipgloss.Color("#F4F1EA")
	ColorGold      = lipgloss.Color("#D4C19C")
	ColorNavy      = lipgloss.Color("#2C3E50")
	ColorGreen     = lipgloss.Color("#27AE60")
	ColorRed       = lipgloss.Color("#C0392B")
	ColorBlue      = lipgloss.Color("#5D8AA8")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorGold).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorGold)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	upStyle = lipgloss.NewStyle().
		Foreground(ColorGreen)

	downStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// SeparatorRow is a row value that renders as a horizontal rule.
const SeparatorRow = "---"

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 60
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows. The first
// column is left-aligned, the rest are right-aligned figures. Cell widths
// are measured in terminal cells, so accented labels line up.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			widths[i] = max(widths[i], ansi.StringWidth(h))
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols {
					widths[i] = max(widths[i], ansi.StringWidth(cell))
				}
			}
		}
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	rule := func(left, mid, right string) {
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right))
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(" " + padCell(h, widths[i], i > 0) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
		rule("├", "┼", "┤")
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == SeparatorRow {
			rule("├", "┼", "┤")
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(valueStyle.Render(" " + padCell(cell, widths[i], i > 0) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	rule("╰", "┴", "╯")

	return b.String()
}

// padCell pads s to w terminal cells, truncating with an ellipsis when longer.
func padCell(s string, w int, right bool) string {
	sw := ansi.StringWidth(s)
	if sw > w {
		return ansi.Truncate(s, w, "…")
	}
	pad := strings.Repeat(" ", w-sw)
	if right {
		return pad + s
	}
	return s + pad
}

// RenderChange renders a signed percentage with its arrow, green for growth
// and red for decline.
func RenderChange(ratio float64) string {
	s := Arrow(ratio) + " " + FormatSignedPercent(ratio)
	if ratio >= 0 {
		return upStyle.Render(s)
	}
	return downStyle.Render(s)
}

// RenderShareBar renders the share part/total as a bar with a percentage.
func RenderShareBar(part, total float64, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}

	pct := part / total
	if pct > 1 {
		pct = 1
	}
	if pct < 0 {
		pct = 0
	}

	filled := int(pct * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %s", mutedStyle.Render(bar), FormatPercent(pct))
}

// RenderSparkline generates a unicode block sparkline from a series of values.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	hi := values[0]
	for _, v := range values[1:] {
		if v > hi {
			hi = v
		}
	}
	if hi == 0 {
		hi = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / hi * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(blocks[idx])
	}

	return b.String()
}

// RenderHorizontalBar renders a labelled horizontal bar scaled to maxValue.
func RenderHorizontalBar(label string, value, maxValue float64, maxWidth int, color lipgloss.Color) string {
	if maxValue <= 0 {
		return "  " + label
	}
	barLen := int(value / maxValue * float64(maxWidth))
	if barLen < 0 {
		barLen = 0
	}
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", barLen))
	return fmt.Sprintf("  %s %s", label, bar)
}

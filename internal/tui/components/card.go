// Package components provides reusable TUI widgets for the ingresos dashboard.
package components

import (
	"strings"

	"github.com/theirongolddev/ingresos/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// LayoutRow distributes totalWidth into n widths that sum to exactly totalWidth.
// First items absorb the remainder from integer division.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	base := totalWidth / n
	remainder := totalWidth % n
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
		if i < remainder {
			widths[i]++
		}
	}
	return widths
}

// Metric is the content of one KPI card.
type Metric struct {
	Label string
	Value string
	Delta string
	// DeltaColor colors the delta line; empty uses the muted text color.
	DeltaColor lipgloss.Color
	// Notes are extra dimmed lines, such as macroeconomic annotations.
	Notes []string
}

// MetricCard renders a KPI card. outerWidth is the total rendered width
// including border.
func MetricCard(m Metric, outerWidth int) string {
	t := theme.Active

	contentWidth := outerWidth - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderBright).
		BorderBackground(t.Background).
		Background(t.Surface).
		Width(contentWidth).
		Padding(0, 1)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	noteStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	deltaColor := m.DeltaColor
	if deltaColor == "" {
		deltaColor = t.TextMuted
	}
	deltaStyle := lipgloss.NewStyle().Foreground(deltaColor).Background(t.Surface)

	lines := []string{labelStyle.Render(m.Label), valueStyle.Render(m.Value)}
	if m.Delta != "" {
		lines = append(lines, deltaStyle.Render(m.Delta))
	}
	for _, n := range m.Notes {
		lines = append(lines, noteStyle.Render(n))
	}

	return cardStyle.Render(strings.Join(lines, "\n"))
}

// MetricCardRow renders KPI cards side by side. Cards sum to totalWidth.
func MetricCardRow(metrics []Metric, totalWidth int) string {
	if len(metrics) == 0 {
		return ""
	}

	widths := LayoutRow(totalWidth, len(metrics))
	rendered := make([]string, len(metrics))
	for i, m := range metrics {
		rendered[i] = MetricCard(m, widths[i])
	}
	return CardRow(rendered)
}

// ContentCard renders a bordered content card with an optional title.
// outerWidth controls the total rendered width including border.
func ContentCard(title, body string, outerWidth int) string {
	t := theme.Active

	contentWidth := outerWidth - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		BorderBackground(t.Background).
		Background(t.Surface).
		Width(contentWidth).
		Padding(0, 1)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	content := ""
	if title != "" {
		content = titleStyle.Render(title) + "\n"
	}
	content += body

	return cardStyle.Render(content)
}

// CardRow joins pre-rendered cards horizontally. Shorter cards are padded
// with the background color so the row has no unstyled gaps.
func CardRow(cards []string) string {
	var present []string
	for _, c := range cards {
		if c != "" {
			present = append(present, c)
		}
	}
	if len(present) == 0 {
		return ""
	}

	tallest := 0
	for _, c := range present {
		if h := lipgloss.Height(c); h > tallest {
			tallest = h
		}
	}

	bg := theme.Active.Background
	for i, c := range present {
		present[i] = lipgloss.Place(lipgloss.Width(c), tallest, lipgloss.Left, lipgloss.Top, c,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, present...)
}

// CardInnerWidth returns the usable text width inside a ContentCard
// given its outer width (subtracts border + padding).
func CardInnerWidth(outerWidth int) int {
	w := outerWidth - 4 // 2 border + 2 padding
	if w < 10 {
		w = 10
	}
	return w
}

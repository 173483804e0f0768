package components

import (
	"fmt"

	"github.com/theirongolddev/ingresos/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ChangeColor returns green for growth and red for a decline.
func ChangeColor(delta float64) lipgloss.Color {
	if delta < 0 {
		return theme.Active.Red
	}
	return theme.Active.Green
}

// ShareBar renders part as a fraction of total with its percentage, as in
// "██████░░░░ 42%". A non-positive total renders an empty bar.
func ShareBar(part, total float64, color lipgloss.Color, width int) string {
	t := theme.Active

	pct := 0.0
	if total > 0 {
		pct = part / total
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	if width < 4 {
		width = 4
	}

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.Border)

	pctStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	return bar.ViewAs(pct) + space + pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100))
}

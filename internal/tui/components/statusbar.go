package components

import (
	"strings"

	"github.com/theirongolddev/ingresos/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Status is what the bottom bar reports about the session.
type Status struct {
	Mode     string
	Years    string
	Filter   string
	Speaking bool
	Message  string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, st Status) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	msgStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	left := base.Render(" [?]ayuda  [q]salir")
	if st.Message != "" {
		left += base.Render("  ") + msgStyle.Render(st.Message)
	}

	var right []string
	if st.Filter != "" {
		right = append(right, base.Render("/")+accent.Render(st.Filter))
	}
	if st.Speaking {
		right = append(right, accent.Render("♪ leyendo"))
	}
	if st.Mode != "" {
		right = append(right, accent.Render(st.Mode))
	}
	if st.Years != "" {
		right = append(right, base.Render(st.Years))
	}
	rightStr := strings.Join(right, base.Render(" │ ")) + base.Render(" ")

	padding := width - lipgloss.Width(left) - lipgloss.Width(rightStr)
	if padding < 0 {
		return ansi.Truncate(left, width, "…")
	}
	return left + base.Render(strings.Repeat(" ", padding)) + rightStr
}

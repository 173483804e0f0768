package components

import (
	"strings"

	"github.com/theirongolddev/ingresos/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // byte position of the shortcut letter in the name (-1 if not in name)
}

// Tab indexes.
const (
	TabPanorama = iota
	TabHistorico
	TabAjustes
)

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Panorama", Key: 'p', KeyPos: 0},
	{Name: "Histórico", Key: 'h', KeyPos: 0},
	{Name: "Ajustes", Key: ',', KeyPos: -1},
}

// tabLabel renders one tab without padding.
func tabLabel(tab Tab, active bool) string {
	t := theme.Active
	if active {
		return lipgloss.NewStyle().
			Foreground(t.Accent).
			Background(t.SurfaceHover).
			Bold(true).
			Render(tab.Name)
	}

	inactive := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	key := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	bracket := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	if tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name) {
		before := tab.Name[:tab.KeyPos]
		k := tab.Name[tab.KeyPos : tab.KeyPos+1]
		after := tab.Name[tab.KeyPos+1:]
		return inactive.Render(before) +
			bracket.Render("[") + key.Render(k) + bracket.Render("]") +
			inactive.Render(after)
	}
	return inactive.Render(tab.Name) +
		bracket.Render("[") + key.Render(string(tab.Key)) + bracket.Render("]")
}

func renderTab(tab Tab, active bool) string {
	t := theme.Active
	bg := t.Surface
	if active {
		bg = t.SurfaceHover
	}
	pad := lipgloss.NewStyle().Background(bg).Render(" ")
	return pad + tabLabel(tab, active) + pad
}

// TabVisualWidth is the rendered width of a tab, including padding.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders the single-row tab bar with the given active index,
// followed by a title on the right.
func RenderTabBar(activeIdx int, title string, width int) string {
	t := theme.Active

	sep := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render("│")
	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}
	left := strings.Join(parts, sep)

	right := ""
	if title != "" {
		right = lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true).Render(title + " ")
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + lipgloss.NewStyle().Background(t.Surface).Render(strings.Repeat(" ", gap)) + right
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}

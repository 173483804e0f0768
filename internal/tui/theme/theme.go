// Package theme defines color themes for the ingresos TUI dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name         string
	Label        string
	Background   lipgloss.Color // Main app background
	Surface      lipgloss.Color // Card/panel backgrounds
	SurfaceHover lipgloss.Color // Cursor row, active tab
	SurfaceMark  lipgloss.Color // Rows selected for the subtotal
	Border       lipgloss.Color // Subtle borders
	BorderBright lipgloss.Color // Card borders
	BorderAccent lipgloss.Color // Focused card borders
	TextDim      lipgloss.Color // Hints, context rows in a search
	TextMuted    lipgloss.Color // Labels, metadata
	TextPrimary  lipgloss.Color // Primary content text
	Accent       lipgloss.Color // Institutional gold
	AccentDim    lipgloss.Color
	Green        lipgloss.Color // Growth
	Red          lipgloss.Color // Decline
	Blue         lipgloss.Color

	// Trend chart colors per headline concept.
	ChartTotal       lipgloss.Color
	ChartPetroleros  lipgloss.Color
	ChartTributarios lipgloss.Color
}

// Active is the currently selected theme.
var Active = Hacienda

// Hacienda is the default light theme in the institutional palette.
var Hacienda = Theme{
	Name:             "hacienda",
	Label:            "Hacienda (claro)",
	Background:       lipgloss.Color("#F4F1EA"),
	Surface:          lipgloss.Color("#FFFFFF"),
	SurfaceHover:     lipgloss.Color("#EFE6D2"),
	SurfaceMark:      lipgloss.Color("#E3D5B5"),
	Border:           lipgloss.Color("#DDD6C8"),
	BorderBright:     lipgloss.Color("#B8AC94"),
	BorderAccent:     lipgloss.Color("#B38E5D"),
	TextDim:          lipgloss.Color("#9A9A9A"),
	TextMuted:        lipgloss.Color("#6C757D"),
	TextPrimary:      lipgloss.Color("#2C3E50"),
	Accent:           lipgloss.Color("#B38E5D"),
	AccentDim:        lipgloss.Color("#EFE6D2"),
	Green:            lipgloss.Color("#27AE60"),
	Red:              lipgloss.Color("#C0392B"),
	Blue:             lipgloss.Color("#2C3E50"),
	ChartTotal:       lipgloss.Color("#D4C19C"),
	ChartPetroleros:  lipgloss.Color("#2C3E50"),
	ChartTributarios: lipgloss.Color("#27AE60"),
}

// HaciendaDark is the dark variant toggled from the dashboard.
var HaciendaDark = Theme{
	Name:             "hacienda-dark",
	Label:            "Hacienda (oscuro)",
	Background:       lipgloss.Color("#121417"),
	Surface:          lipgloss.Color("#1C1F24"),
	SurfaceHover:     lipgloss.Color("#2A2E35"),
	SurfaceMark:      lipgloss.Color("#3A3326"),
	Border:           lipgloss.Color("#343A42"),
	BorderBright:     lipgloss.Color("#4A525C"),
	BorderAccent:     lipgloss.Color("#D4C19C"),
	TextDim:          lipgloss.Color("#5F6670"),
	TextMuted:        lipgloss.Color("#9AA3AD"),
	TextPrimary:      lipgloss.Color("#ECEFF1"),
	Accent:           lipgloss.Color("#D4C19C"),
	AccentDim:        lipgloss.Color("#3A3326"),
	Green:            lipgloss.Color("#2ECC71"),
	Red:              lipgloss.Color("#E74C3C"),
	Blue:             lipgloss.Color("#5D8AA8"),
	ChartTotal:       lipgloss.Color("#D4C19C"),
	ChartPetroleros:  lipgloss.Color("#5D8AA8"),
	ChartTributarios: lipgloss.Color("#27AE60"),
}

// Terminal uses ANSI 16 colors only - maximum compatibility.
var Terminal = Theme{
	Name:             "terminal",
	Label:            "Terminal (16 colores)",
	Background:       lipgloss.Color("0"),
	Surface:          lipgloss.Color("0"),
	SurfaceHover:     lipgloss.Color("8"),
	SurfaceMark:      lipgloss.Color("3"),
	Border:           lipgloss.Color("8"),
	BorderBright:     lipgloss.Color("7"),
	BorderAccent:     lipgloss.Color("3"),
	TextDim:          lipgloss.Color("8"),
	TextMuted:        lipgloss.Color("7"),
	TextPrimary:      lipgloss.Color("15"),
	Accent:           lipgloss.Color("11"),
	AccentDim:        lipgloss.Color("0"),
	Green:            lipgloss.Color("2"),
	Red:              lipgloss.Color("1"),
	Blue:             lipgloss.Color("4"),
	ChartTotal:       lipgloss.Color("11"),
	ChartPetroleros:  lipgloss.Color("4"),
	ChartTributarios: lipgloss.Color("2"),
}

// All available themes.
var All = []Theme{Hacienda, HaciendaDark, Terminal}

// ByName returns a theme by its name, defaulting to Hacienda.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return Hacienda
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Next returns the theme after name in All, wrapping around.
func Next(name string) Theme {
	for i, t := range All {
		if t.Name == name {
			return All[(i+1)%len(All)]
		}
	}
	return All[0]
}

// ConceptColor returns the chart color for a headline concept key.
func (t Theme) ConceptColor(key string) lipgloss.Color {
	switch key {
	case "Petroleros":
		return t.ChartPetroleros
	case "Tributarios":
		return t.ChartTributarios
	}
	return t.ChartTotal
}

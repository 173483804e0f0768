package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/ingresos/internal/cli"
	"github.com/theirongolddev/ingresos/internal/config"
	"github.com/theirongolddev/ingresos/internal/model"
	"github.com/theirongolddev/ingresos/internal/tui/components"
	"github.com/theirongolddev/ingresos/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldTheme = iota
	settingsFieldMode
	settingsFieldDrill
	settingsFieldStartYear
	settingsFieldEndYear
	settingsFieldSpeech
	settingsFieldDataset
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
	invalid string
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

// updateSettingsKey handles navigation in the settings tab. ok is false when
// the key is not consumed.
func (a App) updateSettingsKey(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		if a.settings.cursor < settingsFieldCount-1 {
			a.settings.cursor++
		}
		return a, nil, true
	case "k", "up":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
		return a, nil, true
	case "enter":
		m, cmd := a.settingsStartEdit()
		return m, cmd, true
	}
	return a, nil, false
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settings.editing = true
	a.settings.saved = false
	a.settings.invalid = ""

	ti := newSettingsInput()
	g := a.cfg.General

	switch a.settings.cursor {
	case settingsFieldTheme:
		names := make([]string, len(theme.All))
		for i, th := range theme.All {
			names[i] = th.Name
		}
		ti.Placeholder = strings.Join(names, ", ")
		ti.SetValue(theme.Active.Name)
	case settingsFieldMode:
		ti.Placeholder = "nominal o real"
		ti.SetValue(string(a.state.Mode))
	case settingsFieldDrill:
		ti.Placeholder = "1-6"
		ti.SetValue(strconv.Itoa(g.DrillLevel))
	case settingsFieldStartYear:
		ti.Placeholder = "2020"
		ti.SetValue(strconv.Itoa(a.state.StartYear))
	case settingsFieldEndYear:
		ti.Placeholder = "2026"
		ti.SetValue(strconv.Itoa(a.state.EndYear))
	case settingsFieldSpeech:
		ti.Placeholder = "true o false"
		ti.SetValue(strconv.FormatBool(a.cfg.Speech.Enabled))
	case settingsFieldDataset:
		ti.Placeholder = "/ruta/a/datos.json"
		ti.SetValue(a.dataPath)
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil && a.settings.invalid == ""
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave validates the edited field, applies it to the live session
// where possible and persists the config.
func (a *App) settingsSave() {
	val := strings.TrimSpace(a.settings.input.Value())
	cfg := a.cfg

	switch a.settings.cursor {
	case settingsFieldTheme:
		found := false
		for _, t := range theme.All {
			if t.Name == val {
				found = true
				break
			}
		}
		if !found {
			a.settings.invalid = "tema desconocido: " + val
			return
		}
		cfg.Appearance.Theme = val
		theme.SetActive(val)
	case settingsFieldMode:
		m, err := model.ParseMode(val)
		if err != nil {
			a.settings.invalid = err.Error()
			return
		}
		cfg.General.Mode = string(m)
		a.state.SetMode(m)
	case settingsFieldDrill:
		d, err := strconv.Atoi(val)
		if err != nil || d < 1 || d > 6 {
			a.settings.invalid = "el nivel debe estar entre 1 y 6"
			return
		}
		cfg.General.DrillLevel = d
	case settingsFieldStartYear, settingsFieldEndYear:
		y, err := strconv.Atoi(val)
		if err != nil {
			a.settings.invalid = "año inválido: " + val
			return
		}
		if a.settings.cursor == settingsFieldStartYear {
			a.state.SetYearRange(y, a.state.EndYear)
		} else {
			a.state.SetYearRange(a.state.StartYear, y)
		}
		cfg.General.StartYear, cfg.General.EndYear = a.state.StartYear, a.state.EndYear
	case settingsFieldSpeech:
		cfg.Speech.Enabled = val == "true" || val == "1" || val == "si" || val == "sí"
	case settingsFieldDataset:
		cfg.General.Dataset = val
	}

	a.cfg = cfg
	a.settings.saveErr = config.Save(cfg)
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := a.cfg

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceHover).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceHover)

	type field struct {
		label string
		value string
	}

	fields := []field{
		{"Tema", theme.Active.Label},
		{"Modo", a.state.Mode.Label()},
		{"Nivel de despliegue", strconv.Itoa(cfg.General.DrillLevel)},
		{"Año inicial", strconv.Itoa(a.state.StartYear)},
		{"Año final", strconv.Itoa(a.state.EndYear)},
		{"Lectura en voz alta", strconv.FormatBool(cfg.Speech.Enabled)},
		{"Conjunto de datos", a.dataPath},
	}

	innerW := components.CardInnerWidth(cw)
	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-22s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-22s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker + label + value)
			usedWidth := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if padLen := innerW - usedWidth; padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceHover).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-22s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	switch {
	case a.settings.invalid != "":
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render("Valor inválido: " + a.settings.invalid))
	case a.settings.saveErr != nil:
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("No se pudo guardar: %s", a.settings.saveErr)))
	case a.settings.saved:
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Guardado"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navegar  [Enter] editar  [Esc] cancelar"))

	cache := "no"
	if a.cacheHit {
		cache = "sí"
	}
	ds := a.state.Dataset()
	years := a.state.AvailableYears()
	yearSpan := "-"
	if len(years) > 0 {
		yearSpan = fmt.Sprintf("%d-%d", years[0], years[len(years)-1])
	}

	var infoBody strings.Builder
	info := []field{
		{"Archivo:", a.result.Path},
		{"Formato:", string(a.result.Format)},
		{"Conceptos:", cli.FormatNumber(int64(len(ds.Items)))},
		{"Años:", yearSpan},
		{"Año base (real):", strconv.Itoa(a.state.BaseYear)},
		{"Tiempo de carga:", fmt.Sprintf("%.2fs", a.loadTime.Seconds())},
		{"Desde caché:", cache},
		{"Configuración:", config.ConfigPath()},
	}
	for i, f := range info {
		if i > 0 {
			infoBody.WriteString("\n")
		}
		infoBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", f.label)) + valueStyle.Render(f.value))
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("Ajustes", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Datos", infoBody.String(), cw))

	if warns := a.result.Warnings; len(warns) > 0 {
		var wb strings.Builder
		for i, w := range warns {
			if i > 0 {
				wb.WriteString("\n")
			}
			wb.WriteString(warnStyle.Render("• " + w))
		}
		b.WriteString("\n")
		b.WriteString(components.ContentCard(fmt.Sprintf("Advertencias (%d)", len(warns)), wb.String(), cw))
	}

	return b.String()
}

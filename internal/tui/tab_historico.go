package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/ingresos/internal/cli"
	"github.com/theirongolddev/ingresos/internal/pipeline"
	"github.com/theirongolddev/ingresos/internal/tui/components"
	"github.com/theirongolddev/ingresos/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	yearColWidth = 12
	gutterWidth  = 2
	minNameWidth = 24
)

// histState holds the historical table tab state.
type histState struct {
	cursor      int
	offset      int // first visible row
	searching   bool
	searchInput textinput.Model
}

func newSearchInput(value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "concepto..."
	ti.Prompt = "/ "
	ti.CharLimit = 80
	ti.Width = 40
	ti.SetValue(value)
	return ti
}

// indicator is the tree glyph of a row: expanded, collapsed or leaf.
func indicator(r pipeline.Row) string {
	switch {
	case r.HasChildren && r.IsExpanded:
		return "▾"
	case r.HasChildren:
		return "▸"
	}
	return "•"
}

// tableYears returns the table years that fit in innerW, keeping the most
// recent ones.
func tableYears(years []int, innerW int) []int {
	fit := (innerW - gutterWidth - minNameWidth) / yearColWidth
	if fit < 1 {
		fit = 1
	}
	if len(years) > fit {
		return years[len(years)-fit:]
	}
	return years
}

// histOverhead counts the non-row lines of the table card.
func (a App) histOverhead() int {
	n := 2 + 1 + 1 + 1 // border, title, column header, hint
	if a.hist.searching || a.state.Filter != "" {
		n++
	}
	if _, ok := a.state.Subtotal(); ok {
		n++
	}
	if _, ok := a.state.Footer(); ok {
		n++
	}
	return n
}

// histCapacity is the number of table rows that fit on screen.
func (a App) histCapacity() int {
	c := a.contentHeight() - a.histOverhead()
	if c < 1 {
		c = 1
	}
	return c
}

// clampCursor keeps the cursor inside the visible rows.
func (a *App) clampCursor() {
	if a.state == nil {
		return
	}
	n := len(a.state.Rows())
	if a.hist.cursor >= n {
		a.hist.cursor = n - 1
	}
	if a.hist.cursor < 0 {
		a.hist.cursor = 0
	}
}

// ensureCursorVisible scrolls the window so the cursor is on screen.
func (a *App) ensureCursorVisible() {
	if a.state == nil {
		return
	}
	a.clampCursor()
	capacity := a.histCapacity()
	if a.hist.cursor < a.hist.offset {
		a.hist.offset = a.hist.cursor
	}
	if a.hist.cursor >= a.hist.offset+capacity {
		a.hist.offset = a.hist.cursor - capacity + 1
	}
	if maxOff := len(a.state.Rows()) - capacity; a.hist.offset > maxOff {
		a.hist.offset = maxOff
	}
	if a.hist.offset < 0 {
		a.hist.offset = 0
	}
}

func (a *App) moveCursor(delta int) {
	a.hist.cursor += delta
	a.ensureCursorVisible()
}

// cursorRow returns the row under the cursor.
func (a App) cursorRow() (pipeline.Row, bool) {
	rows := a.state.Rows()
	if a.hist.cursor < 0 || a.hist.cursor >= len(rows) {
		return pipeline.Row{}, false
	}
	return rows[a.hist.cursor], true
}

func (a *App) toggleCursorExpand() {
	if r, ok := a.cursorRow(); ok && r.HasChildren {
		a.state.ToggleExpand(r.Item.ID)
		a.ensureCursorVisible()
	}
}

// histBodyTop is the screen row of the first table row.
func (a App) histBodyTop() int {
	top := headerHeight + 1 + 1 + 1 // border, title, column header
	if a.hist.searching || a.state.Filter != "" {
		top++
	}
	return top
}

// histRowAtY maps a screen row to a visible table row index.
func (a App) histRowAtY(y int) (int, bool) {
	i := y - a.histBodyTop()
	if i < 0 || i >= a.histCapacity() {
		return 0, false
	}
	i += a.hist.offset
	if i >= len(a.state.Rows()) {
		return 0, false
	}
	return i, true
}

// updateHistKey handles keys specific to the historical table. ok is false
// when the key is not consumed.
func (a App) updateHistKey(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "/":
		a.hist.searching = true
		a.hist.searchInput = newSearchInput(a.state.Filter)
		a.hist.searchInput.Focus()
		a.ensureCursorVisible()
		return a, a.hist.searchInput.Cursor.BlinkCmd(), true
	case "esc":
		if a.state.Filter == "" {
			return a, nil, true
		}
		a.state.SetSearchFilter("")
		a.hist.cursor, a.hist.offset = 0, 0
	case "j", "down":
		a.moveCursor(1)
	case "k", "up":
		a.moveCursor(-1)
	case "g", "home":
		a.hist.cursor, a.hist.offset = 0, 0
	case "G", "end":
		a.hist.cursor = len(a.state.Rows()) - 1
		a.ensureCursorVisible()
	case "ctrl+d", "pgdown":
		a.moveCursor(a.halfPage())
	case "ctrl+u", "pgup":
		a.moveCursor(-a.halfPage())
	case "enter", " ":
		a.toggleCursorExpand()
	case "s":
		if r, ok := a.cursorRow(); ok {
			a.state.ToggleSelect(r.Item.ID)
			a.ensureCursorVisible()
		}
	case "u":
		a.state.ClearSelection()
		a.ensureCursorVisible()
	case "E":
		a.state.ExpandAll()
		a.ensureCursorVisible()
	case "C":
		a.state.CollapseAll()
		a.hist.cursor, a.hist.offset = 0, 0
	case "c":
		if r, ok := a.cursorRow(); ok {
			a.state.SetActiveConcept(strconv.Itoa(r.Item.ID))
			a.message = "Gráfica: " + r.Item.Concepto
		}
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) halfPage() int {
	half := a.histCapacity() / 2
	if half < minHalfPageScroll {
		half = minHalfPageScroll
	}
	return half
}

// updateHistSearch handles key events while the search input is focused.
// The filter is applied on every keystroke.
func (a App) updateHistSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.hist.searching = false
		a.ensureCursorVisible()
		return a, nil
	case "esc":
		a.hist.searching = false
		a.state.SetSearchFilter("")
		a.hist.cursor, a.hist.offset = 0, 0
		return a, nil
	}

	var cmd tea.Cmd
	a.hist.searchInput, cmd = a.hist.searchInput.Update(msg)
	if q := strings.TrimSpace(a.hist.searchInput.Value()); q != a.state.Filter {
		a.state.SetSearchFilter(q)
		a.hist.cursor, a.hist.offset = 0, 0
	}
	return a, cmd
}

func (a App) renderHistoricoTab(cw int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)
	allYears := a.state.Years()
	years := tableYears(allYears, innerW)
	nameW := innerW - gutterWidth - len(years)*yearColWidth
	v := a.state.Valuation()
	rows := a.state.Rows()

	headerStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	line := func(gutter, name string, values []float64) string {
		var sb strings.Builder
		sb.WriteString(padRight(gutter, gutterWidth))
		sb.WriteString(padRight(ansi.Truncate(name, nameW-1, "…"), nameW))
		for _, val := range values {
			fmt.Fprintf(&sb, "%*s", yearColWidth, cli.FormatMoney(val))
		}
		return padRight(sb.String(), innerW)
	}

	var b strings.Builder

	if a.hist.searching {
		b.WriteString(a.hist.searchInput.View())
		b.WriteString("\n")
	} else if a.state.Filter != "" {
		matched := 0
		for _, r := range rows {
			if r.Matched {
				matched++
			}
		}
		b.WriteString(accentStyle.Render(fmt.Sprintf("Filtro: %q", a.state.Filter)))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %d coincidencias  [/] editar  [esc] limpiar", matched)))
		b.WriteString("\n")
	}

	var head strings.Builder
	head.WriteString(padRight("", gutterWidth))
	head.WriteString(padRight("Concepto", nameW))
	for _, y := range years {
		fmt.Fprintf(&head, "%*d", yearColWidth, y)
	}
	b.WriteString(headerStyle.Render(padRight(head.String(), innerW)))

	if len(rows) == 0 {
		b.WriteString("\n")
		msg := "Sin conceptos"
		if a.state.Filter != "" {
			msg = fmt.Sprintf("Sin coincidencias para %q", a.state.Filter)
		}
		b.WriteString(dimStyle.Render(padRight(msg, innerW)))
	}

	end := a.hist.offset + a.histCapacity()
	if end > len(rows) {
		end = len(rows)
	}
	for i := a.hist.offset; i < end; i++ {
		r := rows[i]
		gutter := " "
		if r.IsSelected {
			gutter = "●"
		}
		name := strings.Repeat("  ", r.Depth) + indicator(r) + " " + r.Item.Concepto
		text := line(gutter, name, pipeline.RowValues(r.Item, years, v))

		style := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
		switch {
		case i == a.hist.cursor:
			style = style.Background(t.SurfaceHover).Bold(true)
		case r.IsSelected:
			style = style.Background(t.SurfaceMark)
		}
		if r.Context {
			style = style.Foreground(t.TextDim).Italic(true)
		} else if r.Item.Nivel == 1 {
			style = style.Bold(true)
		}
		b.WriteString("\n")
		b.WriteString(style.Render(text))
	}

	if sub, ok := a.state.Subtotal(); ok {
		sub = sub[len(allYears)-len(years):]
		label := fmt.Sprintf("SUBTOTAL SELECCIÓN (%d)", a.state.SelectionSize())
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceMark).Bold(true).
			Render(line("Σ", label, sub)))
	}
	if foot, ok := a.state.Footer(); ok {
		foot = foot[len(allYears)-len(years):]
		label := "TOTAL"
		if a.state.Filter != "" {
			label = "TOTAL FILTRADO"
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.AccentDim).Bold(true).
			Render(line("", label, foot)))
	}

	b.WriteString("\n")
	hint := "[enter] desplegar  [s] seleccionar  [u] limpiar  [E/C] todo  [/] buscar  [c] graficar  [x] excel"
	b.WriteString(dimStyle.Render(ansi.Truncate(hint, innerW, "…")))

	title := fmt.Sprintf("Análisis Histórico %d-%d (%s)", a.state.StartYear, a.state.EndYear, a.state.Mode.Label())
	if len(years) < len(allYears) {
		title += fmt.Sprintf("  · %d años ocultos", len(allYears)-len(years))
	}
	return components.ContentCard(title, b.String(), cw)
}

// histSpeech reads the row under the cursor with its latest value.
func (a App) histSpeech() string {
	r, ok := a.cursorRow()
	if !ok {
		return "La tabla no tiene conceptos."
	}
	years := a.state.Years()
	vals := pipeline.RowValues(r.Item, years, a.state.Valuation())

	var b strings.Builder
	fmt.Fprintf(&b, "%s, nivel %d.", r.Item.Concepto, r.Item.Nivel)
	for i, y := range years {
		fmt.Fprintf(&b, " %d: %s.", y, cli.FormatMoney(vals[i]))
	}
	if sub, ok := a.state.Subtotal(); ok && len(sub) > 0 {
		fmt.Fprintf(&b, " Subtotal de la selección en %d: %s.", years[len(years)-1], cli.FormatMoney(sub[len(sub)-1]))
	}
	return b.String()
}

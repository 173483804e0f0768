package tui

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/theirongolddev/ingresos/internal/config"
	"github.com/theirongolddev/ingresos/internal/model"
	"github.com/theirongolddev/ingresos/internal/pipeline"
	"github.com/theirongolddev/ingresos/internal/source"
	"github.com/theirongolddev/ingresos/internal/speech"
	"github.com/theirongolddev/ingresos/internal/tui/components"
	"github.com/theirongolddev/ingresos/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func series(obs24, obs25, prog26 float64) map[int]model.YearRecord {
	return map[int]model.YearRecord{
		2024: {Obs: model.Float(obs24)},
		2025: {Obs: model.Float(obs25)},
		2026: {Prog: model.Float(prog26)},
	}
}

func testDataset() *model.Dataset {
	return &model.Dataset{
		Items: []model.RevenueItem{
			{ID: 1, Concepto: "Ingresos presupuestarios", Nivel: 1, Datos: series(1000, 1100, 1200)},
			{ID: 2, Concepto: "Petroleros", Nivel: 2, Datos: series(300, 320, 350)},
			{ID: 3, Concepto: "Crudo", Nivel: 3, Datos: series(200, 210, 230)},
			{ID: 4, Concepto: "Gas", Nivel: 3, Datos: series(100, 110, 120)},
			{ID: 5, Concepto: "No petroleros", Nivel: 2, Datos: series(700, 780, 850)},
			{ID: 6, Concepto: "Tributarios", Nivel: 3, Datos: series(600, 650, 700)},
			{ID: 7, Concepto: "ISR", Nivel: 4, Datos: series(350, 380, 400)},
			{ID: 8, Concepto: "IVA", Nivel: 4, Datos: series(250, 270, 300)},
		},
		Deflators: map[int]float64{2024: 90, 2025: 95, 2026: 100},
		Macro: map[int]map[string]float64{
			2026: {"petroleo_precio": 57.8, "tipo_cambio": 18.5, "tasa_interes": 7},
		},
	}
}

func newTestApp(t *testing.T, opts Options) App {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	theme.SetActive("hacienda")
	t.Cleanup(func() { theme.SetActive("hacienda") })

	if opts.DataPath == "" {
		opts.DataPath = "datos.json"
	}
	opts.Config = config.DefaultConfig()
	if opts.ExportDir == "" {
		opts.ExportDir = t.TempDir()
	}

	ds := testDataset()
	var m tea.Model = NewApp(opts)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	m, _ = m.Update(DataLoadedMsg{Result: &pipeline.LoadResult{
		Dataset: ds,
		Index:   pipeline.BuildIndex(ds.Items),
		Path:    opts.DataPath,
		Format:  source.FormatJSON,
	}})
	return m.(App)
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	var m tea.Model = a
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m.(App)
}

func rowIDs(a App) []int {
	return pipeline.RowIDs(a.state.Rows())
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0
		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			x := pos + w/2 // midpoint inside this tab
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w + 1 // separator
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Errorf("x past the last tab -> %d, want -1", got)
		}
	}
}

func TestTabKeys(t *testing.T) {
	a := newTestApp(t, Options{})
	if a.activeTab != components.TabPanorama {
		t.Fatalf("start tab = %d", a.activeTab)
	}
	a = press(t, a, "h")
	if a.activeTab != components.TabHistorico {
		t.Errorf("after h tab = %d", a.activeTab)
	}
	a = press(t, a, ",")
	if a.activeTab != components.TabAjustes {
		t.Errorf("after , tab = %d", a.activeTab)
	}
	a = press(t, a, "p")
	if a.activeTab != components.TabPanorama {
		t.Errorf("after p tab = %d", a.activeTab)
	}
}

func TestDrillLevelExpandsInitialRows(t *testing.T) {
	a := newTestApp(t, Options{})
	if got, want := rowIDs(a), []int{1, 2, 3, 4, 5, 6, 7, 8}; !equalIDs(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
	if a.state.StartYear != 2024 || a.state.EndYear != 2026 {
		t.Errorf("year range = %d-%d, want clamped 2024-2026", a.state.StartYear, a.state.EndYear)
	}
}

func TestHistoricoCollapseWithEnter(t *testing.T) {
	a := newTestApp(t, Options{})
	a = press(t, a, "h", "j", "enter")
	if got, want := rowIDs(a), []int{1, 2, 5, 6, 7, 8}; !equalIDs(got, want) {
		t.Fatalf("after collapsing Petroleros rows = %v, want %v", got, want)
	}
	a = press(t, a, "space")
	if got := len(a.state.Rows()); got != 8 {
		t.Errorf("space should expand again, got %d rows", got)
	}

	// Leaves do nothing.
	a = press(t, a, "j", "enter")
	if got := len(a.state.Rows()); got != 8 {
		t.Errorf("enter on a leaf changed rows to %d", got)
	}
}

func TestHistoricoCollapseAndExpandAll(t *testing.T) {
	a := newTestApp(t, Options{})
	a = press(t, a, "h", "C")
	if got, want := rowIDs(a), []int{1}; !equalIDs(got, want) {
		t.Fatalf("collapse all rows = %v", got)
	}
	a = press(t, a, "E")
	if got := len(a.state.Rows()); got != 8 {
		t.Errorf("expand all rows = %d, want 8", got)
	}
}

func TestSelectionSubtotal(t *testing.T) {
	a := newTestApp(t, Options{})
	a = press(t, a, "h", "j", "j", "s")
	if _, ok := a.state.Subtotal(); ok {
		t.Fatal("a single selected row must not produce a subtotal")
	}
	a = press(t, a, "j", "s")
	sub, ok := a.state.Subtotal()
	if !ok {
		t.Fatal("expected a subtotal for Crudo + Gas")
	}
	if sub[0] != 300 {
		t.Errorf("subtotal 2024 = %v, want 300", sub[0])
	}
	view := ansi.Strip(a.View())
	if !strings.Contains(view, "SUBTOTAL SELECCIÓN (2)") {
		t.Errorf("view missing subtotal row:\n%s", view)
	}

	a = press(t, a, "u")
	if len(a.state.Selected) != 0 {
		t.Errorf("u should clear the selection, got %v", a.state.Selected)
	}
}

func TestSearchFiltersLive(t *testing.T) {
	a := newTestApp(t, Options{})
	a = press(t, a, "h", "/")
	if !a.hist.searching {
		t.Fatal("/ should start search mode")
	}
	a = press(t, a, "crudo")
	if a.state.Filter != "crudo" {
		t.Fatalf("filter = %q", a.state.Filter)
	}
	if got, want := rowIDs(a), []int{2, 3}; !equalIDs(got, want) {
		t.Errorf("search rows = %v, want %v", got, want)
	}
	if r := a.state.Rows()[0]; !r.Context || r.Matched {
		t.Errorf("Petroleros should be a context row: %+v", r)
	}

	a = press(t, a, "enter")
	if a.hist.searching || a.state.Filter != "crudo" {
		t.Errorf("enter should keep the filter and leave the input (searching=%v filter=%q)", a.hist.searching, a.state.Filter)
	}
	if view := ansi.Strip(a.View()); !strings.Contains(view, "TOTAL FILTRADO") {
		t.Errorf("filtered view missing footer:\n%s", view)
	}

	a = press(t, a, "esc")
	if a.state.Filter != "" {
		t.Errorf("esc should clear the filter, got %q", a.state.Filter)
	}
	// Entering search cleared the expansions.
	if got, want := rowIDs(a), []int{1}; !equalIDs(got, want) {
		t.Errorf("rows after search = %v, want %v", got, want)
	}
}

func TestModeAndYearKeys(t *testing.T) {
	a := newTestApp(t, Options{})
	a = press(t, a, "m")
	if a.state.Mode != model.ModeReal {
		t.Errorf("mode = %q, want real", a.state.Mode)
	}
	a = press(t, a, "m")
	if a.state.Mode != model.ModeNominal {
		t.Errorf("mode = %q, want nominal", a.state.Mode)
	}

	a = press(t, a, "[")
	if a.state.StartYear != 2024 {
		t.Errorf("start year below the dataset should clamp, got %d", a.state.StartYear)
	}
	a = press(t, a, "]", "{")
	if a.state.StartYear != 2025 || a.state.EndYear != 2025 {
		t.Errorf("range = %d-%d, want 2025-2025", a.state.StartYear, a.state.EndYear)
	}
	a = press(t, a, "}")
	if a.state.EndYear != 2026 {
		t.Errorf("end year = %d, want 2026", a.state.EndYear)
	}
}

func TestThemeKeyCyclesAndPersists(t *testing.T) {
	a := newTestApp(t, Options{})
	a = press(t, a, "t")
	if theme.Active.Name != "hacienda-dark" {
		t.Fatalf("theme = %q, want hacienda-dark", theme.Active.Name)
	}
	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Appearance.Theme != "hacienda-dark" {
		t.Errorf("saved theme = %q", cfg.Appearance.Theme)
	}
	_ = a
}

func TestChartKeys(t *testing.T) {
	a := newTestApp(t, Options{})
	a = press(t, a, "c")
	if a.state.ActiveChart != pipeline.ConceptPetroleros {
		t.Errorf("panorama c -> %q, want Petroleros", a.state.ActiveChart)
	}
	a = press(t, a, "c", "c")
	if a.state.ActiveChart != pipeline.ConceptTotal {
		t.Errorf("c should wrap to Total, got %q", a.state.ActiveChart)
	}

	a = press(t, a, "h", "G", "c")
	if a.state.ActiveChart != "8" {
		t.Errorf("historico c on IVA -> %q, want 8", a.state.ActiveChart)
	}
	if got := a.chartLabel(); got != "IVA" {
		t.Errorf("chart label = %q", got)
	}
}

func TestMouseClickTab(t *testing.T) {
	a := newTestApp(t, Options{})
	x := components.TabVisualWidth(components.Tabs[0], true) + 1 + 2
	m, _ := a.Update(tea.MouseMsg{X: x, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if got := m.(App).activeTab; got != components.TabHistorico {
		t.Errorf("click x=%d -> tab %d, want Histórico", x, got)
	}
}

func TestMouseClickRow(t *testing.T) {
	a := newTestApp(t, Options{})
	a = press(t, a, "h")
	click := tea.MouseMsg{X: 10, Y: a.histBodyTop() + 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}

	m, _ := a.Update(click)
	a = m.(App)
	if a.hist.cursor != 1 {
		t.Fatalf("click moved cursor to %d, want 1", a.hist.cursor)
	}
	m, _ = a.Update(click)
	a = m.(App)
	if got, want := rowIDs(a), []int{1, 2, 5, 6, 7, 8}; !equalIDs(got, want) {
		t.Errorf("second click should collapse Petroleros, rows = %v", got)
	}

	m, _ = a.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown})
	if got := m.(App).hist.cursor; got != 2 {
		t.Errorf("wheel down cursor = %d, want 2", got)
	}
}

func TestSpeakReadsActiveTab(t *testing.T) {
	spoken := make(chan string, 1)
	ann := speech.NewAnnouncer(func(_ context.Context, text string) error {
		spoken <- text
		return nil
	})
	a := newTestApp(t, Options{Announcer: ann})

	m, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	a = m.(App)
	if cmd == nil || !a.speaking {
		t.Fatal("a should start speaking")
	}
	text := <-spoken
	if !strings.HasPrefix(text, "Estás en el Panorama General. ") {
		t.Errorf("speech = %q", text)
	}
	if !strings.Contains(text, "Petroleros 2026") {
		t.Errorf("speech should read the KPI cards: %q", text)
	}

	m, _ = a.Update(cmd())
	if m.(App).speaking {
		t.Error("speaking should clear once the announcement ends")
	}
}

func TestSpeakWithoutAnnouncer(t *testing.T) {
	a := newTestApp(t, Options{})
	m, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if cmd != nil {
		t.Error("no command expected without an announcer")
	}
	if got := m.(App).message; !strings.Contains(got, "no disponible") {
		t.Errorf("message = %q", got)
	}
}

func TestHistoricoSpeech(t *testing.T) {
	a := newTestApp(t, Options{})
	a = press(t, a, "h", "j")
	text := a.speechText()
	if !strings.HasPrefix(text, "Estás en el Análisis Histórico. Petroleros, nivel 2.") {
		t.Errorf("speech = %q", text)
	}
}

func TestExportKeyWritesWorkbook(t *testing.T) {
	dir := t.TempDir()
	a := newTestApp(t, Options{ExportDir: dir})
	m, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if cmd == nil {
		t.Fatal("x should return an export command")
	}
	msg, ok := cmd().(ExportDoneMsg)
	if !ok {
		t.Fatal("export command should return ExportDoneMsg")
	}
	if msg.Err != nil {
		t.Fatalf("export: %v", msg.Err)
	}
	if !strings.HasPrefix(msg.Path, dir) || !strings.HasSuffix(msg.Path, ".xlsx") {
		t.Errorf("export path = %q", msg.Path)
	}
	if _, err := os.Stat(msg.Path); err != nil {
		t.Errorf("workbook not written: %v", err)
	}
	m, _ = m.Update(msg)
	if got := m.(App).message; !strings.HasPrefix(got, "Exportado a ") {
		t.Errorf("message = %q", got)
	}
}

func TestViewPanorama(t *testing.T) {
	a := newTestApp(t, Options{})
	view := ansi.Strip(a.View())
	for _, want := range []string{"Panorama", "Total 2026", "Petroleros 2026", "Tendencia real", "Resumen", "2025 Obs.", "2026 Prog."} {
		if !strings.Contains(view, want) {
			t.Errorf("panorama view missing %q", want)
		}
	}
	if lines := strings.Split(a.View(), "\n"); len(lines) != 40 {
		t.Errorf("view has %d lines, want the terminal height 40", len(lines))
	}
}

func TestViewHistorico(t *testing.T) {
	a := newTestApp(t, Options{})
	a = press(t, a, "h", "j", "enter")
	view := ansi.Strip(a.View())
	for _, want := range []string{"Concepto", "2024", "2026", "▾ Ingresos presupuestarios", "▸ Petroleros", "• ISR", "TOTAL", "1,000.0"} {
		if !strings.Contains(view, want) {
			t.Errorf("historico view missing %q", want)
		}
	}
}

func TestViewSettings(t *testing.T) {
	a := newTestApp(t, Options{})
	a = press(t, a, ",")
	view := ansi.Strip(a.View())
	for _, want := range []string{"Ajustes", "Tema", "Hacienda (claro)", "Conceptos:", "datos.json"} {
		if !strings.Contains(view, want) {
			t.Errorf("settings view missing %q", want)
		}
	}
}

func TestSettingsEditMode(t *testing.T) {
	a := newTestApp(t, Options{})
	a = press(t, a, ",", "j", "enter")
	if !a.settings.editing {
		t.Fatal("enter should start editing")
	}
	a.settings.input.SetValue("real")
	a = press(t, a, "enter")
	if a.state.Mode != model.ModeReal {
		t.Errorf("mode = %q, want real", a.state.Mode)
	}
	if !a.settings.saved {
		t.Errorf("expected saved flag, err=%v invalid=%q", a.settings.saveErr, a.settings.invalid)
	}
	cfg, _ := config.Load()
	if cfg.General.Mode != "real" {
		t.Errorf("saved mode = %q", cfg.General.Mode)
	}

	a = press(t, a, "enter")
	a.settings.input.SetValue("bogus")
	a = press(t, a, "enter")
	if a.settings.invalid == "" {
		t.Error("invalid mode should be reported")
	}
}

func TestLoadErrorView(t *testing.T) {
	var m tea.Model = NewApp(Options{DataPath: "faltante.json"})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = m.Update(DataLoadedMsg{Err: errors.New("open faltante.json: no such file")})
	view := ansi.Strip(m.View())
	if !strings.Contains(view, "No se pudieron cargar los datos") || !strings.Contains(view, "faltante.json") {
		t.Errorf("load error view:\n%s", view)
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("q should quit from the error view")
	}
}

func TestTooNarrow(t *testing.T) {
	a := newTestApp(t, Options{})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if view := m.View(); !strings.Contains(view, "muy angosta") {
		t.Errorf("narrow view = %q", view)
	}
}

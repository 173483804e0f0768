// Package tui provides the interactive Bubble Tea dashboard for ingresos.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/theirongolddev/ingresos/internal/config"
	"github.com/theirongolddev/ingresos/internal/dashboard"
	"github.com/theirongolddev/ingresos/internal/export"
	"github.com/theirongolddev/ingresos/internal/model"
	"github.com/theirongolddev/ingresos/internal/pipeline"
	"github.com/theirongolddev/ingresos/internal/speech"
	"github.com/theirongolddev/ingresos/internal/store"
	"github.com/theirongolddev/ingresos/internal/tui/components"
	"github.com/theirongolddev/ingresos/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// DataLoadedMsg is sent when the data pipeline finishes.
type DataLoadedMsg struct {
	Result   *pipeline.LoadResult
	CacheHit bool
	LoadTime time.Duration
	Err      error
}

// SpeechDoneMsg reports the end of an announcement.
type SpeechDoneMsg struct {
	Err error
}

// ExportDoneMsg reports the result of an Excel export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// Options configure a new App.
type Options struct {
	DataPath  string
	State     dashboard.Options
	Config    config.Config
	Logger    *zap.Logger
	Announcer *speech.Announcer // nil disables read-aloud
	ExportDir string
	NeedSetup bool
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	state    *dashboard.State
	result   *pipeline.LoadResult
	loaded   bool
	loadErr  error
	loadTime time.Duration
	cacheHit bool
	dataPath string

	cfg       config.Config
	stateOpts dashboard.Options
	log       *zap.Logger
	announcer *speech.Announcer
	exportDir string

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	speaking  bool
	message   string

	// Per-tab state
	panScroll int
	hist      histState
	settings  settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minHalfPageScroll = 1 // minimum lines for half-page scroll
	minContentHeight  = 5 // minimum content area height
	headerHeight      = 2 // tab bar + context row
	statusHeight      = 1
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	return App{
		dataPath:  opts.DataPath,
		cfg:       opts.Config,
		stateOpts: opts.State,
		log:       log,
		announcer: opts.Announcer,
		exportDir: exportDir,
		needSetup: opts.NeedSetup,
		spinner:   sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.dataPath),
		a.spinner.Tick,
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		a.ensureCursorVisible()
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		return a.dataLoaded(msg)

	case SpeechDoneMsg:
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			a.log.Warn("speech failed", zap.String("op", "speak"), zap.Error(msg.Err))
			a.message = "Error de lectura: " + msg.Err.Error()
		}
		a.speaking = a.announcer != nil && a.announcer.Speaking()
		return a, nil

	case ExportDoneMsg:
		if msg.Err != nil {
			a.log.Error("export failed", zap.String("op", "export"), zap.Error(msg.Err))
			a.message = "Error al exportar: " + msg.Err.Error()
		} else {
			a.log.Info("table exported", zap.String("op", "export"), zap.String("path", msg.Path))
			a.message = "Exportado a " + msg.Path
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

func (a App) dataLoaded(msg DataLoadedMsg) (tea.Model, tea.Cmd) {
	a.loaded = true
	a.loadTime = msg.LoadTime
	if msg.Err != nil {
		a.loadErr = msg.Err
		a.log.Error("dataset load failed", zap.String("op", "load"),
			zap.String("path", a.dataPath), zap.Error(msg.Err))
		return a, nil
	}

	a.result = msg.Result
	a.cacheHit = msg.CacheHit
	a.state = dashboard.New(msg.Result.Dataset, msg.Result.Index, a.stateOpts)
	a.log.Info("dataset loaded", zap.String("op", "load"),
		zap.String("path", msg.Result.Path),
		zap.Int("items", len(msg.Result.Dataset.Items)),
		zap.Bool("cache_hit", msg.CacheHit),
		zap.Duration("elapsed", msg.LoadTime))
	for _, w := range msg.Result.Warnings {
		a.log.Warn(w, zap.String("op", "load"))
	}
	if n := len(msg.Result.Warnings); n > 0 {
		a.message = fmt.Sprintf("%d advertencias al cargar, ver Ajustes", n)
	}

	if a.needSetup {
		vals := SetupValuesFrom(a.cfg, a.dataPath)
		a.setupVals = &vals
		a.setupForm = NewSetupForm(a.setupVals, DatasetsNear(a.dataPath))
		if a.width > 0 {
			a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
		}
		return a, a.setupForm.Init()
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global: quit
	if key == "ctrl+c" {
		a.stopSpeech()
		return a, tea.Quit
	}

	if !a.loaded {
		return a, nil
	}
	if a.loadErr != nil {
		if key == "q" || key == "esc" || key == "enter" {
			return a, tea.Quit
		}
		return a, nil
	}

	// First-run setup wizard intercepts all keys
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	if a.activeTab == components.TabAjustes && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if a.activeTab == components.TabHistorico && a.hist.searching {
		return a.updateHistSearch(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	a.message = ""

	switch a.activeTab {
	case components.TabPanorama:
		if m, cmd, ok := a.updatePanoramaKey(key); ok {
			return m, cmd
		}
	case components.TabHistorico:
		if m, cmd, ok := a.updateHistKey(key); ok {
			return m, cmd
		}
	case components.TabAjustes:
		if m, cmd, ok := a.updateSettingsKey(key); ok {
			return m, cmd
		}
	}

	switch key {
	case "q":
		a.stopSpeech()
		return a, tea.Quit
	case "m":
		a.state.SetMode(a.state.Mode.Toggle())
		a.log.Debug("mode changed", zap.String("op", "mode"), zap.String("mode", string(a.state.Mode)))
	case "t":
		next := theme.Next(theme.Active.Name)
		theme.SetActive(next.Name)
		a.cfg.Appearance.Theme = next.Name
		_ = config.Save(a.cfg)
		a.message = "Tema: " + next.Label
	case "[":
		a.state.SetYearRange(a.state.StartYear-1, a.state.EndYear)
	case "]":
		a.state.SetYearRange(a.state.StartYear+1, a.state.EndYear)
	case "{":
		a.state.SetYearRange(a.state.StartYear, a.state.EndYear-1)
	case "}":
		a.state.SetYearRange(a.state.StartYear, a.state.EndYear+1)
	case "a":
		return a.speak()
	case "A":
		a.stopSpeech()
		return a, nil
	case "x":
		a.message = "Exportando..."
		return a, exportCmd(a.exportDir, export.FromState(a.state), time.Now())
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if r := []rune(key); len(r) == 1 {
			if idx := components.TabIdxByKey(r[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		switch a.activeTab {
		case components.TabHistorico:
			a.moveCursor(-1)
		case components.TabPanorama:
			a.scrollPanorama(-1)
		}
		return a, nil

	case tea.MouseButtonWheelDown:
		switch a.activeTab {
		case components.TabHistorico:
			a.moveCursor(1)
		case components.TabPanorama:
			a.scrollPanorama(1)
		}
		return a, nil

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return a, nil
		}
		if msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
			return a, nil
		}
		if a.activeTab == components.TabHistorico {
			if i, ok := a.histRowAtY(msg.Y); ok {
				if i == a.hist.cursor {
					a.toggleCursorExpand()
				} else {
					a.hist.cursor = i
				}
			}
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	if a.setupForm.State == huh.StateCompleted {
		if err := a.saveSetupConfig(); err != nil {
			a.message = "No se pudo guardar la configuración: " + err.Error()
		}
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	if a.setupForm.State == huh.StateAborted {
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a *App) saveSetupConfig() error {
	ApplySetup(&a.cfg, *a.setupVals)
	theme.SetActive(a.cfg.Appearance.Theme)
	if m, err := model.ParseMode(a.cfg.General.Mode); err == nil {
		a.state.SetMode(m)
	}
	return config.Save(a.cfg)
}

// speak reads the active tab aloud, cancelling any announcement in flight.
func (a App) speak() (tea.Model, tea.Cmd) {
	if a.announcer == nil {
		a.message = "Lectura en voz alta no disponible"
		return a, nil
	}
	text := speech.Prepare(a.speechText())
	a.log.Debug("speaking", zap.String("op", "speak"), zap.Int("chars", len(text)))
	done := a.announcer.Speak(context.Background(), text)
	a.speaking = true
	return a, waitForSpeech(done)
}

func (a *App) stopSpeech() {
	if a.announcer != nil {
		a.announcer.Stop()
	}
	a.speaking = false
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) contentHeight() int {
	h := a.height - headerHeight - statusHeight
	if h < minContentHeight {
		h = minContentHeight
	}
	return h
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.loadErr != nil {
		return a.viewLoadError()
	}

	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal muy angosta (%d columnas)\n\n  ingresos necesita al menos %d columnas.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ ingresos"))
	b.WriteString(subtitleStyle.Render(" · Ingresos Presupuestarios"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Cargando " + filepath.Base(a.dataPath) + "..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoadError() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Red).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("No se pudieron cargar los datos"))
	b.WriteString("\n\n")
	b.WriteString(textStyle.Render(a.loadErr.Error()))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("Usa --data o `ingresos setup` para elegir el archivo. [q] salir"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navegación", []struct{ key, desc string }{
			{"p h ,", "Ir a pestaña"},
			{"← → tab", "Pestaña anterior / siguiente"},
			{"j k g G", "Mover en la tabla"},
			{"^d ^u", "Media página"},
		}},
		{"Tabla histórica", []struct{ key, desc string }{
			{"Enter ␣", "Desplegar / plegar"},
			{"s", "Seleccionar para subtotal"},
			{"u", "Limpiar selección"},
			{"E C", "Desplegar / plegar todo"},
			{"/", "Buscar concepto"},
			{"c", "Graficar concepto"},
		}},
		{"Vista", []struct{ key, desc string }{
			{"m", "Nominal / real"},
			{"[ ]", "Año inicial -/+"},
			{"{ }", "Año final -/+"},
			{"t", "Cambiar tema"},
			{"a A", "Leer en voz alta / detener"},
			{"x", "Exportar a Excel"},
			{"?", "Ayuda"},
			{"q", "Salir"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Atajos de teclado"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Pulsa cualquier tecla para cerrar"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + context row
	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	units := "Millones de pesos corrientes"
	if a.state.Mode == model.ModeReal {
		units = fmt.Sprintf("Millones de pesos de %d", a.state.BaseYear)
	}
	ctxRow := pillStyle.Render(" ") + accentStyle.Render(units) +
		pillStyle.Render(" │ Gráfica: ") + accentStyle.Render(a.chartLabel()) +
		pillStyle.Render(" │ "+filepath.Base(a.result.Path)+" ")
	header := components.RenderTabBar(a.activeTab, "◈ Ingresos Presupuestarios", w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(ctxRow)

	// 2. Status bar
	statusBar := components.RenderStatusBar(w, components.Status{
		Mode:     a.state.Mode.Label(),
		Years:    fmt.Sprintf("%d-%d", a.state.StartYear, a.state.EndYear),
		Filter:   a.state.Filter,
		Speaking: a.speaking,
		Message:  a.message,
	})

	// 3. Content
	contentH := a.contentHeight()
	var content string
	switch a.activeTab {
	case components.TabPanorama:
		content = a.renderPanoramaTab(cw)
		content = scrollLines(content, a.panScroll)
	case components.TabHistorico:
		content = a.renderHistoricoTab(cw)
	case components.TabAjustes:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// chartLabel is the display name of the active trend concept.
func (a App) chartLabel() string {
	return pipeline.ConceptLabel(a.state.Dataset().Items, a.state.ActiveChart)
}

// speechText is the plain-language reading of the active tab.
func (a App) speechText() string {
	switch a.activeTab {
	case components.TabHistorico:
		return "Estás en el Análisis Histórico. " + a.histSpeech()
	case components.TabAjustes:
		return "Estás en los Ajustes."
	}
	return "Estás en el Panorama General. " + a.panoramaSpeech()
}

// ─── Commands ───────────────────────────────────────────────────

// loadDataCmd loads the dataset in the background, through the SQLite cache
// when it can be opened.
func loadDataCmd(path string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()

		cache, err := storeOpen()
		if err == nil {
			cr, loadErr := pipeline.LoadWithCache(path, cache)
			_ = cache.Close()
			if loadErr == nil {
				return DataLoadedMsg{
					Result:   &cr.LoadResult,
					CacheHit: cr.CacheHit,
					LoadTime: time.Since(start),
				}
			}
		}

		// Fallback: uncached load
		result, err := pipeline.Load(path)
		if err != nil {
			return DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
		}
		return DataLoadedMsg{Result: result, LoadTime: time.Since(start)}
	}
}

func storeOpen() (*store.Cache, error) {
	return store.Open(pipeline.CachePath())
}

// waitForSpeech blocks until the announcement behind done finishes.
func waitForSpeech(done <-chan error) tea.Cmd {
	return func() tea.Msg {
		return SpeechDoneMsg{Err: <-done}
	}
}

// exportCmd writes table to an Excel workbook in dir.
func exportCmd(dir string, table export.Table, now time.Time) tea.Cmd {
	return func() tea.Msg {
		path := filepath.Join(dir, export.FileName(now))
		if err := export.WriteExcel(path, table); err != nil {
			return ExportDoneMsg{Err: err}
		}
		return ExportDoneMsg{Path: path}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// scrollLines drops the first offset lines of s, keeping at least one.
func scrollLines(s string, offset int) string {
	if offset <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if offset >= len(lines) {
		offset = len(lines) - 1
	}
	return strings.Join(lines[offset:], "\n")
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}

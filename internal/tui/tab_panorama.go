package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/ingresos/internal/cli"
	"github.com/theirongolddev/ingresos/internal/pipeline"
	"github.com/theirongolddev/ingresos/internal/tui/components"
	"github.com/theirongolddev/ingresos/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// kpiYears returns the programmed and observed comparison years.
func (a App) kpiYears() (curr, prev int) {
	curr, prev = a.cfg.Dashboard.CurrentYear, a.cfg.Dashboard.PreviousYear
	if curr == 0 {
		curr = a.state.BaseYear
	}
	if prev == 0 {
		prev = curr - 1
	}
	return curr, prev
}

func (a App) trendYears() []int {
	from, to := a.cfg.Dashboard.TrendFrom, a.cfg.Dashboard.TrendTo
	if from == 0 || to == 0 {
		return pipeline.DefaultTrendYears()
	}
	return pipeline.YearSpan(from, to)
}

func formatAnnotation(an pipeline.Annotation) string {
	if an.Value == nil {
		return an.Label + " -"
	}
	switch an.Format {
	case pipeline.AnnotationMoney:
		return an.Label + " $" + cli.FormatMoney(*an.Value)
	case pipeline.AnnotationPercent:
		return an.Label + " " + cli.FormatMoney(*an.Value) + "%"
	}
	return an.Label + " " + cli.FormatMoney(*an.Value)
}

func (a App) kpiMetrics() []components.Metric {
	curr, prev := a.kpiYears()
	cards := pipeline.KPICards(a.state.Dataset(), a.state.Valuation(), curr, prev)

	total := 0.0
	for _, c := range cards {
		if c.Key == pipeline.ConceptTotal && c.Found {
			total = c.Delta.Current
		}
	}

	metrics := make([]components.Metric, 0, len(cards))
	for _, c := range cards {
		m := components.Metric{Label: fmt.Sprintf("%s %d", c.Key, curr), Value: "-"}
		if c.Found {
			m.Value = cli.FormatMoney(c.Delta.Current)
			m.Delta = fmt.Sprintf("%s %s vs %d", cli.Arrow(c.Delta.VarPct), cli.FormatSignedPercent(c.Delta.VarPct), prev)
			m.DeltaColor = components.ChangeColor(c.Delta.VarPct)
		}
		for _, an := range c.Annotations {
			m.Notes = append(m.Notes, formatAnnotation(an))
		}
		if c.Key != pipeline.ConceptTotal && c.Found {
			m.Notes = append(m.Notes, components.ShareBar(c.Delta.Current, total, theme.Active.ConceptColor(c.Key), 12)+" del total")
		}
		metrics = append(metrics, m)
	}
	return metrics
}

func (a App) renderPanoramaTab(cw int) string {
	t := theme.Active
	var b strings.Builder

	// Row 1: KPI cards
	b.WriteString(components.MetricCardRow(a.kpiMetrics(), cw))
	b.WriteString("\n")

	// Row 2: real-terms trend of the active concept
	years := a.trendYears()
	if item, pts, ok := a.state.Trend(years); ok {
		labels := make([]string, len(pts))
		for i, p := range pts {
			labels[i] = fmt.Sprint(p.Year)
			if !p.Defined {
				labels[i] += "*"
			}
		}
		chartH := 10
		if a.isCompactLayout() {
			chartH = 7
		}
		title := fmt.Sprintf("Tendencia real: %s (millones de pesos de %d)", item.Concepto, a.state.BaseYear)
		b.WriteString(components.ContentCard(
			title,
			components.BarChart(pipeline.TrendValues(pts), labels, t.ConceptColor(a.state.ActiveChart),
				components.CardInnerWidth(cw), chartH),
			cw,
		))
		b.WriteString("\n")
	}

	// Row 3: summary table
	b.WriteString(components.ContentCard("Resumen", a.renderSummaryTable(components.CardInnerWidth(cw)), cw))

	return b.String()
}

func (a App) renderSummaryTable(innerW int) string {
	t := theme.Active
	curr, prev := a.kpiYears()
	rows := pipeline.SummaryRows(a.state.Dataset(), a.state.Valuation(), curr, prev)

	const numW = 16
	const varW = 12
	nameW := innerW - 2*numW - varW
	if nameW < 12 {
		nameW = 12
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	topStyle := rowStyle.Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(headerStyle.Render(padRight("Concepto", nameW) +
		fmt.Sprintf("%*s%*s%*s", numW, fmt.Sprintf("%d Obs.", prev), numW, fmt.Sprintf("%d Prog.", curr), varW, "Var. real")))
	for _, r := range rows {
		indent := strings.Repeat("  ", r.Item.Nivel-1)
		name := padRight(ansi.Truncate(indent+r.Item.Concepto, nameW-1, "…"), nameW)
		style := rowStyle
		if r.Item.Nivel == 1 {
			style = topStyle
		}
		change := lipgloss.NewStyle().Foreground(components.ChangeColor(r.RealVariation)).Background(t.Surface)

		b.WriteString("\n")
		b.WriteString(style.Render(name + fmt.Sprintf("%*s%*s", numW, cli.FormatMoney(r.Previous), numW, cli.FormatMoney(r.Current))))
		b.WriteString(space.Render(strings.Repeat(" ", varW-ansi.StringWidth(formatChange(r.RealVariation)))))
		b.WriteString(change.Render(formatChange(r.RealVariation)))
	}
	return b.String()
}

func formatChange(ratio float64) string {
	return cli.Arrow(ratio) + " " + cli.FormatSignedPercent(ratio)
}

// padRight pads s with spaces to display width w.
func padRight(s string, w int) string {
	if sw := ansi.StringWidth(s); sw < w {
		return s + strings.Repeat(" ", w-sw)
	}
	return s
}

// panoramaSpeech reads the KPI cards.
func (a App) panoramaSpeech() string {
	curr, prev := a.kpiYears()
	var parts []string
	for _, c := range pipeline.KPICards(a.state.Dataset(), a.state.Valuation(), curr, prev) {
		if !c.Found {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %d: %s millones de pesos, %s %s respecto de %d.",
			c.Key, curr, cli.FormatMoney(c.Delta.Current),
			cli.Arrow(c.Delta.VarPct), cli.FormatSignedPercent(c.Delta.VarPct), prev))
	}
	parts = append(parts, "Gráfica: "+a.chartLabel()+".")
	return strings.Join(parts, " ")
}

// updatePanoramaKey handles keys specific to the Panorama tab. ok is false
// when the key is not consumed.
func (a App) updatePanoramaKey(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		a.scrollPanorama(1)
	case "k", "up":
		a.scrollPanorama(-1)
	case "g":
		a.panScroll = 0
	case "c":
		// Cycle the chart through the headline concepts.
		next := pipeline.HeadlineConcepts[0]
		for i, k := range pipeline.HeadlineConcepts {
			if k == a.state.ActiveChart {
				next = pipeline.HeadlineConcepts[(i+1)%len(pipeline.HeadlineConcepts)]
			}
		}
		a.state.SetActiveConcept(next)
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a *App) scrollPanorama(delta int) {
	a.panScroll += delta
	if a.panScroll < 0 {
		a.panScroll = 0
	}
}

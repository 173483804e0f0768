package pipeline

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/ingresos/internal/model"
)

// Delta is the change between a previous and a current figure.
type Delta struct {
	Current  float64
	Previous float64
	Diff     float64
	VarPct   float64
}

// KPIDelta computes the absolute and relative change. VarPct is 0 when
// previous is not positive or the ratio is not finite.
func KPIDelta(current, previous float64) Delta {
	d := Delta{Current: current, Previous: previous, Diff: current - previous}
	if previous > 0 {
		d.VarPct = finiteOrZero(current/previous - 1)
	}
	return d
}

// RealVariation deflates the nominal year-over-year change. It returns 0
// when previous is zero or the result is not finite.
func RealVariation(current, previous, deflCurrent, deflPrevious float64) float64 {
	if previous == 0 {
		return 0
	}
	inflation := deflCurrent/deflPrevious - 1
	nominal := current/previous - 1
	return finiteOrZero((1+nominal)/(1+inflation) - 1)
}

func finiteOrZero(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// DefaultTrendYears is the span of the dashboard trend chart.
func DefaultTrendYears() []int { return YearSpan(2020, 2026) }

// YearSpan returns from..to inclusive. An inverted range is swapped.
func YearSpan(from, to int) []int {
	if from > to {
		from, to = to, from
	}
	years := make([]int, 0, to-from+1)
	for y := from; y <= to; y++ {
		years = append(years, y)
	}
	return years
}

// TrendPoint is one year of a real-terms series.
type TrendPoint struct {
	Year    int
	Value   float64
	Defined bool
}

// TrendSeries rebases the observed figure of each year (prog when obs is
// missing) to BaseYear purchasing power, regardless of the display mode.
func TrendSeries(v Valuation, item model.RevenueItem, years []int) []TrendPoint {
	pts := make([]TrendPoint, len(years))
	for i, y := range years {
		pts[i] = TrendPoint{
			Year:    y,
			Value:   v.Nominal(item, y, model.KindObs) * v.RealFactor(y),
			Defined: Defined(item, y),
		}
	}
	return pts
}

// TrendValues extracts the values of a series.
func TrendValues(pts []TrendPoint) []float64 {
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.Value
	}
	return out
}

// Subtotal sums the observed figure of every selected item per year. ok is
// false when fewer than two selected items exist in items.
func Subtotal(items []model.RevenueItem, selected IDSet, years []int, v Valuation) ([]float64, bool) {
	picked := selectedItems(items, selected)
	if len(picked) < 2 {
		return nil, false
	}

	sums := make([]float64, len(years))
	for i, y := range years {
		total := decimal.Zero
		for _, it := range picked {
			total = total.Add(decimal.NewFromFloat(v.Value(it, y, model.KindObs)))
		}
		sums[i] = total.InexactFloat64()
	}
	return sums, true
}

// SelectedCount is the number of distinct selected items present in items,
// the count a subtotal sums over.
func SelectedCount(items []model.RevenueItem, selected IDSet) int {
	return len(selectedItems(items, selected))
}

func selectedItems(items []model.RevenueItem, selected IDSet) []model.RevenueItem {
	var picked []model.RevenueItem
	seen := make(IDSet)
	for _, it := range items {
		if selected.Has(it.ID) && !seen.Has(it.ID) {
			seen[it.ID] = struct{}{}
			picked = append(picked, it)
		}
	}
	return picked
}

// TableTotal returns the per-year figures of the first nivel 1 item, used as
// the footer of an unfiltered table.
func TableTotal(items []model.RevenueItem, years []int, v Valuation) ([]float64, bool) {
	total, ok := FindConcept(items, ConceptTotal)
	if !ok {
		return nil, false
	}
	return RowValues(total, years, v), true
}

// RowValues returns the table cells of item for years.
func RowValues(item model.RevenueItem, years []int, v Valuation) []float64 {
	out := make([]float64, len(years))
	for i, y := range years {
		out[i] = v.Value(item, y, model.KindObs)
	}
	return out
}

// SummaryRow is one line of the dashboard summary table.
type SummaryRow struct {
	Item          model.RevenueItem
	Previous      float64
	Current       float64
	RealVariation float64
}

// SummaryMaxNivel is the deepest level listed in the summary table.
const SummaryMaxNivel = 4

// SummaryRows compares the observed previous year with the programmed
// current year for every item down to SummaryMaxNivel.
func SummaryRows(ds *model.Dataset, v Valuation, currYear, prevYear int) []SummaryRow {
	var rows []SummaryRow
	for _, it := range ds.Items {
		if it.Nivel > SummaryMaxNivel {
			continue
		}
		prevN := v.Nominal(it, prevYear, model.KindObs)
		currN := v.Nominal(it, currYear, model.KindProg)
		rows = append(rows, SummaryRow{
			Item:          it,
			Previous:      v.Value(it, prevYear, model.KindObs),
			Current:       v.Value(it, currYear, model.KindProg),
			RealVariation: RealVariation(currN, prevN, v.Deflator(currYear), v.Deflator(prevYear)),
		})
	}
	return rows
}

// AnnotationFormat selects how a KPI annotation is printed.
type AnnotationFormat int

const (
	AnnotationNumber AnnotationFormat = iota
	AnnotationMoney
	AnnotationPercent
)

// Annotation is a macroeconomic figure shown under a KPI card.
type Annotation struct {
	Label  string
	Value  *float64
	Format AnnotationFormat
}

// KPICard is one headline concept with its year-over-year change.
type KPICard struct {
	Key         string
	Item        model.RevenueItem
	Found       bool
	Delta       Delta
	Annotations []Annotation
}

// KPICards builds the three headline cards: programmed currYear against
// observed prevYear, with macro annotations of currYear. A zero macro figure
// is reported as missing.
func KPICards(ds *model.Dataset, v Valuation, currYear, prevYear int) []KPICard {
	macro := ds.Macro[currYear]
	ann := func(label, name string, f AnnotationFormat) Annotation {
		a := Annotation{Label: label, Format: f}
		if val, ok := macro[name]; ok && val != 0 {
			a.Value = model.Float(val)
		}
		return a
	}

	cards := make([]KPICard, 0, len(HeadlineConcepts))
	for _, key := range HeadlineConcepts {
		c := KPICard{Key: key}
		c.Item, c.Found = FindConcept(ds.Items, key)
		if c.Found {
			c.Delta = KPIDelta(v.Value(c.Item, currYear, model.KindProg), v.Value(c.Item, prevYear, model.KindObs))
		}
		switch key {
		case ConceptPetroleros:
			c.Annotations = []Annotation{
				ann("Mezcla", "petroleo_precio", AnnotationMoney),
				ann("Prod.", "petroleo_prod", AnnotationNumber),
				ann("Gas", "gas_precio", AnnotationMoney),
			}
		case ConceptTributarios:
			c.Annotations = []Annotation{
				ann("Tasa Int.", "tasa_interes", AnnotationPercent),
				ann("Tipo Cambio", "tipo_cambio", AnnotationMoney),
			}
		}
		cards = append(cards, c)
	}
	return cards
}

// FilteredTotal sums the matched rows of a search per year. It is the table
// footer while a filter is active. Nested matches are each counted.
func FilteredTotal(rows []Row, years []int, v Valuation) []float64 {
	sums := make([]float64, len(years))
	for i, y := range years {
		total := decimal.Zero
		for _, r := range rows {
			if r.Matched {
				total = total.Add(decimal.NewFromFloat(v.Value(r.Item, y, model.KindObs)))
			}
		}
		sums[i] = total.InexactFloat64()
	}
	return sums
}

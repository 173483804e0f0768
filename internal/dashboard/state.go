// Package dashboard holds the mutable, process-local view state of the
// revenue dashboard and recomputes the visible table after every change.
package dashboard

import (
	"strings"

	"github.com/theirongolddev/ingresos/internal/model"
	"github.com/theirongolddev/ingresos/internal/pipeline"
)

// DefaultDrillLevel is the depth expanded when a session starts.
const DefaultDrillLevel = 3

// Options seed a new State. Zero values fall back to dataset bounds.
type Options struct {
	Mode        model.Mode
	StartYear   int
	EndYear     int
	DrillLevel  int
	ActiveChart string
}

// State is the dashboard's UI state. Each mutator returns the recomputed
// visible rows. A State is not safe for concurrent use; it lives inside a
// single event loop.
type State struct {
	Mode        model.Mode
	StartYear   int
	EndYear     int
	BaseYear    int
	ActiveChart string
	Expanded    pipeline.IDSet
	Selected    pipeline.IDSet
	Filter      string

	ds    *model.Dataset
	idx   *pipeline.Index
	years []int
	rows  []pipeline.Row
}

// New creates the initial state for ds. BaseYear is fixed to the latest
// dataset year and every item at depth <= DrillLevel starts expanded.
func New(ds *model.Dataset, idx *pipeline.Index, opts Options) *State {
	if idx == nil {
		idx = pipeline.BuildIndex(ds.Items)
	}
	s := &State{
		Mode:        opts.Mode,
		BaseYear:    ds.LatestYear(),
		ActiveChart: opts.ActiveChart,
		Expanded:    pipeline.NewIDSet(),
		Selected:    pipeline.NewIDSet(),
		ds:          ds,
		idx:         idx,
		years:       ds.Years(),
	}
	if s.Mode == "" {
		s.Mode = model.ModeNominal
	}
	if s.ActiveChart == "" {
		s.ActiveChart = pipeline.ConceptTotal
	}

	drill := opts.DrillLevel
	if drill <= 0 {
		drill = DefaultDrillLevel
	}
	for _, it := range ds.Items {
		if idx.Contains(it.ID) && idx.Level(it.ID) <= drill {
			s.Expanded[it.ID] = struct{}{}
		}
	}

	start, end := opts.StartYear, opts.EndYear
	if start == 0 {
		start = 2020
	}
	if end == 0 {
		end = 2026
	}
	s.SetYearRange(start, end)
	return s
}

// Dataset returns the loaded dataset.
func (s *State) Dataset() *model.Dataset { return s.ds }

// Index returns the hierarchy index.
func (s *State) Index() *pipeline.Index { return s.idx }

// AvailableYears lists every year present in the dataset.
func (s *State) AvailableYears() []int { return s.years }

// Years returns the table columns, StartYear..EndYear.
func (s *State) Years() []int { return pipeline.YearSpan(s.StartYear, s.EndYear) }

// Rows returns the visible rows from the last recomputation.
func (s *State) Rows() []pipeline.Row { return s.rows }

// Valuation returns the value resolver for the current mode.
func (s *State) Valuation() pipeline.Valuation {
	return pipeline.Valuation{Mode: s.Mode, BaseYear: s.BaseYear, Deflators: s.ds.Deflators}
}

// Recompute rebuilds the visible rows from scratch.
func (s *State) Recompute() []pipeline.Row {
	s.rows = pipeline.ComputeVisibleRows(s.ds.Items, s.idx, s.Expanded, s.Selected, s.Filter)
	return s.rows
}

// ToggleExpand flips the expanded state of id.
func (s *State) ToggleExpand(id int) []pipeline.Row {
	pipeline.ToggleSet(s.Expanded, id)
	return s.Recompute()
}

// ToggleSelect flips the subtotal selection of id.
func (s *State) ToggleSelect(id int) []pipeline.Row {
	pipeline.ToggleSet(s.Selected, id)
	return s.Recompute()
}

// SetMode switches between nominal and real values.
func (s *State) SetMode(m model.Mode) []pipeline.Row {
	if m == model.ModeNominal || m == model.ModeReal {
		s.Mode = m
	}
	return s.Recompute()
}

// SetYearRange sets the table columns. An inverted range is swapped and both
// ends are clamped to the dataset's years.
func (s *State) SetYearRange(start, end int) []pipeline.Row {
	if start > end {
		start, end = end, start
	}
	if len(s.years) > 0 {
		lo, hi := s.years[0], s.years[len(s.years)-1]
		start = clamp(start, lo, hi)
		end = clamp(end, lo, hi)
	}
	s.StartYear, s.EndYear = start, end
	return s.Recompute()
}

// SetSearchFilter replaces the filter text. Entering search mode from an
// empty filter collapses everything, so leaving search starts collapsed.
// Surrounding whitespace is ignored; a blank text is no filter.
func (s *State) SetSearchFilter(text string) []pipeline.Row {
	text = strings.TrimSpace(text)
	if s.Filter == "" && text != "" {
		s.Expanded = pipeline.NewIDSet()
	}
	s.Filter = text
	return s.Recompute()
}

// SetActiveConcept selects the trend chart concept: a headline key or an
// item id. Unknown keys are ignored.
func (s *State) SetActiveConcept(key string) []pipeline.Row {
	if _, ok := pipeline.FindConcept(s.ds.Items, key); ok {
		s.ActiveChart = key
	}
	return s.Recompute()
}

// ExpandAll expands every item with children.
func (s *State) ExpandAll() []pipeline.Row {
	for _, it := range s.ds.Items {
		if s.idx.HasChildren(it.ID) {
			s.Expanded[it.ID] = struct{}{}
		}
	}
	return s.Recompute()
}

// CollapseAll clears the expanded set.
func (s *State) CollapseAll() []pipeline.Row {
	s.Expanded = pipeline.NewIDSet()
	return s.Recompute()
}

// ClearSelection drops every subtotal selection.
func (s *State) ClearSelection() []pipeline.Row {
	s.Selected = pipeline.NewIDSet()
	return s.Recompute()
}

// Subtotal sums the selected rows over the table years.
func (s *State) Subtotal() ([]float64, bool) {
	return pipeline.Subtotal(s.ds.Items, s.Selected, s.Years(), s.Valuation())
}

// SelectionSize counts the selected ids that exist in the dataset.
func (s *State) SelectionSize() int {
	return pipeline.SelectedCount(s.ds.Items, s.Selected)
}

// Footer returns the table footer: the total item without a filter, the sum
// of matched rows with one.
func (s *State) Footer() ([]float64, bool) {
	if s.Filter == "" {
		return pipeline.TableTotal(s.ds.Items, s.Years(), s.Valuation())
	}
	return pipeline.FilteredTotal(s.rows, s.Years(), s.Valuation()), true
}

// Trend returns the real-terms series of the active concept over years.
func (s *State) Trend(years []int) (model.RevenueItem, []pipeline.TrendPoint, bool) {
	it, ok := pipeline.FindConcept(s.ds.Items, s.ActiveChart)
	if !ok {
		return model.RevenueItem{}, nil, false
	}
	return it, pipeline.TrendSeries(s.Valuation(), it, years), true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

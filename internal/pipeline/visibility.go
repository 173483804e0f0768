package pipeline

import (
	"strings"

	"github.com/theirongolddev/ingresos/internal/model"
)

// IDSet is a set of item ids.
type IDSet map[int]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...int) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s IDSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// Clone returns an independent copy.
func (s IDSet) Clone() IDSet {
	c := make(IDSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// ToggleSet removes id when present and adds it otherwise.
func ToggleSet(s IDSet, id int) {
	if s.Has(id) {
		delete(s, id)
		return
	}
	s[id] = struct{}{}
}

// Row is one visible line of the historical table.
type Row struct {
	Item        model.RevenueItem
	Depth       int
	HasChildren bool
	IsExpanded  bool
	IsSelected  bool
	// Matched is set in search mode when the label contains the filter.
	Matched bool
	// Context is set in search mode for a non-matching ancestor shown to place a match.
	Context bool
}

// ComputeVisibleRows decides which items are shown and in what order.
//
// With an empty filter an item is visible when it is a root, or when its
// parent is visible and expanded. With a filter, expanded is ignored: every
// item whose label contains the filter is shown, plus the nearest
// non-matching ancestor of each match. Rows always keep dataset order.
func ComputeVisibleRows(items []model.RevenueItem, idx *Index, expanded, selected IDSet, filter string) []Row {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return browseRows(items, idx, expanded, selected)
	}
	return searchRows(items, idx, expanded, selected, filter)
}

func browseRows(items []model.RevenueItem, idx *Index, expanded, selected IDSet) []Row {
	visible := make(IDSet)
	var rows []Row
	for i, it := range items {
		if !idx.indexed(it.ID, i) {
			continue
		}
		p, hasParent := idx.ParentOf(it.ID)
		if hasParent && !(visible.Has(p) && expanded.Has(p)) {
			continue
		}
		visible[it.ID] = struct{}{}
		rows = append(rows, newRow(it, idx, expanded, selected))
	}
	return rows
}

func searchRows(items []model.RevenueItem, idx *Index, expanded, selected IDSet, filter string) []Row {
	matched := make(IDSet)
	for i, it := range items {
		if idx.indexed(it.ID, i) && containsIgnoreCase(it.Concepto, filter) {
			matched[it.ID] = struct{}{}
		}
	}

	context := make(IDSet)
	for id := range matched {
		for _, a := range idx.Ancestors(id) {
			if !matched.Has(a) {
				context[a] = struct{}{}
				break
			}
		}
	}

	var rows []Row
	for i, it := range items {
		if !idx.indexed(it.ID, i) {
			continue
		}
		m, c := matched.Has(it.ID), context.Has(it.ID)
		if !m && !c {
			continue
		}
		r := newRow(it, idx, expanded, selected)
		r.Matched, r.Context = m, c
		rows = append(rows, r)
	}
	return rows
}

func newRow(it model.RevenueItem, idx *Index, expanded, selected IDSet) Row {
	return Row{
		Item:        it,
		Depth:       idx.Depth(it.ID),
		HasChildren: idx.HasChildren(it.ID),
		IsExpanded:  expanded.Has(it.ID),
		IsSelected:  selected.Has(it.ID),
	}
}

// RowIDs returns the ids of rows in order.
func RowIDs(rows []Row) []int {
	ids := make([]int, len(rows))
	for i, r := range rows {
		ids[i] = r.Item.ID
	}
	return ids
}

// containsIgnoreCase reports whether substr is within s, case-insensitive.
func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

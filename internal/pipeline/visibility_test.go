package pipeline

import (
	"reflect"
	"testing"
)

func TestComputeVisibleRows_BrowseScenario(t *testing.T) {
	items := scenarioItems()
	idx := BuildIndex(items)

	rows := ComputeVisibleRows(items, idx, NewIDSet(1), NewIDSet(), "")
	if got := RowIDs(rows); !equalInts(got, []int{1, 2}) {
		t.Fatalf("visible = %v, want [1 2]", got)
	}
	if !rows[0].IsExpanded || !rows[0].HasChildren {
		t.Errorf("row 1 affordances = %+v", rows[0])
	}
	if rows[1].IsExpanded || !rows[1].HasChildren {
		t.Errorf("row 2 affordances = %+v", rows[1])
	}
	if rows[1].Depth != 2 {
		t.Errorf("row 2 depth = %d, want 2", rows[1].Depth)
	}
}

func TestComputeVisibleRows_SearchScenario(t *testing.T) {
	items := scenarioItems()
	idx := BuildIndex(items)

	rows := ComputeVisibleRows(items, idx, NewIDSet(1), NewIDSet(), "Crudo")
	if got := RowIDs(rows); !equalInts(got, []int{2, 3}) {
		t.Fatalf("visible = %v, want [2 3]", got)
	}
	if !rows[0].Context || rows[0].Matched {
		t.Errorf("row 2 should be context, got %+v", rows[0])
	}
	if !rows[1].Matched || rows[1].Context {
		t.Errorf("row 3 should be a match, got %+v", rows[1])
	}
}

func TestComputeVisibleRows_BrowseRule(t *testing.T) {
	items := treeItems()
	idx := BuildIndex(items)
	parents := []int{1, 2, 3, 6, 7, 10}

	for mask := 0; mask < 1<<len(parents); mask++ {
		expanded := NewIDSet()
		for i, id := range parents {
			if mask&(1<<i) != 0 {
				expanded[id] = struct{}{}
			}
		}
		visible := NewIDSet(RowIDs(ComputeVisibleRows(items, idx, expanded, nil, ""))...)

		for _, it := range items {
			p, ok := idx.ParentOf(it.ID)
			if !ok {
				if !visible.Has(it.ID) {
					t.Fatalf("mask %b: root %d hidden", mask, it.ID)
				}
				continue
			}
			want := visible.Has(p) && expanded.Has(p)
			if visible.Has(it.ID) != want {
				t.Fatalf("mask %b: item %d visible=%v, want %v", mask, it.ID, visible.Has(it.ID), want)
			}
		}
	}
}

func TestComputeVisibleRows_SearchPetroleros(t *testing.T) {
	items := treeItems()
	idx := BuildIndex(items)

	rows := ComputeVisibleRows(items, idx, nil, nil, "Petroleros")
	if got := RowIDs(rows); !equalInts(got, []int{1, 2, 3, 6}) {
		t.Fatalf("visible = %v, want [1 2 3 6]", got)
	}
	visible := NewIDSet(RowIDs(rows)...)
	for _, it := range items {
		if containsIgnoreCase(it.Concepto, "Petroleros") && !visible.Has(it.ID) {
			t.Errorf("match %d (%s) hidden", it.ID, it.Concepto)
		}
	}
	for _, id := range []int{4, 5, 7} {
		if visible.Has(id) {
			t.Errorf("non-matching item %d should be hidden", id)
		}
	}
}

func TestComputeVisibleRows_SearchIgnoresExpanded(t *testing.T) {
	items := treeItems()
	idx := BuildIndex(items)

	collapsed := RowIDs(ComputeVisibleRows(items, idx, NewIDSet(), nil, "iva"))
	expanded := RowIDs(ComputeVisibleRows(items, idx, NewIDSet(1, 6, 7), nil, "iva"))
	if !equalInts(collapsed, []int{7, 9}) || !equalInts(collapsed, expanded) {
		t.Errorf("collapsed = %v, expanded = %v, want [7 9] for both", collapsed, expanded)
	}
}

func TestComputeVisibleRows_SearchMatchingChainHasNoContext(t *testing.T) {
	items := treeItems()
	idx := BuildIndex(items)

	// 2 and its only ancestor 1 both match; the cluster needs no context row.
	rows := ComputeVisibleRows(items, idx, nil, nil, "Ingresos")
	if got := RowIDs(rows); !equalInts(got, []int{1, 2}) {
		t.Fatalf("visible = %v, want [1 2]", got)
	}
	for _, r := range rows {
		if r.Context || !r.Matched {
			t.Errorf("row %d = matched %v context %v, want a plain match", r.Item.ID, r.Matched, r.Context)
		}
	}
}

func TestComputeVisibleRows_SearchHidesUnmatchedSiblings(t *testing.T) {
	items := treeItems()
	idx := BuildIndex(items)

	rows := ComputeVisibleRows(items, idx, nil, nil, "isr")
	if got := RowIDs(rows); !equalInts(got, []int{7, 8}) {
		t.Fatalf("visible = %v, want [7 8]", got)
	}
	if !rows[0].Context {
		t.Errorf("shared parent 7 should be a context row: %+v", rows[0])
	}
	visible := NewIDSet(RowIDs(rows)...)
	for _, id := range []int{9, 10, 6, 1} {
		if visible.Has(id) {
			t.Errorf("item %d should stay hidden", id)
		}
	}
}

func TestComputeVisibleRows_WhitespaceFilterBrowses(t *testing.T) {
	items := treeItems()
	idx := BuildIndex(items)
	if got := RowIDs(ComputeVisibleRows(items, idx, nil, nil, "   ")); !equalInts(got, []int{1}) {
		t.Errorf("visible = %v, want [1]", got)
	}
}

func TestComputeVisibleRows_Selection(t *testing.T) {
	items := treeItems()
	idx := BuildIndex(items)
	rows := ComputeVisibleRows(items, idx, NewIDSet(1), NewIDSet(6), "")
	for _, r := range rows {
		if r.IsSelected != (r.Item.ID == 6) {
			t.Errorf("row %d IsSelected = %v", r.Item.ID, r.IsSelected)
		}
	}
}

func TestToggleSet_RoundTrip(t *testing.T) {
	items := treeItems()
	idx := BuildIndex(items)
	expanded := NewIDSet(1, 2)
	before := ComputeVisibleRows(items, idx, expanded, nil, "")
	snapshot := expanded.Clone()

	ToggleSet(expanded, 6)
	if !expanded.Has(6) {
		t.Fatal("toggle should add 6")
	}
	ToggleSet(expanded, 6)

	if !reflect.DeepEqual(expanded, snapshot) {
		t.Errorf("expanded = %v, want %v", expanded, snapshot)
	}
	if after := ComputeVisibleRows(items, idx, expanded, nil, ""); !reflect.DeepEqual(after, before) {
		t.Errorf("rows changed after round trip")
	}
}

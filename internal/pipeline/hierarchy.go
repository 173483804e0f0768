package pipeline

import "github.com/theirongolddev/ingresos/internal/model"

// MaxNivel is the deepest hierarchy level observed in the dataset.
const MaxNivel = 6

// Index is the parent/child structure derived from the pre-order item list.
type Index struct {
	parent   map[int]int
	children map[int][]int
	depth    map[int]int
	level    map[int]int
	pos      map[int]int
	roots    []int

	// Orphans lists ids whose expected parent level did not precede them.
	Orphans []int
	// Duplicates lists ids seen more than once; only the first occurrence is indexed.
	Duplicates []int
}

// BuildIndex derives the hierarchy in a single pass over items. The last id
// seen at each level is tracked, and every deeper slot is cleared when a
// shallower item appears.
//
// An item whose parent level has no entry is attached to the nearest
// shallower ancestor still open, or becomes a root when there is none.
func BuildIndex(items []model.RevenueItem) *Index {
	idx := &Index{
		parent:   make(map[int]int, len(items)),
		children: make(map[int][]int),
		depth:    make(map[int]int, len(items)),
		level:    make(map[int]int, len(items)),
		pos:      make(map[int]int, len(items)),
	}

	var slots [MaxNivel + 2]int
	var open [MaxNivel + 2]bool

	for i, it := range items {
		if _, dup := idx.pos[it.ID]; dup {
			idx.Duplicates = append(idx.Duplicates, it.ID)
			continue
		}
		idx.pos[it.ID] = i

		n := clampNivel(it.Nivel)
		idx.level[it.ID] = n

		parent, found := 0, false
		for d := n - 1; d >= 1; d-- {
			if open[d] {
				parent, found = slots[d], true
				break
			}
		}
		if n > 1 && (!found || !open[n-1]) {
			idx.Orphans = append(idx.Orphans, it.ID)
		}

		if found {
			idx.parent[it.ID] = parent
			idx.children[parent] = append(idx.children[parent], it.ID)
			idx.depth[it.ID] = idx.depth[parent] + 1
		} else {
			idx.roots = append(idx.roots, it.ID)
			idx.depth[it.ID] = 1
		}

		slots[n], open[n] = it.ID, true
		for d := n + 1; d < len(open); d++ {
			open[d] = false
		}
	}
	return idx
}

func clampNivel(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxNivel {
		return MaxNivel
	}
	return n
}

// ParentOf returns the parent id, or false for roots and unknown ids.
func (x *Index) ParentOf(id int) (int, bool) {
	p, ok := x.parent[id]
	return p, ok
}

// ChildrenOf returns the direct children of id in dataset order.
func (x *Index) ChildrenOf(id int) []int {
	return x.children[id]
}

// HasChildren reports whether id has at least one child.
func (x *Index) HasChildren(id int) bool {
	return len(x.children[id]) > 0
}

// Depth is the position of id in the tree, 1 for roots.
func (x *Index) Depth(id int) int {
	return x.depth[id]
}

// Level is the clamped nivel of id.
func (x *Index) Level(id int) int {
	return x.level[id]
}

// Roots returns the ids with no parent, in dataset order.
func (x *Index) Roots() []int {
	return x.roots
}

// Contains reports whether id was indexed.
func (x *Index) Contains(id int) bool {
	_, ok := x.pos[id]
	return ok
}

// indexed reports whether position i of the item list is the canonical entry for id.
func (x *Index) indexed(id, i int) bool {
	p, ok := x.pos[id]
	return ok && p == i
}

// Ancestors returns the chain from the parent of id up to its root.
func (x *Index) Ancestors(id int) []int {
	var chain []int
	for {
		p, ok := x.parent[id]
		if !ok {
			return chain
		}
		chain = append(chain, p)
		id = p
	}
}

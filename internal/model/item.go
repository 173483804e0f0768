// Package model defines domain types for the ingresos revenue dataset.
package model

import "sort"

// Kind selects which figure of a year record is requested.
type Kind string

const (
	KindObs  Kind = "obs"
	KindProg Kind = "prog"
)

// YearRecord holds the observed and programmed amounts for one year.
// A nil pointer means the figure is not defined for that year.
type YearRecord struct {
	Obs  *float64
	Prog *float64
}

// Get returns the requested figure, or nil when undefined.
func (r YearRecord) Get(k Kind) *float64 {
	switch k {
	case KindObs:
		return r.Obs
	case KindProg:
		return r.Prog
	}
	return nil
}

// RevenueItem is one line of the fiscal revenue hierarchy.
type RevenueItem struct {
	ID       int
	Concepto string
	Nivel    int
	Datos    map[int]YearRecord
}

// Dataset is everything the dashboard needs, loaded once at startup.
type Dataset struct {
	Items     []RevenueItem
	Deflators map[int]float64
	Macro     map[int]map[string]float64
}

// Years returns every year that appears in item data or deflators, ascending.
func (d *Dataset) Years() []int {
	seen := make(map[int]struct{})
	for _, it := range d.Items {
		for y := range it.Datos {
			seen[y] = struct{}{}
		}
	}
	for y := range d.Deflators {
		seen[y] = struct{}{}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// LatestYear returns the most recent dataset year, or 0 for an empty dataset.
func (d *Dataset) LatestYear() int {
	years := d.Years()
	if len(years) == 0 {
		return 0
	}
	return years[len(years)-1]
}

// ItemByID returns the first item with the given id.
func (d *Dataset) ItemByID(id int) (RevenueItem, bool) {
	for _, it := range d.Items {
		if it.ID == id {
			return it, true
		}
	}
	return RevenueItem{}, false
}

// Float returns a pointer to v. Handy for building YearRecords.
func Float(v float64) *float64 { return &v }

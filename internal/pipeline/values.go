// Package pipeline resolves values, indexes the revenue hierarchy, computes
// visible table rows and aggregates KPI, trend and subtotal figures.
package pipeline

import "github.com/theirongolddev/ingresos/internal/model"

// DefaultDeflator is used when a year has no deflator (or a zero one).
const DefaultDeflator = 100.0

// Valuation carries what is needed to turn a raw figure into a displayed one.
type Valuation struct {
	Mode      model.Mode
	BaseYear  int
	Deflators map[int]float64
}

// Deflator returns the price index for year, defaulting to 100.
func (v Valuation) Deflator(year int) float64 {
	if d, ok := v.Deflators[year]; ok && d != 0 {
		return d
	}
	return DefaultDeflator
}

// Factor is the multiplier applied to a nominal amount of year in the current mode.
func (v Valuation) Factor(year int) float64 {
	if v.Mode != model.ModeReal {
		return 1
	}
	return v.Deflator(v.BaseYear) / v.Deflator(year)
}

// RealFactor is the deflation multiplier regardless of mode.
func (v Valuation) RealFactor(year int) float64 {
	return v.Deflator(v.BaseYear) / v.Deflator(year)
}

// Value resolves the figure of item for year, deflated to BaseYear in real mode.
func (v Valuation) Value(item model.RevenueItem, year int, kind model.Kind) float64 {
	return v.Nominal(item, year, kind) * v.Factor(year)
}

// Nominal resolves the figure of item for year without deflation.
//
// The requested kind wins when defined, a defined zero included. Otherwise
// obs, then prog, then 0.
func (v Valuation) Nominal(item model.RevenueItem, year int, kind model.Kind) float64 {
	rec, ok := item.Datos[year]
	if !ok {
		return 0
	}
	for _, p := range []*float64{rec.Get(kind), rec.Obs, rec.Prog} {
		if p != nil {
			return *p
		}
	}
	return 0
}

// Defined reports whether item has a record for year.
func Defined(item model.RevenueItem, year int) bool {
	_, ok := item.Datos[year]
	return ok
}

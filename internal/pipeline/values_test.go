package pipeline

import (
	"math"
	"testing"

	"github.com/theirongolddev/ingresos/internal/model"
)

func TestNominal_Fallbacks(t *testing.T) {
	item := model.RevenueItem{ID: 1, Datos: map[int]model.YearRecord{
		2020: rec(f(10), f(20)),
		2021: rec(nil, f(30)),
		2022: rec(f(0), f(40)),
		2023: rec(nil, nil),
		2024: rec(f(15), nil),
	}}
	v := Valuation{Mode: model.ModeNominal}

	tests := []struct {
		name string
		year int
		kind model.Kind
		want float64
	}{
		{"obs defined", 2020, model.KindObs, 10},
		{"prog defined", 2020, model.KindProg, 20},
		{"obs missing falls back to prog", 2021, model.KindObs, 30},
		{"zero obs is kept when requested", 2022, model.KindObs, 0},
		{"prog missing falls back to obs", 2024, model.KindProg, 15},
		{"empty record", 2023, model.KindObs, 0},
		{"absent year", 2019, model.KindObs, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Nominal(item, tt.year, tt.kind); got != tt.want {
				t.Errorf("Nominal(%d, %q) = %v, want %v", tt.year, tt.kind, got, tt.want)
			}
		})
	}
}

func TestValue_RealMode(t *testing.T) {
	item := model.RevenueItem{ID: 1, Datos: map[int]model.YearRecord{
		2020: rec(f(100), nil),
		2026: rec(f(100), nil),
		2018: rec(f(100), nil),
	}}
	defl := map[int]float64{2020: 80, 2026: 120}
	nominal := Valuation{Mode: model.ModeNominal, BaseYear: 2026, Deflators: defl}
	realV := Valuation{Mode: model.ModeReal, BaseYear: 2026, Deflators: defl}

	for _, year := range []int{2018, 2020, 2026} {
		n1 := nominal.Nominal(item, year, model.KindObs)
		n2 := realV.Nominal(item, year, model.KindObs)
		if n1 != n2 {
			t.Errorf("Nominal differs by mode for %d: %v vs %v", year, n1, n2)
		}
		if got := nominal.Value(item, year, model.KindObs); got != n1 {
			t.Errorf("nominal Value(%d) = %v, want %v", year, got, n1)
		}
		want := n1 * realV.Deflator(2026) / realV.Deflator(year)
		if got := realV.Value(item, year, model.KindObs); math.Abs(got-want) > 1e-9 {
			t.Errorf("real Value(%d) = %v, want %v", year, got, want)
		}
	}

	// 2018 has no deflator, so 100 is used.
	if got := realV.Value(item, 2018, model.KindObs); math.Abs(got-120) > 1e-9 {
		t.Errorf("real Value(2018) = %v, want 120", got)
	}
	if got := realV.Value(item, 2020, model.KindObs); math.Abs(got-150) > 1e-9 {
		t.Errorf("real Value(2020) = %v, want 150", got)
	}
}

func TestDeflator_ZeroDefaults(t *testing.T) {
	v := Valuation{Deflators: map[int]float64{2024: 0}}
	if got := v.Deflator(2024); got != DefaultDeflator {
		t.Errorf("Deflator(zero) = %v, want %v", got, DefaultDeflator)
	}
}

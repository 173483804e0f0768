package pipeline

import "github.com/theirongolddev/ingresos/internal/model"

func rec(obs, prog *float64) model.YearRecord { return model.YearRecord{Obs: obs, Prog: prog} }

func f(v float64) *float64 { return model.Float(v) }

// scenarioItems is the three-level chain Total > Petroleros > Crudo.
func scenarioItems() []model.RevenueItem {
	return []model.RevenueItem{
		{ID: 1, Nivel: 1, Concepto: "Total", Datos: map[int]model.YearRecord{2025: rec(f(1000), nil)}},
		{ID: 2, Nivel: 2, Concepto: "Petroleros", Datos: map[int]model.YearRecord{2025: rec(f(300), nil)}},
		{ID: 3, Nivel: 3, Concepto: "Crudo", Datos: map[int]model.YearRecord{2025: rec(f(300), nil)}},
	}
}

// treeItems is a wider tree used for browse and search properties.
//
//	1 Ingresos Totales
//	  2 Ingresos Petroleros
//	    3 Petroleros Pemex
//	      4 Crudo
//	    5 Gobierno Federal
//	  6 No Petroleros
//	    7 Tributarios
//	      8 ISR
//	      9 IVA
//	    10 No Tributarios
//	      11 Derechos
func treeItems() []model.RevenueItem {
	mk := func(id, nivel int, label string) model.RevenueItem {
		return model.RevenueItem{ID: id, Nivel: nivel, Concepto: label, Datos: map[int]model.YearRecord{}}
	}
	return []model.RevenueItem{
		mk(1, 1, "Ingresos Totales"),
		mk(2, 2, "Ingresos Petroleros"),
		mk(3, 3, "Petroleros Pemex"),
		mk(4, 4, "Crudo"),
		mk(5, 3, "Gobierno Federal"),
		mk(6, 2, "No Petroleros"),
		mk(7, 3, "Tributarios"),
		mk(8, 4, "ISR"),
		mk(9, 4, "IVA"),
		mk(10, 3, "No Tributarios"),
		mk(11, 4, "Derechos"),
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

package pipeline

import (
	"strconv"

	"github.com/theirongolddev/ingresos/internal/model"
)

// Headline concept keys. Any other key is a numeric item id.
const (
	ConceptTotal       = "Total"
	ConceptPetroleros  = "Petroleros"
	ConceptTributarios = "Tributarios"
)

// HeadlineConcepts are the KPI cards in display order.
var HeadlineConcepts = []string{ConceptTotal, ConceptPetroleros, ConceptTributarios}

// FindConcept resolves a concept key to an item. Ids of the headline
// concepts are not stable across datasets, so they are found by label and
// level: the first nivel 1 item for Total, the first label containing
// "petroleros" at nivel <= 2, the first containing "tributarios" at nivel <= 4.
func FindConcept(items []model.RevenueItem, key string) (model.RevenueItem, bool) {
	switch key {
	case ConceptTotal:
		return firstItem(items, func(it model.RevenueItem) bool { return it.Nivel == 1 })
	case ConceptPetroleros:
		return firstItem(items, func(it model.RevenueItem) bool {
			return it.Nivel <= 2 && containsIgnoreCase(it.Concepto, "petroleros")
		})
	case ConceptTributarios:
		return firstItem(items, func(it model.RevenueItem) bool {
			return it.Nivel <= 4 && containsIgnoreCase(it.Concepto, "tributarios")
		})
	}
	id, err := strconv.Atoi(key)
	if err != nil {
		return model.RevenueItem{}, false
	}
	return firstItem(items, func(it model.RevenueItem) bool { return it.ID == id })
}

// ConceptLabel is the display name for a concept key.
func ConceptLabel(items []model.RevenueItem, key string) string {
	switch key {
	case ConceptTotal, ConceptPetroleros, ConceptTributarios:
		return key
	}
	if it, ok := FindConcept(items, key); ok {
		return it.Concepto
	}
	return key
}

func firstItem(items []model.RevenueItem, pred func(model.RevenueItem) bool) (model.RevenueItem, bool) {
	for _, it := range items {
		if pred(it) {
			return it, true
		}
	}
	return model.RevenueItem{}, false
}

// Package source discovers and parses revenue dataset files.
package source

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/theirongolddev/ingresos/internal/model"
)

// ParseResult holds the output of parsing a dataset file.
type ParseResult struct {
	Dataset  model.Dataset
	Warnings []string
}

// ParseFile reads a JSON dataset from path.
func ParseFile(path string) (ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ParseResult{}, err
	}
	defer func() { _ = f.Close() }()

	res, err := Parse(f)
	if err != nil {
		return ParseResult{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return res, nil
}

// Parse decodes a JSON dataset. Items keep their file order, which must be
// the pre-order of the hierarchy.
func Parse(r io.Reader) (ParseResult, error) {
	var raw RawDataset
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return ParseResult{}, err
	}

	items := raw.Items
	if len(items) == 0 {
		items = raw.AltItems
	}
	deflators := raw.Deflators
	if len(deflators) == 0 {
		deflators = raw.AltDeflate
	}
	macro := raw.Macro
	if len(macro) == 0 {
		macro = raw.AltMacro
	}

	var res ParseResult
	res.Dataset.Items = make([]model.RevenueItem, 0, len(items))
	for i, ri := range items {
		if ri.Nivel < 1 || ri.Nivel > 6 {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("item %d (%q) at position %d has nivel %d outside 1..6", ri.ID, ri.Concepto, i, ri.Nivel))
		}
		res.Dataset.Items = append(res.Dataset.Items, convertItem(ri))
	}

	res.Dataset.Deflators = make(map[int]float64, len(deflators))
	for y, d := range deflators {
		res.Dataset.Deflators[y] = d
	}
	res.Dataset.Macro = make(map[int]map[string]float64, len(macro))
	for y, m := range macro {
		res.Dataset.Macro[y] = m
	}
	return res, nil
}

func convertItem(ri RawItem) model.RevenueItem {
	it := model.RevenueItem{
		ID:       ri.ID,
		Concepto: ri.Concepto,
		Nivel:    ri.Nivel,
		Datos:    make(map[int]model.YearRecord, len(ri.Datos)),
	}
	for y, rec := range ri.Datos {
		it.Datos[y] = model.YearRecord{Obs: rec.Obs, Prog: rec.Prog}
	}
	return it
}

// Encode writes ds as an indented JSON document.
func Encode(w io.Writer, ds *model.Dataset) error {
	raw := RawDataset{
		Items:     make([]RawItem, 0, len(ds.Items)),
		Deflators: ds.Deflators,
		Macro:     ds.Macro,
	}
	for _, it := range ds.Items {
		ri := RawItem{ID: it.ID, Concepto: it.Concepto, Nivel: it.Nivel, Datos: make(map[int]RawYearRecord, len(it.Datos))}
		for y, rec := range it.Datos {
			ri.Datos[y] = RawYearRecord{Obs: rec.Obs, Prog: rec.Prog}
		}
		raw.Items = append(raw.Items, ri)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(raw)
}

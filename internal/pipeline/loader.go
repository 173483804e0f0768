package pipeline

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/theirongolddev/ingresos/internal/model"
	"github.com/theirongolddev/ingresos/internal/source"
	"github.com/theirongolddev/ingresos/internal/store"
)

// ErrNoData is returned when a dataset has no revenue items.
var ErrNoData = errors.New("dataset has no revenue items")

// LoadResult holds the output of the dataset loading pipeline.
type LoadResult struct {
	Dataset  *model.Dataset
	Index    *Index
	Path     string
	Format   source.DatasetFormat
	Warnings []string
}

// Load reads the dataset at path, choosing the reader by file extension,
// and builds the hierarchy index.
func Load(path string) (*LoadResult, error) {
	if path == "" {
		return nil, fmt.Errorf("no dataset configured: %w", ErrNoData)
	}
	format, ok := source.FormatOf(path)
	if !ok {
		return nil, fmt.Errorf("unsupported dataset file %s (want .json, .db or .sqlite)", path)
	}

	result := &LoadResult{Path: path, Format: format}
	switch format {
	case source.FormatJSON:
		pr, err := source.ParseFile(path)
		if err != nil {
			return nil, err
		}
		result.Dataset = &pr.Dataset
		result.Warnings = append(result.Warnings, pr.Warnings...)
	case source.FormatSQLite:
		if _, err := os.Stat(path); err != nil {
			return nil, err
		}
		ds, err := loadSQLite(path)
		if err != nil {
			return nil, err
		}
		result.Dataset = ds
	}

	if err := finish(result); err != nil {
		return nil, err
	}
	return result, nil
}

func loadSQLite(path string) (*model.Dataset, error) {
	c, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Close() }()

	ds, err := c.LoadDataset()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ds, nil
}

// finish indexes the dataset and records structural warnings.
func finish(result *LoadResult) error {
	if len(result.Dataset.Items) == 0 {
		return fmt.Errorf("%s: %w", result.Path, ErrNoData)
	}
	result.Index = BuildIndex(result.Dataset.Items)
	result.Warnings = append(result.Warnings, IndexWarnings(result.Index)...)

	var missing []int
	for _, y := range result.Dataset.Years() {
		if _, ok := result.Dataset.Deflators[y]; !ok {
			missing = append(missing, y)
		}
	}
	sort.Ints(missing)
	if len(missing) > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("no deflator for years %v, using %v", missing, DefaultDeflator))
	}
	return nil
}

// IndexWarnings describes the structural problems found while indexing.
func IndexWarnings(idx *Index) []string {
	var out []string
	for _, id := range idx.Duplicates {
		out = append(out, fmt.Sprintf("duplicate item id %d ignored", id))
	}
	for _, id := range idx.Orphans {
		if _, ok := idx.ParentOf(id); ok {
			out = append(out, fmt.Sprintf("item %d skips a level, attached to nearest ancestor", id))
		} else {
			out = append(out, fmt.Sprintf("item %d has no parent, treated as root", id))
		}
	}
	return out
}

// Package store provides a SQLite-backed copy of a revenue dataset, used both
// as a parse cache for JSON datasets and as a standalone dataset file.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/ingresos/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed dataset storage.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening dataset db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked mtime and size for a source file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// GetTrackedFiles returns a map of file_path -> FileInfo for the dataset
// file currently held in the cache.
func (c *Cache) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := c.db.Query("SELECT file_path, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveDataset replaces the stored dataset with ds. When srcPath is not empty
// it is recorded with its mtime and size so an unchanged file can be served
// from the cache next time.
func (c *Cache) SaveDataset(ds *model.Dataset, srcPath string, mtimeNs, sizeBytes int64) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		"DELETE FROM item_years", "DELETE FROM items",
		"DELETE FROM deflators", "DELETE FROM macro", "DELETE FROM file_tracker",
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	for pos, it := range ds.Items {
		_, err = tx.Exec(`INSERT INTO items (position, id, concepto, nivel) VALUES (?, ?, ?, ?)`,
			pos, it.ID, it.Concepto, it.Nivel)
		if err != nil {
			return err
		}
		for year, rec := range it.Datos {
			_, err = tx.Exec(`INSERT INTO item_years (position, year, obs, prog) VALUES (?, ?, ?, ?)`,
				pos, year, nullFloat(rec.Obs), nullFloat(rec.Prog))
			if err != nil {
				return err
			}
		}
	}

	for year, v := range ds.Deflators {
		if _, err = tx.Exec(`INSERT INTO deflators (year, value) VALUES (?, ?)`, year, v); err != nil {
			return err
		}
	}

	for year, m := range ds.Macro {
		for name, v := range m {
			if _, err = tx.Exec(`INSERT INTO macro (year, name, value) VALUES (?, ?, ?)`, year, name, v); err != nil {
				return err
			}
		}
	}

	if srcPath != "" {
		now := time.Now().UTC().Format(time.RFC3339)
		_, err = tx.Exec(`INSERT OR REPLACE INTO file_tracker (file_path, mtime_ns, size_bytes, loaded_at)
			VALUES (?, ?, ?, ?)`, srcPath, mtimeNs, sizeBytes, now)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadDataset reads the stored dataset. Items come back in their saved order.
func (c *Cache) LoadDataset() (*model.Dataset, error) {
	ds := &model.Dataset{
		Deflators: make(map[int]float64),
		Macro:     make(map[int]map[string]float64),
	}

	rows, err := c.db.Query(`SELECT position, id, concepto, nivel FROM items ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	posIdx := make(map[int]int)
	for rows.Next() {
		var pos int
		it := model.RevenueItem{Datos: make(map[int]model.YearRecord)}
		if err := rows.Scan(&pos, &it.ID, &it.Concepto, &it.Nivel); err != nil {
			return nil, err
		}
		posIdx[pos] = len(ds.Items)
		ds.Items = append(ds.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	yearRows, err := c.db.Query(`SELECT position, year, obs, prog FROM item_years`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = yearRows.Close() }()

	for yearRows.Next() {
		var pos, year int
		var obs, prog sql.NullFloat64
		if err := yearRows.Scan(&pos, &year, &obs, &prog); err != nil {
			return nil, err
		}
		if i, ok := posIdx[pos]; ok {
			ds.Items[i].Datos[year] = model.YearRecord{Obs: floatPtr(obs), Prog: floatPtr(prog)}
		}
	}
	if err := yearRows.Err(); err != nil {
		return nil, err
	}

	deflRows, err := c.db.Query(`SELECT year, value FROM deflators`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = deflRows.Close() }()
	for deflRows.Next() {
		var year int
		var v float64
		if err := deflRows.Scan(&year, &v); err != nil {
			return nil, err
		}
		ds.Deflators[year] = v
	}
	if err := deflRows.Err(); err != nil {
		return nil, err
	}

	macroRows, err := c.db.Query(`SELECT year, name, value FROM macro`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = macroRows.Close() }()
	for macroRows.Next() {
		var year int
		var name string
		var v float64
		if err := macroRows.Scan(&year, &name, &v); err != nil {
			return nil, err
		}
		if ds.Macro[year] == nil {
			ds.Macro[year] = make(map[string]float64)
		}
		ds.Macro[year][name] = v
	}

	return ds, macroRows.Err()
}

// ItemCount returns the number of stored items.
func (c *Cache) ItemCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM items").Scan(&count)
	return count, err
}

// DeleteFileTracker removes a file tracking entry, forcing a reparse.
func (c *Cache) DeleteFileTracker(filePath string) error {
	_, err := c.db.Exec("DELETE FROM file_tracker WHERE file_path = ?", filePath)
	return err
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/ingresos/internal/source"
	"github.com/theirongolddev/ingresos/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	CacheHit bool
}

// LoadWithCache serves a JSON dataset from the SQLite cache when the file's
// mtime and size match the cached copy, and refreshes the cache otherwise.
// SQLite datasets are read directly.
func LoadWithCache(path string, cache *store.Cache) (*CachedLoadResult, error) {
	format, ok := source.FormatOf(path)
	if !ok || format != source.FormatJSON || cache == nil {
		res, err := Load(path)
		if err != nil {
			return nil, err
		}
		return &CachedLoadResult{LoadResult: *res}, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}

	tracked, err := cache.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	if fi, ok := tracked[abs]; ok && fi.MtimeNs == info.ModTime().UnixNano() && fi.SizeBytes == info.Size() {
		if result, ok := loadCached(cache, path, format); ok {
			return result, nil
		}
		// An empty or unreadable copy is stale: drop the tracker and reparse.
		if err := cache.DeleteFileTracker(abs); err != nil {
			return nil, fmt.Errorf("resetting cache: %w", err)
		}
	}

	res, err := Load(path)
	if err != nil {
		return nil, err
	}
	// A failed cache write only costs a reparse next time.
	_ = cache.SaveDataset(res.Dataset, abs, info.ModTime().UnixNano(), info.Size())
	return &CachedLoadResult{LoadResult: *res}, nil
}

func loadCached(cache *store.Cache, path string, format source.DatasetFormat) (*CachedLoadResult, bool) {
	if n, err := cache.ItemCount(); err != nil || n == 0 {
		return nil, false
	}
	ds, err := cache.LoadDataset()
	if err != nil {
		return nil, false
	}
	result := &CachedLoadResult{
		LoadResult: LoadResult{Dataset: ds, Path: path, Format: format},
		CacheHit:   true,
	}
	if err := finish(&result.LoadResult); err != nil {
		return nil, false
	}
	return result, true
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "ingresos")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "ingresos")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "datos.db")
}

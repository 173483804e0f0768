package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/ingresos/internal/model"
	"github.com/theirongolddev/ingresos/internal/store"
)

const loaderDataset = `{
  "items": [
    {"id": 1, "concepto": "Total", "nivel": 1, "datos": {"2025": {"obs": 1000}}},
    {"id": 2, "concepto": "Petroleros", "nivel": 2, "datos": {"2025": {"obs": 300}}},
    {"id": 2, "concepto": "Repetido", "nivel": 2, "datos": {}}
  ],
  "deflactores": {"2024": 96}
}`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_JSON(t *testing.T) {
	res, err := Load(writeFile(t, "datos.json", loaderDataset))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(res.Dataset.Items) != 3 {
		t.Errorf("items = %d, want 3", len(res.Dataset.Items))
	}
	if p, ok := res.Index.ParentOf(2); !ok || p != 1 {
		t.Errorf("ParentOf(2) = %d, %v", p, ok)
	}

	joined := strings.Join(res.Warnings, "\n")
	if !strings.Contains(joined, "duplicate item id 2") {
		t.Errorf("missing duplicate warning in %q", joined)
	}
	if !strings.Contains(joined, "no deflator for years [2025]") {
		t.Errorf("missing deflator warning in %q", joined)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(""); !errors.Is(err, ErrNoData) {
		t.Errorf("Load(\"\") = %v, want ErrNoData", err)
	}
	if _, err := Load(writeFile(t, "datos.csv", "")); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := Load(writeFile(t, "vacio.json", `{"items": []}`)); !errors.Is(err, ErrNoData) {
		t.Errorf("empty items = %v, want ErrNoData", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Error("expected error for missing sqlite file")
	}
}

func TestLoad_SQLite(t *testing.T) {
	src, err := Load(writeFile(t, "datos.json", loaderDataset))
	if err != nil {
		t.Fatal(err)
	}
	dbPath := filepath.Join(t.TempDir(), "datos.db")
	c, err := store.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SaveDataset(src.Dataset, "", 0, 0); err != nil {
		t.Fatal(err)
	}
	_ = c.Close()

	res, err := Load(dbPath)
	if err != nil {
		t.Fatalf("Load(sqlite): %v", err)
	}
	if len(res.Dataset.Items) != 3 || res.Dataset.Items[1].Concepto != "Petroleros" {
		t.Errorf("items = %+v", res.Dataset.Items)
	}
}

func TestLoadWithCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := store.Open(CachePath())
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	path := writeFile(t, "datos.json", loaderDataset)

	first, err := LoadWithCache(path, cache)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if first.CacheHit {
		t.Error("first load should parse the file")
	}

	second, err := LoadWithCache(path, cache)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if !second.CacheHit {
		t.Error("second load should hit the cache")
	}
	if len(second.Dataset.Items) != 3 {
		t.Errorf("cached items = %d, want 3", len(second.Dataset.Items))
	}

	// Touching the file with new content invalidates the cache.
	body := strings.Replace(loaderDataset, `"Total"`, `"Total General"`, 1)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	third, err := LoadWithCache(path, cache)
	if err != nil {
		t.Fatalf("third load: %v", err)
	}
	if third.CacheHit || third.Dataset.Items[0].Concepto != "Total General" {
		t.Errorf("third load = hit %v, first item %q", third.CacheHit, third.Dataset.Items[0].Concepto)
	}
}

func TestLoadWithCache_EmptyCopyReparses(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := store.Open(CachePath())
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	path := writeFile(t, "datos.json", loaderDataset)
	abs, _ := filepath.Abs(path)
	info, err := os.Stat(abs)
	if err != nil {
		t.Fatal(err)
	}
	// The tracker matches the file but the cached copy has no items.
	if err := cache.SaveDataset(&model.Dataset{}, abs, info.ModTime().UnixNano(), info.Size()); err != nil {
		t.Fatal(err)
	}

	res, err := LoadWithCache(path, cache)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.CacheHit || len(res.Dataset.Items) != 3 {
		t.Errorf("load = hit %v, %d items; want a reparse with 3", res.CacheHit, len(res.Dataset.Items))
	}
	if n, _ := cache.ItemCount(); n != 3 {
		t.Errorf("cache refreshed with %d items, want 3", n)
	}
}

func TestCacheDir_XDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	if got := CacheDir(); got != filepath.Join("/tmp/xdg", "ingresos") {
		t.Errorf("CacheDir = %q", got)
	}
}

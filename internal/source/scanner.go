package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FormatOf guesses the dataset format from the file extension.
func FormatOf(path string) (DatasetFormat, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, true
	}
	return "", false
}

// ScanDir lists the dataset candidates directly inside dir, sorted by name.
// A missing dir yields no files and no error.
func ScanDir(dir string) ([]DiscoveredFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []DiscoveredFile
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		format, ok := FormatOf(e.Name())
		if !ok {
			continue
		}
		files = append(files, DiscoveredFile{
			Path:   filepath.Join(dir, e.Name()),
			Name:   e.Name(),
			Format: format,
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

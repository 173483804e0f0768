package export

import (
	"fmt"
	"os"

	"github.com/theirongolddev/ingresos/internal/model"
	"github.com/theirongolddev/ingresos/internal/store"
)

// WriteSQLite writes ds to a fresh SQLite dataset file at path, replacing
// any existing file.
func WriteSQLite(path string, ds *model.Dataset) error {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", p, err)
		}
	}

	c, err := store.Open(path)
	if err != nil {
		return err
	}
	if err := c.SaveDataset(ds, "", 0, 0); err != nil {
		_ = c.Close()
		return fmt.Errorf("saving dataset: %w", err)
	}
	return c.Close()
}

package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// OutputMode is the permission of files written by WriteFile.
const OutputMode os.FileMode = 0644

// WriteFile replaces path with data. The data goes to a temp file in the same
// directory in a single write and is then renamed over path, so readers see
// either the old content or the complete new one. The result has mode
// OutputMode.
func WriteFile(fs afero.Fs, path string, data []byte) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := afero.TempFile(fs, dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := fs.Chmod(tmpName, OutputMode); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := fs.Rename(tmpName, path); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// ValidateOutputFile checks that a result file can be written at path,
// creating its parent directory when missing.
func ValidateOutputFile(path string) error {
	if path == "" {
		return fmt.Errorf("output path cannot be empty")
	}
	clean := filepath.Clean(path)
	if info, err := os.Stat(clean); err == nil && info.IsDir() {
		return fmt.Errorf("output path is a directory: %s", clean)
	}

	dir := filepath.Dir(clean)
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	case err != nil:
		return fmt.Errorf("cannot access output directory: %w", err)
	case !info.IsDir():
		return fmt.Errorf("output parent is not a directory: %s", dir)
	}

	if err := checkWritePermission(dir); err != nil {
		return fmt.Errorf("no write permission for output directory: %w", err)
	}
	return nil
}

// checkWritePermission checks if we have write permission to a directory
func checkWritePermission(dirPath string) error {
	f, err := os.CreateTemp(dirPath, ".tokyo_links_check_*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

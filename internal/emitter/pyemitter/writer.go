package pyemitter

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile writes the rendered source atomically: content lands in a temp
// file in the target directory and is renamed into place, so a crashed run
// never leaves a half-written module behind.
func WriteFile(path string, data []byte) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("pyemitter: resolve output path: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("pyemitter: create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-pyemitter-*")
	if err != nil {
		return fmt.Errorf("pyemitter: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("pyemitter: write temp file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("pyemitter: set permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("pyemitter: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, abs); err != nil {
		return fmt.Errorf("pyemitter: place output at %s: %w", abs, err)
	}
	tmpPath = ""
	return nil
}

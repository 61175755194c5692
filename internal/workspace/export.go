package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Export writes the workspace below dir, creating folders as needed.
// Existing files with the same names are overwritten; nothing else in dir is
// touched.
func Export(s State, dir string) (int, error) {
	for _, folder := range s.Folders() {
		full, err := resolve(dir, folder)
		if err != nil {
			return 0, err
		}
		if err := os.MkdirAll(full, 0755); err != nil {
			return 0, fmt.Errorf("failed to create directory %s: %w", folder, err)
		}
	}

	written := 0
	for _, p := range s.Paths() {
		full, err := resolve(dir, p)
		if err != nil {
			return written, err
		}
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return written, fmt.Errorf("failed to create directory for %s: %w", p, err)
		}
		if err := os.WriteFile(full, []byte(s.Files[p]), 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", p, err)
		}
		written++
	}
	return written, nil
}

func resolve(dir, p string) (string, error) {
	if filepath.IsAbs(p) {
		return "", fmt.Errorf("path must be relative, not absolute: %s", p)
	}
	if strings.Contains(p, "..") {
		return "", fmt.Errorf("path cannot contain parent directory references (..): %s", p)
	}
	return filepath.Join(dir, filepath.FromSlash(p)), nil
}

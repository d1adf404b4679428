package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir ensures the provided directory exists.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// CreateSubdir joins parent and name and creates the directory if absent.
func CreateSubdir(parent, name string) (string, error) {
	dir := filepath.Join(parent, name)
	if err := EnsureDir(dir); err != nil {
		return "", fmt.Errorf("create subdir: %w", err)
	}
	return dir, nil
}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputPath builds dir/<stem of file><suffix>. A file given without a
// directory or extension is used as the stem directly.
func OutputPath(dir, file, suffix string) string {
	return filepath.Join(dir, Stem(file)+suffix)
}

// SafeWriteFile writes data to a temp file and atomically renames it into place.
func SafeWriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// SafeName reduces s to characters that are safe in a file name. Spaces
// and slashes become dashes; other punctuation is dropped.
func SafeName(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case r == ' ', r == '/', r == '\\':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return fmt.Sprintf("unnamed%d", len(s))
	}
	return b.String()
}

package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// MatchName reports whether name matches pattern starting at its first
// character. The pattern's own anchoring decides how much of the name must match.
func MatchName(pattern *regexp.Regexp, name string) bool {
	loc := pattern.FindStringIndex(name)
	return loc != nil && loc[0] == 0
}

// Discover lists dir (non-recursively) and returns the full paths of the
// regular files whose names match pattern, sorted lexicographically for
// deterministic processing order. An unreadable directory is returned as an error.
func Discover(dir string, pattern *regexp.Regexp) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list log directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if MatchName(pattern, entry.Name()) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

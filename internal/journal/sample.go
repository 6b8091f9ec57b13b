package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// sampleJournals is a small two-file data set: two Alpha Colony runs of 300s,
// and two Beta Outpost runs of 300s and 1200s.
var sampleJournals = []struct {
	name  string
	lines []string
}{
	{
		name: "Journal.2025-08-02T120500.01.log",
		lines: []string{
			`{"timestamp": "2025-08-02T12:05:00Z", "event": "Undocked", "StationName": "Orbital Construction Site: Schweickart Town"}`,
			`{"timestamp": "2025-08-02T12:10:00Z", "event": "Docked", "StationName": "Alpha Colony"}`,
			`{"timestamp": "2025-08-02T12:15:00Z", "event": "Undocked", "StationName": "Orbital Construction Site: Schweickart Town"}`,
			`{"timestamp": "2025-08-02T12:20:00Z", "event": "Docked", "StationName": "Alpha Colony"}`,
		},
	},
	{
		name: "Journal.2025-08-02T122500.01.log",
		lines: []string{
			`{"timestamp": "2025-08-02T12:25:00Z", "event": "Undocked", "StationName": "Orbital Construction Site: Schweickart Town"}`,
			`{"timestamp": "2025-08-02T12:30:00Z", "event": "Docked", "StationName": "Beta Outpost"}`,
			`{"timestamp": "2025-08-02T12:35:00Z", "event": "Undocked", "StationName": "Orbital Construction Site: Schweickart Town"}`,
			`{"timestamp": "2025-08-02T12:55:00Z", "event": "Docked", "StationName": "Beta Outpost"}`,
		},
	},
}

// WriteSample writes the sample journals into dir unless any of them already
// exists. It returns the paths written, which is empty when nothing was done.
func WriteSample(dir string) ([]string, error) {
	for _, j := range sampleJournals {
		if _, err := os.Stat(filepath.Join(dir, j.name)); err == nil {
			return nil, nil
		}
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create sample directory: %w", err)
	}

	written := make([]string, 0, len(sampleJournals))
	for _, j := range sampleJournals {
		path := filepath.Join(dir, j.name)
		data := strings.Join(j.lines, "\n") + "\n"
		if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
			return written, fmt.Errorf("failed to write sample journal: %w", err)
		}
		written = append(written, path)
	}
	return written, nil
}

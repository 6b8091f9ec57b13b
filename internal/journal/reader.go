package journal

import (
	"bufio"
	"fmt"
	"os"
)

// maxLineSize bounds a single journal record. Loadout and market records
// can run well past bufio's 64KB default.
const maxLineSize = 4 * 1024 * 1024

// ReadLines opens path and calls fn for each physical line, in file order,
// without the trailing newline. The file is closed before ReadLines returns.
func ReadLines(path string, fn func(line string)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		fn(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}

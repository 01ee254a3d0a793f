// Package harness implements the thin file-handling collaborators
// around the codec: counts-file parsing for order-0 seeding and
// bounded concurrent processing of multiple input files.
package harness

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// ParseCounts reads one non-negative integer per line from r and
// returns up to n of them, in order. A line may be blank; blank lines
// are skipped rather than treated as zero. Parsing stops once n counts
// have been read even if r has more lines.
func ParseCounts(r io.Reader, n int) ([]uint32, error) {
	counts := make([]uint32, 0, n)
	scanner := bufio.NewScanner(r)
	line := 0
	for len(counts) < n && scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}
		v, err := strconv.ParseUint(text, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("harness: line %d: %q is not a non-negative integer: %w", line, text, err)
		}
		counts = append(counts, uint32(v))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("harness: reading counts: %w", err)
	}
	return counts, nil
}

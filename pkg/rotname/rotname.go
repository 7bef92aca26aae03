// Package rotname formats and parses the filenames used by a rotating
// directory of fixed-size trace files.
//
// Filename format: "<prefix>.<counter>.rot" where counter is a zero-padded
// 6-digit decimal allocation counter shared across every prefix using the
// same directory, so names never collide across rotations:
//
//	t.000000.rot
//	t.000001.rot
//	segment.000042.rot
package rotname

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// CounterDigits is the zero-padded width of the allocation counter.
	CounterDigits = 6

	// Extension is the fixed suffix every rotating file carries.
	Extension = ".rot"

	// MaxFilenameLen is the external filename length cap (§6).
	MaxFilenameLen = 100

	// MaxPrefixLen is the external prefix length cap (§6).
	MaxPrefixLen = 80
)

// Generate formats the filename for allocation counter id under prefix.
func Generate(prefix string, id uint64) string {
	return fmt.Sprintf("%s.%0*d%s", prefix, CounterDigits, id, Extension)
}

// Glob returns the glob pattern matching every file for prefix within dir.
func Glob(dir, prefix string) string {
	return filepath.Join(dir, prefix+".*"+Extension)
}

// ParseCounter extracts the allocation counter from a rotating filename
// produced by Generate. It validates that the filename carries the expected
// prefix and extension.
func ParseCounter(fullPath, prefix string) (uint64, error) {
	_, filename := filepath.Split(fullPath)

	if !strings.HasPrefix(filename, prefix+".") {
		return 0, fmt.Errorf("filename %q does not start with expected prefix %q", filename, prefix)
	}
	if !strings.HasSuffix(filename, Extension) {
		return 0, fmt.Errorf("filename %q does not have expected extension %q", filename, Extension)
	}

	middle := strings.TrimSuffix(strings.TrimPrefix(filename, prefix+"."), Extension)
	counter, err := strconv.ParseUint(middle, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse allocation counter from %q: %w", filename, err)
	}
	return counter, nil
}

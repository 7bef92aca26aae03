// Package options provides data structures and functions for configuring
// the tracer. It defines the parameters that control the rotating log's
// layout, the memory-mapped window geometry, and the interning/buffer
// capacities, following the same functional-options shape used throughout
// this module's ancestry.
package options

import (
	"strings"
	"path/filepath"

	"github.com/iamNilotpal/passover/pkg/rotname"
)

// Options defines the configuration parameters for a tracer instance. It
// provides control over the rotating directory's layout, the mapped-window
// geometry, and the interner/pack-writer capacities.
type Options struct {
	// RootDir is the directory holding the rotating trace files, the
	// codepoint list file, and the time-index list file.
	//
	// Default: "/var/lib/passover"
	RootDir string `json:"rootDir"`

	// MaxFiles bounds how many rotating files RotDir retains on disk at once
	// (§4.5); the oldest released file is unlinked to make room for a new one.
	//
	// Default: 16
	MaxFiles uint32 `json:"maxFiles"`

	// FilePrefix is the filename prefix for rotating files: "<prefix>.<counter>.rot".
	//
	// Default: "trace"
	FilePrefix string `json:"filePrefix"`

	// FileDataSize is the data-area size of each rotating file, excluding the
	// 8-byte base_offset header (§4.6). A record whose framed size would
	// exceed this triggers rotation, or SIZE_TOO_LARGE if it exceeds it outright.
	//
	//  - Default: 64MiB
	//  - Minimum: 64KiB
	//  - Maximum: 4GiB
	FileDataSize uint64 `json:"fileDataSize"`

	// MapSize is the physical size of each MappedFile window (§4.2).
	//
	// Default: 4MiB
	MapSize int64 `json:"mapSize"`

	// MapAheadSize shifts a new mapping's start backwards by
	// (MapSize - MapAheadSize) bytes so forward writes stay cheap (§4.2).
	// Must be strictly less than MapSize.
	//
	// Default: 1MiB
	MapAheadSize int64 `json:"mapAheadSize"`

	// CodepointsFilename is the name of the codepoint ListFile within RootDir (§4.8).
	//
	// Default: "codepoints.list"
	CodepointsFilename string `json:"codepointsFilename"`

	// TimeIndexFilename is the name of the time-index ListFile within RootDir (§4.9).
	//
	// Default: "timeindex.list"
	TimeIndexFilename string `json:"timeIndexFilename"`

	// TimeIndexInterval is TRACER_TIMEINDEX_INTERVAL in microseconds (§4.9):
	// the minimum gap enforced between consecutive time-index entries.
	//
	// Default: 1,000,000 (1 second)
	TimeIndexInterval uint64 `json:"timeIndexIntervalUsec"`

	// PackWriterCapacity is the scratch-buffer size, in bytes, for each of
	// the Tracer's two PackWriters (§4.3, §4.9).
	//
	// Default: 16KiB
	PackWriterCapacity uint32 `json:"packWriterCapacity"`

	// InternerCapacity is IntHashTable's fixed bucket count (§4.4). Must not
	// exceed 65535, since codepoints are u16.
	//
	// Default: 65521
	InternerCapacity uint32 `json:"internerCapacity"`
}

// RotatingFilesDir returns the absolute path where RotDir should create its
// rotating files: RootDir joined with the fixed "rotating" subdirectory.
func (o *Options) RotatingFilesDir() string {
	return filepath.Join(o.RootDir, "rotating")
}

// CodepointsPath returns the absolute path of the codepoint ListFile.
func (o *Options) CodepointsPath() string {
	return filepath.Join(o.RootDir, o.CodepointsFilename)
}

// TimeIndexPath returns the absolute path of the time-index ListFile.
func (o *Options) TimeIndexPath() string {
	return filepath.Join(o.RootDir, o.TimeIndexFilename)
}

// OptionFunc is a function type that modifies the tracer's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions applies the baseline configuration values to Options.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		*o = NewDefaultOptions()
	}
}

// WithRootDir sets the root directory holding all of a tracer's files.
func WithRootDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.RootDir = directory
		}
	}
}

// WithMaxFiles sets how many rotating files RotDir retains at once.
func WithMaxFiles(max uint32) OptionFunc {
	return func(o *Options) {
		if max >= MinMaxFiles && max <= MaxMaxFiles {
			o.MaxFiles = max
		}
	}
}

// WithFilePrefix sets the rotating-file prefix. Empty prefixes and prefixes
// longer than rotname.MaxPrefixLen are ignored, leaving the current prefix.
func WithFilePrefix(prefix string) OptionFunc {
	return func(o *Options) {
		prefix = strings.TrimSpace(prefix)
		if prefix != "" && len(prefix) <= rotname.MaxPrefixLen {
			o.FilePrefix = prefix
		}
	}
}

// WithFileDataSize sets the data-area size of each rotating file.
func WithFileDataSize(size uint64) OptionFunc {
	return func(o *Options) {
		if size >= MinFileDataSize && size <= MaxFileDataSize {
			o.FileDataSize = size
		}
	}
}

// WithMapSize sets the physical size of each MappedFile window.
func WithMapSize(size int64) OptionFunc {
	return func(o *Options) {
		if size > 0 {
			o.MapSize = size
		}
	}
}

// WithMapAheadSize sets the map_ahead_size hint. Values that are not
// strictly smaller than the current MapSize are ignored, since the hint must
// leave room for the requested offset to fall within the new mapping.
func WithMapAheadSize(size int64) OptionFunc {
	return func(o *Options) {
		if size > 0 && size < o.MapSize {
			o.MapAheadSize = size
		}
	}
}

// WithCodepointsFilename sets the codepoint ListFile's name.
func WithCodepointsFilename(name string) OptionFunc {
	return func(o *Options) {
		name = strings.TrimSpace(name)
		if name != "" {
			o.CodepointsFilename = name
		}
	}
}

// WithTimeIndexFilename sets the time-index ListFile's name.
func WithTimeIndexFilename(name string) OptionFunc {
	return func(o *Options) {
		name = strings.TrimSpace(name)
		if name != "" {
			o.TimeIndexFilename = name
		}
	}
}

// WithTimeIndexInterval sets TRACER_TIMEINDEX_INTERVAL in microseconds.
func WithTimeIndexInterval(usec uint64) OptionFunc {
	return func(o *Options) {
		if usec > 0 {
			o.TimeIndexInterval = usec
		}
	}
}

// WithPackWriterCapacity sets the scratch-buffer size for the Tracer's
// PackWriters.
func WithPackWriterCapacity(capacity uint32) OptionFunc {
	return func(o *Options) {
		if capacity > 0 {
			o.PackWriterCapacity = capacity
		}
	}
}

// WithInternerCapacity sets IntHashTable's fixed bucket count. Values above
// the u16 codepoint ceiling are ignored.
func WithInternerCapacity(capacity uint32) OptionFunc {
	return func(o *Options) {
		if capacity > 0 && capacity <= 1<<16-1 {
			o.InternerCapacity = capacity
		}
	}
}

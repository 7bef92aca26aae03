package options

const (
	// DefaultRootDir is the default directory where rotating trace files,
	// the codepoint list file, and the time index are stored.
	DefaultRootDir = "/var/lib/passover"

	// DefaultMaxFiles bounds how many rotating files RotDir retains at once.
	DefaultMaxFiles uint32 = 16

	// MinMaxFiles is the smallest retention count RotDir will accept; below
	// this, rotation could starve a record mid-write.
	MinMaxFiles uint32 = 2

	// MaxMaxFiles is the largest retention count RotDir will accept.
	MaxMaxFiles uint32 = 1 << 16

	// DefaultFilePrefix is the default rotating-file prefix (see pkg/rotname).
	DefaultFilePrefix = "trace"

	// DefaultFileDataSize is the default data-area size of each rotating file
	// (excludes the 8-byte base_offset header).
	DefaultFileDataSize uint64 = 64 * 1024 * 1024

	// MinFileDataSize is the smallest data-area size accepted; must comfortably
	// exceed the largest single record (a PYCALL with many arguments).
	MinFileDataSize uint64 = 64 * 1024

	// MaxFileDataSize is the largest data-area size accepted.
	MaxFileDataSize uint64 = 4 * 1024 * 1024 * 1024

	// DefaultMapSize is the default MappedFile window size (§4.2).
	DefaultMapSize int64 = 4 * 1024 * 1024

	// DefaultMapAheadSize is the default map_ahead_size hint (§4.2): how many
	// bytes a new mapping covers ahead of the requested offset; its start is
	// shifted back by DefaultMapSize - DefaultMapAheadSize.
	DefaultMapAheadSize int64 = 1 * 1024 * 1024

	// DefaultCodepointsFilename is the default name of the codepoint ListFile.
	DefaultCodepointsFilename = "codepoints.list"

	// DefaultTimeIndexFilename is the default name of the time-index ListFile.
	DefaultTimeIndexFilename = "timeindex.list"

	// DefaultTimeIndexInterval is TRACER_TIMEINDEX_INTERVAL (§4.9): the
	// minimum microsecond gap between consecutive time-index entries.
	DefaultTimeIndexInterval uint64 = 1_000_000

	// DefaultPackWriterCapacity is the scratch-buffer size for both of the
	// Tracer's PackWriters (§4.9). Large enough for a PYCALL record with
	// dozens of truncated-length arguments.
	DefaultPackWriterCapacity uint32 = 16 * 1024

	// DefaultInternerCapacity is IntHashTable's fixed bucket count (§4.4).
	// 65521 is the largest prime below 65536, matching the source's approach
	// of sizing tables "not a power of two" while staying close to the u16
	// codepoint ceiling.
	DefaultInternerCapacity uint32 = 65521
)

// defaultOptions holds the baseline configuration applied before any
// functional options run.
var defaultOptions = Options{
	RootDir:            DefaultRootDir,
	MaxFiles:           DefaultMaxFiles,
	FilePrefix:         DefaultFilePrefix,
	FileDataSize:       DefaultFileDataSize,
	MapSize:            DefaultMapSize,
	MapAheadSize:       DefaultMapAheadSize,
	CodepointsFilename: DefaultCodepointsFilename,
	TimeIndexFilename:  DefaultTimeIndexFilename,
	TimeIndexInterval:  DefaultTimeIndexInterval,
	PackWriterCapacity: DefaultPackWriterCapacity,
	InternerCapacity:   DefaultInternerCapacity,
}

// NewDefaultOptions returns a copy of the baseline Options.
func NewDefaultOptions() Options {
	return defaultOptions
}

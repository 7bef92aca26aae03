package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any software system. These codes provide the foundation layer
// of error classification.
const (
	// ErrorCodeIO represents failures in input/output operations across any
	// system boundary: reading or writing rotating files, mapping them into
	// memory, or any other filesystem interaction.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents caller errors where the provided
	// data doesn't meet the system's requirements or constraints.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected failures that don't fit into
	// other categories: assertion failures or other invariant violations
	// that shouldn't occur during normal operation.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"

	// ErrorCodePermissionDenied indicates insufficient permissions to access
	// a rotating file or directory.
	ErrorCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// ErrorCodeDiskFull indicates that the storage device backing the
	// rotating directory has run out of space.
	ErrorCodeDiskFull ErrorCode = "DISK_FULL"

	// ErrorCodeFilesystemReadonly indicates that the filesystem hosting the
	// rotating directory is mounted read-only.
	ErrorCodeFilesystemReadonly ErrorCode = "FILESYSTEM_READONLY"
)

// RotDir error codes (§4.5, §7).
const (
	// ErrorCodeOutOfSlots indicates every slot in a RotDir is allocated and
	// none is reclaimable.
	ErrorCodeOutOfSlots ErrorCode = "OUT_OF_SLOTS"

	// ErrorCodeUnlinkFailed indicates the OS refused to remove a reclaimed
	// slot's old file.
	ErrorCodeUnlinkFailed ErrorCode = "UNLINK_FAILED"

	// ErrorCodePathTooLong indicates a directory path exceeds the configured cap.
	ErrorCodePathTooLong ErrorCode = "PATH_TOO_LONG"

	// ErrorCodePrefixTooLong indicates a file prefix exceeds the configured cap.
	ErrorCodePrefixTooLong ErrorCode = "PREFIX_TOO_LONG"
)

// MappedFile error codes (§4.2, §7).
const (
	// ErrorCodeMapTooBig indicates a requested mapping size exceeds the
	// configured map window.
	ErrorCodeMapTooBig ErrorCode = "MAP_TOO_BIG"

	// ErrorCodeMmapFailed indicates the mmap(2) syscall failed.
	ErrorCodeMmapFailed ErrorCode = "MMAP_FAILED"

	// ErrorCodeStatFailed indicates fstat(2) failed while sizing a file.
	ErrorCodeStatFailed ErrorCode = "STAT_FAILED"

	// ErrorCodeTruncateFailed indicates ftruncate(2) failed while growing a file.
	ErrorCodeTruncateFailed ErrorCode = "TRUNCATE_FAILED"
)

// PackWriter error codes (§4.3, §7).
const (
	// ErrorCodeDumpTooBig indicates the scratch buffer's fixed capacity was exceeded.
	ErrorCodeDumpTooBig ErrorCode = "DUMP_TOO_BIG"
)

// IntHashTable error codes (§4.4, §7).
const (
	// ErrorCodeTableFull indicates the fixed-capacity table has no room for a new key.
	ErrorCodeTableFull ErrorCode = "TABLE_FULL"

	// ErrorCodeKeyMissing indicates a lookup found no entry for the given key.
	ErrorCodeKeyMissing ErrorCode = "KEY_MISSING"
)

// RotRec error codes (§4.6, §7).
const (
	// ErrorCodeMapSizeGreaterThanFileSize indicates a misconfiguration where
	// the map window is larger than a single file's data area.
	ErrorCodeMapSizeGreaterThanFileSize ErrorCode = "MAPSIZE_GREATER_THAN_FILESIZE"

	// ErrorCodeSizeTooLarge indicates a record is larger than a file's data area.
	ErrorCodeSizeTooLarge ErrorCode = "SIZE_TOO_LARGE"

	// ErrorCodeOpenFailed indicates RotRec could not create its next physical file.
	ErrorCodeOpenFailed ErrorCode = "OPEN_FAILED"
)

// Tracer / HookDispatcher error codes (§4.9, §4.10, §7).
const (
	// ErrorCodeStringifyFailed indicates an argument could not be converted
	// to its on-disk representation.
	ErrorCodeStringifyFailed ErrorCode = "STRINGIFY_FAILED"

	// ErrorCodeLoglineNotString indicates the logger shortcut received a
	// non-string first argument.
	ErrorCodeLoglineNotString ErrorCode = "LOGLINE_NOT_STRING"

	// ErrorCodeNoExceptionSet indicates a raise/exception event carried no
	// exception value.
	ErrorCodeNoExceptionSet ErrorCode = "NO_EXCEPTION_SET"

	// ErrorCodeAlreadyStarted indicates Start was called on a tracer that has
	// already been started once (§4.10: "a subsequent start fails already_exhausted").
	ErrorCodeAlreadyStarted ErrorCode = "ALREADY_STARTED"
)

// Package errors implements the tracer's structured error hierarchy: a
// baseError embedded by domain-specific error types (RotDirError,
// MappedFileError, InternerError, TracerError, ValidationError), each adding
// the context needed to pinpoint exactly what failed and why. Every
// constructor returns a fluent builder so callers can attach context at the
// point of failure instead of wrapping generically.
//
// Error codes (codes.go) map directly onto the kinds from the error-handling
// design: RotDir/MappedFile/PackWriter/IntHashTable/RotRec/Tracer each raise
// a small fixed set of named failures rather than opaque errors, so callers
// can recover programmatically (retry, surface to the host runtime as a
// named exception, or give up) without parsing error strings.
package errors

import (
	stdErrors "errors"
	"os"
	"syscall"
)

// IsValidationError checks if the given error is a ValidationError or contains one in its error chain.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return stdErrors.As(err, &ve)
}

// IsRotDirError identifies errors raised by RotDir allocation/reclamation.
func IsRotDirError(err error) bool {
	var re *RotDirError
	return stdErrors.As(err, &re)
}

// IsMappedFileError identifies errors raised by MappedFile/Window mapping operations.
func IsMappedFileError(err error) bool {
	var me *MappedFileError
	return stdErrors.As(err, &me)
}

// IsInternerError identifies errors raised during codepoint interning.
func IsInternerError(err error) bool {
	var ie *InternerError
	return stdErrors.As(err, &ie)
}

// IsTracerError identifies errors raised by Tracer/HookDispatcher event processing.
func IsTracerError(err error) bool {
	var te *TracerError
	return stdErrors.As(err, &te)
}

// IsPackWriterError identifies errors raised by PackWriter scratch-buffer overflow.
func IsPackWriterError(err error) bool {
	var pe *PackWriterError
	return stdErrors.As(err, &pe)
}

// IsIntHashTableError identifies errors raised by IntHashTable get/set operations.
func IsIntHashTableError(err error) bool {
	var ie *IntHashTableError
	return stdErrors.As(err, &ie)
}

// IsRotRecError identifies errors raised by RotRec record framing/rotation.
func IsRotRecError(err error) bool {
	var re *RotRecError
	return stdErrors.As(err, &re)
}

// AsValidationError safely extracts a ValidationError from an error chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stdErrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsRotDirError safely extracts a RotDirError from an error chain, providing
// access to the slot id, prefix, and path that were involved.
func AsRotDirError(err error) (*RotDirError, bool) {
	var re *RotDirError
	if stdErrors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// AsMappedFileError safely extracts a MappedFileError from an error chain.
func AsMappedFileError(err error) (*MappedFileError, bool) {
	var me *MappedFileError
	if stdErrors.As(err, &me) {
		return me, true
	}
	return nil, false
}

// AsInternerError safely extracts an InternerError from an error chain.
func AsInternerError(err error) (*InternerError, bool) {
	var ie *InternerError
	if stdErrors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// AsTracerError safely extracts a TracerError from an error chain.
func AsTracerError(err error) (*TracerError, bool) {
	var te *TracerError
	if stdErrors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// AsPackWriterError safely extracts a PackWriterError from an error chain.
func AsPackWriterError(err error) (*PackWriterError, bool) {
	var pe *PackWriterError
	if stdErrors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// AsIntHashTableError safely extracts an IntHashTableError from an error chain.
func AsIntHashTableError(err error) (*IntHashTableError, bool) {
	var ie *IntHashTableError
	if stdErrors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// AsRotRecError safely extracts a RotRecError from an error chain.
func AsRotRecError(err error) (*RotRecError, bool) {
	var re *RotRecError
	if stdErrors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from any error that supports it, or
// returns ErrorCodeInternal for errors that don't have a specific code.
func GetErrorCode(err error) ErrorCode {
	if ve, ok := AsValidationError(err); ok {
		return ve.Code()
	}
	if re, ok := AsRotDirError(err); ok {
		return re.Code()
	}
	if me, ok := AsMappedFileError(err); ok {
		return me.Code()
	}
	if ie, ok := AsInternerError(err); ok {
		return ie.Code()
	}
	if te, ok := AsTracerError(err); ok {
		return te.Code()
	}
	if pe, ok := AsPackWriterError(err); ok {
		return pe.Code()
	}
	if ie, ok := AsIntHashTableError(err); ok {
		return ie.Code()
	}
	if re, ok := AsRotRecError(err); ok {
		return re.Code()
	}
	return ErrorCodeInternal
}

// GetErrorDetails extracts structured details from any error that supports
// them, returning an empty map for errors without details.
func GetErrorDetails(err error) map[string]any {
	if ve, ok := AsValidationError(err); ok {
		if details := ve.Details(); details != nil {
			return details
		}
	}
	if re, ok := AsRotDirError(err); ok {
		if details := re.Details(); details != nil {
			return details
		}
	}
	if me, ok := AsMappedFileError(err); ok {
		if details := me.Details(); details != nil {
			return details
		}
	}
	if ie, ok := AsInternerError(err); ok {
		if details := ie.Details(); details != nil {
			return details
		}
	}
	if te, ok := AsTracerError(err); ok {
		if details := te.Details(); details != nil {
			return details
		}
	}
	if pe, ok := AsPackWriterError(err); ok {
		if details := pe.Details(); details != nil {
			return details
		}
	}
	if ie, ok := AsIntHashTableError(err); ok {
		if details := ie.Details(); details != nil {
			return details
		}
	}
	if re, ok := AsRotRecError(err); ok {
		if details := re.Details(); details != nil {
			return details
		}
	}
	return make(map[string]any)
}

// ClassifyDirectoryCreationError analyzes directory creation failures (used
// by rotdir.New when preparing the rotating directory) and returns a
// RotDirError with the appropriate code based on the underlying system error.
func ClassifyDirectoryCreationError(err error, path string) error {
	if os.IsPermission(err) {
		return NewRotDirError(
			err, ErrorCodePermissionDenied, "insufficient permissions to create rotating directory",
		).WithPath(path).
			WithDetail("operation", "directory_creation").
			WithDetail("suggestion", "check directory permissions or run with elevated privileges")
	}

	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewRotDirError(
					err, ErrorCodeDiskFull, "insufficient disk space to create rotating directory",
				).WithPath(path).
					WithDetail("operation", "directory_creation").
					WithDetail("suggestion", "free up disk space or choose a different location")
			case syscall.EROFS:
				return NewRotDirError(
					err, ErrorCodeFilesystemReadonly, "cannot create directory on read-only filesystem",
				).WithPath(path).
					WithDetail("operation", "directory_creation").
					WithDetail("suggestion", "remount filesystem with write permissions")
			}
		}
	}

	return NewRotDirError(
		err, ErrorCodeIO, "failed to create rotating directory",
	).WithPath(path).WithDetail("operation", "directory_creation")
}

// ClassifyFileOpenError analyzes file opening failures (used by RotRec when
// opening the next physical file for a slot) and returns a RotDirError with
// the appropriate code.
func ClassifyFileOpenError(err error, filePath, fileName string) error {
	if os.IsPermission(err) {
		return NewRotDirError(
			err, ErrorCodePermissionDenied, "insufficient permissions to open rotating file",
		).WithPath(filePath).
			WithFileName(fileName).
			WithDetail("operation", "file_open").
			WithDetail("suggestion", "check file permissions or run with elevated privileges")
	}

	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewRotDirError(
					err, ErrorCodeDiskFull, "insufficient disk space to create rotating file",
				).WithPath(filePath).
					WithFileName(fileName).
					WithDetail("operation", "file_open").
					WithDetail("suggestion", "free up disk space")
			case syscall.EROFS:
				return NewRotDirError(
					err, ErrorCodeFilesystemReadonly, "cannot create file on read-only filesystem",
				).WithPath(filePath).
					WithFileName(fileName).
					WithDetail("operation", "file_open").
					WithDetail("suggestion", "remount filesystem with write permissions")
			}
		}
	}

	return NewRotDirError(err, ErrorCodeIO, "failed to open rotating file").
		WithPath(filePath).
		WithFileName(fileName).
		WithDetail("operation", "file_open").
		WithDetail("flags", []string{"O_CREATE", "O_RDWR", "O_EXCL"})
}

// ClassifySyncError analyzes msync/ftruncate failures during a MappedFile
// growth or remap operation and returns a MappedFileError with the
// appropriate code.
func ClassifySyncError(err error, fileName string, offset int64) error {
	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewMappedFileError(
					err, ErrorCodeDiskFull, "cannot grow mapped file: insufficient disk space",
				).WithOffset(offset).
					WithDetail("fileName", fileName).
					WithDetail("operation", "file_sync").
					WithDetail("suggestion", "free up disk space before continuing")
			case syscall.EROFS:
				return NewMappedFileError(
					err, ErrorCodeFilesystemReadonly, "cannot grow mapped file: filesystem is read-only",
				).WithOffset(offset).
					WithDetail("fileName", fileName).
					WithDetail("operation", "file_sync")
			case syscall.EIO:
				return NewMappedFileError(
					err, ErrorCodeIO, "I/O error while growing mapped file",
				).WithOffset(offset).
					WithDetail("fileName", fileName).
					WithDetail("operation", "file_sync").
					WithDetail("severity", "high")
			}
		}
	}

	return NewMappedFileError(
		err, ErrorCodeIO, "failed to sync mapped file to disk",
	).WithOffset(offset).WithDetail("fileName", fileName).WithDetail("operation", "file_sync")
}

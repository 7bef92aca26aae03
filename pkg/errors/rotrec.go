package errors

// RotRecError is a specialized error type for RotRec failures (§4.6): a
// misconfigured map/file-size relationship, a record too large to ever fit
// in a file, or a failure opening the next physical file.
type RotRecError struct {
	*baseError
	recordSize   int    // Size of the record that triggered the failure.
	fileDataSize uint64 // Configured data-area size of a rotating file.
	fileName     string // Name of the file involved, if any.
}

// NewRotRecError creates a new rotating-records error.
func NewRotRecError(err error, code ErrorCode, msg string) *RotRecError {
	return &RotRecError{baseError: NewBaseError(err, code, msg)}
}

// WithRecordSize records the size of the record that triggered the failure.
func (re *RotRecError) WithRecordSize(size int) *RotRecError {
	re.recordSize = size
	return re
}

// WithFileDataSize records the configured data-area size of a rotating file.
func (re *RotRecError) WithFileDataSize(size uint64) *RotRecError {
	re.fileDataSize = size
	return re
}

// WithFileName records the name of the file involved.
func (re *RotRecError) WithFileName(name string) *RotRecError {
	re.fileName = name
	return re
}

// RecordSize returns the size of the record that triggered the failure.
func (re *RotRecError) RecordSize() int {
	return re.recordSize
}

// FileDataSize returns the configured data-area size of a rotating file.
func (re *RotRecError) FileDataSize() uint64 {
	return re.fileDataSize
}

// FileName returns the name of the file involved.
func (re *RotRecError) FileName() string {
	return re.fileName
}

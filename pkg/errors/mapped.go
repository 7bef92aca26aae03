package errors

// MappedFileError is a specialized error type for MappedFile/Window failures
// (§4.2): mmap/munmap/ftruncate syscall failures and oversized map requests.
type MappedFileError struct {
	*baseError
	offset  int64 // Requested mapping offset.
	size    int64 // Requested mapping size.
	mapSize int64 // Configured map window size.
}

// NewMappedFileError creates a new mapped-file error.
func NewMappedFileError(err error, code ErrorCode, msg string) *MappedFileError {
	return &MappedFileError{baseError: NewBaseError(err, code, msg)}
}

// WithOffset records the requested mapping offset.
func (me *MappedFileError) WithOffset(offset int64) *MappedFileError {
	me.offset = offset
	return me
}

// WithSize records the requested mapping size.
func (me *MappedFileError) WithSize(size int64) *MappedFileError {
	me.size = size
	return me
}

// WithMapSize records the configured map window size.
func (me *MappedFileError) WithMapSize(mapSize int64) *MappedFileError {
	me.mapSize = mapSize
	return me
}

// Offset returns the requested mapping offset.
func (me *MappedFileError) Offset() int64 {
	return me.offset
}

// Size returns the requested mapping size.
func (me *MappedFileError) Size() int64 {
	return me.size
}

// MapSize returns the configured map window size.
func (me *MappedFileError) MapSize() int64 {
	return me.mapSize
}

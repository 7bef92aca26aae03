package errors

// RotDirError is a specialized error type for rotating-directory failures:
// slot allocation, file creation, and unlink failures during reclamation
// (§4.5). It embeds baseError to inherit standard error functionality and
// adds the context needed to pinpoint which slot and file were involved.
type RotDirError struct {
	*baseError
	slotID   int    // Which directory slot was being allocated/reclaimed.
	prefix   string // Filename prefix in effect for this RotDir.
	fileName string // Name of the rotating file that caused the issue.
	path     string // Full path of the file that caused the issue.
}

// NewRotDirError creates a new rotating-directory error.
func NewRotDirError(err error, code ErrorCode, msg string) *RotDirError {
	return &RotDirError{baseError: NewBaseError(err, code, msg)}
}

// WithSlotID records which slot was involved in the error.
func (re *RotDirError) WithSlotID(id int) *RotDirError {
	re.slotID = id
	return re
}

// WithPrefix records the filename prefix in effect.
func (re *RotDirError) WithPrefix(prefix string) *RotDirError {
	re.prefix = prefix
	return re
}

// WithFileName captures which file was being processed.
func (re *RotDirError) WithFileName(fileName string) *RotDirError {
	re.fileName = fileName
	return re
}

// WithPath captures which path was being processed.
func (re *RotDirError) WithPath(path string) *RotDirError {
	re.path = path
	return re
}

// SlotID returns the directory slot where the error occurred.
func (re *RotDirError) SlotID() int {
	return re.slotID
}

// Prefix returns the filename prefix in effect when the error occurred.
func (re *RotDirError) Prefix() string {
	return re.prefix
}

// FileName returns the name of the file that was being processed.
func (re *RotDirError) FileName() string {
	return re.fileName
}

// Path returns the path of the file that was being processed.
func (re *RotDirError) Path() string {
	return re.path
}

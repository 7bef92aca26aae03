package errors

// InternerError provides specialized error handling for codepoint-interning
// operations (§4.4, §4.8): IntHashTable lookups/inserts and descriptor
// serialization into the codepoint ListFile.
type InternerError struct {
	*baseError

	// objectIdentity is the host-runtime object identity (address) being
	// interned when the error occurred.
	objectIdentity uint64

	// codepoint is the interned id involved, if one had already been assigned.
	codepoint uint16

	// operation names what was being performed ("save", "save_logline").
	operation string

	// tableSize captures IntHashTable occupancy at the time of the error.
	tableSize int
}

// NewInternerError creates a new interner-specific error.
func NewInternerError(err error, code ErrorCode, msg string) *InternerError {
	return &InternerError{baseError: NewBaseError(err, code, msg)}
}

// WithObjectIdentity records which object identity was being interned.
func (ie *InternerError) WithObjectIdentity(identity uint64) *InternerError {
	ie.objectIdentity = identity
	return ie
}

// WithCodepoint records the codepoint id involved.
func (ie *InternerError) WithCodepoint(cp uint16) *InternerError {
	ie.codepoint = cp
	return ie
}

// WithOperation records what interner operation was being performed.
func (ie *InternerError) WithOperation(operation string) *InternerError {
	ie.operation = operation
	return ie
}

// WithTableSize captures IntHashTable occupancy at the time of the error.
func (ie *InternerError) WithTableSize(size int) *InternerError {
	ie.tableSize = size
	return ie
}

// ObjectIdentity returns the object identity being interned.
func (ie *InternerError) ObjectIdentity() uint64 {
	return ie.objectIdentity
}

// Codepoint returns the codepoint id involved.
func (ie *InternerError) Codepoint() uint16 {
	return ie.codepoint
}

// Operation returns the name of the operation that was being performed.
func (ie *InternerError) Operation() string {
	return ie.operation
}

// TableSize returns IntHashTable occupancy at the time of the error.
func (ie *InternerError) TableSize() int {
	return ie.tableSize
}

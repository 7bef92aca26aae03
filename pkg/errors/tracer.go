package errors

// TracerError provides specialized error handling for Tracer and
// HookDispatcher operations (§4.9, §4.10): argument stringification,
// logger-shortcut preconditions, and lifecycle misuse.
type TracerError struct {
	*baseError

	// component names which Tracer-owned subsystem raised the error
	// ("records", "codepoints", "timeindex", "dispatcher").
	component string

	// event names the hook event kind being processed ("PYCALL", "CRET", ...).
	event string

	// depth captures the logical trace depth at the time of the error.
	depth uint16
}

// NewTracerError creates a new tracer-specific error.
func NewTracerError(err error, code ErrorCode, msg string) *TracerError {
	return &TracerError{baseError: NewBaseError(err, code, msg)}
}

// WithComponent records which Tracer-owned subsystem raised the error.
func (te *TracerError) WithComponent(component string) *TracerError {
	te.component = component
	return te
}

// WithEvent records the hook event kind being processed.
func (te *TracerError) WithEvent(event string) *TracerError {
	te.event = event
	return te
}

// WithDepth captures the logical trace depth at the time of the error.
func (te *TracerError) WithDepth(depth uint16) *TracerError {
	te.depth = depth
	return te
}

// Component returns which Tracer-owned subsystem raised the error.
func (te *TracerError) Component() string {
	return te.component
}

// Event returns the hook event kind being processed.
func (te *TracerError) Event() string {
	return te.event
}

// Depth returns the logical trace depth at the time of the error.
func (te *TracerError) Depth() uint16 {
	return te.depth
}

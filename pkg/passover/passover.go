// Package passover provides a high-performance execution tracer for a
// dynamic interpreted host runtime. It combines a rotating on-disk binary
// log (RotDir/RotRec), memory-mapped sliding windows, a code-point
// interner, and an ignore-flag-aware hook dispatcher to capture call,
// return, and exception events with minimal per-event overhead.
//
// passover is designed for embedding behind a host runtime's profile-hook
// C-API binding (out of scope for this module, §1): the binding layer owns
// translating host objects into Descriptor/Arg values and forwarding the
// resulting events to an Instance's Dispatcher.
package passover

import (
	"context"

	"github.com/iamNilotpal/passover/internal/engine"
	"github.com/iamNilotpal/passover/internal/hook"
	"github.com/iamNilotpal/passover/internal/interner"
	"github.com/iamNilotpal/passover/internal/tracer"
	"github.com/iamNilotpal/passover/pkg/logger"
	"github.com/iamNilotpal/passover/pkg/options"
)

// Descriptor identifies a traceable object (a Python function, a native
// function, or the logger shortcut's designated code object) to the
// interner. It is re-exported from internal/interner so callers never need
// to import an internal package directly.
type Descriptor = interner.Descriptor

// LoglineDescriptor names the logger shortcut's designated code object.
type LoglineDescriptor = interner.LoglineDescriptor

// PyFuncDescriptor names a pure Python function by its code object.
type PyFuncDescriptor = interner.PyFuncDescriptor

// CFuncDescriptor names a native (C-implemented) function.
type CFuncDescriptor = interner.CFuncDescriptor

// Arg is a single call argument or return value, tagged per §4.9's
// argument-encoding scheme.
type Arg = tracer.Arg

// Argument constructors, re-exported for callers composing Arg slices.
var (
	NoneArg       = tracer.None
	UndumpableArg = tracer.Undumpable
	BoolArg       = tracer.Bool
	IntArg        = tracer.Int
	LongArg       = tracer.Long
	FloatArg      = tracer.Float
	StrArg        = tracer.Str
)

// IgnoreFlags are the per-function bits a host binding registers before
// tracing begins (§4.10).
type IgnoreFlags = hook.Flags

const (
	IgnoredSingle   = hook.IgnoredSingle
	IgnoredChildren = hook.IgnoredChildren
	IgnoredWhole    = hook.IgnoredWhole
	Detailed        = hook.Detailed
)

// Instance is the primary entry point for embedding the tracer into a host
// runtime's profile-hook binding. It owns the rotating log, the interner,
// and the ignore-flag-aware dispatcher for a single tracing thread (§5).
type Instance struct {
	engine  *engine.Engine
	options *options.Options
}

// NewInstance assembles a new Instance rooted at the given options,
// defaulting any unset fields via options.NewDefaultOptions.
func NewInstance(ctx context.Context, service string, opts ...options.OptionFunc) (*Instance, error) {
	log := logger.New(service)

	resolved := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&resolved)
	}

	eng, err := engine.New(ctx, &engine.Config{Logger: log, Options: &resolved})
	if err != nil {
		return nil, err
	}

	return &Instance{engine: eng, options: &resolved}, nil
}

// Start activates tracing: the dispatcher transitions NEW -> STARTED and
// captures the pid fork detection compares against. It may be called at
// most once per Instance.
func (i *Instance) Start() error {
	return i.engine.Start()
}

// StopTracing deactivates the dispatcher without releasing any underlying
// files, so a caller can inspect what was recorded before calling Close.
func (i *Instance) StopTracing() error {
	return i.engine.StopTracing()
}

// SetFlags ORs f into identity's recognized ignore flags. The host binding
// calls this before Start, or between calls, to register per-function
// ignore behavior.
func (i *Instance) SetFlags(identity uint64, f IgnoreFlags) {
	i.engine.Flags().SetFlags(identity, f)
}

// ClearFlags clears f from identity's recognized ignore flags.
func (i *Instance) ClearFlags(identity uint64, f IgnoreFlags) {
	i.engine.Flags().ClearFlags(identity, f)
}

// SetLoggerIdentity designates the one code object whose CALL event is
// diverted to a LOG record instead of a PYCALL (§4.10 "Logger shortcut").
func (i *Instance) SetLoggerIdentity(identity uint64) {
	i.engine.Dispatcher().SetLoggerIdentity(identity)
}

// Dispatch forwards host profile-hook events into the tracer, with one
// method per event kind. In each method, identity is the traced object's
// stable address, obj carries enough information to serialize it on first
// sight, and args or retval carry call arguments or a return value where
// applicable. The event methods other than LoggerCall and LoggerReturn
// report whether the event was actually recorded (false for an ignored,
// suppressed, or pre-Start/post-Stop event).
type Dispatch struct {
	inst *Instance
}

// Events returns the Instance's event-dispatch entrypoint, the surface a
// host binding forwards PyTrace_* callbacks through.
func (i *Instance) Events() Dispatch {
	return Dispatch{inst: i}
}

// Call dispatches a CALL event for a pure Python function.
func (d Dispatch) Call(identity uint64, obj Descriptor, args []Arg) (bool, error) {
	return d.inst.engine.Dispatcher().OnCall(identity, obj, args)
}

// Return dispatches a RETURN event for a pure Python function.
func (d Dispatch) Return(identity uint64, obj Descriptor, retval Arg) (bool, error) {
	return d.inst.engine.Dispatcher().OnReturn(identity, obj, retval)
}

// Raise dispatches an exception propagating out of a pure Python frame.
func (d Dispatch) Raise(identity uint64, obj Descriptor) (bool, error) {
	return d.inst.engine.Dispatcher().OnRaise(identity, obj)
}

// CCall dispatches a C_CALL event for a native function.
func (d Dispatch) CCall(identity uint64, obj Descriptor) (bool, error) {
	return d.inst.engine.Dispatcher().OnCCall(identity, obj)
}

// CReturn dispatches a C_RETURN event for a native function.
func (d Dispatch) CReturn(identity uint64, obj Descriptor) (bool, error) {
	return d.inst.engine.Dispatcher().OnCReturn(identity, obj)
}

// CException dispatches a C_EXCEPTION event for a native function.
func (d Dispatch) CException(identity uint64, obj Descriptor) (bool, error) {
	return d.inst.engine.Dispatcher().OnCException(identity, obj)
}

// LoggerCall dispatches the designated logger code object's CALL event,
// emitting a LOG record instead of a PYCALL.
func (d Dispatch) LoggerCall(format LoglineDescriptor, args [][]byte) error {
	return d.inst.engine.Dispatcher().OnLoggerCall(format, args)
}

// LoggerReturn dispatches the logger's own RETURN event, which is always
// silently skipped (§4.10).
func (d Dispatch) LoggerReturn() error {
	return d.inst.engine.Dispatcher().OnLoggerReturn()
}

// IsLoggerIdentity reports whether identity is the designated logger code
// object, so the binding layer can choose between Call and LoggerCall.
func (d Dispatch) IsLoggerIdentity(identity uint64) bool {
	return d.inst.engine.Dispatcher().IsLoggerIdentity(identity)
}

// CallDepth returns the dispatcher's current call-depth counter, distinct
// from the Tracer's own logical trace depth (§4.10).
func (i *Instance) CallDepth() int {
	return i.engine.Dispatcher().CallDepth()
}

// Active reports whether the Instance is currently processing events.
func (i *Instance) Active() bool {
	return i.engine.Dispatcher().Active()
}

// Close gracefully shuts down the Instance, stopping the dispatcher and
// releasing the rotating records file and both list files.
func (i *Instance) Close(ctx context.Context) error {
	return i.engine.Close()
}

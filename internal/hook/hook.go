// Package hook implements HookDispatcher (§4.10): the layer above a host
// runtime's profile hook that enforces ignore-flag semantics, fork
// detection, and call-depth bookkeeping before forwarding surviving events
// to a Tracer.
package hook

import (
	"os"
	"sync/atomic"

	"github.com/iamNilotpal/passover/internal/interner"
	"github.com/iamNilotpal/passover/internal/tracer"
	"github.com/iamNilotpal/passover/pkg/errors"
)

// state is the dispatcher's lifecycle: NEW -> STARTED -> STOPPED (§4.10).
type state uint8

const (
	stateNew state = iota
	stateStarted
	stateStopped
)

// HookDispatcher maps host-runtime hook events to Tracer calls, filtering
// through per-function ignore flags and a single ignore_depth stack counter.
type HookDispatcher struct {
	tracer *tracer.Tracer
	flags  *FlagStore

	state   atomic.Int32
	pid     int
	active  atomic.Bool

	ignoreDepth int
	callDepth   int

	loggerIdentity uint64
	loggerSet      bool
}

// New returns a HookDispatcher over tracer, consulting store for
// per-function ignore flags.
func New(t *tracer.Tracer, store *FlagStore) *HookDispatcher {
	d := &HookDispatcher{tracer: t, flags: store}
	d.state.Store(int32(stateNew))
	return d
}

// SetLoggerIdentity designates the one code object whose CALL event is
// diverted to a LOG record instead of a PYCALL (§4.10 "Logger shortcut").
func (d *HookDispatcher) SetLoggerIdentity(identity uint64) {
	d.loggerIdentity = identity
	d.loggerSet = true
}

// Start transitions NEW -> STARTED, capturing the pid fork detection
// compares against. It may be called at most once.
func (d *HookDispatcher) Start() error {
	if !d.state.CompareAndSwap(int32(stateNew), int32(stateStarted)) {
		return errors.NewTracerError(
			nil, errors.ErrorCodeAlreadyStarted, "hook dispatcher has already been started",
		).WithComponent("dispatcher")
	}

	d.pid = os.Getpid()
	d.active.Store(true)
	return nil
}

// Stop transitions to STOPPED, idempotently.
func (d *HookDispatcher) Stop() error {
	d.state.Store(int32(stateStopped))
	d.active.Store(false)
	return nil
}

// detectFork compares the current pid to the one captured at Start; on a
// post-fork mismatch it immediately deactivates the dispatcher so a child
// process never writes into the parent's files.
func (d *HookDispatcher) detectFork() bool {
	if os.Getpid() != d.pid {
		d.active.Store(false)
		return true
	}
	return false
}

// gate reports whether an event should be skipped outright: the dispatcher
// isn't active, or a fork was just detected.
func (d *HookDispatcher) gate() bool {
	return !d.active.Load() || d.detectFork()
}

// isCallIgnored applies the ignore state machine to a CALL event,
// mutating ignoreDepth as a side effect (§4.10). A function carrying both
// bits (IGNORED_WHOLE) arms the child-suppressing counter and still has its
// own CALL skipped, mirroring tracefunc.c's fall-through from setting
// ignore_depth into the IGNORED_SINGLE check.
func (d *HookDispatcher) isCallIgnored(flags Flags) bool {
	if d.ignoreDepth > 0 {
		d.ignoreDepth++
		return true
	}
	if flags&IgnoredChildren != 0 {
		d.ignoreDepth = 1
	}
	return flags&IgnoredSingle != 0
}

// isReturnIgnored applies the ignore state machine to a RETURN/EXCEPTION
// event, mutating ignoreDepth as a side effect (§4.10).
func (d *HookDispatcher) isReturnIgnored(flags Flags) bool {
	if d.ignoreDepth > 0 {
		d.ignoreDepth--
		return true
	}
	if flags&IgnoredSingle != 0 {
		return true
	}
	return false
}

// incCallDepth increments the call-depth counter, distinct from the
// Tracer's own logical trace depth (§4.10).
func (d *HookDispatcher) incCallDepth() {
	d.callDepth++
}

// decCallDepth decrements the call-depth counter only if positive, so a
// shallow return seen before tracing began is a no-op (§4.10).
func (d *HookDispatcher) decCallDepth() {
	if d.callDepth > 0 {
		d.callDepth--
	}
}

// OnCall dispatches a CALL event for a pure function.
func (d *HookDispatcher) OnCall(identity uint64, obj interner.Descriptor, args []tracer.Arg) (bool, error) {
	if d.gate() {
		return false, nil
	}
	d.incCallDepth()

	if d.isCallIgnored(d.flags.Get(identity)) {
		return false, nil
	}

	if _, err := d.tracer.RecordPyCall(obj, args); err != nil {
		return false, err
	}
	return true, nil
}

// OnReturn dispatches a RETURN event for a pure function.
func (d *HookDispatcher) OnReturn(identity uint64, obj interner.Descriptor, retval tracer.Arg) (bool, error) {
	if d.gate() {
		return false, nil
	}
	d.decCallDepth()

	if d.isReturnIgnored(d.flags.Get(identity)) {
		return false, nil
	}

	if _, err := d.tracer.RecordPyRet(obj, retval); err != nil {
		return false, err
	}
	return true, nil
}

// OnRaise dispatches an exception propagating out of a pure frame (PYRAISE),
// governed by the same ignore bucket as RETURN (§4.10).
func (d *HookDispatcher) OnRaise(identity uint64, obj interner.Descriptor) (bool, error) {
	if d.gate() {
		return false, nil
	}
	d.decCallDepth()

	if d.isReturnIgnored(d.flags.Get(identity)) {
		return false, nil
	}

	if _, err := d.tracer.RecordPyRaise(obj); err != nil {
		return false, err
	}
	return true, nil
}

// OnCCall dispatches a C_CALL event for a native function.
func (d *HookDispatcher) OnCCall(identity uint64, obj interner.Descriptor) (bool, error) {
	if d.gate() {
		return false, nil
	}
	d.incCallDepth()

	if d.isCallIgnored(d.flags.Get(identity)) {
		return false, nil
	}

	if _, err := d.tracer.RecordCCall(obj); err != nil {
		return false, err
	}
	return true, nil
}

// OnCReturn dispatches a C_RETURN event for a native function.
func (d *HookDispatcher) OnCReturn(identity uint64, obj interner.Descriptor) (bool, error) {
	if d.gate() {
		return false, nil
	}
	d.decCallDepth()

	if d.isReturnIgnored(d.flags.Get(identity)) {
		return false, nil
	}

	if _, err := d.tracer.RecordCRet(obj); err != nil {
		return false, err
	}
	return true, nil
}

// OnCException dispatches a C_EXCEPTION event for a native function.
func (d *HookDispatcher) OnCException(identity uint64, obj interner.Descriptor) (bool, error) {
	if d.gate() {
		return false, nil
	}
	d.decCallDepth()

	if d.isReturnIgnored(d.flags.Get(identity)) {
		return false, nil
	}

	if _, err := d.tracer.RecordCRaise(obj); err != nil {
		return false, err
	}
	return true, nil
}

// OnLoggerCall dispatches the designated logger code object's CALL event,
// emitting a LOG record instead of a PYCALL. It still advances the
// call-depth counter so the logger's own RETURN can be silently skipped in
// step with it.
func (d *HookDispatcher) OnLoggerCall(format interner.LoglineDescriptor, args [][]byte) error {
	if d.gate() {
		return nil
	}
	d.incCallDepth()

	_, err := d.tracer.RecordLog(format, args)
	return err
}

// OnLoggerReturn dispatches the logger's own RETURN event, which is always
// silently skipped (§4.10).
func (d *HookDispatcher) OnLoggerReturn() error {
	if d.gate() {
		return nil
	}
	d.decCallDepth()
	return nil
}

// IsLoggerIdentity reports whether identity is the designated logger code
// object, for the binding layer to decide between OnCall and OnLoggerCall.
func (d *HookDispatcher) IsLoggerIdentity(identity uint64) bool {
	return d.loggerSet && identity == d.loggerIdentity
}

// CallDepth returns the current call-depth counter.
func (d *HookDispatcher) CallDepth() int {
	return d.callDepth
}

// Active reports whether the dispatcher is currently processing events.
func (d *HookDispatcher) Active() bool {
	return d.active.Load()
}

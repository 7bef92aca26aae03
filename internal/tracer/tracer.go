// Package tracer implements Tracer (§4.9): the per-event encoder that turns
// a host hook event into a framed record, obtaining codepoints from an
// Interner and writing through a RotRec, while maintaining the logical
// trace depth and the time index.
package tracer

import (
	"encoding/binary"

	"github.com/iamNilotpal/passover/internal/clock"
	"github.com/iamNilotpal/passover/internal/interner"
	"github.com/iamNilotpal/passover/internal/listfile"
	"github.com/iamNilotpal/passover/internal/packwriter"
	"github.com/iamNilotpal/passover/internal/rotrec"
)

// RecordType is the 1-byte trace record discriminator (§3).
type RecordType uint8

const (
	RecordInvalid RecordType = 0
	RecordPyCall  RecordType = 1
	RecordPyRet   RecordType = 2
	RecordPyRaise RecordType = 3
	RecordCCall   RecordType = 4
	RecordCRet    RecordType = 5
	RecordCRaise  RecordType = 6
	RecordLog     RecordType = 7
)

// timeIndexEntrySize is the packed {timestamp:u64, absolute_offset:u64} size.
const timeIndexEntrySize = 16

// Tracer orchestrates per-event encoding into a rotating record stream,
// interning codepoints and maintaining a sparse time index alongside it.
type Tracer struct {
	rec        *rotrec.RotRec
	codepoints *listfile.ListFile
	timeIndex  *listfile.ListFile
	recWriter  *packwriter.PackWriter
	interner   *interner.Interner
	clock      *clock.Clock

	depth              uint16
	nextIndexTimestamp uint64
	indexInterval      uint64
}

// Config bundles the already-constructed components a Tracer composes; the
// engine assembles these from options before handing them to New.
type Config struct {
	Rec           *rotrec.RotRec
	Codepoints    *listfile.ListFile
	TimeIndex     *listfile.ListFile
	RecWriter     *packwriter.PackWriter
	InternTable   *interner.Interner
	Clock         *clock.Clock
	IndexInterval uint64
}

// New returns a Tracer over the given configuration.
func New(cfg Config) *Tracer {
	return &Tracer{
		rec:           cfg.Rec,
		codepoints:    cfg.Codepoints,
		timeIndex:     cfg.TimeIndex,
		recWriter:     cfg.RecWriter,
		interner:      cfg.InternTable,
		clock:         cfg.Clock,
		indexInterval: cfg.IndexInterval,
	}
}

// Depth returns the current logical trace depth.
func (t *Tracer) Depth() uint16 {
	return t.depth
}

// RecordPyCall emits a PYCALL record for obj with the given arguments,
// incrementing the trace depth after the header is emitted.
func (t *Tracer) RecordPyCall(obj interner.Descriptor, args []Arg) (uint64, error) {
	ts := t.clock.NowUsec()

	cp, err := t.interner.GetOrCreate(obj)
	if err != nil {
		return 0, err
	}

	t.recWriter.Clear()
	if err := t.emitHeader(RecordPyCall, t.depth, ts, cp); err != nil {
		return 0, err
	}

	if err := t.recWriter.DumpU16(uint16(len(args))); err != nil {
		return 0, err
	}
	for _, a := range args {
		if err := dumpArg(t.recWriter, a); err != nil {
			return 0, err
		}
	}

	t.depth++

	return t.finish(ts)
}

// RecordPyRet emits a PYRET record carrying the return value, decrementing
// the trace depth before the header is emitted so it matches the call's depth.
func (t *Tracer) RecordPyRet(obj interner.Descriptor, retval Arg) (uint64, error) {
	ts := t.clock.NowUsec()
	t.decrementDepth()

	cp, err := t.interner.GetOrCreate(obj)
	if err != nil {
		return 0, err
	}

	t.recWriter.Clear()
	if err := t.emitHeader(RecordPyRet, t.depth, ts, cp); err != nil {
		return 0, err
	}
	if err := dumpArg(t.recWriter, retval); err != nil {
		return 0, err
	}

	return t.finish(ts)
}

// RecordPyRaise emits a PYRAISE record with no payload beyond the header.
func (t *Tracer) RecordPyRaise(obj interner.Descriptor) (uint64, error) {
	return t.recordBareEvent(RecordPyRaise, obj, true)
}

// RecordCCall emits a CCALL record with no payload, incrementing depth.
func (t *Tracer) RecordCCall(obj interner.Descriptor) (uint64, error) {
	ts := t.clock.NowUsec()

	cp, err := t.interner.GetOrCreate(obj)
	if err != nil {
		return 0, err
	}

	t.recWriter.Clear()
	if err := t.emitHeader(RecordCCall, t.depth, ts, cp); err != nil {
		return 0, err
	}

	t.depth++
	return t.finish(ts)
}

// RecordCRet emits a CRET record with no payload, decrementing depth first.
func (t *Tracer) RecordCRet(obj interner.Descriptor) (uint64, error) {
	return t.recordBareEvent(RecordCRet, obj, true)
}

// RecordCRaise emits a CRAISE record with no payload, decrementing depth first.
func (t *Tracer) RecordCRaise(obj interner.Descriptor) (uint64, error) {
	return t.recordBareEvent(RecordCRaise, obj, true)
}

// recordBareEvent emits a header-only record, optionally decrementing depth
// first (return/raise events decrement before emission; see §4.9 step 5).
func (t *Tracer) recordBareEvent(kind RecordType, obj interner.Descriptor, decrementFirst bool) (uint64, error) {
	ts := t.clock.NowUsec()
	if decrementFirst {
		t.decrementDepth()
	}

	cp, err := t.interner.GetOrCreate(obj)
	if err != nil {
		return 0, err
	}

	t.recWriter.Clear()
	if err := t.emitHeader(kind, t.depth, ts, cp); err != nil {
		return 0, err
	}

	return t.finish(ts)
}

// RecordLog emits a LOG record for the designated logger shortcut's
// format-string codepoint and its stringified arguments. Depth is left
// unchanged; the logger call is not a traced frame.
func (t *Tracer) RecordLog(format interner.LoglineDescriptor, args [][]byte) (uint64, error) {
	ts := t.clock.NowUsec()

	cp, err := t.interner.GetOrCreate(format)
	if err != nil {
		return 0, err
	}

	t.recWriter.Clear()
	if err := t.emitHeader(RecordLog, t.depth, ts, cp); err != nil {
		return 0, err
	}

	if err := t.recWriter.DumpU16(uint16(len(args))); err != nil {
		return 0, err
	}
	for _, a := range args {
		if err := t.recWriter.DumpPstr(a); err != nil {
			return 0, err
		}
	}

	return t.finish(ts)
}

// emitHeader writes the common {type, depth, ts, codepoint} prefix.
func (t *Tracer) emitHeader(kind RecordType, depth uint16, ts uint64, cp uint16) error {
	if err := t.recWriter.DumpU8(uint8(kind)); err != nil {
		return err
	}
	if err := t.recWriter.DumpU16(depth); err != nil {
		return err
	}
	if err := t.recWriter.DumpU64(ts); err != nil {
		return err
	}
	return t.recWriter.DumpU16(cp)
}

// decrementDepth decrements the logical trace depth if it is positive,
// mirroring the shallow-return guard a HookDispatcher applies to its own
// call-depth counter.
func (t *Tracer) decrementDepth() {
	if t.depth > 0 {
		t.depth--
	}
}

// finish writes the staged record through RotRec and conditionally appends
// a time-index entry, returning the record's absolute offset.
func (t *Tracer) finish(ts uint64) (uint64, error) {
	offset, err := t.rec.Write(t.recWriter.Buffer())
	if err != nil {
		return 0, err
	}

	if ts >= t.nextIndexTimestamp {
		entry := make([]byte, timeIndexEntrySize)
		binary.LittleEndian.PutUint64(entry[0:8], ts)
		binary.LittleEndian.PutUint64(entry[8:16], offset)

		if _, err := t.timeIndex.Append(entry); err != nil {
			return 0, err
		}
		t.nextIndexTimestamp = ts + t.indexInterval
	}

	return offset, nil
}

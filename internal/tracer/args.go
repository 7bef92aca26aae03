package tracer

import (
	"strconv"

	"github.com/iamNilotpal/passover/internal/packwriter"
)

// Tag is the 1-byte argument-type tag (§4.9).
type Tag uint8

const (
	TagNone       Tag = 0
	TagUndumpable Tag = 1
	TagTrue       Tag = 2
	TagFalse      Tag = 3
	TagInt        Tag = 4
	TagLong       Tag = 5
	TagFloat      Tag = 6
	TagStr        Tag = 7

	// TagImmIntBase is the tag value for MinImmInt; immediate integers in
	// [MinImmInt, MaxImmInt] are encoded directly in the tag byte, with no
	// payload, as TagImmIntBase + (v - MinImmInt).
	TagImmIntBase = 8

	MinImmInt = -20
	MaxImmInt = 30
)

// maxStringifiedLen is the truncation length applied to FLOAT and STR
// argument payloads (§4.9 table).
const maxStringifiedLen = 50

// Arg is a single call/return argument, tagged by runtime type the way the
// host's profile hook would classify it.
type Arg struct {
	Tag   Tag
	Imm   int    // populated when Tag == TagImmIntBase-selecting range
	Repr  string // INT/LONG: the boxed integer's repr, untruncated
	Bytes []byte // STR: the raw byte-string value, truncated to 50 bytes
	Float string // FLOAT: the stringified float, truncated to 50 bytes
}

// None is the NONE argument.
func None() Arg { return Arg{Tag: TagNone} }

// Undumpable is the fallback argument for an unrecognized runtime type.
func Undumpable() Arg { return Arg{Tag: TagUndumpable} }

// Bool returns the TRUE or FALSE argument for v.
func Bool(v bool) Arg {
	if v {
		return Arg{Tag: TagTrue}
	}
	return Arg{Tag: TagFalse}
}

// Int returns an argument for an integer value, encoding it as an immediate
// in the tag byte when it falls within [MinImmInt, MaxImmInt], else as a
// boxed INT carrying its decimal repr.
func Int(v int64) Arg {
	if v >= MinImmInt && v <= MaxImmInt {
		return Arg{Tag: TagImmIntBase, Imm: int(v)}
	}
	return Arg{Tag: TagInt, Repr: reprInt(v)}
}

// Long returns an argument for a big integer, carrying its decimal repr.
func Long(repr string) Arg {
	return Arg{Tag: TagLong, Repr: repr}
}

// Float returns an argument for a float, stringified and truncated to 50 bytes.
func Float(repr string) Arg {
	return Arg{Tag: TagFloat, Float: truncate(repr, maxStringifiedLen)}
}

// Str returns an argument for a byte string, truncated to 50 bytes.
func Str(v []byte) Arg {
	return Arg{Tag: TagStr, Bytes: truncateBytes(v, maxStringifiedLen)}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func truncateBytes(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}

func reprInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

// dumpArg appends arg's tag byte and any payload to w.
func dumpArg(w *packwriter.PackWriter, arg Arg) error {
	switch arg.Tag {
	case TagNone, TagUndumpable, TagTrue, TagFalse:
		return w.DumpU8(uint8(arg.Tag))
	case TagInt:
		if err := w.DumpU8(uint8(TagInt)); err != nil {
			return err
		}
		return w.DumpCstr(arg.Repr)
	case TagLong:
		if err := w.DumpU8(uint8(TagLong)); err != nil {
			return err
		}
		return w.DumpCstr(arg.Repr)
	case TagFloat:
		if err := w.DumpU8(uint8(TagFloat)); err != nil {
			return err
		}
		return w.DumpCstr(arg.Float)
	case TagStr:
		if err := w.DumpU8(uint8(TagStr)); err != nil {
			return err
		}
		return w.DumpPstr(arg.Bytes)
	case TagImmIntBase:
		tag := uint8(TagImmIntBase + (arg.Imm - MinImmInt))
		return w.DumpU8(tag)
	default:
		return w.DumpU8(uint8(TagUndumpable))
	}
}

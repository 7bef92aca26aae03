// Package packwriter implements PackWriter (§4.3): a fixed-capacity scratch
// buffer with a cursor and little-endian fixed-width and length-prefixed
// string primitives, used to stage a single record before handing it to a
// downstream writer.
//
// The little-endian framing mirrors the corpus's own approach to binary
// record packing (other_examples dittofs pkg/wal/mmap.go uses
// encoding/binary.LittleEndian directly alongside x/sys/unix), rather than
// reaching for a general-purpose serialization library.
package packwriter

import (
	"encoding/binary"

	"github.com/iamNilotpal/passover/pkg/errors"
)

// maxPstrLen is the largest length a length-prefixed string can carry; the
// prefix itself is a u16, so longer inputs are truncated rather than rejected.
const maxPstrLen = 1<<16 - 1

// PackWriter is a fixed-capacity byte buffer with a write cursor. Every
// Dump* method appends to the buffer and advances the cursor; Clear resets
// the cursor to 0 without releasing the underlying storage.
type PackWriter struct {
	buf    []byte
	cursor int
}

// New returns a PackWriter backed by a buffer of the given capacity.
func New(capacity uint32) *PackWriter {
	return &PackWriter{buf: make([]byte, capacity)}
}

// Clear resets the cursor to 0, discarding any staged bytes.
func (w *PackWriter) Clear() {
	w.cursor = 0
}

// Length returns the number of bytes currently staged.
func (w *PackWriter) Length() int {
	return w.cursor
}

// Buffer returns the staged bytes. The returned slice aliases the
// PackWriter's internal storage and is only valid until the next Dump* or
// Clear call.
func (w *PackWriter) Buffer() []byte {
	return w.buf[:w.cursor]
}

// reserve grows the cursor by n bytes and returns the slice to write into,
// failing with DUMP_TOO_BIG if the buffer's fixed capacity can't hold it.
func (w *PackWriter) reserve(n int) ([]byte, error) {
	if w.cursor+n > len(w.buf) {
		return nil, errors.NewPackWriterError(
			nil, errors.ErrorCodeDumpTooBig, "scratch buffer capacity exceeded",
		).WithRequested(n).WithCapacity(len(w.buf)).WithUsed(w.cursor)
	}

	dst := w.buf[w.cursor : w.cursor+n]
	w.cursor += n
	return dst, nil
}

// DumpU8 appends a single byte.
func (w *PackWriter) DumpU8(v uint8) error {
	dst, err := w.reserve(1)
	if err != nil {
		return err
	}
	dst[0] = v
	return nil
}

// DumpU16 appends a little-endian u16.
func (w *PackWriter) DumpU16(v uint16) error {
	dst, err := w.reserve(2)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(dst, v)
	return nil
}

// DumpU32 appends a little-endian u32.
func (w *PackWriter) DumpU32(v uint32) error {
	dst, err := w.reserve(4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(dst, v)
	return nil
}

// DumpU64 appends a little-endian u64.
func (w *PackWriter) DumpU64(v uint64) error {
	dst, err := w.reserve(8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(dst, v)
	return nil
}

// DumpBuf appends the raw bytes of buf with no length prefix.
func (w *PackWriter) DumpBuf(buf []byte) error {
	dst, err := w.reserve(len(buf))
	if err != nil {
		return err
	}
	copy(dst, buf)
	return nil
}

// DumpPstr appends a u16 length prefix followed by buf's bytes, truncating
// buf to maxPstrLen bytes if it is longer.
func (w *PackWriter) DumpPstr(buf []byte) error {
	if len(buf) > maxPstrLen {
		buf = buf[:maxPstrLen]
	}

	if err := w.DumpU16(uint16(len(buf))); err != nil {
		return err
	}
	return w.DumpBuf(buf)
}

// DumpCstr appends s as a length-prefixed string, the way dump_cstr treats a
// NUL-terminated C string's contents.
func (w *PackWriter) DumpCstr(s string) error {
	return w.DumpPstr([]byte(s))
}

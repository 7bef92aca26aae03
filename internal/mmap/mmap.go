// Package mmap implements MappedFile and Window (§4.2): a fixed-size sliding
// memory map over a file descriptor with page-aligned remap and on-demand
// growth, and an append-only write cursor layered over it.
//
// The mmap/munmap/ftruncate syscalls are reached through golang.org/x/sys/unix,
// the same package the corpus's own mmap-backed WAL
// (other_examples dittofs pkg/wal/mmap.go) uses for this exact purpose.
package mmap

import (
	"os"

	"github.com/iamNilotpal/passover/pkg/errors"
	"golang.org/x/sys/unix"
)

var pageSize = int64(os.Getpagesize())

// MappedFile is a fixed-size sliding memory map over an open file. Map
// returns a byte slice view into the current mapping, remapping
// transparently when the request falls outside it.
type MappedFile struct {
	file         *os.File
	mapSize      int64 // configured window size (§4.2 "map_size").
	mapAheadSize int64 // bytes mapped ahead of a remap's offset; the new mapping starts mapSize - mapAheadSize behind it.
	data         []byte
	mapOffset    int64 // file offset the current mapping begins at.
	physSize     int64 // page-aligned physical size of the current mapping.
}

// New opens (or reuses) file for memory mapping with the given window and
// map-ahead sizes. mapAheadSize must be strictly smaller than mapSize.
func New(file *os.File, mapSize, mapAheadSize int64) (*MappedFile, error) {
	if mapAheadSize >= mapSize {
		return nil, errors.NewMappedFileError(
			nil, errors.ErrorCodeInvalidInput, "map_ahead_size must be smaller than map_size",
		).WithMapSize(mapSize).WithSize(mapAheadSize)
	}

	return &MappedFile{file: file, mapSize: mapSize, mapAheadSize: mapAheadSize}, nil
}

// Map returns a byte slice view of [offset, offset+size) within the file,
// remapping if the current mapping does not already cover the request.
func (m *MappedFile) Map(offset, size int64) ([]byte, error) {
	if size > m.mapSize {
		return nil, errors.NewMappedFileError(
			nil, errors.ErrorCodeMapTooBig, "requested mapping size exceeds configured map window",
		).WithOffset(offset).WithSize(size).WithMapSize(m.mapSize)
	}

	if m.data == nil || !m.covers(offset, size) {
		if err := m.remap(offset, size); err != nil {
			return nil, err
		}
	}

	start := offset - m.mapOffset
	return m.data[start : start+size], nil
}

// covers reports whether [offset, offset+size) lies entirely within the
// current mapping.
func (m *MappedFile) covers(offset, size int64) bool {
	return offset >= m.mapOffset && offset+size <= m.mapOffset+int64(len(m.data))
}

// remap unmaps the current mapping (if any), grows the file as needed, and
// creates a new page-aligned mapping that covers [offset, offset+size). The
// new mapping's start is shifted backwards by mapSize - mapAheadSize, leaving
// about mapAheadSize bytes mapped ahead of offset; when that shifted mapping
// would end before offset+size, it starts at the page containing offset.
func (m *MappedFile) remap(offset, size int64) error {
	if m.data != nil {
		if err := unix.Munmap(m.data); err != nil {
			return errors.NewMappedFileError(
				err, errors.ErrorCodeMmapFailed, "failed to unmap previous window",
			).WithOffset(m.mapOffset)
		}
		m.data = nil
	}

	shifted := offset - (m.mapSize - m.mapAheadSize)
	if shifted < 0 {
		shifted = 0
	}
	newMapOffset := alignDown(shifted, pageSize)
	physSize := alignUp(m.mapSize, pageSize)
	if newMapOffset+physSize < offset+size {
		newMapOffset = alignDown(offset, pageSize)
		if newMapOffset+physSize < offset+size {
			physSize += pageSize
		}
	}

	if err := m.ensureCapacity(newMapOffset + physSize); err != nil {
		return err
	}

	data, err := unix.Mmap(
		int(m.file.Fd()), newMapOffset, int(physSize),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED,
	)
	if err != nil {
		return errors.NewMappedFileError(
			err, errors.ErrorCodeMmapFailed, "failed to map window",
		).WithOffset(newMapOffset).WithSize(physSize)
	}

	m.data = data
	m.mapOffset = newMapOffset
	m.physSize = physSize
	return nil
}

// ensureCapacity grows the backing file with ftruncate if it is smaller
// than required.
func (m *MappedFile) ensureCapacity(required int64) error {
	stat, err := m.file.Stat()
	if err != nil {
		return errors.NewMappedFileError(err, errors.ErrorCodeStatFailed, "failed to stat mapped file")
	}

	if stat.Size() >= required {
		return nil
	}

	if err := m.file.Truncate(required); err != nil {
		return errors.NewMappedFileError(
			err, errors.ErrorCodeTruncateFailed, "failed to grow mapped file",
		).WithSize(required)
	}
	return nil
}

// Close unmaps the current mapping, if any. It does not close the
// underlying file; callers own that lifecycle.
func (m *MappedFile) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	if err != nil {
		return errors.NewMappedFileError(err, errors.ErrorCodeMmapFailed, "failed to unmap window on close")
	}
	return nil
}

func alignDown(v, align int64) int64 {
	return v - (v % align)
}

func alignUp(v, align int64) int64 {
	if v%align == 0 {
		return v
	}
	return v + (align - v%align)
}

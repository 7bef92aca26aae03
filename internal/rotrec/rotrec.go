// Package rotrec implements RotRec (§4.6): a sequence of length-prefixed
// records striped across a RotDir's rotating fixed-size files, with a
// base_offset header per physical file so a record's position is a single
// stable absolute offset regardless of how many files it has rotated
// through.
package rotrec

import (
	"encoding/binary"
	"os"

	"github.com/iamNilotpal/passover/internal/mmap"
	"github.com/iamNilotpal/passover/internal/rotdir"
	"github.com/iamNilotpal/passover/pkg/errors"
	"go.uber.org/zap"
)

// headerSize is the 8-byte base_offset:u64 header every physical file carries.
const headerSize = 8

// framingSize is the 2-byte size:u16 prefix in front of every record.
const framingSize = 2

// RotRec owns at most one open Window at a time, transparently rotating to
// a fresh file via RotDir when the current one would overflow.
type RotRec struct {
	dir          *rotdir.RotDir
	prefix       string
	fileDataSize uint64
	totalSize    uint64
	mapSize      int64
	mapAheadSize int64

	open           bool
	slotID         int
	file           *os.File
	mapped         *mmap.MappedFile
	window         *mmap.Window
	baseOffset     uint64
	nextBaseOffset uint64 // base_offset to use the next time a file is opened.

	log *zap.SugaredLogger
}

// New returns a RotRec striping records across dir's slots, each physical
// file holding up to fileDataSize bytes of record data plus its header.
func New(dir *rotdir.RotDir, prefix string, fileDataSize uint64, mapSize, mapAheadSize int64, log *zap.SugaredLogger) (*RotRec, error) {
	if mapSize > int64(fileDataSize) {
		log.Errorw(
			"Invalid rotating records configuration",
			"mapSize", mapSize, "fileDataSize", fileDataSize,
		)
		return nil, errors.NewRotRecError(
			nil, errors.ErrorCodeMapSizeGreaterThanFileSize, "map_size must not exceed file_data_size",
		).WithFileDataSize(fileDataSize)
	}

	return &RotRec{
		dir:          dir,
		prefix:       prefix,
		fileDataSize: fileDataSize,
		totalSize:    fileDataSize + headerSize,
		mapSize:      mapSize,
		mapAheadSize: mapAheadSize,
		log:          log,
	}, nil
}

// Write frames buf as {size:u16, bytes} and appends it, rotating to a new
// file first if it would not fit in the current one. It returns the
// absolute offset of the record's first byte (the size prefix).
func (r *RotRec) Write(buf []byte) (uint64, error) {
	if uint64(len(buf)) > r.fileDataSize {
		return 0, errors.NewRotRecError(
			nil, errors.ErrorCodeSizeTooLarge, "record does not fit within a single rotating file",
		).WithRecordSize(len(buf)).WithFileDataSize(r.fileDataSize)
	}

	sizeOnDisk := uint64(framingSize + len(buf))

	if !r.open {
		if err := r.openNext(); err != nil {
			return 0, err
		}
	} else if uint64(r.window.Tell())+sizeOnDisk > r.totalSize {
		if err := r.rotate(); err != nil {
			return 0, err
		}
	}

	framed := make([]byte, sizeOnDisk)
	binary.LittleEndian.PutUint16(framed, uint16(len(buf)))
	copy(framed[framingSize:], buf)

	offset, err := r.window.Write(framed)
	if err != nil {
		return 0, err
	}

	return r.baseOffset + uint64(offset), nil
}

// openNext allocates a fresh slot from RotDir, opens its file, and writes
// the base_offset header.
func (r *RotRec) openNext() error {
	slotID, path, err := r.dir.Allocate(r.prefix)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		r.log.Errorw("Failed to open rotating file", "error", err, "path", path, "slotID", slotID)
		return errors.ClassifyFileOpenError(err, path, r.prefix)
	}

	mapped, err := mmap.New(file, r.mapSize, r.mapAheadSize)
	if err != nil {
		file.Close()
		return err
	}

	window := mmap.NewWindow(mapped, 0)

	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint64(header, r.nextBaseOffset)
	if _, err := window.Write(header); err != nil {
		file.Close()
		return err
	}

	r.slotID = slotID
	r.file = file
	r.mapped = mapped
	r.window = window
	r.baseOffset = r.nextBaseOffset
	r.open = true
	r.log.Infow("Opened rotating file", "path", path, "slotID", slotID, "baseOffset", r.baseOffset)
	return nil
}

// rotate closes the current file, releasing its slot back to RotDir, and
// opens a fresh one.
func (r *RotRec) rotate() error {
	r.log.Infow("Rotating to a new file", "slotID", r.slotID, "baseOffset", r.baseOffset)
	if err := r.closeCurrent(); err != nil {
		return err
	}
	return r.openNext()
}

// closeCurrent releases the current window and file and marks the slot for
// reclamation, advancing the base_offset the next file will start at.
func (r *RotRec) closeCurrent() error {
	if err := r.window.Close(); err != nil {
		return err
	}
	if err := r.file.Close(); err != nil {
		return errors.NewRotRecError(err, errors.ErrorCodeOpenFailed, "failed to close rotating file")
	}
	if err := r.dir.Deallocate(r.slotID); err != nil {
		return err
	}

	r.nextBaseOffset = r.baseOffset + r.totalSize
	r.open = false
	return nil
}

// Close releases the currently open file, if any.
func (r *RotRec) Close() error {
	if !r.open {
		return nil
	}
	return r.closeCurrent()
}

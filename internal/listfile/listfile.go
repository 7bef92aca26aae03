// Package listfile implements ListFile (§4.7): a single append-only file of
// variable-size records framed as {size:u32, bytes}, each assigned the next
// 0-based index. It backs the codepoint table and the time index.
package listfile

import (
	"encoding/binary"
	"os"

	"github.com/iamNilotpal/passover/internal/mmap"
	"github.com/iamNilotpal/passover/pkg/errors"
	"go.uber.org/zap"
)

// framingSize is the 4-byte size:u32 prefix in front of every record.
const framingSize = 4

// ListFile is an append-only sequence of length-prefixed records over a
// single memory-mapped file.
type ListFile struct {
	file   *os.File
	window *mmap.Window
	count  uint32
	log    *zap.SugaredLogger
}

// Open opens (creating if necessary) the ListFile at path, mapping it with
// the given window geometry and positioning the append cursor just past the
// last record found in the file.
func Open(path string, mapSize, mapAheadSize int64, log *zap.SugaredLogger) (*ListFile, error) {
	log.Infow("Opening list file", "path", path)

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		log.Errorw("Failed to open list file", "error", err, "path", path)
		return nil, errors.ClassifyFileOpenError(err, path, "")
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.NewMappedFileError(err, errors.ErrorCodeStatFailed, "failed to stat list file")
	}

	mapped, err := mmap.New(file, mapSize, mapAheadSize)
	if err != nil {
		file.Close()
		return nil, err
	}

	lf := &ListFile{file: file, window: mmap.NewWindow(mapped, 0), log: log}

	if stat.Size() > 0 {
		count, end, err := lf.scanExisting(stat.Size())
		if err != nil {
			file.Close()
			return nil, err
		}
		lf.count = count
		lf.window.Seek(end)
		log.Infow("Recovered list file record count", "path", path, "count", count)
	}

	log.Infow("List file ready", "path", path, "count", lf.count)
	return lf, nil
}

// scanExisting walks an existing file's framed records to recover the
// record count on reopen, since the in-memory count doesn't survive a restart.
// It returns the count and the offset just past the last record. The mapped
// file grows in zero-filled pages, so a zero size field ends the scan; an
// empty record written by Append also ends it.
func (lf *ListFile) scanExisting(fileSize int64) (uint32, int64, error) {
	var pos int64
	var count uint32

	for pos+framingSize <= fileSize {
		header, err := lf.window.ReadAt(pos, framingSize)
		if err != nil {
			return 0, 0, err
		}

		size := binary.LittleEndian.Uint32(header)
		if size == 0 {
			break
		}
		pos += int64(framingSize) + int64(size)
		count++
	}

	return count, pos, nil
}

// Append writes buf as a framed record and returns its 0-based index.
func (lf *ListFile) Append(buf []byte) (uint32, error) {
	framed := make([]byte, framingSize+len(buf))
	binary.LittleEndian.PutUint32(framed, uint32(len(buf)))
	copy(framed[framingSize:], buf)

	if _, err := lf.window.Write(framed); err != nil {
		return 0, err
	}

	idx := lf.count
	lf.count++
	return idx, nil
}

// Len returns how many records have been appended.
func (lf *ListFile) Len() uint32 {
	return lf.count
}

// Close releases the underlying mapping and file.
func (lf *ListFile) Close() error {
	lf.log.Infow("Closing list file", "count", lf.count)

	if err := lf.window.Close(); err != nil {
		return err
	}
	return lf.file.Close()
}

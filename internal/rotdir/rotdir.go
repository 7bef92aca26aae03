// Package rotdir implements RotDir (§4.5): a thread-safe directory manager
// that hands out up to max_files named file slots, reclaiming the oldest
// released slot once every slot has been used at least once.
package rotdir

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/iamNilotpal/passover/pkg/errors"
	"github.com/iamNilotpal/passover/pkg/filesys"
	"github.com/iamNilotpal/passover/pkg/rotname"
	"go.uber.org/zap"
)

// slot tracks one of the directory's fixed slots.
type slot struct {
	used         bool   // Has this slot ever been allocated?
	free         bool   // Is this slot currently released (deallocated)?
	fileName     string // Name of the file currently (or most recently) occupying this slot.
	deallocOrder uint64 // Stamp from RotDir.deallocCounter at release time; smaller is older.
}

// RotDir manages up to maxFiles named files within a single directory,
// reclaiming the oldest released slot when every slot is in use.
type RotDir struct {
	mu sync.Mutex

	dir        string
	maxFiles   uint32
	slots      []slot
	allocCtr   uint64
	deallocCtr uint64
	log        *zap.SugaredLogger
}

// New prepares the rotating directory at dir, creating it if necessary, and
// returns a RotDir able to hand out up to maxFiles slots.
func New(dir string, maxFiles uint32, log *zap.SugaredLogger) (*RotDir, error) {
	log.Infow("Creating rotating directory", "dir", dir, "maxFiles", maxFiles)

	if err := filesys.CreateDir(dir, 0755, true); err != nil {
		log.Errorw("Failed to create rotating directory", "error", err, "dir", dir)
		return nil, errors.ClassifyDirectoryCreationError(err, dir)
	}

	log.Infow("Rotating directory ready", "dir", dir, "maxFiles", maxFiles)
	return &RotDir{
		dir:      dir,
		maxFiles: maxFiles,
		slots:    make([]slot, maxFiles),
		log:      log,
	}, nil
}

// Allocate reserves a slot for prefix, unlinking any file the slot
// previously held, and returns the slot id plus the absolute path the
// caller should create.
func (d *RotDir) Allocate(prefix string) (int, string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	slotID := d.findFreeSlot()
	if slotID == -1 {
		return 0, "", errors.NewRotDirError(
			nil, errors.ErrorCodeOutOfSlots, "no rotating directory slot available for reclamation",
		).WithPrefix(prefix)
	}

	s := &d.slots[slotID]
	if s.used && s.fileName != "" {
		oldPath := filepath.Join(d.dir, s.fileName)
		if err := os.Remove(oldPath); err != nil && !os.IsNotExist(err) {
			d.log.Errorw("Failed to remove reclaimed slot's old file", "error", err, "slotID", slotID, "path", oldPath)
			return 0, "", errors.NewRotDirError(
				err, errors.ErrorCodeUnlinkFailed, "failed to remove reclaimed slot's old file",
			).WithSlotID(slotID).WithPrefix(prefix).WithPath(oldPath)
		}
		d.log.Infow("Reclaimed rotating directory slot", "slotID", slotID, "oldPath", oldPath)
	}

	name := rotname.Generate(prefix, d.allocCtr)
	d.allocCtr++

	s.used = true
	s.free = false
	s.fileName = name

	return slotID, filepath.Join(d.dir, name), nil
}

// Deallocate marks slotID as free, retaining its file on disk until the
// slot is reclaimed by a future Allocate call.
func (d *RotDir) Deallocate(slotID int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if slotID < 0 || slotID >= len(d.slots) {
		return errors.NewRotDirError(
			nil, errors.ErrorCodeInvalidInput, "slot id out of range",
		).WithSlotID(slotID)
	}

	s := &d.slots[slotID]
	s.free = true
	s.deallocOrder = d.deallocCtr
	d.deallocCtr++
	return nil
}

// findFreeSlot returns a never-used slot if one exists, else the
// deallocated slot with the smallest deallocOrder (oldest release), or -1
// if no slot is reclaimable. Callers must hold d.mu.
func (d *RotDir) findFreeSlot() int {
	for i := range d.slots {
		if !d.slots[i].used {
			return i
		}
	}

	best := -1
	var bestOrder uint64
	for i := range d.slots {
		if !d.slots[i].free {
			continue
		}
		if best == -1 || d.slots[i].deallocOrder < bestOrder {
			best = i
			bestOrder = d.slots[i].deallocOrder
		}
	}
	return best
}

// MaxFiles returns the configured slot count.
func (d *RotDir) MaxFiles() uint32 {
	return d.maxFiles
}

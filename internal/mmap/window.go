package mmap

// Window is an append-only write cursor layered over a MappedFile. Callers
// reserve space with Write (or Reserve, when the bytes are filled in place
// by the caller rather than copied), and Tell reports the absolute file
// offset the next write will land at.
type Window struct {
	mapped *MappedFile
	pos    int64
}

// NewWindow returns a Window starting at the given absolute file offset.
func NewWindow(mapped *MappedFile, startOffset int64) *Window {
	return &Window{mapped: mapped, pos: startOffset}
}

// Write copies buf into the mapped region at the cursor's current position,
// advances the cursor past it, and returns the absolute offset buf was
// written at.
func (w *Window) Write(buf []byte) (int64, error) {
	offset := w.pos
	dst, err := w.mapped.Map(offset, int64(len(buf)))
	if err != nil {
		return 0, err
	}

	copy(dst, buf)
	w.pos += int64(len(buf))
	return offset, nil
}

// Reserve maps size bytes at the cursor's current position without copying
// anything into it, advances the cursor past it, and returns both the
// absolute offset and the mapped slice for the caller to fill in place.
func (w *Window) Reserve(size int64) (int64, []byte, error) {
	offset := w.pos
	dst, err := w.mapped.Map(offset, size)
	if err != nil {
		return 0, nil, err
	}

	w.pos += size
	return offset, dst, nil
}

// ReadAt returns a view of size bytes at an absolute file offset without
// disturbing the cursor, for scanning records already on disk.
func (w *Window) ReadAt(offset, size int64) ([]byte, error) {
	return w.mapped.Map(offset, size)
}

// Tell returns the absolute file offset the next Write or Reserve will land at.
func (w *Window) Tell() int64 {
	return w.pos
}

// Seek repositions the cursor to an absolute file offset, for reopening a
// window over an existing file at a known tail position.
func (w *Window) Seek(offset int64) {
	w.pos = offset
}

// Close releases the underlying MappedFile's current mapping.
func (w *Window) Close() error {
	return w.mapped.Close()
}

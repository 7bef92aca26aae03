package mmap_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/passover/internal/mmap"
)

func openTemp(t *testing.T) *os.File {
	t.Helper()

	path := filepath.Join(t.TempDir(), "window.dat")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestMapWithinWindowDoesNotRemap(t *testing.T) {
	f := openTemp(t)

	mf, err := mmap.New(f, 64*1024, 16*1024)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { mf.Close() })

	data, err := mf.Map(0, 16)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	copy(data, []byte("hello world!!!!!"))

	data2, err := mf.Map(16, 16)
	if err != nil {
		t.Fatalf("Map second window: %v", err)
	}
	if len(data2) != 16 {
		t.Fatalf("expected 16 bytes, got %d", len(data2))
	}
}

func TestMapRejectsOversizedRequest(t *testing.T) {
	f := openTemp(t)

	mf, err := mmap.New(f, 4096, 1024)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { mf.Close() })

	if _, err := mf.Map(0, 8192); err == nil {
		t.Fatal("expected MAP_TOO_BIG error, got nil")
	}
}

func TestNewRejectsMapAheadNotSmallerThanMapSize(t *testing.T) {
	f := openTemp(t)

	if _, err := mmap.New(f, 4096, 4096); err == nil {
		t.Fatal("expected error when map_ahead_size >= map_size")
	}
}

func TestWindowWriteAdvancesCursorAndPersists(t *testing.T) {
	f := openTemp(t)

	mf, err := mmap.New(f, 64*1024, 16*1024)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { mf.Close() })

	w := mmap.NewWindow(mf, 0)

	first := []byte("record-one")
	offset, err := w.Write(first)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if offset != 0 {
		t.Fatalf("expected first write at offset 0, got %d", offset)
	}

	second := []byte("record-two")
	offset2, err := w.Write(second)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if offset2 != int64(len(first)) {
		t.Fatalf("expected second write at offset %d, got %d", len(first), offset2)
	}

	if w.Tell() != int64(len(first)+len(second)) {
		t.Fatalf("unexpected cursor position: %d", w.Tell())
	}

	readBack, err := mf.Map(0, int64(len(first)))
	if err != nil {
		t.Fatalf("Map read-back: %v", err)
	}
	if !bytes.Equal(readBack, first) {
		t.Fatalf("expected %q, got %q", first, readBack)
	}
}

func TestWindowReserveAdvancesWithoutCopying(t *testing.T) {
	f := openTemp(t)

	mf, err := mmap.New(f, 64*1024, 16*1024)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { mf.Close() })

	w := mmap.NewWindow(mf, 0)

	offset, dst, err := w.Reserve(8)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if offset != 0 || len(dst) != 8 {
		t.Fatalf("unexpected reserve result: offset=%d len=%d", offset, len(dst))
	}
	if w.Tell() != 8 {
		t.Fatalf("expected cursor at 8, got %d", w.Tell())
	}
}

func TestMapForcesRemapAcrossPageBoundary(t *testing.T) {
	f := openTemp(t)

	mf, err := mmap.New(f, 8192, 2048)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { mf.Close() })

	if _, err := mf.Map(0, 64); err != nil {
		t.Fatalf("Map near start: %v", err)
	}

	far := int64(1 << 20)
	data, err := mf.Map(far, 64)
	if err != nil {
		t.Fatalf("Map far offset: %v", err)
	}
	copy(data, []byte("far-write"))

	readBack, err := mf.Map(far, 9)
	if err != nil {
		t.Fatalf("Map read-back at far offset: %v", err)
	}
	if string(readBack) != "far-write" {
		t.Fatalf("expected far-write, got %q", readBack)
	}
}

package inttable_test

import (
	"testing"

	"github.com/iamNilotpal/passover/internal/inttable"
	"github.com/iamNilotpal/passover/pkg/errors"
)

func hashOf(addr uint64) uint64 {
	return addr >> 3
}

func TestSetThenGetRoundTrips(t *testing.T) {
	tbl := inttable.New(16)

	addr := uint64(0x7f0000001000)
	if err := tbl.Set(hashOf(addr), addr, 42); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := tbl.Get(hashOf(addr), addr)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestGetMissingKeyFails(t *testing.T) {
	tbl := inttable.New(16)

	_, err := tbl.Get(hashOf(1), 1)
	if err == nil {
		t.Fatal("expected KEY_MISSING error, got nil")
	}
	if !errors.IsIntHashTableError(err) {
		t.Fatalf("expected IntHashTableError, got %T", err)
	}
}

func TestSetReplacesExistingKey(t *testing.T) {
	tbl := inttable.New(16)

	addr := uint64(0x1000)
	if err := tbl.Set(hashOf(addr), addr, 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := tbl.Set(hashOf(addr), addr, 2); err != nil {
		t.Fatalf("Set replace: %v", err)
	}

	got, err := tbl.Get(hashOf(addr), addr)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != 2 {
		t.Fatalf("expected replaced value 2, got %d", got)
	}
	if tbl.Len() != 1 {
		t.Fatalf("expected a single entry after replace, got %d", tbl.Len())
	}
}

func TestSetFailsWhenTableFull(t *testing.T) {
	tbl := inttable.New(2)

	if err := tbl.Set(hashOf(8), 8, 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := tbl.Set(hashOf(16), 16, 2); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := tbl.Set(hashOf(24), 24, 3); err == nil {
		t.Fatal("expected TABLE_FULL error, got nil")
	}
}

func TestCollidingKeysChainWithinSameBucket(t *testing.T) {
	tbl := inttable.New(4)

	if err := tbl.Set(0, 1, 10); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := tbl.Set(0, 2, 20); err != nil {
		t.Fatalf("Set: %v", err)
	}

	v1, err := tbl.Get(0, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	v2, err := tbl.Get(0, 2)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if v1 != 10 || v2 != 20 {
		t.Fatalf("unexpected values after collision: v1=%d v2=%d", v1, v2)
	}
}

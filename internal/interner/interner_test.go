package interner_test

import (
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/passover/internal/interner"
	"github.com/iamNilotpal/passover/internal/inttable"
	"github.com/iamNilotpal/passover/internal/listfile"
	"github.com/iamNilotpal/passover/internal/packwriter"

	"go.uber.org/zap"
)

func newInterner(t *testing.T) *interner.Interner {
	t.Helper()

	path := filepath.Join(t.TempDir(), "codepoints.list")
	lf, err := listfile.Open(path, 64*1024, 16*1024, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("listfile.Open: %v", err)
	}
	t.Cleanup(func() { lf.Close() })

	table := inttable.New(1024)
	scratch := packwriter.New(4096)
	return interner.New(table, lf, scratch)
}

func TestGetOrCreateAssignsCodepointOnFirstSight(t *testing.T) {
	in := newInterner(t)

	d := interner.PyFuncDescriptor{Addr: 0x1000, Filename: "mod.py", FuncName: "handler", FirstLine: 12}
	cp, err := in.GetOrCreate(d)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if cp != 0 {
		t.Fatalf("expected first codepoint to be 0, got %d", cp)
	}
}

func TestGetOrCreateIsStableAcrossCalls(t *testing.T) {
	in := newInterner(t)

	d := interner.CFuncDescriptor{Addr: 0x2000, Module: "builtins", Name: "len"}
	first, err := in.GetOrCreate(d)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	for i := 0; i < 3; i++ {
		again, err := in.GetOrCreate(d)
		if err != nil {
			t.Fatalf("GetOrCreate repeat: %v", err)
		}
		if again != first {
			t.Fatalf("expected stable codepoint %d, got %d", first, again)
		}
	}
}

func TestGetOrCreateAssignsDistinctCodepoints(t *testing.T) {
	in := newInterner(t)

	a, err := in.GetOrCreate(interner.PyFuncDescriptor{Addr: 1, Filename: "a.py", FuncName: "f"})
	if err != nil {
		t.Fatalf("GetOrCreate a: %v", err)
	}
	b, err := in.GetOrCreate(interner.PyFuncDescriptor{Addr: 2, Filename: "b.py", FuncName: "g"})
	if err != nil {
		t.Fatalf("GetOrCreate b: %v", err)
	}

	if a == b {
		t.Fatalf("expected distinct codepoints, got %d for both", a)
	}
}

func TestGetOrCreateLoglineRequiresFormat(t *testing.T) {
	in := newInterner(t)

	_, err := in.GetOrCreate(interner.LoglineDescriptor{Addr: 0x3000})
	if err == nil {
		t.Fatal("expected LOGLINE_NOT_STRING error, got nil")
	}
}

func TestGetOrCreateLoglineSucceedsWithFormat(t *testing.T) {
	in := newInterner(t)

	cp, err := in.GetOrCreate(interner.LoglineDescriptor{Addr: 0x4000, Format: []byte("request %s took %dms")})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if cp != 0 {
		t.Fatalf("expected codepoint 0, got %d", cp)
	}
}

package hook_test

import (
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/passover/internal/clock"
	"github.com/iamNilotpal/passover/internal/hook"
	"github.com/iamNilotpal/passover/internal/interner"
	"github.com/iamNilotpal/passover/internal/inttable"
	"github.com/iamNilotpal/passover/internal/listfile"
	"github.com/iamNilotpal/passover/internal/packwriter"
	"github.com/iamNilotpal/passover/internal/rotdir"
	"github.com/iamNilotpal/passover/internal/rotrec"
	"github.com/iamNilotpal/passover/internal/tracer"

	"go.uber.org/zap"
)

func newDispatcher(t *testing.T) (*hook.HookDispatcher, *hook.FlagStore) {
	t.Helper()

	root := t.TempDir()

	rd, err := rotdir.New(filepath.Join(root, "rotating"), 8, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("rotdir.New: %v", err)
	}
	rec, err := rotrec.New(rd, "trace", 64*1024, 4096, 1024, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("rotrec.New: %v", err)
	}
	t.Cleanup(func() { rec.Close() })

	codepoints, err := listfile.Open(filepath.Join(root, "codepoints.list"), 64*1024, 16*1024, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("listfile.Open: %v", err)
	}
	t.Cleanup(func() { codepoints.Close() })

	timeIndex, err := listfile.Open(filepath.Join(root, "timeindex.list"), 64*1024, 16*1024, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("listfile.Open: %v", err)
	}
	t.Cleanup(func() { timeIndex.Close() })

	table := inttable.New(1024)
	in := interner.New(table, codepoints, packwriter.New(4096))

	clk, err := clock.New()
	if err != nil {
		t.Fatalf("clock.New: %v", err)
	}

	tr := tracer.New(tracer.Config{
		Rec:           rec,
		Codepoints:    codepoints,
		TimeIndex:     timeIndex,
		RecWriter:     packwriter.New(4096),
		InternTable:   in,
		Clock:         clk,
		IndexInterval: 1_000_000,
	})

	store := hook.NewFlagStore()
	d := hook.New(tr, store)
	if err := d.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { d.Stop() })

	return d, store
}

func TestOnCallRecordsByDefault(t *testing.T) {
	d, _ := newDispatcher(t)
	fn := interner.PyFuncDescriptor{Addr: 0x1000, Filename: "a.py", FuncName: "f"}

	recorded, err := d.OnCall(fn.Addr, fn, nil)
	if err != nil {
		t.Fatalf("OnCall: %v", err)
	}
	if !recorded {
		t.Fatal("expected call to be recorded by default")
	}
}

func TestIgnoredSingleSkipsOnlyThatCall(t *testing.T) {
	d, store := newDispatcher(t)
	fn := interner.PyFuncDescriptor{Addr: 0x2000, Filename: "a.py", FuncName: "quiet"}
	store.SetFlags(fn.Addr, hook.IgnoredSingle)

	recorded, err := d.OnCall(fn.Addr, fn, nil)
	if err != nil {
		t.Fatalf("OnCall: %v", err)
	}
	if recorded {
		t.Fatal("expected IGNORED_SINGLE call to be skipped")
	}

	other := interner.PyFuncDescriptor{Addr: 0x2001, Filename: "a.py", FuncName: "sibling"}
	recorded2, err := d.OnCall(other.Addr, other, nil)
	if err != nil {
		t.Fatalf("OnCall sibling: %v", err)
	}
	if !recorded2 {
		t.Fatal("expected an unrelated call to still be recorded")
	}
}

func TestIgnoredChildrenSuppressesDescendants(t *testing.T) {
	d, store := newDispatcher(t)
	parent := interner.PyFuncDescriptor{Addr: 0x3000, Filename: "a.py", FuncName: "parent"}
	child := interner.PyFuncDescriptor{Addr: 0x3001, Filename: "a.py", FuncName: "child"}
	store.SetFlags(parent.Addr, hook.IgnoredChildren)

	parentRecorded, err := d.OnCall(parent.Addr, parent, nil)
	if err != nil {
		t.Fatalf("OnCall parent: %v", err)
	}
	if !parentRecorded {
		t.Fatal("expected parent itself to be recorded under IGNORED_CHILDREN")
	}

	childRecorded, err := d.OnCall(child.Addr, child, nil)
	if err != nil {
		t.Fatalf("OnCall child: %v", err)
	}
	if childRecorded {
		t.Fatal("expected child call to be suppressed under parent's IGNORED_CHILDREN")
	}

	if _, err := d.OnReturn(child.Addr, child, tracer.None()); err != nil {
		t.Fatalf("OnReturn child: %v", err)
	}
	if _, err := d.OnReturn(parent.Addr, parent, tracer.None()); err != nil {
		t.Fatalf("OnReturn parent: %v", err)
	}

	grandchild := interner.PyFuncDescriptor{Addr: 0x3002, Filename: "a.py", FuncName: "after"}
	recorded, err := d.OnCall(grandchild.Addr, grandchild, nil)
	if err != nil {
		t.Fatalf("OnCall after parent returned: %v", err)
	}
	if !recorded {
		t.Fatal("expected recording to resume once IGNORED_CHILDREN frame has returned")
	}
}

func TestIgnoredWholeSkipsOwnCallAndDescendants(t *testing.T) {
	d, store := newDispatcher(t)
	parent := interner.PyFuncDescriptor{Addr: 0x3100, Filename: "a.py", FuncName: "whole"}
	child := interner.PyFuncDescriptor{Addr: 0x3101, Filename: "a.py", FuncName: "child"}
	store.SetFlags(parent.Addr, hook.IgnoredWhole)

	parentRecorded, err := d.OnCall(parent.Addr, parent, nil)
	if err != nil {
		t.Fatalf("OnCall parent: %v", err)
	}
	if parentRecorded {
		t.Fatal("expected IGNORED_WHOLE function's own CALL to be skipped")
	}

	childRecorded, err := d.OnCall(child.Addr, child, nil)
	if err != nil {
		t.Fatalf("OnCall child: %v", err)
	}
	if childRecorded {
		t.Fatal("expected child call to be suppressed under parent's IGNORED_WHOLE")
	}

	if _, err := d.OnReturn(child.Addr, child, tracer.None()); err != nil {
		t.Fatalf("OnReturn child: %v", err)
	}
	if _, err := d.OnReturn(parent.Addr, parent, tracer.None()); err != nil {
		t.Fatalf("OnReturn parent: %v", err)
	}

	sibling := interner.PyFuncDescriptor{Addr: 0x3102, Filename: "a.py", FuncName: "after"}
	recorded, err := d.OnCall(sibling.Addr, sibling, nil)
	if err != nil {
		t.Fatalf("OnCall after parent returned: %v", err)
	}
	if !recorded {
		t.Fatal("expected recording to resume once IGNORED_WHOLE frame has returned")
	}
}

func TestStartFailsWhenAlreadyStarted(t *testing.T) {
	d, _ := newDispatcher(t)

	if err := d.Start(); err == nil {
		t.Fatal("expected ALREADY_STARTED error on second Start, got nil")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	d, _ := newDispatcher(t)

	if err := d.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := d.Stop(); err != nil {
		t.Fatalf("Stop again: %v", err)
	}
	if d.Active() {
		t.Fatal("expected dispatcher to be inactive after Stop")
	}
}

func TestOnCallSkippedAfterStop(t *testing.T) {
	d, _ := newDispatcher(t)
	if err := d.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	fn := interner.PyFuncDescriptor{Addr: 0x4000, Filename: "a.py", FuncName: "f"}
	recorded, err := d.OnCall(fn.Addr, fn, nil)
	if err != nil {
		t.Fatalf("OnCall: %v", err)
	}
	if recorded {
		t.Fatal("expected no recording once dispatcher is stopped")
	}
}

func TestLoggerCallEmitsLogAndReturnIsSkipped(t *testing.T) {
	d, _ := newDispatcher(t)
	logline := interner.LoglineDescriptor{Addr: 0x5000, Format: []byte("hit %s")}
	d.SetLoggerIdentity(logline.Addr)

	if !d.IsLoggerIdentity(logline.Addr) {
		t.Fatal("expected logger identity to be recognized")
	}

	if err := d.OnLoggerCall(logline, [][]byte{[]byte("/ok")}); err != nil {
		t.Fatalf("OnLoggerCall: %v", err)
	}
	if err := d.OnLoggerReturn(); err != nil {
		t.Fatalf("OnLoggerReturn: %v", err)
	}
}

package tracer_test

import (
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/passover/internal/clock"
	"github.com/iamNilotpal/passover/internal/interner"
	"github.com/iamNilotpal/passover/internal/inttable"
	"github.com/iamNilotpal/passover/internal/listfile"
	"github.com/iamNilotpal/passover/internal/packwriter"
	"github.com/iamNilotpal/passover/internal/rotdir"
	"github.com/iamNilotpal/passover/internal/rotrec"
	"github.com/iamNilotpal/passover/internal/tracer"

	"go.uber.org/zap"
)

func newTracer(t *testing.T) *tracer.Tracer {
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
		t.Fatalf("listfile.Open codepoints: %v", err)
	}
	t.Cleanup(func() { codepoints.Close() })

	timeIndex, err := listfile.Open(filepath.Join(root, "timeindex.list"), 64*1024, 16*1024, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("listfile.Open timeindex: %v", err)
	}
	t.Cleanup(func() { timeIndex.Close() })

	table := inttable.New(1024)
	cpScratch := packwriter.New(4096)
	in := interner.New(table, codepoints, cpScratch)

	clk, err := clock.New()
	if err != nil {
		t.Fatalf("clock.New: %v", err)
	}

	return tracer.New(tracer.Config{
		Rec:           rec,
		Codepoints:    codepoints,
		TimeIndex:     timeIndex,
		RecWriter:     packwriter.New(4096),
		InternTable:   in,
		Clock:         clk,
		IndexInterval: 1_000_000,
	})
}

func TestRecordPyCallThenRetSharesDepth(t *testing.T) {
	tr := newTracer(t)

	fn := interner.PyFuncDescriptor{Addr: 0x1000, Filename: "mod.py", FuncName: "handler", FirstLine: 3}

	if _, err := tr.RecordPyCall(fn, []tracer.Arg{tracer.Int(5)}); err != nil {
		t.Fatalf("RecordPyCall: %v", err)
	}
	if tr.Depth() != 1 {
		t.Fatalf("expected depth 1 after call, got %d", tr.Depth())
	}

	if _, err := tr.RecordPyRet(fn, tracer.None()); err != nil {
		t.Fatalf("RecordPyRet: %v", err)
	}
	if tr.Depth() != 0 {
		t.Fatalf("expected depth 0 after matching return, got %d", tr.Depth())
	}
}

func TestRecordOffsetsAreIncreasing(t *testing.T) {
	tr := newTracer(t)
	fn := interner.PyFuncDescriptor{Addr: 0x2000, Filename: "a.py", FuncName: "f"}

	off1, err := tr.RecordPyCall(fn, nil)
	if err != nil {
		t.Fatalf("RecordPyCall: %v", err)
	}
	off2, err := tr.RecordPyRet(fn, tracer.None())
	if err != nil {
		t.Fatalf("RecordPyRet: %v", err)
	}

	if off2 <= off1 {
		t.Fatalf("expected increasing offsets, got %d then %d", off1, off2)
	}
}

func TestRecordCRetDoesNotUnderflowDepth(t *testing.T) {
	tr := newTracer(t)
	fn := interner.CFuncDescriptor{Addr: 0x3000, Module: "builtins", Name: "len"}

	if _, err := tr.RecordCRet(fn); err != nil {
		t.Fatalf("RecordCRet on empty stack: %v", err)
	}
	if tr.Depth() != 0 {
		t.Fatalf("expected depth to stay at 0, got %d", tr.Depth())
	}
}

func TestRecordLogDoesNotChangeDepth(t *testing.T) {
	tr := newTracer(t)
	fn := interner.PyFuncDescriptor{Addr: 0x4000, Filename: "a.py", FuncName: "f"}

	if _, err := tr.RecordPyCall(fn, nil); err != nil {
		t.Fatalf("RecordPyCall: %v", err)
	}

	logline := interner.LoglineDescriptor{Addr: 0x5000, Format: []byte("request %s")}
	if _, err := tr.RecordLog(logline, [][]byte{[]byte("/health")}); err != nil {
		t.Fatalf("RecordLog: %v", err)
	}

	if tr.Depth() != 1 {
		t.Fatalf("expected LOG to leave depth unchanged at 1, got %d", tr.Depth())
	}
}

package passover_test

import (
	"context"
	"testing"

	"github.com/iamNilotpal/passover/pkg/options"
	"github.com/iamNilotpal/passover/pkg/passover"
)

func newInstance(t *testing.T) *passover.Instance {
	t.Helper()

	root := t.TempDir()
	inst, err := passover.NewInstance(
		context.Background(), "test-service",
		options.WithRootDir(root),
		options.WithFileDataSize(64*1024),
		options.WithMapSize(4096),
		options.WithMapAheadSize(1024),
		options.WithInternerCapacity(1024),
		options.WithPackWriterCapacity(4096),
	)
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	t.Cleanup(func() { inst.Close(context.Background()) })
	return inst
}

func TestInstanceLifecycleRecordsCallAndReturn(t *testing.T) {
	inst := newInstance(t)

	if err := inst.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	fn := passover.PyFuncDescriptor{Addr: 0x1000, Filename: "a.py", FuncName: "handler"}
	recorded, err := inst.Events().Call(fn.Addr, fn, []passover.Arg{passover.IntArg(1)})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !recorded {
		t.Fatal("expected call to be recorded")
	}

	recorded, err = inst.Events().Return(fn.Addr, fn, passover.NoneArg())
	if err != nil {
		t.Fatalf("Return: %v", err)
	}
	if !recorded {
		t.Fatal("expected return to be recorded")
	}

	if inst.CallDepth() != 0 {
		t.Fatalf("expected call depth to return to 0, got %d", inst.CallDepth())
	}
}

func TestInstanceHonorsIgnoreFlags(t *testing.T) {
	inst := newInstance(t)
	if err := inst.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	fn := passover.PyFuncDescriptor{Addr: 0x2000, Filename: "a.py", FuncName: "quiet"}
	inst.SetFlags(fn.Addr, passover.IgnoredSingle)

	recorded, err := inst.Events().Call(fn.Addr, fn, nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if recorded {
		t.Fatal("expected IGNORED_SINGLE call to be skipped")
	}
}

func TestInstanceNotActiveBeforeStart(t *testing.T) {
	inst := newInstance(t)
	if inst.Active() {
		t.Fatal("expected instance to be inactive before Start")
	}
}

func TestInstanceLoggerShortcut(t *testing.T) {
	inst := newInstance(t)
	if err := inst.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	logline := passover.LoglineDescriptor{Addr: 0x3000, Format: []byte("hit %s")}
	inst.SetLoggerIdentity(logline.Addr)

	if !inst.Events().IsLoggerIdentity(logline.Addr) {
		t.Fatal("expected logger identity to be recognized")
	}

	if err := inst.Events().LoggerCall(logline, [][]byte{[]byte("/ok")}); err != nil {
		t.Fatalf("LoggerCall: %v", err)
	}
	if err := inst.Events().LoggerReturn(); err != nil {
		t.Fatalf("LoggerReturn: %v", err)
	}
}

// Package interner implements Interner (§4.8): a cache from a host-runtime
// object's identity to a small u16 codepoint, backed by a codepoint
// ListFile and an IntHashTable index. Misses append a serialized descriptor
// to the list file before publishing the mapping, so a crash between the
// two leaves at most an orphaned, never a dangling, codepoint.
package interner

import (
	"github.com/iamNilotpal/passover/internal/inttable"
	"github.com/iamNilotpal/passover/internal/listfile"
	"github.com/iamNilotpal/passover/internal/packwriter"
	"github.com/iamNilotpal/passover/pkg/errors"
)

// Kind distinguishes the codepoint payload schemas sharing the codepoint
// list file (§6 "Codepoint payload schemas").
type Kind uint8

const (
	KindLogline Kind = 1
	KindPyFunc  Kind = 2
	KindCFunc   Kind = 3
)

// Descriptor is anything the interner can assign a codepoint to: a stable
// identity (the host object's address, or any other value that is constant
// for the object's lifetime) plus enough information to serialize it on
// first sight.
type Descriptor interface {
	Identity() uint64
	Kind() Kind
}

// LoglineDescriptor names the logger shortcut's designated code object.
type LoglineDescriptor struct {
	Addr   uint64
	Format []byte
}

func (d LoglineDescriptor) Identity() uint64 { return d.Addr }
func (d LoglineDescriptor) Kind() Kind        { return KindLogline }

// PyFuncDescriptor names a pure Python function by its code object.
type PyFuncDescriptor struct {
	Addr      uint64
	Filename  string
	FuncName  string
	FirstLine uint32
}

func (d PyFuncDescriptor) Identity() uint64 { return d.Addr }
func (d PyFuncDescriptor) Kind() Kind        { return KindPyFunc }

// CFuncDescriptor names a native (C-implemented) function.
type CFuncDescriptor struct {
	Addr   uint64
	Module string // empty when the native function has no owning module
	Name   string
}

func (d CFuncDescriptor) Identity() uint64 { return d.Addr }
func (d CFuncDescriptor) Kind() Kind        { return KindCFunc }

// Interner caches object identity → codepoint, appending a serialized
// descriptor to its codepoint list file on first sight.
type Interner struct {
	table   *inttable.IntHashTable
	list    *listfile.ListFile
	scratch *packwriter.PackWriter
}

// New returns an Interner backed by table for lookups and list for
// durable codepoint storage, using scratch to stage each new descriptor.
func New(table *inttable.IntHashTable, list *listfile.ListFile, scratch *packwriter.PackWriter) *Interner {
	return &Interner{table: table, list: list, scratch: scratch}
}

// GetOrCreate returns d's codepoint, assigning and persisting a new one on
// first sight of d's identity.
func (in *Interner) GetOrCreate(d Descriptor) (uint16, error) {
	key := d.Identity()
	hash := key >> 3

	if cp, err := in.table.Get(hash, key); err == nil {
		return cp, nil
	} else if !errors.IsIntHashTableError(err) {
		return 0, err
	}

	in.scratch.Clear()
	if err := in.save(d); err != nil {
		return 0, err
	}

	idx, err := in.list.Append(in.scratch.Buffer())
	if err != nil {
		return 0, err
	}

	cp := uint16(idx)
	if err := in.table.Set(hash, key, cp); err != nil {
		return 0, err
	}

	return cp, nil
}

// save serializes d into the scratch buffer per its codepoint kind.
func (in *Interner) save(d Descriptor) error {
	switch v := d.(type) {
	case LoglineDescriptor:
		return in.saveLogline(v)
	case PyFuncDescriptor:
		return in.savePyFunc(v)
	case CFuncDescriptor:
		return in.saveCFunc(v)
	default:
		return errors.NewInternerError(
			nil, errors.ErrorCodeInternal, "unrecognized codepoint descriptor kind",
		).WithOperation("save")
	}
}

func (in *Interner) saveLogline(d LoglineDescriptor) error {
	if d.Format == nil {
		return errors.NewInternerError(
			nil, errors.ErrorCodeLoglineNotString, "logger shortcut codepoint requires a byte-string format",
		).WithObjectIdentity(d.Addr).WithOperation("save_logline")
	}

	if err := in.scratch.DumpU8(uint8(KindLogline)); err != nil {
		return err
	}
	return in.scratch.DumpPstr(d.Format)
}

func (in *Interner) savePyFunc(d PyFuncDescriptor) error {
	if err := in.scratch.DumpU8(uint8(KindPyFunc)); err != nil {
		return err
	}
	if err := in.scratch.DumpCstr(d.Filename); err != nil {
		return err
	}
	if err := in.scratch.DumpCstr(d.FuncName); err != nil {
		return err
	}
	return in.scratch.DumpU32(d.FirstLine)
}

func (in *Interner) saveCFunc(d CFuncDescriptor) error {
	if err := in.scratch.DumpU8(uint8(KindCFunc)); err != nil {
		return err
	}
	if err := in.scratch.DumpCstr(d.Module); err != nil {
		return err
	}
	return in.scratch.DumpCstr(d.Name)
}

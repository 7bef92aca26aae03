// Package inttable implements IntHashTable (§4.4): a fixed-capacity,
// externally-hashed integer-keyed map used by the interner to go from an
// object's identity to its codepoint. Collisions chain through an index
// into a flat bucket array; no deletion is needed since the interner is
// append-only for the lifetime of a tracer.
package inttable

import "github.com/iamNilotpal/passover/pkg/errors"

// entry is one chained bucket slot: a key/value pair plus the index of the
// next entry in the same chain, or -1 at the end of the chain.
type entry struct {
	key  uint64
	val  uint16
	next int
}

// IntHashTable maps u64 keys to u16 values over a fixed number of buckets,
// sized at construction and never grown.
type IntHashTable struct {
	heads    []int // one slot per bucket, index into entries or -1 if empty.
	entries  []entry
	capacity int
}

// New returns an IntHashTable with room for up to capacity entries. capacity
// also sizes the bucket-head array; per §4.4 it should not be a power of
// two, so hash-to-head reduction spreads keys evenly.
func New(capacity uint32) *IntHashTable {
	heads := make([]int, capacity)
	for i := range heads {
		heads[i] = -1
	}

	return &IntHashTable{
		heads:    heads,
		entries:  make([]entry, 0, capacity),
		capacity: int(capacity),
	}
}

// Get looks up key using the caller-supplied hash, returning KEY_MISSING if
// it is absent.
func (t *IntHashTable) Get(hash uint64, key uint64) (uint16, error) {
	head := t.heads[int(hash%uint64(len(t.heads)))]
	for i := head; i != -1; i = t.entries[i].next {
		if t.entries[i].key == key {
			return t.entries[i].val, nil
		}
	}

	return 0, errors.NewIntHashTableError(
		nil, errors.ErrorCodeKeyMissing, "key not found in interner table",
	).WithKey(key).WithSize(len(t.entries))
}

// Set replaces the value for key if already present, otherwise appends a
// new chained entry. It fails with TABLE_FULL when the table's fixed
// capacity is already exhausted and key is new.
func (t *IntHashTable) Set(hash uint64, key uint64, val uint16) error {
	bucket := int(hash % uint64(len(t.heads)))
	head := t.heads[bucket]

	for i := head; i != -1; i = t.entries[i].next {
		if t.entries[i].key == key {
			t.entries[i].val = val
			return nil
		}
	}

	if len(t.entries) >= t.capacity {
		return errors.NewIntHashTableError(
			nil, errors.ErrorCodeTableFull, "interner table is at fixed capacity",
		).WithKey(key).WithCapacity(t.capacity).WithSize(len(t.entries))
	}

	idx := len(t.entries)
	t.entries = append(t.entries, entry{key: key, val: val, next: head})
	t.heads[bucket] = idx
	return nil
}

// Len returns how many entries are currently stored.
func (t *IntHashTable) Len() int {
	return len(t.entries)
}

// Capacity returns the table's fixed entry capacity.
func (t *IntHashTable) Capacity() int {
	return t.capacity
}

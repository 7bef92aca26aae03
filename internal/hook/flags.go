package hook

import "sync"

// Flags are the per-function bits a HookDispatcher consults before
// recording a call or return (§4.10).
type Flags uint32

const (
	// IgnoredSingle means the function's own call/return is not recorded.
	IgnoredSingle Flags = 0x02000000

	// IgnoredChildren means the function is recorded, but while it is on
	// the stack all descendants are suppressed.
	IgnoredChildren Flags = 0x04000000

	// IgnoredWhole is IgnoredSingle | IgnoredChildren.
	IgnoredWhole = IgnoredSingle | IgnoredChildren

	// Detailed is reserved for a future per-event verbose mode; payloads
	// are unchanged at this revision (§4.10).
	Detailed Flags = 0x08000000
)

// FlagStore holds per-function flags keyed by the function descriptor's
// identity, supplementing the source's _passover.c flag setter/clearer
// functions: SetFlags/ClearFlags mutate a function's recognized flags
// without requiring the descriptor type itself to carry mutable state.
type FlagStore struct {
	mu    sync.Mutex
	flags map[uint64]Flags
}

// NewFlagStore returns an empty FlagStore.
func NewFlagStore() *FlagStore {
	return &FlagStore{flags: make(map[uint64]Flags)}
}

// Get returns the flags currently recognized for identity, or 0 if none
// have been set.
func (s *FlagStore) Get(identity uint64) Flags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flags[identity]
}

// SetFlags ORs f into identity's recognized flags.
func (s *FlagStore) SetFlags(identity uint64, f Flags) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[identity] |= f
}

// ClearFlags clears f from identity's recognized flags.
func (s *FlagStore) ClearFlags(identity uint64, f Flags) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[identity] &^= f
}

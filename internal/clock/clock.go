// Package clock implements the tracer's low-overhead monotonic microsecond
// clock (§4.1). The source calibrates a cycle counter once at startup and
// periodically re-syncs a boot offset against wall time to bound drift;
// Go's runtime already gives every process an allocation-free, lock-free
// monotonic clock reading through time.Now(), so the cycle-counter
// calibration step has no Go equivalent to call out to (there is no
// portable, non-cgo way to read rdtsc). No periodic re-sync against wall
// time is performed: the epoch is fixed when the Clock is created, and every
// reading is measured from it on Go's monotonic clock.
package clock

import "time"

// syncInterval is HPTIME_SYNC_INTERVAL (§4.1): how often NowUsec refreshes
// lastSync. The epoch itself is never re-derived.
const syncInterval = time.Second

// Clock returns monotonic microsecond timestamps. A zero Clock is not ready
// for use; construct one with New.
//
// Clock.Now is safe to call from the hot hook-dispatch path: it performs a
// single time.Now() call (no allocation, no locks) and, once per
// syncInterval, an assignment to lastSync.
type Clock struct {
	epoch    time.Time // instant treated as microsecond 0; fixed at New.
	lastSync time.Time // last time NowUsec crossed a syncInterval boundary.
}

// New calibrates and returns a new Clock. Calibration is a single
// time.Now() read and cannot fail; the source's "failure of calibration is
// fatal at init" contract is preserved in signature even though this
// implementation has no failure mode, so callers that plumb the error
// through (e.g. tracer construction) keep working if a future platform-
// specific calibration strategy is introduced.
func New() (*Clock, error) {
	now := time.Now()
	return &Clock{epoch: now, lastSync: now}, nil
}

// NowUsec returns microseconds since the Clock's epoch, monotonic for the
// lifetime of the Clock, since the difference is taken on Go's monotonic
// clock. Once per syncInterval it records the current time in lastSync; the
// epoch is not changed, so readings are never rebased against wall time.
func (c *Clock) NowUsec() uint64 {
	now := time.Now()
	if now.Sub(c.lastSync) >= syncInterval {
		c.lastSync = now
	}
	return uint64(now.Sub(c.epoch).Microseconds())
}

package clock_test

import (
	"testing"
	"time"

	"github.com/iamNilotpal/passover/internal/clock"
)

func TestNowUsecMonotonic(t *testing.T) {
	c, err := clock.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	first := c.NowUsec()
	time.Sleep(time.Millisecond)
	second := c.NowUsec()

	if second <= first {
		t.Fatalf("expected monotonic increase, got first=%d second=%d", first, second)
	}
}

func TestNowUsecNeverNegative(t *testing.T) {
	c, err := clock.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if ts := c.NowUsec(); ts > 1<<40 {
		t.Fatalf("expected a small microsecond offset near zero, got %d", ts)
	}
}

package common

import (
	"net/http"
	"testing"
	"time"
)

// fakeClock advances instantly on Sleep and records how long it slept.
type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
}

func (c *fakeClock) totalSlept() time.Duration {
	var total time.Duration
	for _, d := range c.slept {
		total += d
	}
	return total
}

func newTestGuard() (*QuotaGuard, *fakeClock) {
	clock := newFakeClock()
	guard := NewQuotaGuard(NewCacheService(300, 600), 5, 30*time.Second).WithClock(clock)
	return guard, clock
}

func TestWait_NoStateProceedsImmediately(t *testing.T) {
	guard, clock := newTestGuard()

	guard.Wait()

	if len(clock.slept) != 0 {
		t.Errorf("Expected no sleep, slept %v", clock.slept)
	}
}

func TestWait_LowQuotaBlocksUntilReset(t *testing.T) {
	guard, clock := newTestGuard()

	headers := http.Header{}
	headers.Set("X-RateLimit-Remaining", "3")
	headers.Set("X-RateLimit-Reset", "10")
	guard.ObserveHeaders(headers)

	guard.Wait()

	if got := clock.totalSlept(); got != 10*time.Second {
		t.Errorf("Expected 10s sleep before proceeding, got %v", got)
	}
}

func TestWait_LowWaterBoundary(t *testing.T) {
	// lowWater in newTestGuard is 5; the mark itself blocks, one above does not.
	guard, clock := newTestGuard()

	headers := http.Header{}
	headers.Set("X-RateLimit-Remaining", "5")
	headers.Set("X-RateLimit-Reset", "10")
	guard.ObserveHeaders(headers)

	guard.Wait()
	if got := clock.totalSlept(); got != 10*time.Second {
		t.Errorf("Expected block at the low-water mark, slept %v", got)
	}

	guard, clock = newTestGuard()
	headers.Set("X-RateLimit-Remaining", "6")
	guard.ObserveHeaders(headers)

	guard.Wait()
	if len(clock.slept) != 0 {
		t.Errorf("Expected no block above the low-water mark, slept %v", clock.slept)
	}
}

func TestWait_HealthyQuotaDoesNotBlock(t *testing.T) {
	guard, clock := newTestGuard()

	headers := http.Header{}
	headers.Set("X-RateLimit-Remaining", "80")
	headers.Set("X-RateLimit-Reset", "10")
	guard.ObserveHeaders(headers)

	guard.Wait()

	if len(clock.slept) != 0 {
		t.Errorf("Expected no sleep with healthy quota, slept %v", clock.slept)
	}
}

func TestWait_DistantResetDoesNotBlock(t *testing.T) {
	guard, clock := newTestGuard()

	headers := http.Header{}
	headers.Set("X-RateLimit-Remaining", "2")
	headers.Set("X-RateLimit-Reset", "300")
	guard.ObserveHeaders(headers)

	guard.Wait()

	if len(clock.slept) != 0 {
		t.Errorf("Expected no sleep for a distant reset window, slept %v", clock.slept)
	}
}

func TestOnRateLimited_RetryAfterHonored(t *testing.T) {
	guard, clock := newTestGuard()

	headers := http.Header{}
	headers.Set("Retry-After", "17")
	err := guard.OnRateLimited(headers)

	if err == nil {
		t.Fatal("Expected a rate limit error")
	}
	if err.RetryAfter != 17*time.Second {
		t.Errorf("Expected 17s retry-after, got %v", err.RetryAfter)
	}

	guard.Wait()
	if got := clock.totalSlept(); got != 17*time.Second {
		t.Errorf("Expected cooldown sleep of 17s, got %v", got)
	}
}

func TestOnRateLimited_DefaultCooldown(t *testing.T) {
	guard, _ := newTestGuard()

	err := guard.OnRateLimited(http.Header{})
	if err == nil {
		t.Fatal("Expected a rate limit error")
	}
	if err.RetryAfter != 30*time.Second {
		t.Errorf("Expected default 30s cooldown, got %v", err.RetryAfter)
	}
}

func TestWait_CooldownServedOnlyOnce(t *testing.T) {
	guard, clock := newTestGuard()

	guard.OnRateLimited(http.Header{})
	guard.Wait()

	sleptOnce := clock.totalSlept()
	if sleptOnce != 30*time.Second {
		t.Fatalf("Expected 30s cooldown sleep, got %v", sleptOnce)
	}

	guard.Wait()
	if got := clock.totalSlept(); got != sleptOnce {
		t.Errorf("Second Wait should not sleep again, total %v", got)
	}
}

func TestObserveHeaders_AbsoluteResetTimestamp(t *testing.T) {
	guard, clock := newTestGuard()

	headers := http.Header{}
	headers.Set("X-RateLimit-Remaining", "1")
	headers.Set("X-RateLimit-Reset", "1748779208")

	guard.ObserveHeaders(headers)

	// 2025-06-01 12:00:08 UTC is 8 seconds past the fake clock's epoch.
	guard.Wait()
	if got := clock.totalSlept(); got != 8*time.Second {
		t.Errorf("Expected 8s sleep from absolute reset timestamp, got %v", got)
	}
}

func TestObserveHeaders_GarbageIgnored(t *testing.T) {
	guard, clock := newTestGuard()

	headers := http.Header{}
	headers.Set("X-RateLimit-Remaining", "not-a-number")
	headers.Set("X-RateLimit-Reset", "soon")
	guard.ObserveHeaders(headers)

	guard.Wait()
	if len(clock.slept) != 0 {
		t.Errorf("Expected garbage headers to be ignored, slept %v", clock.slept)
	}
}

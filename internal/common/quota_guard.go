package common

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"freightops/harbormaster/internal/logging"
	"freightops/harbormaster/internal/metrics"
)

// Cache keys for the shared quota counters. Kept in the shared cache so
// that every worker in the deployment sees the same remaining/reset state.
const (
	quotaRemainingKey = "erp:quota:remaining"
	quotaResetKey     = "erp:quota:reset_at"
	quotaCooldownKey  = "erp:quota:cooldown_until"
)

// maxResetWait bounds how far ahead a reset window may be for the guard to
// block on it. Windows further out than this proceed without waiting.
const maxResetWait = 60 * time.Second

// Clock abstracts wall time so the blocking behavior is testable.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// RateLimitError is the typed signal raised when the upstream returns 429.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("upstream rate limit hit, retry after %s", e.RetryAfter)
}

// QuotaGuard gates outbound ERP calls on a shared remaining/reset counter.
// All sleeps are deliberate backpressure; a guarded call blocks rather than
// failing when the quota window is about to reset.
type QuotaGuard struct {
	cache           CacheInterface
	clock           Clock
	lowWater        int
	defaultCooldown time.Duration

	// Single arbitration point for check-then-sleep-then-retry. Concurrent
	// sync jobs must not both burn the last quota slots.
	mu sync.Mutex
}

func NewQuotaGuard(cache CacheInterface, lowWater int, defaultCooldown time.Duration) *QuotaGuard {
	return &QuotaGuard{
		cache:           cache,
		clock:           realClock{},
		lowWater:        lowWater,
		defaultCooldown: defaultCooldown,
	}
}

// WithClock replaces the wall clock, for tests.
func (g *QuotaGuard) WithClock(c Clock) *QuotaGuard {
	g.clock = c
	return g
}

// Wait blocks until an outbound call is allowed. It first serves any forced
// cooldown from a previous 429, then, when the remaining quota is at or
// below the low-water mark and the reset window is near, sleeps the window
// out before proceeding.
func (g *QuotaGuard) Wait() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for {
		now := g.clock.Now()

		if until := g.timeValue(quotaCooldownKey); until != nil && until.After(now) {
			d := until.Sub(now)
			logging.Info("Quota guard: serving rate-limit cooldown", "sleep", d.String())
			g.clock.Sleep(d)
			g.cache.Delete(quotaCooldownKey)
			continue
		}

		remaining := g.intValue(quotaRemainingKey)
		resetAt := g.timeValue(quotaResetKey)
		if remaining != nil && *remaining <= int64(g.lowWater) && resetAt != nil && resetAt.After(now) {
			d := resetAt.Sub(now)
			if d <= maxResetWait {
				logging.Info("Quota guard: low quota, waiting for window reset",
					"remaining", *remaining, "sleep", d.String())
				g.clock.Sleep(d)
				g.cache.Delete(quotaRemainingKey)
				g.cache.Delete(quotaResetKey)
				continue
			}
		}
		return
	}
}

// ObserveHeaders feeds remaining-quota headers from a successful response
// into the shared counter. Unknown or absent headers are ignored.
func (g *QuotaGuard) ObserveHeaders(h http.Header) {
	if v := h.Get("X-RateLimit-Remaining"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			g.cache.Set(quotaRemainingKey, int64(n), 10*time.Minute)
			metrics.UpstreamQuotaRemaining.Set(float64(n))
		}
	}
	if v := h.Get("X-RateLimit-Reset"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			resetAt := g.resolveReset(n)
			g.cache.Set(quotaResetKey, resetAt.Unix(), 10*time.Minute)
		}
	}
}

// OnRateLimited records a forced cooldown from a 429 response and returns
// the typed rate-limit error. Retry-After is honored when parseable;
// otherwise the configured default cooldown applies.
func (g *QuotaGuard) OnRateLimited(h http.Header) *RateLimitError {
	cooldown := g.defaultCooldown
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cooldown = time.Duration(secs) * time.Second
		}
	}

	until := g.clock.Now().Add(cooldown)
	g.cache.Set(quotaCooldownKey, until.Unix(), cooldown+time.Minute)
	logging.Warn("Quota guard: 429 received, cooldown set", "cooldown", cooldown.String())

	return &RateLimitError{RetryAfter: cooldown}
}

// resolveReset interprets a reset header value as either an absolute unix
// timestamp or a seconds-from-now delta, whichever the upstream sent.
func (g *QuotaGuard) resolveReset(n int64) time.Time {
	// Values above 1e9 can only be unix timestamps.
	if n > 1_000_000_000 {
		return time.Unix(n, 0)
	}
	return g.clock.Now().Add(time.Duration(n) * time.Second)
}

func (g *QuotaGuard) intValue(key string) *int64 {
	v, ok := g.cache.Get(key)
	if !ok {
		return nil
	}
	n, ok := asInt64(v)
	if !ok {
		return nil
	}
	return &n
}

func (g *QuotaGuard) timeValue(key string) *time.Time {
	n := g.intValue(key)
	if n == nil {
		return nil
	}
	t := time.Unix(*n, 0)
	return &t
}

// asInt64 tolerates the numeric widening the Redis JSON round-trip causes.
func asInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		return int64(t), true
	default:
		return 0, false
	}
}

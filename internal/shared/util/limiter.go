package util

import (
	"time"

	"golang.org/x/time/rate"
)

// Limiter wraps rate.Limiter to provide a simpler interface.
type Limiter struct {
	inner *rate.Limiter
}

// NewLimiter creates a token bucket limiter of r tokens per second with
// burst b.
func NewLimiter(r rate.Limit, b int) *Limiter {
	return &Limiter{inner: rate.NewLimiter(r, b)}
}

// Every returns a limiter that lets one event through per interval. A
// non-positive interval disables throttling.
func Every(interval time.Duration) *Limiter {
	if interval <= 0 {
		return NewLimiter(rate.Inf, 1)
	}
	return NewLimiter(rate.Every(interval), 1)
}

// Allow reports whether an event with weight n may happen now.
func (l *Limiter) Allow(n int) bool {
	return l.inner.AllowN(time.Now(), n)
}

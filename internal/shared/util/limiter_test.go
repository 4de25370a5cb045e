package util

import (
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestLimiter(t *testing.T) {
	// 10 tokens per second, burst of 2
	l := NewLimiter(rate.Limit(10), 2)

	if !l.Allow(1) {
		t.Error("expected first token to be allowed")
	}
	if !l.Allow(1) {
		t.Error("expected second token to be allowed (burst)")
	}
	if l.Allow(1) {
		t.Error("expected third token to be rejected (burst exhausted)")
	}

	time.Sleep(150 * time.Millisecond)
	if !l.Allow(1) {
		t.Error("expected token to be refilled after wait")
	}
}

func TestEvery(t *testing.T) {
	l := Every(time.Hour)
	if !l.Allow(1) {
		t.Fatal("expected first event to pass")
	}
	if l.Allow(1) {
		t.Fatal("expected second event within the interval to be throttled")
	}

	unlimited := Every(0)
	for i := 0; i < 100; i++ {
		if !unlimited.Allow(1) {
			t.Fatalf("expected unthrottled limiter to allow event %d", i)
		}
	}
}

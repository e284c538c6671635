package auth

import (
	"testing"
	"time"
)

func TestAttemptLimiterSlidingWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newAttemptLimiter(3, 10*time.Minute)
	l.now = func() time.Time { return now }

	for range 3 {
		if l.blocked("a") {
			t.Fatal("blocked before reaching the limit")
		}
		l.fail("a")
		now = now.Add(time.Minute)
	}
	if !l.blocked("a") {
		t.Fatal("expected block after 3 failures")
	}
	if l.blocked("b") {
		t.Error("keys must be tracked independently")
	}

	now = now.Add(8 * time.Minute)
	if l.blocked("a") {
		t.Error("expected oldest failure to expire")
	}

	l.reset("a")
	if _, ok := l.failures["a"]; ok {
		t.Error("reset should drop the key")
	}
}

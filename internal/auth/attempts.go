// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"sync"
	"time"
)

// attemptLimiter counts failed sign-ins per email in a sliding window.
type attemptLimiter struct {
	mu       sync.Mutex
	failures map[string][]time.Time
	limit    int           // max failures per window
	window   time.Duration // sliding window duration
	now      func() time.Time
}

func newAttemptLimiter(limit int, window time.Duration) *attemptLimiter {
	return &attemptLimiter{
		failures: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// blocked reports whether key has reached the failure limit.
func (l *attemptLimiter) blocked(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.pruneLocked(key)) >= l.limit
}

// fail records a failed attempt for key.
func (l *attemptLimiter) fail(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.failures[key] = append(l.pruneLocked(key), l.now())
}

// reset forgets the failures of key after a successful sign-in.
func (l *attemptLimiter) reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.failures, key)
}

// pruneLocked drops expired timestamps for key and returns the rest.
func (l *attemptLimiter) pruneLocked(key string) []time.Time {
	cutoff := l.now().Add(-l.window)

	valid := l.failures[key][:0]
	for _, ts := range l.failures[key] {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}
	if len(valid) == 0 {
		delete(l.failures, key)
		return nil
	}
	l.failures[key] = valid
	return valid
}

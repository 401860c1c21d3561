package server

import (
	"sync"
	"time"
)

// loginRateLimiter blocks a client address after repeated failed logins.
// A nil limiter allows everything.
type loginRateLimiter struct {
	mu          sync.Mutex
	maxFailures int
	window      time.Duration
	blockFor    time.Duration
	entries     map[string]*loginAttempts
}

type loginAttempts struct {
	failures     int
	windowStart  time.Time
	blockedUntil time.Time
}

func newLoginRateLimiter(maxFailures int, window, blockFor time.Duration) *loginRateLimiter {
	if maxFailures <= 0 || window <= 0 || blockFor <= 0 {
		return nil
	}
	return &loginRateLimiter{
		maxFailures: maxFailures,
		window:      window,
		blockFor:    blockFor,
		entries:     make(map[string]*loginAttempts),
	}
}

// Allow reports whether the key may attempt a login now.
func (l *loginRateLimiter) Allow(key string, now time.Time) bool {
	if l == nil || key == "" {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok {
		return true
	}
	if !entry.blockedUntil.IsZero() {
		if now.Before(entry.blockedUntil) {
			return false
		}
		delete(l.entries, key)
		return true
	}
	if now.Sub(entry.windowStart) > l.window {
		delete(l.entries, key)
	}
	return true
}

// RegisterFailure records one failed attempt; reaching the limit inside the
// window blocks the key for the configured duration.
func (l *loginRateLimiter) RegisterFailure(key string, now time.Time) {
	if l == nil || key == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok || now.Sub(entry.windowStart) > l.window {
		entry = &loginAttempts{windowStart: now}
		l.entries[key] = entry
	}
	entry.failures++
	if entry.failures >= l.maxFailures {
		entry.blockedUntil = now.Add(l.blockFor)
	}
	l.pruneLocked(now)
}

// Reset clears the key after a successful login.
func (l *loginRateLimiter) Reset(key string) {
	if l == nil || key == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
}

func (l *loginRateLimiter) pruneLocked(now time.Time) {
	stale := l.window
	if l.blockFor > stale {
		stale = l.blockFor
	}
	stale *= 2
	for key, entry := range l.entries {
		cutoff := entry.windowStart
		if entry.blockedUntil.After(cutoff) {
			cutoff = entry.blockedUntil
		}
		if now.Sub(cutoff) > stale {
			delete(l.entries, key)
		}
	}
}

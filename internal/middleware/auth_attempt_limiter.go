package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// AuthAttemptLimiter tracks failed authentication attempts per client and
// blocks a client for a fixed duration once it crosses the failure threshold
// inside the window. Entries are pruned lazily on access.
type AuthAttemptLimiter struct {
	mu          sync.Mutex
	attempts    map[string]*failureWindow
	maxFailures int
	window      time.Duration
	blockFor    time.Duration
	lastPrune   time.Time
}

type failureWindow struct {
	failures     int
	windowStart  time.Time
	blockedUntil time.Time
	lastSeen     time.Time
}

const (
	limiterPruneEvery = 5 * time.Minute
	limiterStaleTTL   = 24 * time.Hour
)

func NewAuthAttemptLimiter(maxFailures int, window, blockFor time.Duration) *AuthAttemptLimiter {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if window <= 0 {
		window = 5 * time.Minute
	}
	if blockFor <= 0 {
		blockFor = 15 * time.Minute
	}
	return &AuthAttemptLimiter{
		attempts:    make(map[string]*failureWindow),
		maxFailures: maxFailures,
		window:      window,
		blockFor:    blockFor,
		lastPrune:   time.Now(),
	}
}

func (l *AuthAttemptLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	defer l.pruneLocked(now)

	fw, ok := l.attempts[key]
	if !ok {
		return true
	}

	fw.lastSeen = now
	if now.Before(fw.blockedUntil) {
		return false
	}
	if now.Sub(fw.windowStart) > l.window {
		fw.failures = 0
		fw.windowStart = now
	}
	return true
}

func (l *AuthAttemptLimiter) registerFailure(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	defer l.pruneLocked(now)

	fw, ok := l.attempts[key]
	if !ok {
		l.attempts[key] = &failureWindow{failures: 1, windowStart: now, lastSeen: now}
		return
	}

	fw.lastSeen = now
	if now.Sub(fw.windowStart) > l.window {
		fw.failures = 0
		fw.windowStart = now
	}

	fw.failures++
	if fw.failures >= l.maxFailures {
		fw.blockedUntil = now.Add(l.blockFor)
		fw.failures = 0
		fw.windowStart = now
	}
}

func (l *AuthAttemptLimiter) registerSuccess(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.attempts, key)
	l.pruneLocked(time.Now())
}

func (l *AuthAttemptLimiter) pruneLocked(now time.Time) {
	if now.Sub(l.lastPrune) < limiterPruneEvery {
		return
	}
	for key, fw := range l.attempts {
		if now.Sub(fw.lastSeen) > limiterStaleTTL && now.After(fw.blockedUntil) {
			delete(l.attempts, key)
		}
	}
	l.lastPrune = now
}

func clientIPKey(r *http.Request, prefix string) string {
	host := r.RemoteAddr
	if parsedHost, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		host = parsedHost
	}
	if host == "" {
		host = "unknown"
	}
	return prefix + ":" + host
}

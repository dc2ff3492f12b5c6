package tinyrisks

import (
	"sync"
	"time"
)

// loginLimiter caps failed login attempts per key (client IP) using a
// fixed window: the first recorded failure opens a window, and once max
// failures land inside it, Check rejects until the window expires.
type loginLimiter struct {
	mu      sync.Mutex
	windows map[string]*attemptWindow
	max     int
	window  time.Duration
}

type attemptWindow struct {
	start time.Time
	count int
}

func newLoginLimiter(max int, window time.Duration) *loginLimiter {
	return &loginLimiter{
		windows: make(map[string]*attemptWindow),
		max:     max,
		window:  window,
	}
}

// Check reports whether key is still within the limit. It records
// nothing; call Record when the attempt turns out to be a failure.
func (l *loginLimiter) Check(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		return true
	}
	return w.count < l.max
}

// Record registers a failed attempt for key, opening a new window when
// the previous one has expired. Expired entries are swept lazily so no
// background goroutine is needed.
func (l *loginLimiter) Record(key string) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.windows) > 1024 {
		l.sweep(now)
	}

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		l.windows[key] = &attemptWindow{start: now, count: 1}
		return
	}
	w.count++
}

// sweep drops windows that have expired. Caller holds the lock.
func (l *loginLimiter) sweep(now time.Time) {
	for key, w := range l.windows {
		if now.Sub(w.start) >= l.window {
			delete(l.windows, key)
		}
	}
}

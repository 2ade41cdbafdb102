package performance

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid scroll events so that expensive work (like
// flushing measured sizes into the index) runs once the stream settles.
type Debouncer struct {
	delay    time.Duration
	timer    *time.Timer
	callback func()
	mutex    sync.Mutex
	pending  bool
}

// NewDebouncer creates a new debouncer with the specified delay
func NewDebouncer(delay time.Duration, callback func()) *Debouncer {
	return &Debouncer{
		delay:    delay,
		callback: callback,
	}
}

// Trigger restarts the settle window
func (d *Debouncer) Trigger() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.pending = true

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.delay, func() {
		d.mutex.Lock()
		defer d.mutex.Unlock()

		if d.pending {
			d.pending = false
			d.callback()
		}
	})
}

// Cancel drops any pending call
func (d *Debouncer) Cancel() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// IsPending returns whether a call is pending
func (d *Debouncer) IsPending() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.pending
}

// RateLimiter caps how often measurement batches are pushed into the index
type RateLimiter struct {
	rate     time.Duration
	lastCall time.Time
	mutex    sync.Mutex
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(rate time.Duration) *RateLimiter {
	return &RateLimiter{rate: rate}
}

// Allow returns whether an operation should run now
func (rl *RateLimiter) Allow() bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	if now.Sub(rl.lastCall) >= rl.rate {
		rl.lastCall = now
		return true
	}
	return false
}

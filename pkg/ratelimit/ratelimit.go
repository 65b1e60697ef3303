// Package ratelimit provides timer-based call-rate policies used to pace
// outbound input updates: Debounce (trailing edge, coalescing) and Throttle
// (leading edge with one remembered catch-up call).
package ratelimit

import (
	"sync"
	"time"
)

// Debounce wraps fn so that bursts of calls collapse into a single execution
// fired threshold after the last call. Each call cancels the previously
// scheduled execution. Call arguments are not modeled; fn is niladic.
func Debounce(threshold time.Duration, fn func()) func() {
	var mu sync.Mutex
	var timer *time.Timer
	return func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(threshold, fn)
	}
}

// Throttle wraps fn so that the first call in a burst executes immediately
// and later calls execute no closer than threshold apart. Any number of
// calls landing while the timer is active coalesce into exactly one
// catch-up execution when it fires.
func Throttle(threshold time.Duration, fn func()) func() {
	t := &throttler{threshold: threshold, fn: fn}
	return t.call
}

// throttler is a two-flag state machine: timerActive says a quiet-period
// timer is running, pending says at least one call arrived while it was.
// The timer callback re-enters through step so further calls observe a
// consistent state, without the unbounded recursion of re-invoking the
// public wrapper from inside itself.
type throttler struct {
	mu          sync.Mutex
	threshold   time.Duration
	fn          func()
	timerActive bool
	pending     bool
}

func (t *throttler) call() {
	t.mu.Lock()
	t.step()
	t.mu.Unlock()
}

// step runs one transition; t.mu must be held. Executes fn synchronously
// when no timer is active, otherwise records the pending flag.
func (t *throttler) step() {
	if t.timerActive {
		t.pending = true
		return
	}
	t.timerActive = true
	time.AfterFunc(t.threshold, t.expire)

	// Execute outside the lock so fn may call the wrapper again.
	t.mu.Unlock()
	t.fn()
	t.mu.Lock()
}

func (t *throttler) expire() {
	t.mu.Lock()
	t.timerActive = false
	if t.pending {
		t.pending = false
		t.step()
	}
	t.mu.Unlock()
}

package scan

import (
	"context"
	"sync"
	"time"
)

// Timer is a self-restarting countdown to the next scan. It counts down one
// tick at a time, fires its callback at zero, and immediately starts over.
// Reset restores the full interval without firing.
type Timer struct {
	mu        sync.Mutex
	interval  time.Duration
	remaining time.Duration
	tickEvery time.Duration
	onElapsed func()
}

// NewTimer creates a countdown over the given interval. onElapsed fires
// each time the countdown reaches zero; it may be nil.
func NewTimer(interval time.Duration, onElapsed func()) *Timer {
	return &Timer{
		interval:  interval,
		remaining: interval,
		tickEvery: time.Second,
		onElapsed: onElapsed,
	}
}

// Run drives the countdown until ctx is canceled.
func (t *Timer) Run(ctx context.Context) {
	t.mu.Lock()
	every := t.tickEvery
	t.mu.Unlock()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Tick()
		}
	}
}

// Tick advances the countdown by one tick. When it reaches zero the callback
// fires and the countdown restarts from the full interval.
func (t *Timer) Tick() {
	t.mu.Lock()
	t.remaining -= t.tickEvery
	fired := t.remaining <= 0
	if fired {
		t.remaining = t.interval
	}
	fn := t.onElapsed
	t.mu.Unlock()

	if fired && fn != nil {
		fn()
	}
}

// SetOnElapsed replaces the firing callback. It exists so the timer can be
// built before the component whose method it calls.
func (t *Timer) SetOnElapsed(fn func()) {
	t.mu.Lock()
	t.onElapsed = fn
	t.mu.Unlock()
}

// Reset restores the full interval without firing. Call it when a scan is
// triggered out of band so the next automatic scan is pushed out.
func (t *Timer) Reset() {
	t.mu.Lock()
	t.remaining = t.interval
	t.mu.Unlock()
}

// Remaining reports the time left until the next firing.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// SetInterval changes the countdown interval and restarts the countdown.
func (t *Timer) SetInterval(interval time.Duration) {
	t.mu.Lock()
	t.interval = interval
	t.remaining = interval
	t.mu.Unlock()
}

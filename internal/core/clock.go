package core

import "time"

// Clock supplies the current simulation time.
// Game logic polls it; nothing in a simulation sleeps.
type Clock interface {
	Now() time.Duration
}

// TickClock is a deterministic clock advanced once per simulation tick.
type TickClock struct {
	now  time.Duration
	step time.Duration
}

// NewTickClock creates a clock advancing by one tick at the given rate.
func NewTickClock(tickRate int) *TickClock {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &TickClock{step: time.Second / time.Duration(tickRate)}
}

// Now returns the elapsed simulation time.
func (c *TickClock) Now() time.Duration {
	return c.now
}

// Advance moves the clock forward by one tick.
func (c *TickClock) Advance() {
	c.now += c.step
}

// Step returns the duration of one tick.
func (c *TickClock) Step() time.Duration {
	return c.step
}

// Set jumps the clock to t. Used when restoring snapshots.
func (c *TickClock) Set(t time.Duration) {
	c.now = t
}

// Cooldown is a polled one-shot timer measured against a Clock.
// The zero value is expired.
type Cooldown struct {
	until time.Duration
}

// Start arms the timer to expire d after now.
func (cd *Cooldown) Start(clock Clock, d time.Duration) {
	cd.until = clock.Now() + d
}

// Active reports whether the timer has not yet expired.
func (cd Cooldown) Active(clock Clock) bool {
	return clock.Now() < cd.until
}

// Remaining returns the time left, or zero once expired.
func (cd Cooldown) Remaining(clock Clock) time.Duration {
	if left := cd.until - clock.Now(); left > 0 {
		return left
	}
	return 0
}

// Reset expires the timer immediately.
func (cd *Cooldown) Reset() {
	cd.until = 0
}

// Deadline returns the absolute expiry time.
func (cd Cooldown) Deadline() time.Duration {
	return cd.until
}

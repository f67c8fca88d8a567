package hal

import (
	"sync/atomic"
	"time"
)

// SystemClock derives a millisecond tick counter from the runtime clock.
// The counter starts at zero when the clock is created and wraps at 2^32
// like a 32-bit hardware timer.
type SystemClock struct {
	epoch time.Time
}

// NewSystemClock returns a clock whose counter starts now.
func NewSystemClock() *SystemClock {
	return &SystemClock{epoch: time.Now()}
}

// TicksMs returns the milliseconds elapsed since the clock was created,
// truncated to 32 bits.
func (c *SystemClock) TicksMs() uint32 {
	return uint32(time.Since(c.epoch).Milliseconds())
}

// Flag is a process-wide cancellation flag. Interrupt handlers and signal
// watchers call Set; the runtime above the console calls Clear once it has
// acted on the condition. The console itself only reads it.
type Flag struct {
	pending atomic.Bool
}

// Set marks a break or keyboard interrupt as pending.
func (f *Flag) Set() {
	f.pending.Store(true)
}

// Clear acknowledges the pending condition.
func (f *Flag) Clear() {
	f.pending.Store(false)
}

// Pending reports whether a break or keyboard interrupt is pending.
func (f *Flag) Pending() bool {
	return f.pending.Load()
}

// Compile-time interface checks
var (
	_ Clock       = (*SystemClock)(nil)
	_ Interrupter = (*Flag)(nil)
)

package console

import (
	"github.com/ardnew/softconsole/hal"
	"github.com/ardnew/softconsole/pkg"
)

// Delay is a busy-wait millisecond delay that stops early when a break is
// pending.
type Delay struct {
	clock hal.Clock
	intr  hal.Interrupter
	hook  hal.Hook
}

// NewDelay creates a delay driven by clock. A nil intr is never pending;
// a nil hook is a no-op.
func NewDelay(clock hal.Clock, intr hal.Interrupter, hook hal.Hook) *Delay {
	if intr == nil {
		intr = hal.InterrupterFunc(func() bool { return false })
	}
	if hook == nil {
		hook = noHook
	}
	return &Delay{
		clock: clock,
		intr:  intr,
		hook:  hook,
	}
}

// Wait spins until ms milliseconds have elapsed on the clock or a break is
// pending, calling the hook once per iteration. Elapsed time is the
// wrapping difference of two tick samples, so a counter rollover mid-wait
// is harmless. Wait does not report or clear the pending break.
func (d *Delay) Wait(ms uint32) {
	start := d.clock.TicksMs()
	for elapsed := uint32(0); elapsed < ms; elapsed = d.clock.TicksMs() - start {
		d.hook()
		if d.intr.Pending() {
			pkg.LogDebug(pkg.ComponentDelay, "delay interrupted",
				"elapsed", elapsed,
				"requested", ms)
			return
		}
	}
}

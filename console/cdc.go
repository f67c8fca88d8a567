package console

import (
	"github.com/ardnew/softconsole/hal"
	"github.com/ardnew/softconsole/pkg"
)

// USBCDC is the USB CDC-ACM backend. The USB stack buffers in both
// directions, so there is no memory residency constraint.
type USBCDC struct {
	cdc  hal.CDC
	hook hal.Hook

	rxLED  hal.Indicator
	txLED  hal.Indicator
	mirror hal.Mirror
}

// NewUSBCDC creates a USB CDC backend. A nil hook is a no-op.
func NewUSBCDC(cdc hal.CDC, hook hal.Hook) *USBCDC {
	if hook == nil {
		hook = noHook
	}
	return &USBCDC{
		cdc:  cdc,
		hook: hook,
	}
}

// SetIndicators sets the receive and transmit activity indicators.
// Either may be nil.
func (c *USBCDC) SetIndicators(rx, tx hal.Indicator) {
	c.rxLED = rx
	c.txLED = tx
}

// SetMirror sets the sink that receives a copy of transmitted bytes.
func (c *USBCDC) SetMirror(m hal.Mirror) {
	c.mirror = m
}

// Available reports whether the stack's receive FIFO holds a byte.
func (c *USBCDC) Available() bool {
	return c.cdc.Available() > 0
}

// ReadChar spins on the stack's receive FIFO, calling the hook each
// iteration, and returns the first byte that arrives.
func (c *USBCDC) ReadChar() byte {
	for {
		c.hook()
		if c.cdc.Available() == 0 {
			continue
		}
		if c.rxLED != nil {
			c.rxLED.Toggle()
		}
		if b, ok := c.cdc.ReadChar(); ok {
			return b
		}
	}
}

// Transmit copies p to the mirror, if open, then queues all of p with the
// stack, spinning while its transmit FIFO is full. Mirror failures are
// ignored. A stack error drops the remainder.
func (c *USBCDC) Transmit(p []byte) {
	if len(p) == 0 {
		return
	}

	if c.txLED != nil {
		c.txLED.Toggle()
	}

	if c.mirror != nil && c.mirror.IsOpen() {
		n, err := c.mirror.Write(p)
		if (n != len(p) || err != nil) && pkg.DebugEnabled() {
			pkg.LogDebug(pkg.ComponentCDC, "mirror short write",
				"len", len(p),
				"written", n,
				"error", err)
		}
	}

	for len(p) > 0 {
		n, err := c.cdc.Write(p)
		if err != nil {
			pkg.LogWarn(pkg.ComponentCDC, "transmit dropped",
				"len", len(p),
				"error", err)
			return
		}
		p = p[n:]
		if n == 0 {
			c.hook()
		}
	}
}

// Compile-time interface check
var _ Transport = (*USBCDC)(nil)

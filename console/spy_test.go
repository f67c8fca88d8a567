package console

import (
	"errors"

	"github.com/ardnew/softconsole/hal"
)

// spyUART implements hal.UART and records every transaction.
type spyUART struct {
	ready      func() bool // overrides the queue when set
	rx         []byte
	readyCalls int
	rxCalls    int
	rxErrs     int // number of leading Rx calls that fail
	tx         [][]byte
	txBufs     [][]byte // the exact slices handed to Tx
	txErr      error
}

func (u *spyUART) RxReady() bool {
	u.readyCalls++
	if u.ready != nil {
		return u.ready()
	}
	return len(u.rx) > 0
}

func (u *spyUART) Rx(buf []byte) error {
	u.rxCalls++
	if u.rxErrs > 0 {
		u.rxErrs--
		return errors.New("framing error")
	}
	n := copy(buf, u.rx)
	u.rx = u.rx[n:]
	return nil
}

func (u *spyUART) Tx(buf []byte) error {
	u.tx = append(u.tx, append([]byte(nil), buf...))
	u.txBufs = append(u.txBufs, buf)
	return u.txErr
}

// spyAllocator implements hal.Allocator and counts calls.
type spyAllocator struct {
	sizes []int
	frees int
	last  []byte
}

func (a *spyAllocator) Alloc(n int) []byte {
	a.sizes = append(a.sizes, n)
	a.last = make([]byte, n)
	return a.last
}

func (a *spyAllocator) Free(buf []byte) {
	a.frees++
}

// memoryFunc adapts a predicate to hal.Memory.
type memoryFunc func([]byte) bool

func (f memoryFunc) DMACapable(buf []byte) bool { return f(buf) }

// spyCDC implements hal.CDC with a receive queue and a bounded transmit FIFO.
type spyCDC struct {
	rx         []byte
	accept     int // max bytes accepted per Write; 0 = unlimited
	stalls     int // number of leading Writes that accept nothing
	writeErr   error
	writes     int
	tx         []byte
	availCalls int
}

func (c *spyCDC) Available() int {
	c.availCalls++
	return len(c.rx)
}

func (c *spyCDC) ReadChar() (byte, bool) {
	if len(c.rx) == 0 {
		return 0, false
	}
	b := c.rx[0]
	c.rx = c.rx[1:]
	return b, true
}

func (c *spyCDC) Write(p []byte) (int, error) {
	c.writes++
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	if c.stalls > 0 {
		c.stalls--
		return 0, nil
	}
	n := len(p)
	if c.accept > 0 && n > c.accept {
		n = c.accept
	}
	c.tx = append(c.tx, p[:n]...)
	return n, nil
}

// spyMirror implements hal.Mirror.
type spyMirror struct {
	open   bool
	short  int // bytes dropped from every write
	err    error
	writes int
	data   []byte
}

func (m *spyMirror) IsOpen() bool { return m.open }

func (m *spyMirror) Write(p []byte) (int, error) {
	m.writes++
	n := len(p) - m.short
	if n < 0 {
		n = 0
	}
	m.data = append(m.data, p[:n]...)
	return n, m.err
}

// counter is a hal.Hook and hal.Indicator that counts invocations.
type counter struct {
	n      int
	onCall func(n int)
}

func (c *counter) hook() {
	c.n++
	if c.onCall != nil {
		c.onCall(c.n)
	}
}

func (c *counter) Toggle() { c.hook() }

// stepClock advances by step on every read.
type stepClock struct {
	now   uint32
	step  uint32
	reads int
}

func (c *stepClock) TicksMs() uint32 {
	v := c.now
	c.now += c.step
	c.reads++
	return v
}

var (
	_ hal.UART      = (*spyUART)(nil)
	_ hal.Allocator = (*spyAllocator)(nil)
	_ hal.CDC       = (*spyCDC)(nil)
	_ hal.Mirror    = (*spyMirror)(nil)
	_ hal.Indicator = (*counter)(nil)
	_ hal.Clock     = (*stepClock)(nil)
)

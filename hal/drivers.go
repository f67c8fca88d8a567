package hal

import "tinygo.org/x/drivers"

// DriverUART adapts a [drivers.UART] (machine.UART under TinyGo) to [UART].
type DriverUART struct {
	bus drivers.UART
}

// NewDriverUART wraps bus.
func NewDriverUART(bus drivers.UART) *DriverUART {
	return &DriverUART{bus: bus}
}

// RxReady reports whether the driver's receive buffer holds a byte.
func (u *DriverUART) RxReady() bool {
	return u.bus.Buffered() > 0
}

// Rx reads until buf is full. The TinyGo UART Read is non-blocking, so Rx
// spins while the driver's buffer is empty.
func (u *DriverUART) Rx(buf []byte) error {
	for n := 0; n < len(buf); {
		m, err := u.bus.Read(buf[n:])
		n += m
		if err != nil {
			return err
		}
	}
	return nil
}

// Tx writes buf to the driver.
func (u *DriverUART) Tx(buf []byte) error {
	_, err := u.bus.Write(buf)
	return err
}

// DriverCDC adapts a [drivers.UART] that is backed by a USB CDC stack
// (machine.Serial on USB-capable TinyGo targets) to [CDC].
type DriverCDC struct {
	bus drivers.UART
	buf [1]byte
}

// NewDriverCDC wraps bus.
func NewDriverCDC(bus drivers.UART) *DriverCDC {
	return &DriverCDC{bus: bus}
}

// Available returns the number of bytes buffered by the driver.
func (c *DriverCDC) Available() int {
	return c.bus.Buffered()
}

// ReadChar reads one buffered byte.
func (c *DriverCDC) ReadChar() (byte, bool) {
	n, err := c.bus.Read(c.buf[:])
	if n != 1 || err != nil {
		return 0, false
	}
	return c.buf[0], true
}

// Write queues p with the driver.
func (c *DriverCDC) Write(p []byte) (int, error) {
	return c.bus.Write(p)
}

// Compile-time interface checks
var (
	_ UART = (*DriverUART)(nil)
	_ CDC  = (*DriverCDC)(nil)
)

package console

import (
	"github.com/ardnew/softconsole/hal"
	"github.com/ardnew/softconsole/pkg"
)

// UARTDirect is the hardware UART backend.
//
// The UART's DMA engine can only source bytes from DMA-reachable memory.
// Transmit passes such buffers through untouched and stages every other
// buffer through a transient copy that is released before Transmit
// returns. This relies on [hal.UART.Tx] having consumed its buffer on
// return.
type UARTDirect struct {
	uart  hal.UART
	mem   hal.Memory
	alloc hal.Allocator
	hook  hal.Hook

	rxBuf [1]byte
}

// NewUARTDirect creates a UART backend. A nil alloc stages through
// [hal.HeapAllocator]; a nil hook is a no-op.
func NewUARTDirect(uart hal.UART, mem hal.Memory, alloc hal.Allocator, hook hal.Hook) *UARTDirect {
	if alloc == nil {
		alloc = hal.HeapAllocator{}
	}
	if hook == nil {
		hook = noHook
	}
	return &UARTDirect{
		uart:  uart,
		mem:   mem,
		alloc: alloc,
		hook:  hook,
	}
}

// Available reports the UART's receive-data-ready flag.
func (u *UARTDirect) Available() bool {
	return u.uart.RxReady()
}

// ReadChar spins on the receive-data-ready flag, calling the hook each
// iteration, then performs one single-byte receive transaction.
// A failed transaction is retried.
func (u *UARTDirect) ReadChar() byte {
	// TODO(console): sleep on the RXDRDY event instead of spinning once the
	// boards expose a wait-for-event primitive.
	for {
		u.hook()
		if !u.uart.RxReady() {
			continue
		}
		if err := u.uart.Rx(u.rxBuf[:]); err != nil {
			pkg.LogDebug(pkg.ComponentUART, "receive failed", "error", err)
			continue
		}
		return u.rxBuf[0]
	}
}

// Transmit sends p, copying it into DMA-reachable memory first if needed.
func (u *UARTDirect) Transmit(p []byte) {
	if len(p) == 0 {
		return
	}

	if u.mem.DMACapable(p) {
		u.tx(p)
		return
	}

	staged := u.alloc.Alloc(len(p))
	copy(staged, p)
	if pkg.DebugEnabled() {
		pkg.LogDebug(pkg.ComponentUART, "staged transmit outside DMA memory",
			"len", len(p))
	}
	u.tx(staged)
	u.alloc.Free(staged)
}

func (u *UARTDirect) tx(buf []byte) {
	if err := u.uart.Tx(buf); err != nil {
		pkg.LogWarn(pkg.ComponentUART, "transmit failed",
			"len", len(buf),
			"error", err)
	}
}

// Compile-time interface check
var _ Transport = (*UARTDirect)(nil)

package hal

// UART is a hardware serial peripheral whose transmit engine sources bytes
// by DMA.
type UART interface {
	// RxReady reports whether the receive-data-ready event is set.
	// It must not consume the received character.
	RxReady() bool

	// Rx performs one receive transaction of len(buf) bytes.
	// Blocks until the transaction completes.
	Rx(buf []byte) error

	// Tx transmits buf. The peripheral must have finished reading buf
	// (or copied it internally) by the time Tx returns.
	// Callers must only pass buffers reported DMA-capable by the board's
	// [Memory].
	Tx(buf []byte) error
}

// CDC is the receive and transmit FIFO pair of a USB CDC-ACM stack.
type CDC interface {
	// Available returns the number of received bytes buffered by the stack.
	Available() int

	// ReadChar removes and returns one buffered byte.
	// Returns false if the receive FIFO was empty.
	ReadChar() (byte, bool)

	// Write queues p for transmission to the host and returns the number
	// of bytes the stack accepted. A short count means the transmit FIFO
	// is full.
	Write(p []byte) (int, error)
}

// Memory answers residency questions about byte buffers.
type Memory interface {
	// DMACapable reports whether buf lies entirely within memory the
	// transmit DMA engine can read.
	DMACapable(buf []byte) bool
}

// Allocator provides transient byte buffers.
type Allocator interface {
	// Alloc returns a buffer of exactly n bytes.
	// Allocation failure is the allocator's concern (panic or fault).
	Alloc(n int) []byte

	// Free releases a buffer previously returned by Alloc.
	Free(buf []byte)
}

// Clock is a monotonic millisecond tick source. The counter wraps at 2^32.
type Clock interface {
	TicksMs() uint32
}

// ClockFunc adapts a function to the [Clock] interface.
type ClockFunc func() uint32

// TicksMs calls f.
func (f ClockFunc) TicksMs() uint32 { return f() }

// Interrupter reports a pending break or keyboard-interrupt condition.
type Interrupter interface {
	Pending() bool
}

// InterrupterFunc adapts a function to the [Interrupter] interface.
type InterrupterFunc func() bool

// Pending calls f.
func (f InterrupterFunc) Pending() bool { return f() }

// Indicator is a fire-and-forget activity toggle.
type Indicator interface {
	Toggle()
}

// IndicatorFunc adapts a function to the [Indicator] interface.
type IndicatorFunc func()

// Toggle calls f.
func (f IndicatorFunc) Toggle() { f() }

// Mirror is an optional secondary sink receiving a copy of transmitted bytes.
type Mirror interface {
	// IsOpen reports whether the sink can currently accept writes.
	IsOpen() bool

	// Write copies p to the sink. Short writes and errors are tolerated
	// by callers.
	Write(p []byte) (int, error)
}

// Hook is the cooperative runtime callback invoked on every busy-wait
// iteration.
type Hook func()

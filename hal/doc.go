// Package hal defines the collaborator interfaces consumed by the console core.
//
// The console core never touches hardware directly. Everything it needs
// from the board, the USB stack, the allocator, the clock, and the
// surrounding runtime is expressed here as a small interface, so the
// composition root can inject real peripherals on a microcontroller and
// deterministic fakes in tests.
//
// # Interface Overview
//
//   - [UART]: receive-data-ready flag, blocking receive, DMA-sourced transmit
//   - [CDC]: USB CDC receive FIFO count, single-byte read, transmit FIFO write
//   - [Memory]: "is this buffer DMA-reachable" predicate
//   - [Allocator]: transient staging buffers for the DMA copy
//   - [Clock]: read-only monotonic millisecond counter
//   - [Interrupter]: read-only pending break/interrupt indication
//   - [Indicator]: fire-and-forget activity toggle (typically an LED)
//   - [Mirror]: optional best-effort copy of transmitted bytes
//
// # Concrete Helpers
//
// A few collaborators are simple enough to provide here: [Region] answers
// residency for a fixed address window, [HeapAllocator] stages through
// the Go heap, [SystemClock] derives ticks from the runtime clock, and
// [Flag] is an atomic cancellation flag an interrupt handler can set.
// [Arena] simulates DMA-reachable RAM on a host: it is both the [Memory]
// predicate and the [Allocator] that stages into it.
//
// [DriverUART] and [DriverCDC] adapt any [tinygo.org/x/drivers.UART]
// (which machine.UART and machine.Serial satisfy under TinyGo) to the
// [UART] and [CDC] contracts.
//
// # Example
//
//	ram := hal.Region{Start: 0x20000000, Size: 256 << 10}
//	intr := new(hal.Flag)
//	clock := hal.NewSystemClock()
//
//	cons, err := console.New(console.Config{
//	    Mode:      console.ModeUART,
//	    UART:      hal.NewDriverUART(machine.Serial),
//	    Memory:    ram,
//	    Clock:     clock,
//	    Interrupt: intr,
//	})
package hal

// Package console implements the character-level stdin/stdout path and the
// cancellable millisecond delay a language runtime needs from its board.
//
// # Architecture
//
// A [Console] is assembled once, at the composition root, from a [Config].
// The selected [Mode] decides which [Transport] backs it for the lifetime of
// the process:
//
//   - [ModeUART]: [UARTDirect] polls a hardware UART's receive-data-ready
//     flag and feeds its DMA transmit engine, staging any caller buffer that
//     lies outside DMA-reachable memory.
//   - [ModeUSBCDC]: [USBCDC] polls a USB CDC stack's receive FIFO, toggles
//     activity indicators, and mirrors output to an optional sink.
//
// The two backends share no code paths. Nothing in the I/O hot path
// branches on the mode.
//
// # Busy-Waiting
//
// Every blocking operation here is a polling loop. Each iteration calls the
// injected [hal.Hook] so the runtime can service pending work. [Delay] also
// consults the injected [hal.Interrupter] and stops early when a break is
// pending; it never clears the condition and never reports it. Reading a
// character has no timeout and no cancellation path.
//
// # Concurrency
//
// A Console is not safe for concurrent use. Callers serialize access.
// Only the tick counter and the cancellation flag may change underneath a
// call, from interrupt context.
//
// # Usage
//
//	cons, err := console.New(console.Config{
//	    Mode:      console.ModeUSBCDC,
//	    CDC:       hal.NewDriverCDC(machine.Serial),
//	    RxLED:     rxLED,
//	    TxLED:     txLED,
//	    Mirror:    bootLog,
//	    Hook:      runtime.Gosched,
//	    Clock:     hal.NewSystemClock(),
//	    Interrupt: intr,
//	})
//	if err != nil {
//	    // Missing collaborator for the selected mode.
//	}
//
//	cons.StdoutTxStr("ready\r\n")
//	c := cons.StdinRxChr()
//	cons.DelayMs(250)
package console

// Package fifo implements a host-side serial line over named pipes (FIFOs).
//
// A Port stands in for a UART or a USB CDC endpoint when the console runs on
// a development host instead of a microcontroller. A terminal program on the
// other side writes keystrokes into the rx pipe and reads console output from
// the tx pipe.
//
// # Layout
//
// Each Port creates a unique subdirectory under a shared bus directory:
//
//	/tmp/console-bus/          # Bus directory
//	└── port-{uuid}/           # Port subdirectory (unique per instance)
//	    ├── rx                 # Terminal → console
//	    └── tx                 # Console → terminal
//
// Both pipes are opened O_RDWR|O_NONBLOCK so that opening never blocks and
// writes never fail with EPIPE while no terminal is attached.
//
// # Receive Path
//
// Run pumps the rx pipe until its context is cancelled or the Port is closed.
// Received bytes are either handed to the callback installed with OnReceive
// (for example a cdc.Serial in USB CDC mode) or buffered internally and
// exposed through the hal.UART methods RxReady and Rx.
//
// When an interrupt character is armed with SetInterruptChar, Run raises the
// flag and discards buffered input as soon as the character arrives, before
// any reader sees it.
//
// # Usage
//
//	port := fifo.New("/tmp/console-bus")
//	if err := port.Open(); err != nil {
//	    return err
//	}
//	defer port.Close()
//
//	go port.Run(ctx)
//
//	fmt.Printf("attach with: cat %s/tx & cat > %s/rx\n", port.Dir(), port.Dir())
package fifo

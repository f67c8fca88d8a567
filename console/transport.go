package console

import (
	"fmt"
	"strings"

	"github.com/ardnew/softconsole/pkg"
)

// Receiver is the receive half of a console backend.
type Receiver interface {
	// Available reports whether at least one received character is
	// buffered. It never consumes the character.
	Available() bool

	// ReadChar blocks until a character is available and returns it.
	ReadChar() byte
}

// Transmitter is the transmit half of a console backend.
type Transmitter interface {
	// Transmit sends every byte of p, or hands all of it to a lower layer
	// that will. p is only read, and only for the duration of the call.
	// An empty p is a no-op.
	Transmit(p []byte)
}

// Transport is a complete console backend.
type Transport interface {
	Receiver
	Transmitter
}

// Mode selects the console backend.
type Mode uint8

// Backend modes.
const (
	ModeUART   Mode = iota + 1 // Hardware UART with DMA transmit
	ModeUSBCDC                 // USB CDC-ACM serial
)

// String returns the mode name accepted by [ParseMode].
func (m Mode) String() string {
	switch m {
	case ModeUART:
		return "uart"
	case ModeUSBCDC:
		return "usb-cdc"
	default:
		return "unknown"
	}
}

// ParseMode returns the mode named s.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "uart":
		return ModeUART, nil
	case "usb-cdc", "cdc", "usb":
		return ModeUSBCDC, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, pkg.ErrInvalidMode)
	}
}

func noHook() {}

package console

import (
	"bytes"
	"fmt"
	"io"
	"unsafe"

	"github.com/ardnew/softconsole/hal"
	"github.com/ardnew/softconsole/pkg"
)

// Config lists the collaborators a console may draw on. Only the fields the
// selected mode needs are consulted.
type Config struct {
	// Mode selects the backend. Required.
	Mode Mode

	// UART backend.
	UART      hal.UART      // Required for ModeUART
	Memory    hal.Memory    // Required for ModeUART
	Allocator hal.Allocator // Staging buffers; defaults to hal.HeapAllocator

	// USB CDC backend.
	CDC    hal.CDC       // Required for ModeUSBCDC
	RxLED  hal.Indicator // Optional receive activity indicator
	TxLED  hal.Indicator // Optional transmit activity indicator
	Mirror hal.Mirror    // Optional best-effort copy of output

	// Shared by both backends and the delay.
	Hook      hal.Hook        // Cooperative runtime hook; defaults to a no-op
	Clock     hal.Clock       // Required
	Interrupt hal.Interrupter // Cancellation flag; defaults to never pending
}

// Console is the runtime-facing console HAL.
type Console struct {
	mode      Mode
	transport Transport
	delay     *Delay
}

// New assembles a console for cfg.Mode.
// Returns an error wrapping [pkg.ErrInvalidMode] for an unknown mode, or
// [pkg.ErrMissingCollaborator] if the mode lacks a required collaborator.
func New(cfg Config) (*Console, error) {
	if cfg.Clock == nil {
		return nil, fmt.Errorf("%s backend: clock: %w", cfg.Mode, pkg.ErrMissingCollaborator)
	}

	transport, err := newTransport(cfg)
	if err != nil {
		return nil, err
	}

	pkg.LogInfo(pkg.ComponentConsole, "console configured",
		"mode", cfg.Mode.String())

	return &Console{
		mode:      cfg.Mode,
		transport: transport,
		delay:     NewDelay(cfg.Clock, cfg.Interrupt, cfg.Hook),
	}, nil
}

// newTransport is the transport selector: it is the only place the mode is
// inspected.
func newTransport(cfg Config) (Transport, error) {
	switch cfg.Mode {
	case ModeUART:
		if cfg.UART == nil {
			return nil, fmt.Errorf("%s backend: uart: %w", cfg.Mode, pkg.ErrMissingCollaborator)
		}
		if cfg.Memory == nil {
			return nil, fmt.Errorf("%s backend: memory: %w", cfg.Mode, pkg.ErrMissingCollaborator)
		}
		return NewUARTDirect(cfg.UART, cfg.Memory, cfg.Allocator, cfg.Hook), nil

	case ModeUSBCDC:
		if cfg.CDC == nil {
			return nil, fmt.Errorf("%s backend: cdc: %w", cfg.Mode, pkg.ErrMissingCollaborator)
		}
		t := NewUSBCDC(cfg.CDC, cfg.Hook)
		t.SetIndicators(cfg.RxLED, cfg.TxLED)
		if cfg.Mirror != nil {
			t.SetMirror(cfg.Mirror)
		}
		return t, nil

	default:
		return nil, fmt.Errorf("mode %d: %w", cfg.Mode, pkg.ErrInvalidMode)
	}
}

// Mode returns the backend mode chosen at construction.
func (c *Console) Mode() Mode {
	return c.mode
}

// Transport returns the selected backend.
func (c *Console) Transport() Transport {
	return c.transport
}

// StdinAny reports whether a received character is waiting.
func (c *Console) StdinAny() bool {
	return c.transport.Available()
}

// StdinRxChr blocks until a character is received and returns it.
// There is no timeout.
func (c *Console) StdinRxChr() byte {
	return c.transport.ReadChar()
}

// StdoutTxStrn transmits p.
func (c *Console) StdoutTxStrn(p []byte) {
	c.transport.Transmit(p)
}

// StdoutTxStr transmits s without copying it. On targets that place string
// literals in flash, the UART backend stages them through RAM.
func (c *Console) StdoutTxStr(s string) {
	c.transport.Transmit(unsafe.Slice(unsafe.StringData(s), len(s)))
}

var crlf = []byte{'\r', '\n'}

// StdoutTxStrnCooked transmits p with each LF expanded to CR LF.
func (c *Console) StdoutTxStrnCooked(p []byte) {
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			c.transport.Transmit(p)
			return
		}
		c.transport.Transmit(p[:i])
		c.transport.Transmit(crlf)
		p = p[i+1:]
	}
}

// DelayMs waits ms milliseconds, returning early if a break is pending.
// The caller checks its cancellation flag to tell the two apart.
func (c *Console) DelayMs(ms uint32) {
	c.delay.Wait(ms)
}

// Read blocks for the first byte, then drains whatever else is already
// buffered, up to len(p). It never returns an error.
func (c *Console) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	p[0] = c.transport.ReadChar()
	n := 1
	for n < len(p) && c.transport.Available() {
		p[n] = c.transport.ReadChar()
		n++
	}
	return n, nil
}

// ReadByte blocks until a character is received.
func (c *Console) ReadByte() (byte, error) {
	return c.transport.ReadChar(), nil
}

// Write transmits p. It always reports len(p) bytes written.
func (c *Console) Write(p []byte) (int, error) {
	c.transport.Transmit(p)
	return len(p), nil
}

// Compile-time interface checks
var (
	_ io.Reader     = (*Console)(nil)
	_ io.ByteReader = (*Console)(nil)
	_ io.Writer     = (*Console)(nil)
)

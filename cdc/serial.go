package cdc

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/ardnew/softconsole/hal"
	"github.com/ardnew/softconsole/pkg"
)

// RxBufferSize is the receive FIFO capacity.
const RxBufferSize = 512

// MaxPacketSize is the bulk endpoint max packet size at Full Speed.
const MaxPacketSize = 64

// Serial is a CDC-ACM serial port presented as a receive FIFO and a
// packet-sized transmit path.
type Serial struct {
	// Bulk IN endpoint (data to host)
	endpoint io.Writer

	// Receive FIFO (zero-allocation ring)
	rxBuf  [RxBufferSize]byte
	rxHead int
	rxLen  int

	// Configuration
	lineCoding   LineCoding
	controlState uint16

	// Keyboard interrupt
	intrChar int
	intr     *hal.Flag

	// Callbacks
	onLineCodingChange   func(*LineCoding)
	onControlStateChange func(dtr, rts bool)
	onBreak              func(millis uint16)

	responseBuf [LineCodingSize]byte

	mutex sync.Mutex
}

// NewSerial creates a serial port that transmits to endpoint.
func NewSerial(endpoint io.Writer) *Serial {
	return &Serial{
		endpoint:   endpoint,
		lineCoding: DefaultLineCoding,
		intrChar:   -1,
	}
}

// SetInterruptChar arms c as the keyboard-interrupt character: when it is
// received, flag is set, the receive FIFO is flushed, and c is discarded.
// A negative c or a nil flag disarms it.
func (s *Serial) SetInterruptChar(c int, flag *hal.Flag) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if c < 0 || c > 0xFF || flag == nil {
		s.intrChar = -1
		s.intr = nil
		return
	}
	s.intrChar = c
	s.intr = flag
}

// SetOnLineCodingChange sets the callback for line coding changes.
func (s *Serial) SetOnLineCodingChange(cb func(*LineCoding)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.onLineCodingChange = cb
}

// SetOnControlStateChange sets the callback for control line state changes.
func (s *Serial) SetOnControlStateChange(cb func(dtr, rts bool)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.onControlStateChange = cb
}

// SetOnBreak sets the callback for break signaling.
func (s *Serial) SetOnBreak(cb func(millis uint16)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.onBreak = cb
}

// LineCoding returns the current line coding configuration.
func (s *Serial) LineCoding() LineCoding {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.lineCoding
}

// DTR returns the current DTR (Data Terminal Ready) state.
func (s *Serial) DTR() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.controlState&ControlLineDTR != 0
}

// RTS returns the current RTS (Request To Send) state.
func (s *Serial) RTS() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.controlState&ControlLineRTS != 0
}

// Connected reports whether a host terminal has the port open (DTR set).
func (s *Serial) Connected() bool {
	return s.DTR()
}

// Receive delivers a bulk OUT payload into the receive FIFO and returns the
// number of bytes buffered. Bytes that do not fit are dropped.
func (s *Serial) Receive(p []byte) int {
	s.mutex.Lock()
	buffered, dropped, interrupted := 0, 0, false
	for _, b := range p {
		if s.intrChar >= 0 && int(b) == s.intrChar {
			s.intr.Set()
			s.rxHead, s.rxLen = 0, 0
			buffered = 0
			interrupted = true
			continue
		}
		if s.rxLen == RxBufferSize {
			dropped++
			continue
		}
		s.rxBuf[(s.rxHead+s.rxLen)%RxBufferSize] = b
		s.rxLen++
		buffered++
	}
	s.mutex.Unlock()

	if interrupted {
		pkg.LogDebug(pkg.ComponentCDC, "keyboard interrupt received")
	}
	if dropped > 0 {
		pkg.LogWarn(pkg.ComponentCDC, "receive overflow",
			"dropped", dropped)
	}
	return buffered
}

// Available returns the number of bytes in the receive FIFO.
func (s *Serial) Available() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.rxLen
}

// ReadChar removes and returns the oldest byte in the receive FIFO.
func (s *Serial) ReadChar() (byte, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.rxLen == 0 {
		return 0, false
	}
	b := s.rxBuf[s.rxHead]
	s.rxHead = (s.rxHead + 1) % RxBufferSize
	s.rxLen--
	return b, true
}

// Write sends at most one max-packet of p to the bulk IN endpoint and
// returns the number of bytes sent.
func (s *Serial) Write(p []byte) (int, error) {
	if len(p) > MaxPacketSize {
		p = p[:MaxPacketSize]
	}
	if s.endpoint == nil {
		return 0, pkg.ErrNotConfigured
	}
	return s.endpoint.Write(p)
}

// Pump copies bulk OUT payloads from r into the receive FIFO until r
// reports EOF, r fails, or ctx is cancelled. Cancellation is observed
// between reads.
func (s *Serial) Pump(ctx context.Context, r io.Reader) error {
	var buf [MaxPacketSize]byte
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := r.Read(buf[:])
		if n > 0 {
			s.Receive(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// HandleSetup processes class-specific SETUP requests. For IN requests the
// returned response is valid until the next call.
func (s *Serial) HandleSetup(setup *hal.SetupPacket, data []byte) ([]byte, bool, error) {
	if !setup.IsClass() {
		return nil, false, nil
	}

	switch setup.Request {
	case RequestSetLineCoding:
		return nil, true, s.handleSetLineCoding(data)

	case RequestGetLineCoding:
		if !setup.IsIn() {
			return nil, true, pkg.ErrInvalidRequest
		}
		return s.handleGetLineCoding()

	case RequestSetControlLineState:
		s.handleSetControlLineState(setup.Value)
		return nil, true, nil

	case RequestSendBreak:
		s.handleSendBreak(setup.Value)
		return nil, true, nil

	default:
		return nil, false, nil
	}
}

// handleSetLineCoding handles the SET_LINE_CODING request.
func (s *Serial) handleSetLineCoding(data []byte) error {
	s.mutex.Lock()
	if !ParseLineCoding(data, &s.lineCoding) {
		s.mutex.Unlock()
		return pkg.ErrBufferTooSmall
	}
	cb := s.onLineCodingChange
	lc := s.lineCoding
	s.mutex.Unlock()

	pkg.LogDebug(pkg.ComponentCDC, "line coding set",
		"baud", lc.DTERate,
		"dataBits", lc.DataBits,
		"parity", lc.ParityType,
		"stopBits", lc.CharFormat)

	if cb != nil {
		cb(&lc)
	}
	return nil
}

// handleGetLineCoding handles the GET_LINE_CODING request.
func (s *Serial) handleGetLineCoding() ([]byte, bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	n := s.lineCoding.MarshalTo(s.responseBuf[:])
	return s.responseBuf[:n], true, nil
}

// handleSetControlLineState handles the SET_CONTROL_LINE_STATE request.
func (s *Serial) handleSetControlLineState(value uint16) {
	s.mutex.Lock()
	s.controlState = value
	cb := s.onControlStateChange
	dtr := value&ControlLineDTR != 0
	rts := value&ControlLineRTS != 0
	s.mutex.Unlock()

	pkg.LogDebug(pkg.ComponentCDC, "control line state set",
		"dtr", dtr,
		"rts", rts)

	if cb != nil {
		cb(dtr, rts)
	}
}

// handleSendBreak handles the SEND_BREAK request.
func (s *Serial) handleSendBreak(millis uint16) {
	s.mutex.Lock()
	cb := s.onBreak
	s.mutex.Unlock()

	pkg.LogDebug(pkg.ComponentCDC, "break signaled",
		"duration_ms", millis)

	if cb != nil {
		cb(millis)
	}
}

// Compile-time interface check
var _ hal.CDC = (*Serial)(nil)

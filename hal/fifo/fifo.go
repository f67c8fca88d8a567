package fifo

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/ardnew/softconsole/hal"
	"github.com/ardnew/softconsole/pkg"
)

// BufferSize is the capacity of the internal receive buffer.
const BufferSize = 4096

// FIFO file names.
const (
	fifoRx = "rx"
	fifoTx = "tx"
)

// pollInterval bounds how long a blocked read waits before rechecking for
// cancellation.
const pollInterval = 100 * time.Millisecond

// Port implements hal.UART and io.Writer over a pair of named pipes.
type Port struct {
	busDir  string
	portDir string
	uuid    string

	rxRead  *os.File // Port reads terminal input
	txWrite *os.File // Port writes console output

	// Receive buffer (zero-allocation ring)
	rxBuf  [BufferSize]byte
	rxHead int
	rxLen  int

	onReceive func([]byte)
	intrChar  int
	intr      *hal.Flag

	mutex     sync.Mutex
	txMutex   sync.Mutex
	running   bool
	opened    bool
	closeCh   chan struct{}
	closeOnce sync.Once

	readBuf [512]byte
}

// New creates a Port under busDir. The pipes are not created until Open.
func New(busDir string) *Port {
	return &Port{
		busDir:   busDir,
		intrChar: -1,
		closeCh:  make(chan struct{}),
	}
}

// generateUUID generates a random UUID using crypto/rand.
func generateUUID() (string, error) {
	var uuid [16]byte
	if _, err := rand.Read(uuid[:]); err != nil {
		return "", err
	}
	// Set version 4 (random) bits
	uuid[6] = (uuid[6] & 0x0f) | 0x40
	uuid[8] = (uuid[8] & 0x3f) | 0x80
	return hex.EncodeToString(uuid[:]), nil
}

// Open creates the port subdirectory and both FIFOs and opens them.
func (p *Port) Open() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.opened {
		return pkg.ErrAlreadyRunning
	}

	uuid, err := generateUUID()
	if err != nil {
		return fmt.Errorf("generate uuid: %w", err)
	}
	p.uuid = uuid
	p.portDir = filepath.Join(p.busDir, "port-"+uuid)

	if err := os.MkdirAll(p.portDir, 0o755); err != nil {
		return fmt.Errorf("create port dir: %w", err)
	}

	if err := p.createFIFO(fifoRx); err != nil {
		p.cleanup()
		return err
	}
	if err := p.createFIFO(fifoTx); err != nil {
		p.cleanup()
		return err
	}

	p.rxRead, err = p.openFIFO(fifoRx, os.O_RDWR|syscall.O_NONBLOCK)
	if err != nil {
		p.cleanup()
		return err
	}
	p.txWrite, err = p.openFIFO(fifoTx, os.O_RDWR|syscall.O_NONBLOCK)
	if err != nil {
		p.cleanup()
		return err
	}

	p.opened = true
	pkg.LogInfo(pkg.ComponentHAL, "fifo port opened",
		"busDir", p.busDir,
		"portDir", p.portDir,
		"uuid", p.uuid)

	return nil
}

// Close stops Run, closes both FIFOs, and removes the port directory.
func (p *Port) Close() error {
	p.closeOnce.Do(func() {
		close(p.closeCh)
	})

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if !p.opened {
		return nil
	}
	p.cleanup()
	p.opened = false
	pkg.LogInfo(pkg.ComponentHAL, "fifo port closed")
	return nil
}

// cleanup closes all FIFOs and removes the port directory.
func (p *Port) cleanup() {
	if p.rxRead != nil {
		p.rxRead.Close()
		p.rxRead = nil
	}
	if p.txWrite != nil {
		p.txWrite.Close()
		p.txWrite = nil
	}
	if p.portDir != "" {
		os.RemoveAll(p.portDir)
	}
}

// Dir returns the port subdirectory. Empty until Open succeeds.
func (p *Port) Dir() string {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.portDir
}

// UUID returns the port's unique identifier.
func (p *Port) UUID() string {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.uuid
}

// OnReceive routes received bytes to fn instead of the internal buffer.
// The slice passed to fn is only valid for the duration of the call.
func (p *Port) OnReceive(fn func([]byte)) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.onReceive = fn
}

// SetInterruptChar arms c as the interrupt character. A negative c or a nil
// flag disarms it.
func (p *Port) SetInterruptChar(c int, flag *hal.Flag) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if c < 0 || c > 0xFF || flag == nil {
		p.intrChar = -1
		p.intr = nil
		return
	}
	p.intrChar = c
	p.intr = flag
}

// Run pumps the rx FIFO until ctx is cancelled or the Port is closed.
func (p *Port) Run(ctx context.Context) error {
	select {
	case <-p.closeCh:
		return pkg.ErrCancelled
	default:
	}

	p.mutex.Lock()
	if !p.opened {
		p.mutex.Unlock()
		return pkg.ErrNotConfigured
	}
	if p.running {
		p.mutex.Unlock()
		return pkg.ErrAlreadyRunning
	}
	p.running = true
	f := p.rxRead
	p.mutex.Unlock()

	defer func() {
		p.mutex.Lock()
		p.running = false
		p.mutex.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.closeCh:
			return pkg.ErrCancelled
		default:
		}

		f.SetReadDeadline(time.Now().Add(pollInterval))
		n, err := f.Read(p.readBuf[:])
		if n > 0 {
			p.deliver(p.readBuf[:n])
		}
		if err != nil {
			if os.IsTimeout(err) {
				continue
			}
			select {
			case <-p.closeCh:
				return pkg.ErrCancelled
			default:
			}
			return fmt.Errorf("read %s: %w", fifoRx, err)
		}
	}
}

// deliver scans data for the interrupt character and hands the rest to the
// receive callback or the internal buffer.
func (p *Port) deliver(data []byte) {
	p.mutex.Lock()
	fn := p.onReceive
	if fn != nil {
		// The callback owns interrupt handling (cdc.Serial arms its own).
		p.mutex.Unlock()
		fn(data)
		return
	}

	dropped := 0
	for _, b := range data {
		if p.intrChar >= 0 && int(b) == p.intrChar {
			p.intr.Set()
			p.rxHead, p.rxLen = 0, 0
			continue
		}
		if p.rxLen == BufferSize {
			dropped++
			continue
		}
		p.rxBuf[(p.rxHead+p.rxLen)%BufferSize] = b
		p.rxLen++
	}
	p.mutex.Unlock()

	if dropped > 0 {
		pkg.LogWarn(pkg.ComponentHAL, "fifo receive overflow",
			"dropped", dropped)
	}
}

// RxReady reports whether at least one received byte is buffered.
func (p *Port) RxReady() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.rxLen > 0
}

// Rx fills buf from the receive buffer, waiting for more input as needed.
func (p *Port) Rx(buf []byte) error {
	total := 0
	for total < len(buf) {
		p.mutex.Lock()
		for total < len(buf) && p.rxLen > 0 {
			buf[total] = p.rxBuf[p.rxHead]
			p.rxHead = (p.rxHead + 1) % BufferSize
			p.rxLen--
			total++
		}
		p.mutex.Unlock()

		if total == len(buf) {
			break
		}
		select {
		case <-p.closeCh:
			return pkg.ErrClosed
		case <-time.After(time.Millisecond):
		}
	}
	return nil
}

// Tx writes all of buf to the tx FIFO.
func (p *Port) Tx(buf []byte) error {
	_, err := p.Write(buf)
	return err
}

// Write implements io.Writer on the tx FIFO.
func (p *Port) Write(data []byte) (int, error) {
	p.mutex.Lock()
	f := p.txWrite
	p.mutex.Unlock()

	if f == nil {
		return 0, pkg.ErrNotConfigured
	}

	p.txMutex.Lock()
	defer p.txMutex.Unlock()

	n, err := f.Write(data)
	if err != nil {
		return n, fmt.Errorf("write %s: %w", fifoTx, err)
	}
	return n, nil
}

// createFIFO creates a named pipe in the port directory.
func (p *Port) createFIFO(name string) error {
	path := filepath.Join(p.portDir, name)

	// Remove existing file if any
	os.Remove(path)

	if err := syscall.Mkfifo(path, 0o666); err != nil {
		return fmt.Errorf("mkfifo %s: %w", name, err)
	}

	return nil
}

// openFIFO opens a named pipe in the port directory.
func (p *Port) openFIFO(name string, flag int) (*os.File, error) {
	path := filepath.Join(p.portDir, name)
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, nil
}

// Compile-time interface check
var _ hal.UART = (*Port)(nil)

package mirror

import (
	"io"
	"sync"

	"github.com/ardnew/softconsole/hal"
	"github.com/ardnew/softconsole/pkg"
)

// Writer mirrors console output into an arbitrary io.Writer.
type Writer struct {
	mutex sync.Mutex
	w     io.Writer
}

// NewWriter returns a mirror that writes to w until Close.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// IsOpen reports whether the writer is attached.
func (m *Writer) IsOpen() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.w != nil
}

func (m *Writer) Write(p []byte) (int, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.w == nil {
		return 0, pkg.ErrClosed
	}
	return m.w.Write(p)
}

// Close detaches the underlying writer. If it implements io.Closer it is
// closed as well.
func (m *Writer) Close() error {
	m.mutex.Lock()
	w := m.w
	m.w = nil
	m.mutex.Unlock()

	if c, ok := w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

var _ hal.Mirror = (*Writer)(nil)

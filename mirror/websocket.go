package mirror

import (
	"fmt"
	"sync"

	"golang.org/x/net/websocket"

	"github.com/ardnew/softconsole/hal"
	"github.com/ardnew/softconsole/pkg"
)

// WebSocket mirrors console output as binary frames on a websocket.
type WebSocket struct {
	mutex sync.Mutex
	conn  *websocket.Conn
}

// DialWebSocket connects to url (for example "ws://localhost:8080/console").
// An empty origin defaults to http://localhost/.
func DialWebSocket(url, origin string) (*WebSocket, error) {
	if origin == "" {
		origin = "http://localhost/"
	}
	config, err := websocket.NewConfig(url, origin)
	if err != nil {
		return nil, fmt.Errorf("websocket config: %w", err)
	}
	conn, err := websocket.DialConfig(config)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	pkg.LogInfo(pkg.ComponentMirror, "websocket mirror connected", "url", url)
	return &WebSocket{conn: conn}, nil
}

// IsOpen reports whether the connection is still usable.
func (m *WebSocket) IsOpen() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.conn != nil
}

// Write sends p as one binary frame. A failed send closes the mirror.
func (m *WebSocket) Write(p []byte) (int, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.conn == nil {
		return 0, pkg.ErrClosed
	}
	if err := websocket.Message.Send(m.conn, p); err != nil {
		pkg.LogWarn(pkg.ComponentMirror, "websocket send failed, closing mirror",
			"error", err)
		m.conn.Close()
		m.conn = nil
		return 0, err
	}
	return len(p), nil
}

// Close closes the connection.
func (m *WebSocket) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.conn == nil {
		return nil
	}
	err := m.conn.Close()
	m.conn = nil
	return err
}

var _ hal.Mirror = (*WebSocket)(nil)

package mirror

import (
	"fmt"
	"os"
	"sync"

	"github.com/ardnew/softconsole/hal"
	"github.com/ardnew/softconsole/pkg"
)

// File mirrors console output into a file.
type File struct {
	mutex sync.Mutex
	f     *os.File
	path  string
}

// Create truncates or creates the file at path and opens it for mirroring.
func Create(path string) (*File, error) {
	return openFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC)
}

// Open opens the file at path for appending, creating it if needed.
func Open(path string) (*File, error) {
	return openFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND)
}

func openFile(path string, flag int) (*File, error) {
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open mirror file: %w", err)
	}
	pkg.LogInfo(pkg.ComponentMirror, "file mirror opened", "path", path)
	return &File{f: f, path: path}, nil
}

// Path returns the mirrored file's path.
func (m *File) Path() string {
	return m.path
}

// IsOpen reports whether the file is still open.
func (m *File) IsOpen() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.f != nil
}

// Write appends p to the file.
func (m *File) Write(p []byte) (int, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.f == nil {
		return 0, pkg.ErrClosed
	}
	return m.f.Write(p)
}

// Sync flushes the file to stable storage.
func (m *File) Sync() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.f == nil {
		return pkg.ErrClosed
	}
	return m.f.Sync()
}

// Close closes the file. Subsequent writes fail with pkg.ErrClosed.
func (m *File) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.f == nil {
		return nil
	}
	err := m.f.Close()
	m.f = nil
	return err
}

var _ hal.Mirror = (*File)(nil)

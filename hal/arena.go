package hal

import (
	"sync"

	"github.com/ardnew/softconsole/pkg"
)

// Arena is a fixed DMA-reachable memory window that also hands out staging
// buffers from its own storage. Allocations are released in LIFO order,
// which matches the stage, transmit, free sequence of the UART backend.
//
// When the arena is exhausted Alloc falls back to the Go heap, so the
// buffer it returns is then not inside the arena's region.
type Arena struct {
	mutex sync.Mutex
	buf   []byte
	top   int
	marks []int
}

// NewArena returns an arena backed by a fresh buffer of size bytes.
func NewArena(size int) *Arena {
	return &Arena{buf: make([]byte, size)}
}

// Region returns the address window covered by the arena.
func (a *Arena) Region() Region {
	return RegionOf(a.buf)
}

// DMACapable implements [Memory]: buf must lie inside the arena.
func (a *Arena) DMACapable(buf []byte) bool {
	return a.Region().Contains(buf)
}

// Bytes returns the arena's storage. Data placed here is DMA-capable.
func (a *Arena) Bytes() []byte {
	return a.buf
}

// Alloc implements [Allocator].
func (a *Arena) Alloc(n int) []byte {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if n > len(a.buf)-a.top {
		pkg.LogWarn(pkg.ComponentHAL, "arena exhausted, staging on heap",
			"want", n,
			"free", len(a.buf)-a.top)
		return make([]byte, n)
	}

	p := a.buf[a.top : a.top+n : a.top+n]
	clear(p)
	a.marks = append(a.marks, a.top)
	a.top += n
	return p
}

// Free implements [Allocator]. Only the most recent arena allocation can be
// released; heap fallbacks are left to the garbage collector.
func (a *Arena) Free(p []byte) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if len(a.marks) == 0 || !RegionOf(a.buf).Contains(p) {
		return
	}
	last := a.marks[len(a.marks)-1]
	if len(p) > 0 && addressOf(p) != addressOf(a.buf[last:]) {
		pkg.LogWarn(pkg.ComponentHAL, "arena free out of order", "len", len(p))
		return
	}
	a.top = last
	a.marks = a.marks[:len(a.marks)-1]
}

// InUse returns the number of arena bytes currently allocated.
func (a *Arena) InUse() int {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.top
}

// Compile-time interface checks
var (
	_ Memory    = (*Arena)(nil)
	_ Allocator = (*Arena)(nil)
)

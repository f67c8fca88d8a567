package hal

import "unsafe"

// Region is a contiguous address window, such as on-chip SRAM.
type Region struct {
	Start uintptr // First address in the region
	Size  uintptr // Region length in bytes
}

// RegionOf returns the region spanned by buf.
func RegionOf(buf []byte) Region {
	return Region{Start: addressOf(buf), Size: uintptr(len(buf))}
}

// End returns the first address past the region.
func (r Region) End() uintptr {
	return r.Start + r.Size
}

// Contains reports whether every byte of buf lies inside the region.
// Empty buffers are contained in every region.
func (r Region) Contains(buf []byte) bool {
	if len(buf) == 0 {
		return true
	}
	addr := addressOf(buf)
	n := uintptr(len(buf))
	return addr >= r.Start && addr < r.End() && n <= r.End()-addr
}

// DMACapable implements [Memory] for a single DMA-reachable region.
func (r Region) DMACapable(buf []byte) bool {
	return r.Contains(buf)
}

func addressOf(buf []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
}

// HeapAllocator stages buffers on the Go heap. Heap memory is assumed to be
// DMA-reachable, which holds for the SRAM-only heaps TinyGo uses.
type HeapAllocator struct{}

// Alloc returns a zeroed buffer of n bytes.
func (HeapAllocator) Alloc(n int) []byte {
	return make([]byte, n)
}

// Free is a no-op; the garbage collector reclaims the buffer.
func (HeapAllocator) Free([]byte) {}

// Compile-time interface checks
var (
	_ Memory    = Region{}
	_ Allocator = HeapAllocator{}
)

package console

import (
	"errors"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/ardnew/softconsole/hal"
)

func TestUARTDirect_TransmitEmpty(t *testing.T) {
	c := qt.New(t)
	uart := &spyUART{}
	alloc := &spyAllocator{}
	u := NewUARTDirect(uart, memoryFunc(func([]byte) bool { return false }), alloc, nil)

	u.Transmit(nil)
	u.Transmit([]byte{})

	c.Assert(uart.tx, qt.HasLen, 0)
	c.Assert(alloc.sizes, qt.HasLen, 0)
	c.Assert(alloc.frees, qt.Equals, 0)
}

func TestUARTDirect_TransmitZeroCopy(t *testing.T) {
	c := qt.New(t)
	var ram [32]byte
	copy(ram[:], "hello, world")
	uart := &spyUART{}
	alloc := &spyAllocator{}
	u := NewUARTDirect(uart, hal.RegionOf(ram[:]), alloc, nil)

	msg := ram[:12]
	u.Transmit(msg)

	c.Assert(alloc.sizes, qt.HasLen, 0)
	c.Assert(alloc.frees, qt.Equals, 0)
	c.Assert(uart.txBufs, qt.HasLen, 1)
	c.Assert(&uart.txBufs[0][0], qt.Equals, &msg[0])
	c.Assert(string(uart.tx[0]), qt.Equals, "hello, world")
}

func TestUARTDirect_TransmitStaged(t *testing.T) {
	var ram [8]byte
	inputs := []string{"x", "flash-resident text", string(make([]byte, 300))}

	for _, in := range inputs {
		t.Run(fmt.Sprintf("len=%d", len(in)), func(t *testing.T) {
			c := qt.New(t)
			uart := &spyUART{}
			alloc := &spyAllocator{}
			u := NewUARTDirect(uart, hal.RegionOf(ram[:]), alloc, nil)

			src := []byte(in)
			u.Transmit(src)

			c.Assert(alloc.sizes, qt.DeepEquals, []int{len(src)})
			c.Assert(alloc.frees, qt.Equals, 1)
			c.Assert(uart.tx, qt.HasLen, 1)
			c.Assert(string(uart.tx[0]), qt.Equals, in)
			c.Assert(&uart.txBufs[0][0], qt.Equals, &alloc.last[0])
			c.Assert(string(src), qt.Equals, in)
		})
	}
}

func TestUARTDirect_TransmitErrorStillFrees(t *testing.T) {
	c := qt.New(t)
	uart := &spyUART{txErr: errors.New("uarte error")}
	alloc := &spyAllocator{}
	u := NewUARTDirect(uart, memoryFunc(func([]byte) bool { return false }), alloc, nil)

	u.Transmit([]byte("abc"))

	c.Assert(uart.tx, qt.HasLen, 1)
	c.Assert(alloc.frees, qt.Equals, 1)
}

func TestUARTDirect_DefaultAllocator(t *testing.T) {
	c := qt.New(t)
	uart := &spyUART{}
	u := NewUARTDirect(uart, memoryFunc(func([]byte) bool { return false }), nil, nil)

	u.Transmit([]byte("heap"))

	c.Assert(uart.tx, qt.HasLen, 1)
	c.Assert(string(uart.tx[0]), qt.Equals, "heap")
}

func TestUARTDirect_AvailableDoesNotConsume(t *testing.T) {
	c := qt.New(t)
	uart := &spyUART{}
	u := NewUARTDirect(uart, hal.Region{}, nil, nil)

	c.Assert(u.Available(), qt.IsFalse)

	uart.rx = []byte{'q'}
	c.Assert(u.Available(), qt.IsTrue)
	c.Assert(u.Available(), qt.IsTrue)
	c.Assert(uart.rxCalls, qt.Equals, 0)
	c.Assert(u.ReadChar(), qt.Equals, byte('q'))
}

func TestUARTDirect_ReadCharPollsWithHook(t *testing.T) {
	c := qt.New(t)
	uart := &spyUART{}
	hook := &counter{}
	hook.onCall = func(n int) {
		if n == 5 {
			uart.rx = []byte{'z'}
		}
	}
	u := NewUARTDirect(uart, hal.Region{}, nil, hook.hook)

	c.Assert(u.ReadChar(), qt.Equals, byte('z'))
	c.Assert(hook.n, qt.Equals, 5)
	c.Assert(uart.readyCalls, qt.Equals, 5)
	c.Assert(uart.rxCalls, qt.Equals, 1)
}

func TestUARTDirect_ReadCharRetriesFailedReceive(t *testing.T) {
	c := qt.New(t)
	uart := &spyUART{rx: []byte("ok"), rxErrs: 2}
	u := NewUARTDirect(uart, hal.Region{}, nil, nil)

	c.Assert(u.ReadChar(), qt.Equals, byte('o'))
	c.Assert(uart.rxCalls, qt.Equals, 3)
	c.Assert(u.ReadChar(), qt.Equals, byte('k'))
}

package console

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestUSBCDC_TransmitEmpty(t *testing.T) {
	c := qt.New(t)
	stack := &spyCDC{}
	tx := &counter{}
	mirror := &spyMirror{open: true}
	u := NewUSBCDC(stack, nil)
	u.SetIndicators(nil, tx)
	u.SetMirror(mirror)

	u.Transmit(nil)

	c.Assert(stack.writes, qt.Equals, 0)
	c.Assert(tx.n, qt.Equals, 0)
	c.Assert(mirror.writes, qt.Equals, 0)
}

func TestUSBCDC_TransmitTogglesOncePerCall(t *testing.T) {
	c := qt.New(t)
	stack := &spyCDC{accept: 2}
	tx := &counter{}
	u := NewUSBCDC(stack, nil)
	u.SetIndicators(nil, tx)

	u.Transmit([]byte("0123456789"))

	c.Assert(tx.n, qt.Equals, 1)
	c.Assert(stack.writes, qt.Equals, 5)
	c.Assert(string(stack.tx), qt.Equals, "0123456789")
}

func TestUSBCDC_TransmitSpinsOnFullFIFO(t *testing.T) {
	c := qt.New(t)
	stack := &spyCDC{stalls: 3}
	hook := &counter{}
	u := NewUSBCDC(stack, hook.hook)

	u.Transmit([]byte("abc"))

	c.Assert(hook.n, qt.Equals, 3)
	c.Assert(string(stack.tx), qt.Equals, "abc")
}

func TestUSBCDC_TransmitStackError(t *testing.T) {
	c := qt.New(t)
	stack := &spyCDC{writeErr: errors.New("not mounted")}
	u := NewUSBCDC(stack, nil)

	u.Transmit([]byte("abc"))

	c.Assert(stack.writes, qt.Equals, 1)
}

func TestUSBCDC_Mirror(t *testing.T) {
	tests := []struct {
		name       string
		mirror     *spyMirror
		wantWrites int
	}{
		{"closed", &spyMirror{}, 0},
		{"open", &spyMirror{open: true}, 1},
		{"short write", &spyMirror{open: true, short: 2}, 1},
		{"error", &spyMirror{open: true, err: errors.New("disk full")}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			stack := &spyCDC{}
			u := NewUSBCDC(stack, nil)
			u.SetMirror(tt.mirror)

			u.Transmit([]byte("boot ok"))

			c.Assert(tt.mirror.writes, qt.Equals, tt.wantWrites)
			c.Assert(string(stack.tx), qt.Equals, "boot ok")
		})
	}
}

func TestUSBCDC_AvailableDoesNotConsume(t *testing.T) {
	c := qt.New(t)
	stack := &spyCDC{}
	u := NewUSBCDC(stack, nil)

	c.Assert(u.Available(), qt.IsFalse)

	stack.rx = []byte("r")
	c.Assert(u.Available(), qt.IsTrue)
	c.Assert(u.Available(), qt.IsTrue)
	c.Assert(u.ReadChar(), qt.Equals, byte('r'))
	c.Assert(u.Available(), qt.IsFalse)
}

func TestUSBCDC_ReadCharPollsWithHook(t *testing.T) {
	c := qt.New(t)
	stack := &spyCDC{}
	hook := &counter{}
	rx := &counter{}
	hook.onCall = func(n int) {
		if n == 4 {
			stack.rx = []byte("ab")
		}
	}
	u := NewUSBCDC(stack, hook.hook)
	u.SetIndicators(rx, nil)

	c.Assert(u.ReadChar(), qt.Equals, byte('a'))
	c.Assert(hook.n, qt.Equals, 4)
	c.Assert(stack.availCalls, qt.Equals, 4)
	c.Assert(rx.n, qt.Equals, 1)
	c.Assert(stack.rx, qt.DeepEquals, []byte("b"))
}

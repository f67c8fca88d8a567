// Package cdc implements the device side of a USB CDC-ACM serial port as
// seen by a console: a receive FIFO filled from the bulk OUT endpoint, a
// transmit path to the bulk IN endpoint, and the class requests a host
// terminal issues.
//
// [Serial] satisfies [github.com/ardnew/softconsole/hal.CDC], so it can back
// the console's USB-CDC transport directly. The enumeration and endpoint
// plumbing below it belong to the USB device stack; [Serial] only needs
// bulk OUT payloads delivered through [Serial.Receive] (or pumped from an
// [io.Reader] with [Serial.Pump]) and an [io.Writer] for bulk IN.
//
// # Keyboard Interrupt
//
// A terminal's Ctrl-C must interrupt a running program even when nothing
// is reading stdin. [Serial.SetInterruptChar] arms a character that, on
// arrival, sets a [github.com/ardnew/softconsole/hal.Flag] instead of
// entering the receive FIFO, and discards any input still buffered. A SEND_BREAK request can be routed to the
// same flag through [Serial.SetOnBreak].
//
// # Zero-Allocation Design
//
// The receive FIFO and control responses use fixed-size buffers. Transmit
// hands caller data to the endpoint one max-packet at a time; the console
// above retries the remainder.
//
// # Usage
//
//	intr := new(hal.Flag)
//	serial := cdc.NewSerial(bulkIn)
//	serial.SetInterruptChar(cdc.CharCtrlC, intr)
//	serial.SetOnBreak(func(uint16) { intr.Set() })
//
//	go serial.Pump(ctx, bulkOut)
//
//	cons, _ := console.New(console.Config{
//	    Mode:      console.ModeUSBCDC,
//	    CDC:       serial,
//	    Clock:     hal.NewSystemClock(),
//	    Interrupt: intr,
//	})
package cdc

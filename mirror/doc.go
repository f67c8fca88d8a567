// Package mirror provides secondary sinks that receive a copy of everything
// the console transmits on the USB CDC backend.
//
// Every sink implements hal.Mirror. The console only writes to a sink while
// IsOpen reports true, and it tolerates short writes and errors, so a sink
// that fails simply drops output rather than stalling the console.
//
// # Sinks
//
//   - File: a boot-output file, created or appended to on the host filesystem.
//   - Writer: any io.Writer, such as a tinyterm terminal on a display.
//   - MQTT: publishes each chunk to a topic at QoS 0 without waiting.
//   - WebSocket: sends each chunk as a binary frame.
//   - Multi: fans out to several sinks.
package mirror

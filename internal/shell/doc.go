// Package shell implements a small interactive line shell on top of a
// console.Console.
//
// The shell exists to exercise the console HAL end to end on a development
// host: it reads keystrokes with the blocking receive path, echoes them with
// the transmit path, and runs a cancellable sleep through the console delay.
//
// # Line Editing
//
//   - Printable characters are echoed and appended to the line.
//   - Backspace (0x08) and DEL (0x7F) erase the previous character.
//   - CR, LF, or CRLF end the line.
//   - Ctrl-D on an empty line ends the session.
//   - A pending keyboard interrupt discards the line and reprints the prompt.
//
// # Commands
//
//	help          list commands
//	echo ARGS...  print ARGS separated by spaces
//	sleep MS      wait MS milliseconds (interruptible)
//	mode          print the console backend
//
// Arguments are split with shell quoting rules, so echo "a  b" keeps the
// embedded spaces.
package shell

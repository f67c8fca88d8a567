package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/ardnew/softconsole/console"
	"github.com/ardnew/softconsole/hal"
	"github.com/ardnew/softconsole/pkg"
)

// Control characters recognized by the line editor.
const (
	charCtrlC     = 0x03
	charCtrlD     = 0x04
	charBackspace = 0x08
	charDelete    = 0x7F
)

// MaxLineLength bounds a single input line. Further input is ignored until
// the line ends.
const MaxLineLength = 256

// DefaultPrompt is printed before each line.
const DefaultPrompt = ">>> "

// idlePollMs is the delay between receive checks while waiting for input.
const idlePollMs = 1

var errInterrupted = errors.New("line interrupted")

// Shell is an interactive command loop over a console.
type Shell struct {
	cons   *console.Console
	intr   *hal.Flag
	prompt string

	line   [MaxLineLength]byte
	n      int
	lastCR bool

	commands map[string]command
}

type command struct {
	usage string
	run   func(s *Shell, args []string)
}

// New returns a shell over cons. intr is the cancellation flag shared with the
// console delay; it may be nil.
func New(cons *console.Console, intr *hal.Flag) *Shell {
	s := &Shell{
		cons:   cons,
		intr:   intr,
		prompt: DefaultPrompt,
	}
	s.commands = map[string]command{
		"help":  {"help          list commands", (*Shell).cmdHelp},
		"echo":  {"echo ARGS...  print ARGS", (*Shell).cmdEcho},
		"sleep": {"sleep MS      wait MS milliseconds", (*Shell).cmdSleep},
		"mode":  {"mode          print the console backend", (*Shell).cmdMode},
	}
	return s
}

// SetPrompt replaces the prompt.
func (s *Shell) SetPrompt(prompt string) {
	s.prompt = prompt
}

// Run reads and executes lines until Ctrl-D or ctx is cancelled. It returns
// nil on Ctrl-D and ctx.Err() on cancellation.
func (s *Shell) Run(ctx context.Context) error {
	pkg.LogInfo(pkg.ComponentShell, "shell started",
		"mode", s.cons.Mode().String())

	s.print("softconsole on " + s.cons.Mode().String() + "; type \"help\" for commands\n")

	for {
		s.print(s.prompt)

		line, err := s.readLine(ctx)
		switch {
		case err == nil:
			s.print("\n")
			s.Exec(line)
		case errors.Is(err, errInterrupted):
			s.print("\n")
		case errors.Is(err, io.EOF):
			s.print("\n")
			pkg.LogInfo(pkg.ComponentShell, "shell exited")
			return nil
		default:
			return err
		}
	}
}

// Exec runs a single command line.
func (s *Shell) Exec(line string) {
	args, err := shlex.Split(line)
	if err != nil {
		s.print(fmt.Sprintf("parse error: %v\n", err))
		return
	}
	if len(args) == 0 {
		return
	}

	pkg.LogDebug(pkg.ComponentShell, "exec", "command", args[0], "args", len(args)-1)

	cmd, ok := s.commands[args[0]]
	if !ok {
		s.print(fmt.Sprintf("unknown command: %s\n", args[0]))
		return
	}
	cmd.run(s, args[1:])
}

// readLine collects one edited line.
func (s *Shell) readLine(ctx context.Context) (string, error) {
	s.n = 0
	for {
		b, err := s.readByte(ctx)
		if err != nil {
			return "", err
		}

		if b == '\n' && s.lastCR {
			s.lastCR = false
			continue
		}
		s.lastCR = b == '\r'

		switch {
		case b == '\r' || b == '\n':
			return string(s.line[:s.n]), nil

		case b == charCtrlD:
			if s.n == 0 {
				return "", io.EOF
			}

		case b == charCtrlC:
			s.n = 0
			return "", errInterrupted

		case b == charBackspace || b == charDelete:
			if s.n > 0 {
				s.n--
				s.cons.StdoutTxStr("\b \b")
			}

		case b >= 0x20 && b < 0x7F:
			if s.n < MaxLineLength {
				s.line[s.n] = b
				s.n++
				s.cons.StdoutTxStrn(s.line[s.n-1 : s.n])
			}
		}
	}
}

// readByte waits for one received byte. While idle it polls through the
// console delay so the runtime hook keeps running and ctx and the
// interrupt flag are observed.
func (s *Shell) readByte(ctx context.Context) (byte, error) {
	for !s.cons.StdinAny() {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if s.intr != nil && s.intr.Pending() {
			s.intr.Clear()
			s.n = 0
			return 0, errInterrupted
		}
		s.cons.DelayMs(idlePollMs)
	}
	return s.cons.StdinRxChr(), nil
}

func (s *Shell) print(str string) {
	s.cons.StdoutTxStrnCooked([]byte(str))
}

func (s *Shell) cmdHelp(args []string) {
	names := []string{"echo", "help", "mode", "sleep"}
	var b strings.Builder
	for _, name := range names {
		b.WriteString("  ")
		b.WriteString(s.commands[name].usage)
		b.WriteByte('\n')
	}
	b.WriteString("  Ctrl-C        interrupt sleep\n")
	b.WriteString("  Ctrl-D        exit\n")
	s.print(b.String())
}

func (s *Shell) cmdEcho(args []string) {
	s.print(strings.Join(args, " ") + "\n")
}

func (s *Shell) cmdSleep(args []string) {
	if len(args) != 1 {
		s.print("usage: sleep MS\n")
		return
	}
	ms, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		s.print(fmt.Sprintf("sleep: invalid duration %q\n", args[0]))
		return
	}

	s.cons.DelayMs(uint32(ms))

	if s.intr != nil && s.intr.Pending() {
		s.intr.Clear()
		s.print("KeyboardInterrupt\n")
	}
}

func (s *Shell) cmdMode(args []string) {
	s.print(s.cons.Mode().String() + "\n")
}

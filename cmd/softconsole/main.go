// Package main runs the console HAL on a development host.
//
// The simulator exposes a named-pipe serial line, drives it with either the
// UART backend or the USB CDC backend, and runs an interactive shell on the
// resulting console. Attach a terminal from another shell:
//
//	stty raw -echo; cat <port-dir>/tx & cat > <port-dir>/rx
//
// Usage:
//
//	go run ./cmd/softconsole [options] [bus-dir]
//
// The bus directory defaults to a fresh temporary directory. The port creates
// its own subdirectory (port-{uuid}/) inside it.
//
// Options:
//
//	-v                   Enable verbose (debug) logging
//	-json                Use JSON log format
//	-mode string         Console backend: uart or usb-cdc (default: usb-cdc)
//	-arena int           Simulated DMA-capable RAM in bytes (default: 4096)
//	-mirror path         Mirror CDC output into a boot-output file
//	-mqtt broker         Mirror CDC output to an MQTT broker
//	-mqtt-topic string   MQTT topic for mirrored output (default: softconsole/out)
//	-ws url              Mirror CDC output to a websocket
//	-interrupt-char int  Keyboard-interrupt character, -1 to disable (default: 3)
//	-cpuprofile path     Write a CPU profile (requires -tags profile)
//	-memprofile path     Write a heap profile on exit (requires -tags profile)
//	-pprof addr          Serve /debug/pprof/ on addr (requires -tags profile)
//
// SIGINT raises the keyboard interrupt, which cancels a running sleep.
// SIGTERM, or Ctrl-D at the prompt, shuts the simulator down.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/softconsole/cdc"
	"github.com/ardnew/softconsole/console"
	"github.com/ardnew/softconsole/hal"
	"github.com/ardnew/softconsole/hal/fifo"
	"github.com/ardnew/softconsole/internal/shell"
	"github.com/ardnew/softconsole/mirror"
	"github.com/ardnew/softconsole/pkg"
	"github.com/ardnew/softconsole/pkg/prof"
)

// component identifies this executable for structured logging.
const component = pkg.ComponentConsole

// hookInterval is how long the runtime hook yields per call.
const hookInterval = 100 * time.Microsecond

type options struct {
	mode      console.Mode
	busDir    string
	arena     int
	mirror    string
	mqtt      string
	mqttTopic string
	ws        string
	intrChar  int
}

func main() {
	verbose := flag.Bool("v", false, "enable verbose (debug) logging")
	jsonLog := flag.Bool("json", false, "use JSON log format")
	mode := flag.String("mode", "usb-cdc", "console backend: uart or usb-cdc")
	arena := flag.Int("arena", 4096, "simulated DMA-capable RAM in bytes")
	mirrorPath := flag.String("mirror", "", "mirror CDC output into a boot-output file")
	mqttBroker := flag.String("mqtt", "", "mirror CDC output to an MQTT broker (tcp://host:1883)")
	mqttTopic := flag.String("mqtt-topic", "softconsole/out", "MQTT topic for mirrored output")
	wsURL := flag.String("ws", "", "mirror CDC output to a websocket (ws://host/path)")
	intrChar := flag.Int("interrupt-char", cdc.CharCtrlC, "keyboard-interrupt character, -1 to disable")
	cpuProfile := flag.String("cpuprofile", "", "write a CPU profile to path")
	memProfile := flag.String("memprofile", "", "write a heap profile to path on exit")
	pprofAddr := flag.String("pprof", "", "serve /debug/pprof/ on addr")
	flag.Parse()

	// Logs share the process with an interactive terminal on the pipes, so
	// they always go to stderr.
	format := pkg.LogFormatText
	if *jsonLog {
		format = pkg.LogFormatJSON
	}
	pkg.SetLogOutput(os.Stderr, format)
	if *verbose {
		pkg.SetLogLevel(slog.LevelDebug)
	}

	profiles := prof.Config{CPU: *cpuProfile, Heap: *memProfile, HTTP: *pprofAddr}
	if !profiles.IsZero() && !prof.Enabled {
		pkg.LogWarn(component, "profiling flags ignored, rebuild with -tags profile")
	}
	stopProfiles, err := prof.Start(profiles)
	if err != nil {
		pkg.LogError(component, "failed to start profiling", "error", err)
		os.Exit(1)
	}

	m, err := console.ParseMode(*mode)
	if err != nil {
		pkg.LogError(component, "invalid mode", "mode", *mode, "error", err)
		os.Exit(2)
	}

	opts := options{
		mode:      m,
		arena:     *arena,
		mirror:    *mirrorPath,
		mqtt:      *mqttBroker,
		mqttTopic: *mqttTopic,
		ws:        *wsURL,
		intrChar:  *intrChar,
	}
	if flag.NArg() > 0 {
		opts.busDir = flag.Arg(0)
	} else {
		dir, err := os.MkdirTemp("", "console-bus-")
		if err != nil {
			pkg.LogError(component, "failed to create bus directory", "error", err)
			os.Exit(1)
		}
		defer os.RemoveAll(dir)
		opts.busDir = dir
	}

	err = run(context.Background(), opts)
	stopProfiles()
	if err != nil {
		pkg.LogError(component, "simulator failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	port := fifo.New(opts.busDir)
	if err := port.Open(); err != nil {
		return fmt.Errorf("open port: %w", err)
	}
	defer port.Close()

	var intr hal.Flag
	arena := hal.NewArena(opts.arena)

	cfg := console.Config{
		Mode:      opts.mode,
		Clock:     hal.NewSystemClock(),
		Interrupt: &intr,
		Hook:      func() { time.Sleep(hookInterval) },
	}

	switch opts.mode {
	case console.ModeUART:
		port.SetInterruptChar(opts.intrChar, &intr)
		cfg.UART = port
		cfg.Memory = arena
		cfg.Allocator = arena
		if opts.mirror != "" || opts.mqtt != "" || opts.ws != "" {
			pkg.LogWarn(component, "mirrors are only served by the usb-cdc backend")
		}

	case console.ModeUSBCDC:
		serial := cdc.NewSerial(port)
		serial.SetInterruptChar(opts.intrChar, &intr)
		serial.SetOnBreak(func(uint16) { intr.Set() })
		port.OnReceive(func(p []byte) { serial.Receive(p) })
		attachHost(serial)

		cfg.CDC = serial
		cfg.RxLED = indicator("rx")
		cfg.TxLED = indicator("tx")

		sinks, closeSinks, err := openMirrors(opts, port.UUID())
		if err != nil {
			return err
		}
		defer closeSinks()
		if sinks.Len() > 0 {
			cfg.Mirror = sinks
		}
	}

	cons, err := console.New(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "console %s on %s\n", cons.Mode(), port.Dir())
	fmt.Fprintf(os.Stderr, "attach: stty raw -echo; cat %[1]s/tx & cat > %[1]s/rx\n", port.Dir())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := port.Run(gctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, pkg.ErrCancelled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		defer cancel()
		err := shell.New(cons, &intr).Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		return watchSignals(gctx, &intr, cancel)
	})

	return g.Wait()
}

// watchSignals raises the keyboard interrupt on SIGINT and cancels on SIGTERM.
func watchSignals(ctx context.Context, intr *hal.Flag, cancel context.CancelFunc) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-sigCh:
			if sig == syscall.SIGINT {
				pkg.LogDebug(component, "keyboard interrupt")
				intr.Set()
				continue
			}
			pkg.LogInfo(component, "shutting down")
			cancel()
			return nil
		}
	}
}

// attachHost replays the control requests a host issues when a terminal
// opens the port: default line coding, then DTR and RTS.
func attachHost(serial *cdc.Serial) {
	var data [cdc.LineCodingSize]byte
	lc := cdc.DefaultLineCoding
	lc.MarshalTo(data[:])

	requests := []struct {
		setup hal.SetupPacket
		data  []byte
	}{
		{hal.SetupPacket{RequestType: hal.RequestTypeClass | 0x01, Request: cdc.RequestSetLineCoding, Length: cdc.LineCodingSize}, data[:]},
		{hal.SetupPacket{RequestType: hal.RequestTypeClass | 0x01, Request: cdc.RequestSetControlLineState, Value: cdc.ControlLineDTR | cdc.ControlLineRTS}, nil},
	}
	for _, r := range requests {
		if _, _, err := serial.HandleSetup(&r.setup, r.data); err != nil {
			pkg.LogWarn(component, "host attach request failed",
				"request", r.setup.Request,
				"error", err)
		}
	}
	pkg.LogDebug(component, "host attached", "connected", serial.Connected())
}

// indicator returns an activity LED that logs each toggle at debug level.
func indicator(name string) hal.Indicator {
	on := false
	return hal.IndicatorFunc(func() {
		on = !on
		if pkg.DebugEnabled() {
			pkg.LogDebug(component, "led", "name", name, "on", on)
		}
	})
}

// openMirrors opens every configured mirror sink. The returned func closes
// them all. On error nothing is left open.
func openMirrors(opts options, id string) (*mirror.Multi, func(), error) {
	var sinks []hal.Mirror
	var closers []func() error

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if opts.mirror != "" {
		f, err := mirror.Create(opts.mirror)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, f)
		closers = append(closers, f.Close)
	}

	if opts.mqtt != "" {
		m, err := mirror.DialMQTT(opts.mqtt, opts.mqttTopic, "softconsole-"+id)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, m)
		closers = append(closers, m.Close)
	}

	if opts.ws != "" {
		w, err := mirror.DialWebSocket(opts.ws, "")
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, w)
		closers = append(closers, w.Close)
	}

	return mirror.NewMulti(sinks...), closeAll, nil
}

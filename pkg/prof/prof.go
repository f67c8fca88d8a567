//go:build profile

package prof

import (
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof" // Register HTTP handlers at /debug/pprof/
	"os"
	"runtime"
	"runtime/pprof"
	"sync"

	"github.com/ardnew/softconsole/pkg"
)

// Profiling errors.
var (
	// ErrActive indicates a profiling session is already running.
	ErrActive = errors.New("profile session already active")

	// ErrInvalidProfile indicates an unknown profile name.
	ErrInvalidProfile = errors.New("invalid profile")
)

// Enabled reports whether profiling support is compiled in.
const Enabled = true

var (
	mutex   sync.Mutex
	active  bool
	cpuFile *os.File
	heap    string
)

// Start begins a profiling session described by cfg. The returned func ends
// the session; it is safe to call more than once.
func Start(cfg Config) (func(), error) {
	mutex.Lock()
	defer mutex.Unlock()

	if active {
		return func() {}, ErrActive
	}

	if cfg.CPU != "" {
		f, err := os.Create(cfg.CPU)
		if err != nil {
			return func() {}, fmt.Errorf("create cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return func() {}, fmt.Errorf("start cpu profile: %w", err)
		}
		cpuFile = f
	}

	if cfg.BlockRate > 0 {
		runtime.SetBlockProfileRate(cfg.BlockRate)
	}
	if cfg.MutexFraction > 0 {
		runtime.SetMutexProfileFraction(cfg.MutexFraction)
	}

	if cfg.HTTP != "" {
		go func() {
			err := http.ListenAndServe(cfg.HTTP, nil)
			pkg.LogWarn(pkg.ComponentConsole, "pprof server stopped", "error", err)
		}()
	}

	heap = cfg.Heap
	active = true
	pkg.LogInfo(pkg.ComponentConsole, "profiling started",
		"cpu", cfg.CPU,
		"heap", cfg.Heap,
		"http", cfg.HTTP)

	return stop, nil
}

func stop() {
	mutex.Lock()
	defer mutex.Unlock()

	if !active {
		return
	}

	if cpuFile != nil {
		pprof.StopCPUProfile()
		cpuFile.Close()
		cpuFile = nil
	}
	if heap != "" {
		runtime.GC()
		if err := Write("heap", heap); err != nil {
			pkg.LogWarn(pkg.ComponentConsole, "heap profile failed", "error", err)
		}
	}
	active = false
}

// Active reports whether a session is running.
func Active() bool {
	mutex.Lock()
	defer mutex.Unlock()
	return active
}

// Write writes the named runtime profile to path.
func Write(name, path string) error {
	p := pprof.Lookup(name)
	if p == nil {
		return fmt.Errorf("%s: %w", name, ErrInvalidProfile)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return p.WriteTo(f, 0)
}

// Package prof profiles a console session.
//
// The package is conditionally compiled using the "profile" build tag:
//
//	go build -tags profile ./cmd/softconsole
//
// Without the tag every function is a no-op, so callers can leave profiling
// hooks in place.
//
// # Session Profiling
//
// Start begins the profiles named in a [Config] and Stop ends them:
//
//	stop, err := prof.Start(prof.Config{
//	    CPU:  "cpu.prof",
//	    Heap: "heap.prof",
//	    HTTP: "localhost:6060",
//	})
//	if err != nil {
//	    return err
//	}
//	defer stop()
//
// CPU samples stream to the CPU file for the life of the session. The heap
// snapshot is taken when the session stops. HTTP serves the standard
// /debug/pprof/ handlers until the process exits.
//
// Starting a second session while one is active returns [ErrActive].
//
// # Snapshots
//
// [Write] captures any named runtime profile (heap, allocs, goroutine,
// threadcreate, block, mutex) at an arbitrary point.
package prof

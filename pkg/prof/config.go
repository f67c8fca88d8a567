package prof

// Config selects the profiles recorded by a session. Empty fields are
// skipped.
type Config struct {
	CPU  string // CPU profile output path
	Heap string // Heap snapshot path, written when the session stops
	HTTP string // Listen address for the /debug/pprof/ handlers

	BlockRate     int // runtime.SetBlockProfileRate, when positive
	MutexFraction int // runtime.SetMutexProfileFraction, when positive
}

// IsZero reports whether cfg requests no profiling at all.
func (cfg Config) IsZero() bool {
	return cfg == Config{}
}

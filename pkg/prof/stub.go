//go:build !profile

package prof

// Profiling errors (never returned by the stubs).
var (
	ErrActive         error
	ErrInvalidProfile error
)

// Enabled reports whether profiling support is compiled in.
const Enabled = false

// Start is a no-op when built without the "profile" tag.
func Start(Config) (func(), error) {
	return func() {}, nil
}

// Active always returns false when built without the "profile" tag.
func Active() bool {
	return false
}

// Write is a no-op when built without the "profile" tag.
func Write(_, _ string) error {
	return nil
}

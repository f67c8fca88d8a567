package mirror

import (
	"errors"

	"github.com/ardnew/softconsole/hal"
)

// Multi fans output out to several sinks.
type Multi struct {
	sinks []hal.Mirror
}

// NewMulti returns a mirror over sinks. Nil sinks are skipped.
func NewMulti(sinks ...hal.Mirror) *Multi {
	m := &Multi{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// Len returns the number of member sinks.
func (m *Multi) Len() int {
	return len(m.sinks)
}

// IsOpen reports whether any member is open.
func (m *Multi) IsOpen() bool {
	for _, s := range m.sinks {
		if s.IsOpen() {
			return true
		}
	}
	return false
}

// Write copies p to every open member. It reports len(p) unless every open
// member failed, and returns the joined member errors.
func (m *Multi) Write(p []byte) (int, error) {
	var errs []error
	wrote := false
	for _, s := range m.sinks {
		if !s.IsOpen() {
			continue
		}
		n, err := s.Write(p)
		if err != nil {
			errs = append(errs, err)
		}
		if n == len(p) {
			wrote = true
		}
	}
	if !wrote && len(errs) > 0 {
		return 0, errors.Join(errs...)
	}
	return len(p), errors.Join(errs...)
}

var _ hal.Mirror = (*Multi)(nil)

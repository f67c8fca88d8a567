package pkg

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	// Verify all sentinel errors are distinct
	errs := []error{
		ErrInvalidMode,
		ErrMissingCollaborator,
		ErrNotConfigured,
		ErrAlreadyRunning,
		ErrClosed,
		ErrCancelled,
		ErrBufferTooSmall,
		ErrInvalidRequest,
	}

	for i, err1 := range errs {
		if err1 == nil {
			t.Errorf("error %d is nil", i)
			continue
		}
		for j, err2 := range errs {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("error %d and %d are equal", i, j)
			}
		}
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err     error
		wantMsg string
	}{
		{ErrInvalidMode, "invalid backend mode"},
		{ErrMissingCollaborator, "missing collaborator"},
		{ErrNotConfigured, "not configured"},
		{ErrClosed, "closed"},
		{ErrBufferTooSmall, "buffer too small"},
	}

	for _, tt := range tests {
		t.Run(tt.wantMsg, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("error.Error() = %v, want %v", got, tt.wantMsg)
			}
		})
	}
}

func TestWrappedErrors(t *testing.T) {
	err := fmt.Errorf("uart backend: uart: %w", ErrMissingCollaborator)
	if !errors.Is(err, ErrMissingCollaborator) {
		t.Errorf("errors.Is(%v, ErrMissingCollaborator) = false", err)
	}
	if errors.Is(err, ErrInvalidMode) {
		t.Errorf("errors.Is(%v, ErrInvalidMode) = true", err)
	}
}

package pkg

import "errors"

// Console construction errors.
var (
	// ErrInvalidMode indicates an unknown backend mode.
	ErrInvalidMode = errors.New("invalid backend mode")

	// ErrMissingCollaborator indicates a backend was selected without one of
	// the collaborators it requires.
	ErrMissingCollaborator = errors.New("missing collaborator")
)

// Collaborator lifecycle errors.
var (
	// ErrNotConfigured indicates the collaborator has not been opened.
	ErrNotConfigured = errors.New("not configured")

	// ErrAlreadyRunning indicates the collaborator is already running.
	ErrAlreadyRunning = errors.New("already running")

	// ErrClosed indicates the collaborator has been closed.
	ErrClosed = errors.New("closed")

	// ErrCancelled indicates an operation was cancelled.
	ErrCancelled = errors.New("cancelled")
)

// CDC class request errors.
var (
	// ErrBufferTooSmall indicates the provided buffer is too small.
	ErrBufferTooSmall = errors.New("buffer too small")

	// ErrInvalidRequest indicates an invalid or unsupported request.
	ErrInvalidRequest = errors.New("invalid request")
)

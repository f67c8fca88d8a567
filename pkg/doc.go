// Package pkg provides shared utilities for the softconsole HAL.
//
// This package contains common functionality used by the console core,
// its collaborator adapters, and the host simulator, including:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel error values for construction and collaborator failures
//   - Component identifiers for log filtering
//
// # Logging
//
// The logging subsystem wraps [log/slog] with a component attribute:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogDebug(pkg.ComponentUART, "staged transmit", "len", 12)
//
// Logging from the console hot paths is limited to the Debug level so a
// default (Warn) configuration adds no output while characters move.
//
// # Errors
//
// The console I/O operations never return errors. Errors only surface
// when a console is assembled or when a collaborator is opened:
//
//	if errors.Is(err, pkg.ErrMissingCollaborator) {
//	    // The selected backend lacks a required peripheral.
//	}
package pkg

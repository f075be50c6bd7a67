// Package logging provides a unified logging interface for numfront.
// Servers, the API client and the TUI all log through Logger so the backend
// (zerolog or the standard library) can be chosen at wiring time.
package logging

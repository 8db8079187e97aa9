// Package errors provides structured errors with stable codes.
//
// Each code maps to a category and a short message. Codes cross the wire to
// the thin client; details and wrapped causes stay in server logs.
//
//	err := errors.New(errors.ErrInvalidEvent).WithDetail("mouseenter without hid")
//	if stderrors.Is(err, errors.New(errors.ErrInvalidEvent)) { ... }
//
// Error categories:
//   - protocol: malformed or unroutable client events
//   - session: queue and lifecycle failures
//   - config: invalid configuration
//   - runtime: handler panics and everything else
package errors

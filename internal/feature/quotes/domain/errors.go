// Package domain defines domain-level errors for the quotes feature.
package domain

import "errors"

// Classified failures returned by the quote provider adapter.
// The adapter boundary maps transport-specific shapes (HTTP status codes,
// response bodies) onto this closed set, so the core never inspects them.
var (
	// ErrInvalidSymbol indicates the provider knows no instrument for the symbol.
	// This is a client fault and is never retried.
	ErrInvalidSymbol = errors.New("invalid stock symbol")

	// ErrRateLimited indicates upstream throttling. It is surfaced distinctly
	// so callers can back off; it must never be collapsed into a generic error.
	ErrRateLimited = errors.New("quote provider rate limit exceeded")

	// ErrUnavailable covers every other fetch failure: timeouts, network
	// errors, malformed responses. Callers may retry on the next tick.
	ErrUnavailable = errors.New("quote provider unavailable")
)

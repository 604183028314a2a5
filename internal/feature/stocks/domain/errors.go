// Package domain defines domain-level errors for the stocks feature.
package domain

import "errors"

// ErrFetchFailed indicates that a symbol had no cached history and the
// live-fallback fetch failed for a reason that is neither an invalid symbol
// nor upstream throttling. Callers may retry.
var ErrFetchFailed = errors.New("failed to fetch stock data")

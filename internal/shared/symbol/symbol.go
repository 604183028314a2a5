// Package symbol provides normalization and validation for stock ticker symbols.
package symbol

import (
	"regexp"
	"strings"
)

// tickerPattern matches the normalized form: 1 to 5 uppercase alphanumerics.
var tickerPattern = regexp.MustCompile(`^[A-Z0-9]{1,5}$`)

// Normalize returns the canonical form of a ticker symbol.
// Symbols are compared and stored uppercase; every entry point into the
// core (registry mutation, store lookup, resolver query) normalizes first.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Valid reports whether s is a well-formed ticker symbol after normalization.
func Valid(s string) bool {
	return tickerPattern.MatchString(Normalize(s))
}

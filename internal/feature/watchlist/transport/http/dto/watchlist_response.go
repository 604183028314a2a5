// Package dto defines data transfer objects for the watchlist HTTP API.
package dto

// WatchlistResponse lists the symbols currently under active polling.
type WatchlistResponse struct {
	Symbols []string `json:"symbols"`
}

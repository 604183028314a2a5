// Package dto defines data transfer objects for the Finnhub API.
package dto

// QuoteResponse mirrors the Finnhub /quote endpoint payload.
// Finnhub returns an all-zero body (with a zero timestamp) for symbols it
// does not know, rather than an error status.
type QuoteResponse struct {
	Current       float64 `json:"c"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

// Package dto defines data transfer objects for the stocks HTTP API.
package dto

// SnapshotResponse is the JSON body returned by GET /stock/:symbol.
type SnapshotResponse struct {
	Symbol        string  `json:"symbol"`
	CurrentPrice  float64 `json:"currentPrice"`
	LastUpdated   string  `json:"lastUpdated"`
	MovingAverage float64 `json:"movingAverage"`
	BeingWatched  bool    `json:"beingWatched"`
}

// TrackingResponse confirms a start/stop tracking operation.
type TrackingResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the JSON body returned on failures.
type ErrorResponse struct {
	Error string `json:"error"`
}

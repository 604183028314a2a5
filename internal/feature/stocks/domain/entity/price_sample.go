// Package entity defines the domain models for the stocks feature.
package entity

import "time"

// PriceSample is one observed price for a symbol. Samples are immutable once
// created; the canonical read order is newest-first by ObservedAt.
type PriceSample struct {
	Symbol     string    // Normalized ticker symbol (e.g., "AAPL")
	Price      float64   // Observed price, positive
	ObservedAt time.Time // When the price was observed
}

// Snapshot is the computed result of a stock query. It is a projection over
// the stored window (or a one-off live fetch) and is never persisted.
type Snapshot struct {
	Symbol        string
	CurrentPrice  float64
	LastUpdated   time.Time
	MovingAverage float64
	BeingWatched  bool
}

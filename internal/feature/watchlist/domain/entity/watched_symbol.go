// Package entity defines the domain models for the watchlist feature.
package entity

import "time"

// WatchedSymbol is a tracked ticker symbol. Membership carries no payload;
// being present in the table is what makes a symbol "watched". Price history
// has an independent lifecycle and lives in the stocks feature.
type WatchedSymbol struct {
	ID        uint      `gorm:"primaryKey"`
	Symbol    string    `gorm:"size:5;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for this model.
func (WatchedSymbol) TableName() string {
	return "watched_symbols"
}

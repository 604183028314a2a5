// Package usecase implements the tracked-symbol registry for the watchlist feature.
package usecase

import (
	"context"
	"fmt"
	"sync"

	"stock_watchlist/internal/shared/symbol"
)

// WatchlistRepository abstracts the persistence layer for watched symbols.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type WatchlistRepository interface {
	Add(ctx context.Context, symbol string) error
	Remove(ctx context.Context, symbol string) error
	List(ctx context.Context) ([]string, error)
}

// Registry is the set of symbols under active polling. Membership checks are
// served from memory; mutations write through to the repository first so a
// crash never leaves the in-memory set ahead of the durable one. All methods
// are safe for concurrent use by the poller and request handlers.
type Registry struct {
	repo WatchlistRepository

	mu      sync.RWMutex
	symbols map[string]struct{}
}

// NewRegistry creates a new, empty Registry backed by the given repository.
// Call Load to warm it up from persisted state before serving traffic.
func NewRegistry(repo WatchlistRepository) *Registry {
	return &Registry{
		repo:    repo,
		symbols: make(map[string]struct{}),
	}
}

// Load replaces the in-memory set with the persisted one. Symbols are
// normalized on the way in, so rows written by older revisions with
// lowercase symbols still round-trip correctly.
func (r *Registry) Load(ctx context.Context) error {
	persisted, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("load watchlist: %w", err)
	}

	set := make(map[string]struct{}, len(persisted))
	for _, s := range persisted {
		set[symbol.Normalize(s)] = struct{}{}
	}

	r.mu.Lock()
	r.symbols = set
	r.mu.Unlock()
	return nil
}

// Add registers a symbol for polling. Adding an already-present symbol is a
// no-op beyond normalization.
func (r *Registry) Add(ctx context.Context, sym string) error {
	s := symbol.Normalize(sym)
	if err := r.repo.Add(ctx, s); err != nil {
		return fmt.Errorf("persist watched symbol %s: %w", s, err)
	}

	r.mu.Lock()
	r.symbols[s] = struct{}{}
	r.mu.Unlock()
	return nil
}

// Remove unregisters a symbol. Removing an absent symbol is a no-op.
func (r *Registry) Remove(ctx context.Context, sym string) error {
	s := symbol.Normalize(sym)
	if err := r.repo.Remove(ctx, s); err != nil {
		return fmt.Errorf("delete watched symbol %s: %w", s, err)
	}

	r.mu.Lock()
	delete(r.symbols, s)
	r.mu.Unlock()
	return nil
}

// IsWatched reports whether the symbol is currently registered.
func (r *Registry) IsWatched(sym string) bool {
	s := symbol.Normalize(sym)
	r.mu.RLock()
	_, ok := r.symbols[s]
	r.mu.RUnlock()
	return ok
}

// List returns a snapshot of the registered symbols. Iteration order is not
// specified; callers must not depend on it.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.symbols))
	for s := range r.symbols {
		out = append(out, s)
	}
	return out
}

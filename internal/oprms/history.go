package oprms

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// HistoryStore is an append-only log of ratings per symbol. There is
// deliberately no update or delete: a rating, once recorded, is part
// of the permanent research record.
type HistoryStore interface {
	// Append records a new rating. It never overwrites.
	Append(ctx context.Context, r *Rating) error
	// History returns all ratings for a symbol in the order they were
	// appended.
	History(ctx context.Context, symbol string) ([]*Rating, error)
	// Current returns the most recent rating for a symbol, or nil if
	// the symbol has never been rated.
	Current(ctx context.Context, symbol string) (*Rating, error)
}

// AsOf returns the rating that was in force at time t: the last entry
// with CreatedAt <= t. History is in call order, which may differ from
// CreatedAt order when a rating was backdated, so the whole slice is
// scanned. Returns nil when no rating existed yet.
func AsOf(history []*Rating, t time.Time) *Rating {
	var current *Rating
	for _, r := range history {
		if r.CreatedAt.After(t) {
			continue
		}
		current = r
	}
	return current
}

// MemoryStore is an in-process HistoryStore, used in tests and when
// running without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]*Rating
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]*Rating)}
}

// Append implements HistoryStore
func (m *MemoryStore) Append(ctx context.Context, r *Rating) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("invalid rating: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	// Call order is the record order, even for backdated ratings. The
	// Postgres store orders by insert id; this must match.
	cp := *r
	m.entries[r.Symbol] = append(m.entries[r.Symbol], &cp)
	return nil
}

// History implements HistoryStore
func (m *MemoryStore) History(ctx context.Context, symbol string) ([]*Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	src := m.entries[symbol]
	out := make([]*Rating, len(src))
	for i, r := range src {
		cp := *r
		out[i] = &cp
	}
	return out, nil
}

// Current implements HistoryStore
func (m *MemoryStore) Current(ctx context.Context, symbol string) (*Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	src := m.entries[symbol]
	if len(src) == 0 {
		return nil, nil
	}
	cp := *src[len(src)-1]
	return &cp, nil
}

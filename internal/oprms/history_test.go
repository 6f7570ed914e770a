package oprms

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratingAt(symbol string, dna DNARating, at time.Time) *Rating {
	coeff, _ := TimingA.Midpoint()
	return &Rating{
		Symbol:        symbol,
		DNA:           dna,
		Timing:        TimingA,
		TimingCoeff:   coeff,
		EvidenceCount: 3,
		CreatedAt:     at,
	}
}

func TestMemoryStoreAppendOnly(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Append(ctx, ratingAt("AAPL", DNAB, base)))
	require.NoError(t, store.Append(ctx, ratingAt("AAPL", DNAA, base.Add(24*time.Hour))))
	require.NoError(t, store.Append(ctx, ratingAt("AAPL", DNAS, base.Add(48*time.Hour))))

	history, err := store.History(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, history, 3)

	// Call order, every revision retained.
	assert.Equal(t, DNAB, history[0].DNA)
	assert.Equal(t, DNAA, history[1].DNA)
	assert.Equal(t, DNAS, history[2].DNA)

	current, err := store.Current(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, DNAS, current.DNA)
}

func TestMemoryStoreKeepsCallOrderWhenBackdated(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	// An analyst records a rating, then files a correction dated before
	// it. The record keeps call order, matching the Postgres store's
	// insert-id ordering.
	require.NoError(t, store.Append(ctx, ratingAt("AAPL", DNAS, base.Add(48*time.Hour))))
	require.NoError(t, store.Append(ctx, ratingAt("AAPL", DNAB, base)))

	history, err := store.History(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, DNAS, history[0].DNA)
	assert.Equal(t, DNAB, history[1].DNA)

	current, err := store.Current(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, DNAB, current.DNA)
}

func TestMemoryStoreIsolatesSymbols(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Append(ctx, ratingAt("AAPL", DNAS, now)))
	require.NoError(t, store.Append(ctx, ratingAt("MSFT", DNAA, now)))

	history, err := store.History(ctx, "AAPL")
	require.NoError(t, err)
	assert.Len(t, history, 1)

	current, err := store.Current(ctx, "NVDA")
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestMemoryStoreRejectsInvalid(t *testing.T) {
	store := NewMemoryStore()
	r := ratingAt("AAPL", DNAS, time.Now())
	r.TimingCoeff = 2.5
	assert.Error(t, store.Append(context.Background(), r))
}

func TestMemoryStoreCopiesEntries(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	r := ratingAt("AAPL", DNAS, time.Now())
	require.NoError(t, store.Append(ctx, r))

	// Mutating the caller's struct or a returned entry must not alter
	// the stored history.
	r.DNA = DNAC
	history, err := store.History(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, DNAS, history[0].DNA)

	history[0].DNA = DNAC
	again, err := store.History(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, DNAS, again[0].DNA)
}

func TestAsOf(t *testing.T) {
	base := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	history := []*Rating{
		ratingAt("AAPL", DNAB, base),
		ratingAt("AAPL", DNAA, base.Add(24*time.Hour)),
		ratingAt("AAPL", DNAS, base.Add(48*time.Hour)),
	}

	t.Run("before first rating", func(t *testing.T) {
		assert.Nil(t, AsOf(history, base.Add(-time.Hour)))
	})

	t.Run("between revisions", func(t *testing.T) {
		r := AsOf(history, base.Add(30*time.Hour))
		require.NotNil(t, r)
		assert.Equal(t, DNAA, r.DNA)
	})

	t.Run("exactly at a revision", func(t *testing.T) {
		r := AsOf(history, base.Add(24*time.Hour))
		require.NotNil(t, r)
		assert.Equal(t, DNAA, r.DNA)
	})

	t.Run("after the last revision", func(t *testing.T) {
		r := AsOf(history, base.Add(1000*time.Hour))
		require.NotNil(t, r)
		assert.Equal(t, DNAS, r.DNA)
	})

	t.Run("empty history", func(t *testing.T) {
		assert.Nil(t, AsOf(nil, base))
	})
}

func TestAsOfBackdatedHistory(t *testing.T) {
	base := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	// Call order with a backdated correction appended last.
	history := []*Rating{
		ratingAt("AAPL", DNAS, base.Add(48*time.Hour)),
		ratingAt("AAPL", DNAB, base),
	}

	r := AsOf(history, base.Add(time.Hour))
	require.NotNil(t, r)
	assert.Equal(t, DNAB, r.DNA)

	r = AsOf(history, base.Add(72*time.Hour))
	require.NotNil(t, r)
	assert.Equal(t, DNAB, r.DNA)
}

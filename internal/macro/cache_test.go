package macro

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/vantage/pkg/logger"
)

// fakeFetcher counts calls and returns canned snapshots or errors.
type fakeFetcher struct {
	calls     int
	snapshots []*Snapshot
	err       error
}

func (f *fakeFetcher) FetchSnapshot(ctx context.Context) (*Snapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	s := f.snapshots[0]
	if len(f.snapshots) > 1 {
		f.snapshots = f.snapshots[1:]
	}
	return s, nil
}

// allHolidays makes every date a holiday, allWeekdays none.
type fixedHolidays bool

func (h fixedHolidays) IsHoliday(time.Time) bool { return bool(h) }

func newTestCache(t *testing.T, f Fetcher) *SnapshotCache {
	t.Helper()
	window, err := NewTradingWindow("America/New_York", "09:30", "16:00", fixedHolidays(false))
	require.NoError(t, err)
	return NewSnapshotCache(f, window, 4*time.Hour, 12*time.Hour, logger.NewNop())
}

// tradingTime is a Wednesday 10:00 ET.
var tradingTime = time.Date(2026, 3, 4, 10, 0, 0, 0, mustLoad("America/New_York"))

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func TestCacheServesWithinTTL(t *testing.T) {
	f := &fakeFetcher{snapshots: []*Snapshot{{CapturedAt: tradingTime, VIX: Float(18)}}}
	cache := newTestCache(t, f)
	ctx := context.Background()

	s1, stale, err := cache.Get(ctx, tradingTime)
	require.NoError(t, err)
	assert.False(t, stale)
	assert.Equal(t, 1, f.calls)

	// A second read inside the window must not refetch.
	s2, stale, err := cache.Get(ctx, tradingTime.Add(3*time.Hour))
	require.NoError(t, err)
	assert.False(t, stale)
	assert.Equal(t, 1, f.calls)
	assert.Same(t, s1, s2)
}

func TestCacheRefreshesAfterTTL(t *testing.T) {
	f := &fakeFetcher{snapshots: []*Snapshot{
		{CapturedAt: tradingTime, VIX: Float(18)},
		{CapturedAt: tradingTime.Add(5 * time.Hour), VIX: Float(22)},
	}}
	cache := newTestCache(t, f)
	ctx := context.Background()

	_, _, err := cache.Get(ctx, tradingTime)
	require.NoError(t, err)

	s, stale, err := cache.Get(ctx, tradingTime.Add(4*time.Hour+time.Minute))
	require.NoError(t, err)
	assert.False(t, stale)
	assert.Equal(t, 2, f.calls)
	assert.InDelta(t, 22, *s.VIX, 1e-9)
}

func TestCacheNonTradingTTL(t *testing.T) {
	// Saturday: the 12h window applies, so a read 5h later is a hit.
	saturday := time.Date(2026, 3, 7, 10, 0, 0, 0, mustLoad("America/New_York"))
	f := &fakeFetcher{snapshots: []*Snapshot{{CapturedAt: saturday}}}
	cache := newTestCache(t, f)
	ctx := context.Background()

	_, _, err := cache.Get(ctx, saturday)
	require.NoError(t, err)

	_, _, err = cache.Get(ctx, saturday.Add(5*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls)

	_, _, err = cache.Get(ctx, saturday.Add(13*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, f.calls)
}

func TestCacheStaleFallback(t *testing.T) {
	f := &fakeFetcher{snapshots: []*Snapshot{{CapturedAt: tradingTime, VIX: Float(18)}}}
	cache := newTestCache(t, f)
	ctx := context.Background()

	s1, _, err := cache.Get(ctx, tradingTime)
	require.NoError(t, err)

	// Provider goes down after the entry expires: serve stale.
	f.err = errors.New("provider down")
	s2, stale, err := cache.Get(ctx, tradingTime.Add(6*time.Hour))
	require.NoError(t, err)
	assert.True(t, stale)
	assert.Same(t, s1, s2)
}

func TestCacheErrorWhenNeverFetched(t *testing.T) {
	f := &fakeFetcher{err: errors.New("provider down")}
	cache := newTestCache(t, f)

	s, stale, err := cache.Get(context.Background(), tradingTime)
	assert.Nil(t, s)
	assert.False(t, stale)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestCacheClampsCapturedAt(t *testing.T) {
	later := tradingTime.Add(time.Hour)
	f := &fakeFetcher{snapshots: []*Snapshot{
		{CapturedAt: later},
		{CapturedAt: tradingTime}, // provider goes backwards
	}}
	cache := newTestCache(t, f)
	ctx := context.Background()

	_, _, err := cache.Get(ctx, tradingTime)
	require.NoError(t, err)

	s, _, err := cache.Get(ctx, tradingTime.Add(5*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, later, s.CapturedAt, "captured_at must never go backwards")
}

func TestTradingWindowContains(t *testing.T) {
	loc := mustLoad("America/New_York")
	window, err := NewTradingWindow("America/New_York", "09:30", "16:00", fixedHolidays(false))
	require.NoError(t, err)

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"weekday mid-session", time.Date(2026, 3, 4, 12, 0, 0, 0, loc), true},
		{"weekday before open", time.Date(2026, 3, 4, 9, 0, 0, 0, loc), false},
		{"weekday at open", time.Date(2026, 3, 4, 9, 30, 0, 0, loc), true},
		{"weekday after close", time.Date(2026, 3, 4, 16, 30, 0, 0, loc), false},
		{"saturday", time.Date(2026, 3, 7, 12, 0, 0, 0, loc), false},
		{"sunday", time.Date(2026, 3, 8, 12, 0, 0, 0, loc), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, window.Contains(tt.t))
		})
	}

	t.Run("holiday weekday is outside the window", func(t *testing.T) {
		holidayWindow, err := NewTradingWindow("America/New_York", "09:30", "16:00", fixedHolidays(true))
		require.NoError(t, err)
		assert.False(t, holidayWindow.Contains(time.Date(2026, 3, 4, 12, 0, 0, 0, loc)))
	})
}

func TestNewTradingWindowValidation(t *testing.T) {
	_, err := NewTradingWindow("Not/AZone", "09:30", "16:00", nil)
	assert.Error(t, err)

	_, err = NewTradingWindow("America/New_York", "930", "16:00", nil)
	assert.Error(t, err)
}

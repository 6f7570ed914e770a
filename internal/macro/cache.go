package macro

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/vantage/pkg/logger"
	"github.com/wonny/vantage/pkg/redis"
)

// ErrNoSnapshot is returned when a fetch fails and no prior successful
// fetch exists to fall back on.
var ErrNoSnapshot = errors.New("no macro snapshot available")

// Fetcher produces a fresh snapshot from the external macro-data provider.
// A fetch may succeed and still return a partial snapshot; that is data,
// not an error.
type Fetcher interface {
	FetchSnapshot(ctx context.Context) (*Snapshot, error)
}

// CacheEntry wraps a snapshot with its validity window
type CacheEntry struct {
	Snapshot   *Snapshot
	FetchedAt  time.Time
	ValidUntil time.Time
}

// SnapshotCache holds the most recent snapshot with a time-based validity
// window. The check-then-fetch-then-store sequence runs under one mutex so
// concurrent callers cannot trigger duplicate fetches.
// ⭐ SSOT: 매크로 스냅샷 캐싱은 이 구조체에서만
type SnapshotCache struct {
	mu            sync.Mutex
	entry         *CacheEntry
	fetcher       Fetcher
	window        *TradingWindow
	ttlTrading    time.Duration
	ttlNonTrading time.Duration
	mirror        *redis.Cache // optional write-through for external readers
	logger        *logger.Logger
	now           func() time.Time
}

// NewSnapshotCache creates a snapshot cache
func NewSnapshotCache(
	fetcher Fetcher,
	window *TradingWindow,
	ttlTrading, ttlNonTrading time.Duration,
	log *logger.Logger,
) *SnapshotCache {
	return &SnapshotCache{
		fetcher:       fetcher,
		window:        window,
		ttlTrading:    ttlTrading,
		ttlNonTrading: ttlNonTrading,
		logger:        log,
		now:           time.Now,
	}
}

// WithMirror enables write-through of the latest snapshot to Redis.
// The core never reads the mirror back; it exists for out-of-process
// consumers only.
func (c *SnapshotCache) WithMirror(mirror *redis.Cache) *SnapshotCache {
	c.mirror = mirror
	return c
}

// WithClock overrides the time source (tests)
func (c *SnapshotCache) WithClock(now func() time.Time) *SnapshotCache {
	c.now = now
	return c
}

// GetSnapshot returns the current snapshot and whether it is stale.
// A cached entry inside its validity window is served as-is. On expiry a
// refresh is attempted; if the refresh fails the previous entry is served
// with stale=true. The only hard failure is a fetch failure with no prior
// snapshot at all.
func (c *SnapshotCache) GetSnapshot(ctx context.Context) (*Snapshot, bool, error) {
	return c.Get(ctx, c.now())
}

// Get is GetSnapshot with an explicit "now" (tests, replay)
func (c *SnapshotCache) Get(ctx context.Context, now time.Time) (*Snapshot, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entry != nil && now.Before(c.entry.ValidUntil) {
		return c.entry.Snapshot, false, nil
	}

	snapshot, err := c.fetcher.FetchSnapshot(ctx)
	if err != nil {
		if c.entry != nil {
			c.logger.WithError(err).Warn("Macro fetch failed, serving stale snapshot")
			return c.entry.Snapshot, true, nil
		}
		return nil, false, fmt.Errorf("%w: %v", ErrNoSnapshot, err)
	}

	// captured_at is monotonically non-decreasing across cached snapshots
	if c.entry != nil && snapshot.CapturedAt.Before(c.entry.Snapshot.CapturedAt) {
		c.logger.WithFields(map[string]interface{}{
			"fetched":  snapshot.CapturedAt,
			"previous": c.entry.Snapshot.CapturedAt,
		}).Warn("Provider returned older captured_at, clamping")
		snapshot.CapturedAt = c.entry.Snapshot.CapturedAt
	}

	ttl := c.ttl(now)
	c.entry = &CacheEntry{
		Snapshot:   snapshot,
		FetchedAt:  now,
		ValidUntil: now.Add(ttl),
	}

	c.logger.WithFields(map[string]interface{}{
		"sources":     snapshot.SourceCount(),
		"complete":    snapshot.Complete(),
		"valid_until": c.entry.ValidUntil,
	}).Info("Macro snapshot refreshed")

	c.writeMirror(ctx, snapshot, ttl)

	return snapshot, false, nil
}

// Entry returns the current cache entry, or nil (read-only inspection)
func (c *SnapshotCache) Entry() *CacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry
}

// ttl picks the validity window length for a refresh at time t
func (c *SnapshotCache) ttl(t time.Time) time.Duration {
	if c.window != nil && c.window.Contains(t) {
		return c.ttlTrading
	}
	return c.ttlNonTrading
}

func (c *SnapshotCache) writeMirror(ctx context.Context, s *Snapshot, ttl time.Duration) {
	if c.mirror == nil {
		return
	}
	// Mirror failures never affect the caller
	if err := c.mirror.Set(ctx, redis.MacroSnapshotKey, s, ttl); err != nil {
		c.logger.WithError(err).Warn("Snapshot mirror write failed")
	}
}

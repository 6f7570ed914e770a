package oprms

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/vantage/internal/regime"
	"github.com/wonny/vantage/pkg/logger"
)

// Service ties rating storage to position sizing.
type Service struct {
	store  HistoryStore
	logger *logger.Logger
	now    func() time.Time
}

// NewService creates the OPRMS service on top of any HistoryStore.
func NewService(store HistoryStore, log *logger.Logger) *Service {
	return &Service{
		store:  store,
		logger: log,
		now:    time.Now,
	}
}

// WithClock overrides the service clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// SetRating validates and records a new rating. A zero TimingCoeff is
// filled with the grade's band midpoint; a zero CreatedAt is stamped
// with the service clock.
func (s *Service) SetRating(ctx context.Context, r *Rating) error {
	if r.TimingCoeff == 0 {
		mid, err := r.Timing.Midpoint()
		if err != nil {
			return err
		}
		r.TimingCoeff = mid
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	if err := r.Validate(); err != nil {
		return err
	}
	if err := s.store.Append(ctx, r); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"symbol":   r.Symbol,
		"dna":      string(r.DNA),
		"timing":   string(r.Timing),
		"coeff":    r.TimingCoeff,
		"evidence": r.EvidenceCount,
	}).Info("Rating recorded")
	return nil
}

// CurrentRating returns the latest rating for a symbol. Unlike the
// raw store it errors when the symbol was never rated, so callers do
// not have to nil-check.
func (s *Service) CurrentRating(ctx context.Context, symbol string) (*Rating, error) {
	r, err := s.store.Current(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("no rating found for %s", symbol)
	}
	return r, nil
}

// RatingHistory returns the full oldest-first rating log for a symbol.
func (s *Service) RatingHistory(ctx context.Context, symbol string) ([]*Rating, error) {
	return s.store.History(ctx, symbol)
}

// RatingAsOf reconstructs the rating that was in force at time t.
func (s *Service) RatingAsOf(ctx context.Context, symbol string, t time.Time) (*Rating, error) {
	history, err := s.store.History(ctx, symbol)
	if err != nil {
		return nil, err
	}
	r := AsOf(history, t)
	if r == nil {
		return nil, fmt.Errorf("no rating for %s as of %s", symbol, t.Format(time.RFC3339))
	}
	return r, nil
}

// SizePosition sizes a position for a symbol from its current rating
// and the current market regime.
func (s *Service) SizePosition(ctx context.Context, symbol string, totalCapital float64, mkt regime.Regime) (*PositionSize, error) {
	r, err := s.CurrentRating(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return CalculatePosition(totalCapital, r, mkt)
}

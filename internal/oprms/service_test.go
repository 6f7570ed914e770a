package oprms

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/vantage/internal/regime"
	"github.com/wonny/vantage/pkg/logger"
)

func newTestService() *Service {
	return NewService(NewMemoryStore(), logger.NewNop())
}

func TestServiceSetRatingDefaults(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	fixed := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return fixed })

	r := &Rating{
		Symbol:        "AAPL",
		DNA:           DNAS,
		Timing:        TimingB,
		EvidenceCount: 2,
	}
	require.NoError(t, svc.SetRating(ctx, r))

	// Omitted coefficient fills with the B band midpoint, omitted
	// timestamp with the service clock.
	assert.InDelta(t, 0.5, r.TimingCoeff, 1e-9)
	assert.Equal(t, fixed, r.CreatedAt)
}

func TestServiceSetRatingValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	t.Run("bad timing grade", func(t *testing.T) {
		err := svc.SetRating(ctx, &Rating{Symbol: "AAPL", DNA: DNAS, Timing: "Z"})
		assert.Error(t, err)
	})

	t.Run("coefficient outside band", func(t *testing.T) {
		err := svc.SetRating(ctx, &Rating{
			Symbol: "AAPL", DNA: DNAS, Timing: TimingA, TimingCoeff: 1.2,
		})
		assert.Error(t, err)
	})

	t.Run("negative evidence", func(t *testing.T) {
		err := svc.SetRating(ctx, &Rating{
			Symbol: "AAPL", DNA: DNAS, Timing: TimingA, TimingCoeff: 0.9,
			EvidenceCount: -1,
		})
		assert.Error(t, err)
	})
}

func TestServiceCurrentRating(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CurrentRating(ctx, "AAPL")
	assert.Error(t, err, "unrated symbol must error")

	require.NoError(t, svc.SetRating(ctx, &Rating{
		Symbol: "AAPL", DNA: DNAA, Timing: TimingA, TimingCoeff: 0.9, EvidenceCount: 3,
	}))

	r, err := svc.CurrentRating(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, DNAA, r.DNA)
}

func TestServiceRatingAsOf(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	base := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	for i, dna := range []DNARating{DNAB, DNAA, DNAS} {
		require.NoError(t, svc.SetRating(ctx, &Rating{
			Symbol: "AAPL", DNA: dna, Timing: TimingA, TimingCoeff: 0.9,
			EvidenceCount: 3, CreatedAt: base.Add(time.Duration(i) * 24 * time.Hour),
		}))
	}

	r, err := svc.RatingAsOf(ctx, "AAPL", base.Add(36*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, DNAA, r.DNA)

	_, err = svc.RatingAsOf(ctx, "AAPL", base.Add(-time.Hour))
	assert.Error(t, err)
}

func TestServiceSizePosition(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.SetRating(ctx, &Rating{
		Symbol: "AAPL", DNA: DNAS, Timing: TimingA, TimingCoeff: 0.9, EvidenceCount: 3,
	}))

	ps, err := svc.SizePosition(ctx, "AAPL", 1_000_000, regime.RiskOff)
	require.NoError(t, err)
	assert.InDelta(t, 157_500, ps.FinalAmount, 1e-6)

	_, err = svc.SizePosition(ctx, "UNRATED", 1_000_000, regime.Neutral)
	assert.Error(t, err)
}

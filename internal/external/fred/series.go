package fred

import (
	"context"
	"math"
	"time"

	"github.com/wonny/vantage/internal/macro"
)

// FRED series identifiers used to build a macro snapshot.
const (
	SeriesUS2Y         = "DGS2"
	SeriesUS5Y         = "DGS5"
	SeriesUS10Y        = "DGS10"
	SeriesUS30Y        = "DGS30"
	SeriesSpread10Y2Y  = "T10Y2Y"
	SeriesSpread10Y3M  = "T10Y3M"
	SeriesFedFunds     = "FEDFUNDS"
	SeriesCPI          = "CPIAUCSL"
	SeriesGDPGrowth    = "A191RL1Q225SBEA"
	SeriesUnemployment = "UNRATE"
	SeriesVIX          = "VIXCLS"
	SeriesHYSpread     = "BAMLH0A0HYM2"
	SeriesDXY          = "DTWEXBGS"
	SeriesUSDJPY       = "DEXJPUS"
	SeriesJapanRate    = "IRSTCI01JPM156N"
	SeriesFedBS        = "WALCL"
)

// SnapshotBuilder assembles a full macro snapshot from individual FRED
// series. It implements macro.Fetcher.
type SnapshotBuilder struct {
	client *Client
	now    func() time.Time
}

// NewSnapshotBuilder wires the builder to a FRED client.
func NewSnapshotBuilder(client *Client) *SnapshotBuilder {
	return &SnapshotBuilder{client: client, now: time.Now}
}

// WithClock overrides the builder clock, for tests.
func (b *SnapshotBuilder) WithClock(now func() time.Time) *SnapshotBuilder {
	b.now = now
	return b
}

// FetchSnapshot implements macro.Fetcher. Each series is fetched
// independently; a failed series leaves its field nil and never fails
// the whole snapshot. Downstream consumers skip rules and detectors
// whose inputs are missing.
func (b *SnapshotBuilder) FetchSnapshot(ctx context.Context) (*macro.Snapshot, error) {
	s := &macro.Snapshot{
		CapturedAt: b.now(),
		DXYTrend:   macro.DXYUnknown,
	}

	s.US2Y = b.latest(ctx, SeriesUS2Y)
	s.US5Y = b.latest(ctx, SeriesUS5Y)
	s.US30Y = b.latest(ctx, SeriesUS30Y)
	s.Spread10Y2Y = b.latest(ctx, SeriesSpread10Y2Y)
	s.Spread10Y3M = b.latest(ctx, SeriesSpread10Y3M)
	s.FedFunds = b.latest(ctx, SeriesFedFunds)
	s.GDPGrowth = b.latest(ctx, SeriesGDPGrowth)
	s.Unemployment = b.latest(ctx, SeriesUnemployment)
	s.JapanRate = b.latest(ctx, SeriesJapanRate)

	// Series with a 30-day trend need a window of daily observations.
	// ~22 trading days cover a calendar month.
	if obs, err := b.client.Observations(ctx, SeriesUS10Y, 25); err == nil && len(obs) > 0 {
		s.US10Y = macro.Float(obs[0].Value)
		if len(obs) >= 20 {
			chgBP := int(math.Round((obs[0].Value - obs[len(obs)-1].Value) * 100))
			s.US10Y30DChgBP = macro.Int(chgBP)
		}
	}
	if obs, err := b.client.Observations(ctx, SeriesVIX, 25); err == nil && len(obs) > 0 {
		s.VIX = macro.Float(obs[0].Value)
		if len(obs) >= 20 {
			s.VIX30DChg = macro.Float(obs[0].Value - obs[len(obs)-1].Value)
		}
	}
	if obs, err := b.client.Observations(ctx, SeriesHYSpread, 25); err == nil && len(obs) > 0 {
		s.HYSpread = macro.Float(obs[0].Value)
		if len(obs) >= 20 {
			s.HYSpread30DChg = macro.Float(obs[0].Value - obs[len(obs)-1].Value)
		}
	}
	if obs, err := b.client.Observations(ctx, SeriesUSDJPY, 25); err == nil && len(obs) > 0 {
		s.USDJPY = macro.Float(obs[0].Value)
		if len(obs) >= 20 {
			s.USDJPY30DChg = macro.Float(obs[0].Value - obs[len(obs)-1].Value)
		}
	}

	// DXY trend compares the latest level against its 50-observation
	// simple moving average with a 1% dead band.
	if obs, err := b.client.Observations(ctx, SeriesDXY, 50); err == nil && len(obs) > 0 {
		s.DXY = macro.Float(obs[0].Value)
		if len(obs) >= 20 {
			s.DXY30DChg = macro.Float(obs[0].Value - obs[min(len(obs), 22)-1].Value)
		}
		s.DXYTrend = dxyTrend(obs)
	}

	// CPI YoY needs 13 monthly observations: latest vs a year earlier.
	if obs, err := b.client.Observations(ctx, SeriesCPI, 13); err == nil && len(obs) >= 13 {
		latest, yearAgo := obs[0].Value, obs[12].Value
		if yearAgo != 0 {
			s.CPIYoY = macro.Float((latest/yearAgo - 1) * 100)
		}
	}

	// WALCL is weekly, in millions of dollars. Four observations back
	// approximates 30 days.
	if obs, err := b.client.Observations(ctx, SeriesFedBS, 5); err == nil && len(obs) > 0 {
		s.FedBalanceSheetT = macro.Float(obs[0].Value / 1_000_000)
		if len(obs) >= 5 {
			base := obs[4].Value
			if base != 0 {
				s.FedBS30DChgPct = macro.Float((obs[0].Value/base - 1) * 100)
			}
		}
	}

	return s, nil
}

// latest fetches a single most-recent value, returning nil on any
// failure.
func (b *SnapshotBuilder) latest(ctx context.Context, seriesID string) *float64 {
	obs, err := b.client.Latest(ctx, seriesID)
	if err != nil {
		b.client.logger.WithError(err).WithField("series", seriesID).Warn("Series fetch failed")
		return nil
	}
	return macro.Float(obs.Value)
}

// dxyTrend classifies the dollar index against its SMA over the given
// window. Within 1% of the average counts as stable.
func dxyTrend(obs []Observation) string {
	if len(obs) < 10 {
		return macro.DXYUnknown
	}
	var sum float64
	for _, o := range obs {
		sum += o.Value
	}
	sma := sum / float64(len(obs))
	latest := obs[0].Value
	switch {
	case latest > sma*1.01:
		return macro.DXYStrengthening
	case latest < sma*0.99:
		return macro.DXYWeakening
	default:
		return macro.DXYStable
	}
}

package macro

import "time"

// VIX buckets
const (
	VIXUnknown  = "UNKNOWN"
	VIXLow      = "LOW"
	VIXNormal   = "NORMAL"
	VIXElevated = "ELEVATED"
	VIXPanic    = "PANIC"
)

// DXY trend labels
const (
	DXYUnknown       = "UNKNOWN"
	DXYStrengthening = "STRENGTHENING"
	DXYWeakening     = "WEAKENING"
	DXYStable        = "STABLE"
)

// Snapshot is an immutable point-in-time reading of the tracked macro
// indicator set. Every series field is a pointer so that "missing"
// (provider had no data) is distinguishable from a legitimate zero.
// ⭐ SSOT: 매크로 지표 정의는 이 구조체에서만
type Snapshot struct {
	CapturedAt time.Time `json:"captured_at"`

	// Yield curve (percent)
	US2Y        *float64 `json:"us2y,omitempty"`
	US5Y        *float64 `json:"us5y,omitempty"`
	US10Y       *float64 `json:"us10y,omitempty"`
	US30Y       *float64 `json:"us30y,omitempty"`
	Spread10Y2Y *float64 `json:"spread_10y_2y,omitempty"`
	Spread10Y3M *float64 `json:"spread_10y_3m,omitempty"`

	// Policy & inflation
	FedFunds *float64 `json:"fed_funds,omitempty"`
	// YoY percent change computed from the raw CPI index at fetch time
	CPIYoY *float64 `json:"cpi_yoy,omitempty"`

	// Economy (percent)
	GDPGrowth    *float64 `json:"gdp_growth,omitempty"`
	Unemployment *float64 `json:"unemployment,omitempty"`

	// Volatility & credit
	VIX *float64 `json:"vix,omitempty"`
	// High-yield OAS in percentage points (3.15 = 315bp)
	HYSpread *float64 `json:"hy_spread,omitempty"`

	// Dollar & carry
	DXY       *float64 `json:"dxy,omitempty"`
	DXYTrend  string   `json:"dxy_trend"`
	USDJPY    *float64 `json:"usdjpy,omitempty"`
	JapanRate *float64 `json:"japan_rate,omitempty"`

	// Liquidity: Fed balance sheet in trillions USD
	FedBalanceSheetT *float64 `json:"fed_balance_sheet_t,omitempty"`

	// 30-day trends (basis points for rates, raw for the rest)
	US10Y30DChgBP  *int     `json:"us10y_30d_chg_bp,omitempty"`
	VIX30DChg      *float64 `json:"vix_30d_chg,omitempty"`
	DXY30DChg      *float64 `json:"dxy_30d_chg,omitempty"`
	USDJPY30DChg   *float64 `json:"usdjpy_30d_chg,omitempty"`
	HYSpread30DChg *float64 `json:"hy_spread_30d_chg,omitempty"`
	FedBS30DChgPct *float64 `json:"fed_bs_30d_chg_pct,omitempty"`
}

// primarySeries is the set counted by SourceCount and Complete.
// Derived values (term premium, real rate) are intentionally excluded.
func (s *Snapshot) primarySeries() []*float64 {
	return []*float64{
		s.US2Y, s.US5Y, s.US10Y, s.US30Y, s.Spread10Y2Y, s.Spread10Y3M,
		s.FedFunds, s.CPIYoY, s.GDPGrowth, s.Unemployment,
		s.VIX, s.HYSpread, s.DXY, s.USDJPY, s.JapanRate, s.FedBalanceSheetT,
	}
}

// SourceCount returns how many primary series are populated
func (s *Snapshot) SourceCount() int {
	count := 0
	for _, v := range s.primarySeries() {
		if v != nil {
			count++
		}
	}
	return count
}

// Complete reports whether every primary series is present.
// A snapshot that is not complete is "partial" and still valid data;
// every consumer degrades gracefully on missing fields.
func (s *Snapshot) Complete() bool {
	return s.SourceCount() == len(s.primarySeries())
}

// Derived values are always recomputed from the raw fields, never stored,
// so they can never drift out of sync with the series they come from.

// TermPremium returns 30Y - 2Y, or nil if either leg is missing
func (s *Snapshot) TermPremium() *float64 {
	if s.US30Y == nil || s.US2Y == nil {
		return nil
	}
	v := *s.US30Y - *s.US2Y
	return &v
}

// RealRate10Y returns 10Y - CPI YoY, or nil if either leg is missing
func (s *Snapshot) RealRate10Y() *float64 {
	if s.US10Y == nil || s.CPIYoY == nil {
		return nil
	}
	v := *s.US10Y - *s.CPIYoY
	return &v
}

// HYSpreadBP returns the high-yield spread in basis points
func (s *Snapshot) HYSpreadBP() *float64 {
	if s.HYSpread == nil {
		return nil
	}
	v := *s.HYSpread * 100
	return &v
}

// VIXBucket classifies the volatility level into a coarse bucket
func (s *Snapshot) VIXBucket() string {
	if s.VIX == nil {
		return VIXUnknown
	}
	switch v := *s.VIX; {
	case v < 15:
		return VIXLow
	case v < 25:
		return VIXNormal
	case v < 35:
		return VIXElevated
	default:
		return VIXPanic
	}
}

// Float returns a pointer to v. Snapshot literal helper.
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v. Snapshot literal helper.
func Int(v int) *int {
	return &v
}

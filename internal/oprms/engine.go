package oprms

import (
	"fmt"
	"math"

	"github.com/wonny/vantage/internal/regime"
)

// evidenceFullCount is the number of independent evidence items at
// which the evidence gate stops discounting the position.
const evidenceFullCount = 3

// PositionSize is the result of one sizing calculation, with every
// intermediate stage exposed so the chain can be audited.
type PositionSize struct {
	Symbol string `json:"symbol"`

	// BasePosition is capital x DNA cap, before any adjustment.
	BasePosition float64 `json:"base_position"`
	// TimingAdjusted is the base scaled by the timing coefficient.
	TimingAdjusted float64 `json:"timing_adjusted"`
	// RegimeAdjusted applies the market-regime multiplier.
	RegimeAdjusted float64 `json:"regime_adjusted"`
	// EvidenceGated applies the conviction discount for thin research.
	EvidenceGated float64 `json:"evidence_gated"`

	FinalAmount float64 `json:"final_amount"`
	FinalPct    float64 `json:"final_pct"`

	RegimeMultiplier float64 `json:"regime_multiplier"`
	EvidenceGate     float64 `json:"evidence_gate"`
}

// RegimeMultiplier returns the position haircut for a market regime.
// Defensive regimes shrink every position; benign regimes do not
// inflate them.
func RegimeMultiplier(r regime.Regime) float64 {
	switch r {
	case regime.Crisis:
		return 0.4
	case regime.RiskOff:
		return 0.7
	default:
		return 1.0
	}
}

// EvidenceGate returns min(n/3, 1): a position backed by fewer than
// three independent evidence items is scaled down proportionally.
func EvidenceGate(evidenceCount int) float64 {
	if evidenceCount >= evidenceFullCount {
		return 1.0
	}
	if evidenceCount <= 0 {
		return 0.0
	}
	return float64(evidenceCount) / evidenceFullCount
}

// CalculatePosition runs the full sizing chain for one rating:
//
//	capital x DNA cap x timing coeff x regime multiplier x evidence gate
//
// The only error condition is non-positive capital; every rating field
// is assumed validated at write time and re-checked here to fail fast
// on corrupt input.
func CalculatePosition(totalCapital float64, r *Rating, mkt regime.Regime) (*PositionSize, error) {
	if totalCapital <= 0 {
		return nil, fmt.Errorf("total capital must be positive, got %.2f", totalCapital)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rating: %w", err)
	}

	maxPct, err := r.DNA.MaxPositionPct()
	if err != nil {
		return nil, err
	}

	base := totalCapital * maxPct
	timing := base * r.TimingCoeff
	mult := RegimeMultiplier(mkt)
	regimeAdj := timing * mult
	gate := EvidenceGate(r.EvidenceCount)
	gated := regimeAdj * gate

	return &PositionSize{
		Symbol:           r.Symbol,
		BasePosition:     base,
		TimingAdjusted:   timing,
		RegimeAdjusted:   regimeAdj,
		EvidenceGated:    gated,
		FinalAmount:      gated,
		FinalPct:         gated / totalCapital * 100,
		RegimeMultiplier: mult,
		EvidenceGate:     gate,
	}, nil
}

// SensitivityRow is one cell of the what-if grid.
type SensitivityRow struct {
	Regime      regime.Regime `json:"regime"`
	TimingCoeff float64       `json:"timing_coeff"`
	FinalAmount float64       `json:"final_amount"`
	FinalPct    float64       `json:"final_pct"`
}

// SensitivityTable recomputes the position across all regimes and the
// timing band edges, so an analyst sees how fragile the size is to a
// regime shift or a timing re-grade.
func SensitivityTable(totalCapital float64, r *Rating) ([]SensitivityRow, error) {
	if totalCapital <= 0 {
		return nil, fmt.Errorf("total capital must be positive, got %.2f", totalCapital)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rating: %w", err)
	}

	low, high, err := r.Timing.CoefficientRange()
	if err != nil {
		return nil, err
	}
	coeffs := []float64{low, r.TimingCoeff, high}

	regimes := []regime.Regime{regime.RiskOn, regime.Neutral, regime.RiskOff, regime.Crisis}

	var rows []SensitivityRow
	for _, mkt := range regimes {
		for _, c := range coeffs {
			probe := *r
			probe.TimingCoeff = c
			ps, err := CalculatePosition(totalCapital, &probe, mkt)
			if err != nil {
				return nil, err
			}
			rows = append(rows, SensitivityRow{
				Regime:      mkt,
				TimingCoeff: c,
				FinalAmount: math.Round(ps.FinalAmount*100) / 100,
				FinalPct:    ps.FinalPct,
			})
		}
	}
	return rows, nil
}

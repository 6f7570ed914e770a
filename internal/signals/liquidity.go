package signals

import "github.com/wonny/vantage/internal/macro"

// LiquidityDrainDetector fires when the central-bank balance sheet is
// contracting faster than the calibrated rate over the trailing window.
// Shrinking reserves are a headwind for every risk asset at once.
type LiquidityDrainDetector struct {
	cal LiquidityCalibration
}

// NewLiquidityDrainDetector creates the detector with the given thresholds
func NewLiquidityDrainDetector(cal LiquidityCalibration) *LiquidityDrainDetector {
	return &LiquidityDrainDetector{cal: cal}
}

// ID implements Detector
func (d *LiquidityDrainDetector) ID() string { return "liquidity-drain" }

// Detect implements Detector
func (d *LiquidityDrainDetector) Detect(s *macro.Snapshot, history []*macro.Snapshot) *Signal {
	chg := s.FedBS30DChgPct
	if chg == nil {
		// Derive the contraction rate from history when the snapshot
		// does not carry it
		abs := trailingChange(history, func(s *macro.Snapshot) *float64 { return s.FedBalanceSheetT })
		if abs == nil || s.FedBalanceSheetT == nil {
			return nil
		}
		base := *s.FedBalanceSheetT - *abs
		if base <= 0 {
			return nil
		}
		pct := *abs / base * 100
		chg = &pct
	}

	if *chg >= d.cal.MaxBSChange30DPct {
		return nil
	}

	severity := SeverityWarning
	if *chg < d.cal.AlertBSChange30DPct {
		severity = SeverityAlert
	}

	fields := map[string]float64{
		"fed_bs_30d_chg_pct": *chg,
	}
	if s.FedBalanceSheetT != nil {
		fields["fed_balance_sheet_t"] = *s.FedBalanceSheetT
	}

	return &Signal{
		DetectorID: d.ID(),
		Severity:   severity,
		NarrativeTags: []string{
			"qt", "reserve-drain", "em-stress", "small-cap-headwind",
		},
		TriggeringFields: fields,
	}
}

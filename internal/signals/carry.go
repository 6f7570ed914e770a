package signals

import "github.com/wonny/vantage/internal/macro"

// CarryUnwindDetector fires when a funding-currency pair and the foreign
// policy rate move together: the foreign central bank is tightening while
// the pair drops, the classic shape of cross-border carry positions
// being forced out.
type CarryUnwindDetector struct {
	cal CarryCalibration
}

// NewCarryUnwindDetector creates the detector with the given thresholds
func NewCarryUnwindDetector(cal CarryCalibration) *CarryUnwindDetector {
	return &CarryUnwindDetector{cal: cal}
}

// ID implements Detector
func (d *CarryUnwindDetector) ID() string { return "carry-trade-unwind" }

// Detect implements Detector
func (d *CarryUnwindDetector) Detect(s *macro.Snapshot, history []*macro.Snapshot) *Signal {
	if s.JapanRate == nil {
		return nil
	}

	pairChg := pick(s.USDJPY30DChg, history, func(s *macro.Snapshot) *float64 { return s.USDJPY })
	if pairChg == nil {
		return nil
	}

	tightening := *s.JapanRate > d.cal.MinForeignRate
	strengthening := *pairChg < d.cal.MaxPairChange30D
	if !tightening || !strengthening {
		return nil
	}

	severity := SeverityWarning
	if *s.JapanRate > d.cal.AlertForeignRate && *pairChg < d.cal.AlertPairChange30D {
		severity = SeverityAlert
	}

	return &Signal{
		DetectorID: d.ID(),
		Severity:   severity,
		NarrativeTags: []string{
			"carry-unwind", "flight-to-quality", "vol-spike", "growth-derisk",
		},
		TriggeringFields: map[string]float64{
			"japan_rate":     *s.JapanRate,
			"usdjpy_30d_chg": *pairChg,
		},
	}
}

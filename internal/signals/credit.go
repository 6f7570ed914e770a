package signals

import "github.com/wonny/vantage/internal/macro"

// CreditStressDetector fires when the high-yield spread is wide in
// absolute terms or has widened sharply over the trailing window.
// Credit reprices before equities more often than not.
type CreditStressDetector struct {
	cal CreditCalibration
}

// NewCreditStressDetector creates the detector with the given thresholds
func NewCreditStressDetector(cal CreditCalibration) *CreditStressDetector {
	return &CreditStressDetector{cal: cal}
}

// ID implements Detector
func (d *CreditStressDetector) ID() string { return "credit-stress" }

// Detect implements Detector
func (d *CreditStressDetector) Detect(s *macro.Snapshot, history []*macro.Snapshot) *Signal {
	if s.HYSpread == nil {
		return nil
	}

	widening := pick(s.HYSpread30DChg, history, func(s *macro.Snapshot) *float64 { return s.HYSpread })

	wide := *s.HYSpread > d.cal.WideSpread
	spiking := widening != nil && *widening > d.cal.Widening30D
	if !wide && !spiking {
		return nil
	}

	severity := SeverityWarning
	if (wide && spiking) || *s.HYSpread > d.cal.AlertSpread {
		severity = SeverityAlert
	}

	fields := map[string]float64{
		"hy_spread": *s.HYSpread,
	}
	if widening != nil {
		fields["hy_spread_30d_chg"] = *widening
	}

	return &Signal{
		DetectorID: d.ID(),
		Severity:   severity,
		NarrativeTags: []string{
			"credit-repricing", "defensive-rotation", "financials-pressure",
		},
		TriggeringFields: fields,
	}
}

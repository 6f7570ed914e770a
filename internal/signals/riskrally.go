package signals

import "github.com/wonny/vantage/internal/macro"

// RiskRallyDetector fires when volatility falls sharply while the dollar
// weakens: broad risk appetite returning, beta outperforming.
type RiskRallyDetector struct {
	cal RiskRallyCalibration
}

// NewRiskRallyDetector creates the detector with the given thresholds
func NewRiskRallyDetector(cal RiskRallyCalibration) *RiskRallyDetector {
	return &RiskRallyDetector{cal: cal}
}

// ID implements Detector
func (d *RiskRallyDetector) ID() string { return "risk-rally" }

// Detect implements Detector
func (d *RiskRallyDetector) Detect(s *macro.Snapshot, history []*macro.Snapshot) *Signal {
	if s.VIX == nil {
		return nil
	}

	vixChg := pick(s.VIX30DChg, history, func(s *macro.Snapshot) *float64 { return s.VIX })
	dxyChg := pick(s.DXY30DChg, history, func(s *macro.Snapshot) *float64 { return s.DXY })
	if vixChg == nil || dxyChg == nil {
		return nil
	}

	volDown := *s.VIX < d.cal.MaxVIX && *vixChg < d.cal.MaxVIXChange30D
	dollarDown := *dxyChg < d.cal.MaxDXYChange30D
	if !volDown || !dollarDown {
		return nil
	}

	severity := SeverityWarning
	if *s.VIX < d.cal.AlertVIX {
		severity = SeverityAlert
	}

	return &Signal{
		DetectorID: d.ID(),
		Severity:   severity,
		NarrativeTags: []string{
			"risk-on", "vol-compression", "beta-bid", "dollar-tailwind",
		},
		TriggeringFields: map[string]float64{
			"vix":         *s.VIX,
			"vix_30d_chg": *vixChg,
			"dxy_30d_chg": *dxyChg,
		},
	}
}

package signals

import "github.com/wonny/vantage/internal/macro"

// ReflationDetector fires when inflation runs above threshold while the
// real 10Y rate stays low. Nominal growth with cheap money favors
// cyclicals and commodities over duration.
type ReflationDetector struct {
	cal ReflationCalibration
}

// NewReflationDetector creates the detector with the given thresholds
func NewReflationDetector(cal ReflationCalibration) *ReflationDetector {
	return &ReflationDetector{cal: cal}
}

// ID implements Detector
func (d *ReflationDetector) ID() string { return "reflation" }

// Detect implements Detector
func (d *ReflationDetector) Detect(s *macro.Snapshot, history []*macro.Snapshot) *Signal {
	realRate := s.RealRate10Y()
	if s.CPIYoY == nil || realRate == nil {
		return nil
	}

	hot := *s.CPIYoY > d.cal.MinCPIYoY
	cheap := *realRate <= d.cal.MaxRealRate
	if !hot || !cheap {
		return nil
	}

	severity := SeverityWarning
	if *s.CPIYoY > d.cal.AlertCPIYoY {
		severity = SeverityAlert
	}

	return &Signal{
		DetectorID: d.ID(),
		Severity:   severity,
		NarrativeTags: []string{
			"reflation", "value-over-growth", "commodity-bid", "curve-steepener",
		},
		TriggeringFields: map[string]float64{
			"cpi_yoy":       *s.CPIYoY,
			"real_rate_10y": *realRate,
		},
	}
}

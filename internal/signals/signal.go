package signals

import "github.com/wonny/vantage/internal/macro"

// Severity grades how strongly a detector's conditions are met
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityAlert   Severity = "ALERT"
)

// Signal is a detector's output: an ephemeral, purely informational flag
// describing a cross-asset stress or opportunity pattern. Signals are
// recomputed per snapshot and never feed back into regime classification
// or position sizing.
type Signal struct {
	DetectorID       string             `json:"detector_id"`
	Severity         Severity           `json:"severity"`
	NarrativeTags    []string           `json:"narrative_tags"`
	TriggeringFields map[string]float64 `json:"triggering_fields"`
}

// Detector inspects a snapshot (and optionally recent history) for one
// specific pattern. Detect returns nil when the pattern is not present
// or when required fields are missing from a partial snapshot; it never
// errors on missing data.
type Detector interface {
	ID() string
	Detect(s *macro.Snapshot, history []*macro.Snapshot) *Signal
}

// trailingChange computes newest-minus-oldest for a series over the recent
// history window. Detectors use it when the snapshot's own trend field is
// absent. Returns nil when fewer than two observations are available.
func trailingChange(history []*macro.Snapshot, field func(*macro.Snapshot) *float64) *float64 {
	var oldest, newest *float64
	for _, s := range history {
		v := field(s)
		if v == nil {
			continue
		}
		if oldest == nil {
			oldest = v
		}
		newest = v
	}
	if oldest == nil || newest == nil || oldest == newest {
		return nil
	}
	chg := *newest - *oldest
	return &chg
}

// pick returns the snapshot's own trend value when present, otherwise the
// trailing change computed from history
func pick(own *float64, history []*macro.Snapshot, field func(*macro.Snapshot) *float64) *float64 {
	if own != nil {
		return own
	}
	return trailingChange(history, field)
}

package regime

import (
	"fmt"
	"strings"

	"github.com/wonny/vantage/internal/macro"
)

// Regime is a coarse classification of current market conditions
type Regime string

const (
	Crisis  Regime = "CRISIS"
	RiskOff Regime = "RISK_OFF"
	RiskOn  Regime = "RISK_ON"
	Neutral Regime = "NEUTRAL"
)

// Valid reports whether r is one of the four defined regimes
func (r Regime) Valid() bool {
	switch r {
	case Crisis, RiskOff, RiskOn, Neutral:
		return true
	}
	return false
}

// Confidence levels derived from snapshot coverage
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// Assessment carries the classified regime with supporting context
type Assessment struct {
	Regime     Regime `json:"regime"`
	Confidence string `json:"confidence"`
	Rationale  string `json:"rationale"`
	Sources    int    `json:"sources"`
}

// rule is one entry in the ordered list. eval returns (matched, ok);
// ok=false means a required field was missing and the rule is skipped.
type rule struct {
	result Regime
	reason string
	eval   func(s *macro.Snapshot) (matched, ok bool)
}

// rules is evaluated top to bottom, first match wins. The order is
// load-bearing: rules 1-3 and 6 overlap in their field ranges, so this
// must stay a sequence, not a lookup table. Do not reorder.
var rules = []rule{
	{
		result: Crisis,
		reason: "extreme volatility",
		eval: func(s *macro.Snapshot) (bool, bool) {
			if s.VIX == nil {
				return false, false
			}
			return *s.VIX > 45, true
		},
	},
	{
		result: Crisis,
		reason: "high volatility with inverted curve",
		eval: func(s *macro.Snapshot) (bool, bool) {
			if s.VIX == nil || s.Spread10Y2Y == nil {
				return false, false
			}
			return *s.VIX > 35 && *s.Spread10Y2Y < 0, true
		},
	},
	{
		result: RiskOff,
		reason: "elevated volatility with inverted curve",
		eval: func(s *macro.Snapshot) (bool, bool) {
			if s.VIX == nil || s.Spread10Y2Y == nil {
				return false, false
			}
			return *s.VIX > 25 && *s.Spread10Y2Y < 0, true
		},
	},
	{
		result: RiskOff,
		reason: "GDP contracting",
		eval: func(s *macro.Snapshot) (bool, bool) {
			if s.GDPGrowth == nil {
				return false, false
			}
			return *s.GDPGrowth < 0, true
		},
	},
	{
		result: RiskOff,
		reason: "high-yield spread wide",
		eval: func(s *macro.Snapshot) (bool, bool) {
			if s.HYSpread == nil {
				return false, false
			}
			return *s.HYSpread > 5.0, true
		},
	},
	{
		result: RiskOn,
		reason: "low volatility, positive curve, strong GDP",
		eval: func(s *macro.Snapshot) (bool, bool) {
			if s.VIX == nil || s.Spread10Y2Y == nil || s.GDPGrowth == nil {
				return false, false
			}
			return *s.VIX < 18 && *s.Spread10Y2Y > 0.5 && *s.GDPGrowth > 2.0, true
		},
	},
}

// Classify maps a snapshot to a regime. Pure and deterministic: the same
// snapshot always yields the same regime. Rules whose fields are missing
// are skipped; if everything is skipped the answer is NEUTRAL, which keeps
// classification conservative under data loss.
func Classify(s *macro.Snapshot) Regime {
	for _, r := range rules {
		matched, ok := r.eval(s)
		if !ok {
			continue
		}
		if matched {
			return r.result
		}
	}
	return Neutral
}

// Assess classifies and attaches confidence and a human-readable rationale
func Assess(s *macro.Snapshot) Assessment {
	a := Assessment{
		Regime:     Neutral,
		Confidence: confidence(s),
		Sources:    s.SourceCount(),
	}

	for _, r := range rules {
		matched, ok := r.eval(s)
		if !ok {
			continue
		}
		if matched {
			a.Regime = r.result
			a.Rationale = r.reason
			return a
		}
	}

	a.Rationale = neutralRationale(s)
	return a
}

// confidence buckets snapshot coverage
func confidence(s *macro.Snapshot) string {
	switch count := s.SourceCount(); {
	case count >= 8:
		return ConfidenceHigh
	case count >= 4:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func neutralRationale(s *macro.Snapshot) string {
	parts := []string{}
	if s.VIX != nil {
		parts = append(parts, fmt.Sprintf("VIX %.1f", *s.VIX))
	}
	if s.Spread10Y2Y != nil {
		parts = append(parts, fmt.Sprintf("10Y-2Y %+.2f%%", *s.Spread10Y2Y))
	}
	if s.GDPGrowth != nil {
		parts = append(parts, fmt.Sprintf("GDP %.1f%%", *s.GDPGrowth))
	}
	if len(parts) == 0 {
		return "insufficient data"
	}
	return "mixed signals: " + strings.Join(parts, ", ")
}

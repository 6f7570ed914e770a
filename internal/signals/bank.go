package signals

import (
	"github.com/wonny/vantage/internal/macro"
	"github.com/wonny/vantage/pkg/logger"
)

// Bank runs a fixed set of detectors against a snapshot.
// ⭐ SSOT: 모든 감지기는 여기서만 등록됨
type Bank struct {
	detectors []Detector
	logger    *logger.Logger
}

// NewBank creates a bank with the full detector set. Detector order is
// stable so that signal output order is deterministic.
func NewBank(cal Calibration, log *logger.Logger) *Bank {
	return &Bank{
		detectors: []Detector{
			NewCarryUnwindDetector(cal.Carry),
			NewCreditStressDetector(cal.Credit),
			NewLiquidityDrainDetector(cal.Liquidity),
			NewReflationDetector(cal.Reflation),
			NewRiskRallyDetector(cal.RiskRally),
		},
		logger: log,
	}
}

// DetectAll runs every detector and returns the signals that fired.
// Detectors that cannot evaluate (missing snapshot fields) contribute
// nothing; they never block the rest of the bank.
func (b *Bank) DetectAll(s *macro.Snapshot, history []*macro.Snapshot) []*Signal {
	var fired []*Signal
	for _, d := range b.detectors {
		sig := d.Detect(s, history)
		if sig == nil {
			continue
		}
		fired = append(fired, sig)
		b.logger.WithFields(map[string]interface{}{
			"detector": sig.DetectorID,
			"severity": string(sig.Severity),
			"tags":     sig.NarrativeTags,
		}).Debug("Signal fired")
	}
	return fired
}

// Detectors returns the registered detector IDs in evaluation order.
func (b *Bank) Detectors() []string {
	ids := make([]string, 0, len(b.detectors))
	for _, d := range b.detectors {
		ids = append(ids, d.ID())
	}
	return ids
}

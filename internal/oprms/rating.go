package oprms

import (
	"fmt"
	"time"
)

// DNARating grades the structural quality of a business. It moves
// slowly; a downgrade is an event, not a fluctuation.
type DNARating string

// TimingRating grades the attractiveness of the current entry point.
// It moves with price and positioning.
type TimingRating string

const (
	DNAS DNARating = "S"
	DNAA DNARating = "A"
	DNAB DNARating = "B"
	DNAC DNARating = "C"

	TimingS TimingRating = "S"
	TimingA TimingRating = "A"
	TimingB TimingRating = "B"
	TimingC TimingRating = "C"
)

// MaxPositionPct returns the hard cap on portfolio weight for a DNA
// grade. The cap is a ceiling, not a target.
// ⭐ SSOT: DNA 등급별 최대 비중은 여기서만 정의
func (d DNARating) MaxPositionPct() (float64, error) {
	switch d {
	case DNAS:
		return 0.25, nil
	case DNAA:
		return 0.15, nil
	case DNAB:
		return 0.07, nil
	case DNAC:
		return 0.02, nil
	default:
		return 0, fmt.Errorf("invalid DNA rating: %q", string(d))
	}
}

// Valid reports whether the grade is one of S/A/B/C.
func (d DNARating) Valid() bool {
	_, err := d.MaxPositionPct()
	return err == nil
}

// CoefficientRange returns the allowed timing coefficient band for a
// timing grade. A stored coefficient outside its band is rejected.
func (t TimingRating) CoefficientRange() (low, high float64, err error) {
	switch t {
	case TimingS:
		return 1.0, 1.5, nil
	case TimingA:
		return 0.8, 1.0, nil
	case TimingB:
		return 0.4, 0.6, nil
	case TimingC:
		return 0.1, 0.3, nil
	default:
		return 0, 0, fmt.Errorf("invalid timing rating: %q", string(t))
	}
}

// Midpoint returns the center of the grade's coefficient band, used as
// the default when an analyst supplies a grade without a coefficient.
func (t TimingRating) Midpoint() (float64, error) {
	low, high, err := t.CoefficientRange()
	if err != nil {
		return 0, err
	}
	return (low + high) / 2, nil
}

// Valid reports whether the grade is one of S/A/B/C.
func (t TimingRating) Valid() bool {
	_, _, err := t.CoefficientRange()
	return err == nil
}

// Rating is one analyst judgement about a symbol at a point in time.
// Ratings are immutable once recorded; a change of view is a new
// rating, never an edit.
type Rating struct {
	Symbol        string       `json:"symbol"`
	DNA           DNARating    `json:"dna"`
	Timing        TimingRating `json:"timing"`
	TimingCoeff   float64      `json:"timing_coeff"`
	EvidenceCount int          `json:"evidence_count"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Validate checks grade validity, coefficient band membership, and
// evidence count sign.
func (r *Rating) Validate() error {
	if r.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if !r.DNA.Valid() {
		return fmt.Errorf("invalid DNA rating: %q", string(r.DNA))
	}
	low, high, err := r.Timing.CoefficientRange()
	if err != nil {
		return err
	}
	if r.TimingCoeff < low || r.TimingCoeff > high {
		return fmt.Errorf("timing coefficient %.2f outside %s band [%.1f, %.1f]",
			r.TimingCoeff, string(r.Timing), low, high)
	}
	if r.EvidenceCount < 0 {
		return fmt.Errorf("evidence count must be >= 0, got %d", r.EvidenceCount)
	}
	return nil
}

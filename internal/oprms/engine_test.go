package oprms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/vantage/internal/regime"
)

func testRating() *Rating {
	return &Rating{
		Symbol:        "AAPL",
		DNA:           DNAS,
		Timing:        TimingA,
		TimingCoeff:   0.9,
		EvidenceCount: 3,
	}
}

func TestCalculatePosition(t *testing.T) {
	// $1M, S-grade cap 25%, timing 0.9, RISK_OFF x0.7, full evidence:
	// 1,000,000 x 0.25 x 0.9 x 0.7 x 1.0 = 157,500
	ps, err := CalculatePosition(1_000_000, testRating(), regime.RiskOff)
	require.NoError(t, err)

	assert.InDelta(t, 250_000, ps.BasePosition, 1e-6)
	assert.InDelta(t, 225_000, ps.TimingAdjusted, 1e-6)
	assert.InDelta(t, 157_500, ps.RegimeAdjusted, 1e-6)
	assert.InDelta(t, 157_500, ps.FinalAmount, 1e-6)
	assert.InDelta(t, 15.75, ps.FinalPct, 1e-6)
	assert.InDelta(t, 0.7, ps.RegimeMultiplier, 1e-9)
	assert.InDelta(t, 1.0, ps.EvidenceGate, 1e-9)
}

func TestCalculatePositionEvidenceGate(t *testing.T) {
	tests := []struct {
		evidence int
		gate     float64
	}{
		{0, 0},
		{1, 1.0 / 3.0},
		{2, 2.0 / 3.0},
		{3, 1.0},
		{7, 1.0},
	}

	for _, tt := range tests {
		r := testRating()
		r.EvidenceCount = tt.evidence
		ps, err := CalculatePosition(1_000_000, r, regime.RiskOff)
		require.NoError(t, err)
		assert.InDelta(t, tt.gate, ps.EvidenceGate, 1e-9, "evidence=%d", tt.evidence)
		assert.InDelta(t, 157_500*tt.gate, ps.FinalAmount, 1e-6, "evidence=%d", tt.evidence)
	}
}

func TestRegimeMultiplier(t *testing.T) {
	assert.InDelta(t, 0.4, RegimeMultiplier(regime.Crisis), 1e-9)
	assert.InDelta(t, 0.7, RegimeMultiplier(regime.RiskOff), 1e-9)
	assert.InDelta(t, 1.0, RegimeMultiplier(regime.Neutral), 1e-9)
	assert.InDelta(t, 1.0, RegimeMultiplier(regime.RiskOn), 1e-9)
}

func TestCalculatePositionErrors(t *testing.T) {
	t.Run("zero capital", func(t *testing.T) {
		_, err := CalculatePosition(0, testRating(), regime.Neutral)
		assert.Error(t, err)
	})

	t.Run("negative capital", func(t *testing.T) {
		_, err := CalculatePosition(-100, testRating(), regime.Neutral)
		assert.Error(t, err)
	})

	t.Run("invalid DNA grade", func(t *testing.T) {
		r := testRating()
		r.DNA = "X"
		_, err := CalculatePosition(1_000_000, r, regime.Neutral)
		assert.Error(t, err)
	})

	t.Run("coefficient outside band", func(t *testing.T) {
		r := testRating()
		r.TimingCoeff = 1.4 // A band is [0.8, 1.0]
		_, err := CalculatePosition(1_000_000, r, regime.Neutral)
		assert.Error(t, err)
	})
}

func TestDNAMaxPositionPct(t *testing.T) {
	tests := []struct {
		dna DNARating
		pct float64
	}{
		{DNAS, 0.25},
		{DNAA, 0.15},
		{DNAB, 0.07},
		{DNAC, 0.02},
	}
	for _, tt := range tests {
		pct, err := tt.dna.MaxPositionPct()
		require.NoError(t, err)
		assert.InDelta(t, tt.pct, pct, 1e-9)
	}

	_, err := DNARating("D").MaxPositionPct()
	assert.Error(t, err)
}

func TestTimingCoefficientRange(t *testing.T) {
	tests := []struct {
		timing    TimingRating
		low, high float64
	}{
		{TimingS, 1.0, 1.5},
		{TimingA, 0.8, 1.0},
		{TimingB, 0.4, 0.6},
		{TimingC, 0.1, 0.3},
	}
	for _, tt := range tests {
		low, high, err := tt.timing.CoefficientRange()
		require.NoError(t, err)
		assert.InDelta(t, tt.low, low, 1e-9)
		assert.InDelta(t, tt.high, high, 1e-9)

		mid, err := tt.timing.Midpoint()
		require.NoError(t, err)
		assert.InDelta(t, (tt.low+tt.high)/2, mid, 1e-9)
	}
}

func TestSensitivityTable(t *testing.T) {
	rows, err := SensitivityTable(1_000_000, testRating())
	require.NoError(t, err)

	// 4 regimes x 3 coefficients (band low, current, band high)
	assert.Len(t, rows, 12)

	// The crisis/band-low corner is the smallest position.
	var smallest float64 = rows[0].FinalAmount
	for _, row := range rows {
		if row.FinalAmount < smallest {
			smallest = row.FinalAmount
		}
	}
	// 1,000,000 x 0.25 x 0.8 x 0.4 = 80,000
	assert.InDelta(t, 80_000, smallest, 1e-6)
}

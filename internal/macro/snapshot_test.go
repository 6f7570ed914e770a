package macro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceCount(t *testing.T) {
	assert.Equal(t, 0, (&Snapshot{}).SourceCount())

	s := &Snapshot{
		US10Y:    Float(4.2),
		VIX:      Float(18),
		HYSpread: Float(3.1),
	}
	assert.Equal(t, 3, s.SourceCount())
	assert.False(t, s.Complete())

	full := &Snapshot{
		US2Y: Float(4.0), US5Y: Float(4.1), US10Y: Float(4.2), US30Y: Float(4.5),
		Spread10Y2Y: Float(0.2), Spread10Y3M: Float(0.1),
		FedFunds: Float(5.25), CPIYoY: Float(3.2),
		GDPGrowth: Float(2.1), Unemployment: Float(3.9),
		VIX: Float(18), HYSpread: Float(3.1),
		DXY: Float(104), USDJPY: Float(150), JapanRate: Float(0.1),
		FedBalanceSheetT: Float(7.4),
	}
	assert.Equal(t, 16, full.SourceCount())
	assert.True(t, full.Complete())
}

func TestTermPremium(t *testing.T) {
	s := &Snapshot{US30Y: Float(4.5), US2Y: Float(4.0)}
	assert.InDelta(t, 0.5, *s.TermPremium(), 1e-9)

	assert.Nil(t, (&Snapshot{US30Y: Float(4.5)}).TermPremium())
	assert.Nil(t, (&Snapshot{US2Y: Float(4.0)}).TermPremium())
}

func TestRealRate10Y(t *testing.T) {
	s := &Snapshot{US10Y: Float(4.2), CPIYoY: Float(3.2)}
	assert.InDelta(t, 1.0, *s.RealRate10Y(), 1e-9)

	assert.Nil(t, (&Snapshot{US10Y: Float(4.2)}).RealRate10Y())
}

func TestHYSpreadBP(t *testing.T) {
	s := &Snapshot{HYSpread: Float(3.15)}
	assert.InDelta(t, 315, *s.HYSpreadBP(), 1e-9)
	assert.Nil(t, (&Snapshot{}).HYSpreadBP())
}

func TestVIXBucket(t *testing.T) {
	tests := []struct {
		name string
		vix  *float64
		want string
	}{
		{"missing", nil, VIXUnknown},
		{"low", Float(12), VIXLow},
		{"boundary low/normal", Float(15), VIXNormal},
		{"normal", Float(20), VIXNormal},
		{"boundary normal/elevated", Float(25), VIXElevated},
		{"elevated", Float(30), VIXElevated},
		{"boundary elevated/panic", Float(35), VIXPanic},
		{"panic", Float(60), VIXPanic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Snapshot{VIX: tt.vix}
			assert.Equal(t, tt.want, s.VIXBucket())
		})
	}
}

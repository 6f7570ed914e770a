package signals

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Calibration holds the named threshold constants for every detector.
// Thresholds are configuration with conservative defaults rather than
// literals buried in conditionals. Override via YAML and validate
// before use.
type Calibration struct {
	Carry     CarryCalibration     `yaml:"carry_trade_unwind"`
	Credit    CreditCalibration    `yaml:"credit_stress"`
	Liquidity LiquidityCalibration `yaml:"liquidity_drain"`
	Reflation ReflationCalibration `yaml:"reflation"`
	RiskRally RiskRallyCalibration `yaml:"risk_rally"`
}

// CarryCalibration holds funding-currency unwind thresholds.
type CarryCalibration struct {
	// Foreign policy rate above which the funding leg counts as tightening
	MinForeignRate float64 `yaml:"min_foreign_rate"`
	// 30d USDJPY drop (negative) that counts as yen strengthening
	MaxPairChange30D float64 `yaml:"max_pair_change_30d"`
	// Stronger thresholds upgrade severity to ALERT
	AlertForeignRate   float64 `yaml:"alert_foreign_rate"`
	AlertPairChange30D float64 `yaml:"alert_pair_change_30d"`
}

// CreditCalibration holds high-yield spread stress thresholds.
type CreditCalibration struct {
	// Absolute spread level in percentage points
	WideSpread float64 `yaml:"wide_spread"`
	// Trailing-window widening in percentage points
	Widening30D float64 `yaml:"widening_30d"`
	// Spread level that alone upgrades to ALERT
	AlertSpread float64 `yaml:"alert_spread"`
}

// LiquidityCalibration holds central-bank balance-sheet contraction thresholds.
type LiquidityCalibration struct {
	// 30d balance-sheet change in percent (negative = contraction)
	MaxBSChange30DPct   float64 `yaml:"max_bs_change_30d_pct"`
	AlertBSChange30DPct float64 `yaml:"alert_bs_change_30d_pct"`
}

// ReflationCalibration holds thresholds for inflation rising while real yields stay low.
type ReflationCalibration struct {
	MinCPIYoY float64 `yaml:"min_cpi_yoy"`
	// Real 10Y rate must sit at or below this for the pattern to count
	MaxRealRate float64 `yaml:"max_real_rate"`
	AlertCPIYoY float64 `yaml:"alert_cpi_yoy"`
}

// RiskRallyCalibration holds thresholds for falling volatility with a weakening dollar.
type RiskRallyCalibration struct {
	// VIX level must already be below this
	MaxVIX float64 `yaml:"max_vix"`
	// 30d VIX drop (negative) that counts as a sharp fall
	MaxVIXChange30D float64 `yaml:"max_vix_change_30d"`
	// 30d DXY drop (negative) that counts as dollar weakening
	MaxDXYChange30D float64 `yaml:"max_dxy_change_30d"`
	AlertVIX        float64 `yaml:"alert_vix"`
}

// DefaultCalibration returns the conservative defaults
func DefaultCalibration() Calibration {
	return Calibration{
		Carry: CarryCalibration{
			MinForeignRate:     0.0,
			MaxPairChange30D:   -2.0,
			AlertForeignRate:   0.25,
			AlertPairChange30D: -5.0,
		},
		Credit: CreditCalibration{
			WideSpread:  4.0,
			Widening30D: 0.5,
			AlertSpread: 5.0,
		},
		Liquidity: LiquidityCalibration{
			MaxBSChange30DPct:   -0.5,
			AlertBSChange30DPct: -1.0,
		},
		Reflation: ReflationCalibration{
			MinCPIYoY:   3.0,
			MaxRealRate: 1.5,
			AlertCPIYoY: 4.0,
		},
		RiskRally: RiskRallyCalibration{
			MaxVIX:          18,
			MaxVIXChange30D: -3.0,
			MaxDXYChange30D: -0.5,
			AlertVIX:        12,
		},
	}
}

// LoadCalibration reads YAML overrides. Unknown fields fail immediately
// so typos cannot silently fall back to defaults.
func LoadCalibration(path string) (Calibration, error) {
	cal := DefaultCalibration()

	data, err := os.ReadFile(path)
	if err != nil {
		return cal, fmt.Errorf("read calibration file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cal); err != nil {
		return cal, fmt.Errorf("decode calibration: %w", err)
	}

	if err := cal.Validate(); err != nil {
		return cal, err
	}

	return cal, nil
}

// Validate rejects threshold combinations that can never fire or that
// invert the severity ordering
func (c Calibration) Validate() error {
	if c.Carry.MaxPairChange30D >= 0 {
		return fmt.Errorf("carry max_pair_change_30d must be negative, got %v", c.Carry.MaxPairChange30D)
	}
	if c.Carry.AlertPairChange30D > c.Carry.MaxPairChange30D {
		return fmt.Errorf("carry alert_pair_change_30d must be at or below max_pair_change_30d")
	}
	if c.Credit.WideSpread <= 0 || c.Credit.Widening30D <= 0 {
		return fmt.Errorf("credit thresholds must be positive")
	}
	if c.Credit.AlertSpread < c.Credit.WideSpread {
		return fmt.Errorf("credit alert_spread must be at or above wide_spread")
	}
	if c.Liquidity.MaxBSChange30DPct >= 0 {
		return fmt.Errorf("liquidity max_bs_change_30d_pct must be negative")
	}
	if c.Liquidity.AlertBSChange30DPct > c.Liquidity.MaxBSChange30DPct {
		return fmt.Errorf("liquidity alert threshold must be at or below the firing threshold")
	}
	if c.Reflation.MinCPIYoY <= 0 {
		return fmt.Errorf("reflation min_cpi_yoy must be positive")
	}
	if c.Reflation.AlertCPIYoY < c.Reflation.MinCPIYoY {
		return fmt.Errorf("reflation alert_cpi_yoy must be at or above min_cpi_yoy")
	}
	if c.RiskRally.MaxVIX <= 0 {
		return fmt.Errorf("risk_rally max_vix must be positive")
	}
	if c.RiskRally.MaxVIXChange30D >= 0 || c.RiskRally.MaxDXYChange30D >= 0 {
		return fmt.Errorf("risk_rally 30d change thresholds must be negative")
	}
	if c.RiskRally.AlertVIX > c.RiskRally.MaxVIX {
		return fmt.Errorf("risk_rally alert_vix must be at or below max_vix")
	}
	return nil
}

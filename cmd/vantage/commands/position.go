package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/vantage/internal/oprms"
	"github.com/wonny/vantage/internal/regime"
)

// positionCmd represents the position command
var positionCmd = &cobra.Command{
	Use:   "position [symbol]",
	Short: "OPRMS 포지션 사이징 계산",
	Long: `현재 레이팅과 시장 레짐으로 포지션 크기를 계산합니다.

계산 체인:
  자본 × DNA 상한 × 타이밍 계수 × 레짐 배수 × 근거 게이트

Example:
  go run ./cmd/vantage position AAPL --capital 1000000
  go run ./cmd/vantage position AAPL --capital 1000000 --regime RISK_OFF
  go run ./cmd/vantage position AAPL --capital 1000000 --sensitivity`,
	Args: cobra.ExactArgs(1),
	RunE: calculatePosition,
}

var (
	positionCapital     float64
	positionRegime      string
	positionSensitivity bool
)

func init() {
	rootCmd.AddCommand(positionCmd)

	positionCmd.Flags().Float64Var(&positionCapital, "capital", 0, "총 운용 자본 (USD)")
	positionCmd.Flags().StringVar(&positionRegime, "regime", "", "레짐 수동 지정 (RISK_ON|NEUTRAL|RISK_OFF|CRISIS)")
	positionCmd.Flags().BoolVar(&positionSensitivity, "sensitivity", false, "레짐/타이밍 민감도 테이블 출력")
	positionCmd.MarkFlagRequired("capital")
}

func calculatePosition(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	service, closeDB, err := newRatingService(a)
	if err != nil {
		return err
	}
	defer closeDB()

	symbol := args[0]

	// Resolve the regime: explicit flag wins, otherwise classify the
	// current snapshot.
	mkt := regime.Regime(positionRegime)
	if positionRegime == "" {
		s, _, err := a.cache.GetSnapshot(cmd.Context())
		if err != nil {
			return fmt.Errorf("macro data unavailable, pass --regime explicitly: %w", err)
		}
		mkt = regime.Classify(s)
	} else if !mkt.Valid() {
		return fmt.Errorf("invalid regime %q", positionRegime)
	}

	position, err := service.SizePosition(cmd.Context(), symbol, positionCapital, mkt)
	if err != nil {
		return err
	}

	fmt.Printf("=== Position Size: %s ===\n", symbol)
	fmt.Printf("Regime:            %s (×%.1f)\n", mkt, position.RegimeMultiplier)
	fmt.Printf("Base position:     $%.2f\n", position.BasePosition)
	fmt.Printf("Timing adjusted:   $%.2f\n", position.TimingAdjusted)
	fmt.Printf("Regime adjusted:   $%.2f\n", position.RegimeAdjusted)
	fmt.Printf("Evidence gate:     ×%.2f\n", position.EvidenceGate)
	fmt.Printf("Final:             $%.2f (%.2f%% of capital)\n", position.FinalAmount, position.FinalPct)

	if positionSensitivity {
		rating, err := service.CurrentRating(cmd.Context(), symbol)
		if err != nil {
			return err
		}
		rows, err := oprms.SensitivityTable(positionCapital, rating)
		if err != nil {
			return err
		}
		fmt.Println("\n=== Sensitivity ===")
		for _, row := range rows {
			fmt.Printf("  %-9s coeff=%.2f  $%.2f (%.2f%%)\n",
				row.Regime, row.TimingCoeff, row.FinalAmount, row.FinalPct)
		}
	}
	return nil
}

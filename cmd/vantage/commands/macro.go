package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/vantage/internal/regime"
)

// macroCmd represents the macro command
var macroCmd = &cobra.Command{
	Use:   "macro",
	Short: "매크로 환경 조회",
	Long: `매크로 경제 환경을 조회합니다.

Subcommands:
  snapshot - 현재 매크로 스냅샷 조회
  regime   - 시장 레짐 판별
  signals  - 크로스에셋 시그널 감지

Example:
  go run ./cmd/vantage macro snapshot
  go run ./cmd/vantage macro regime
  go run ./cmd/vantage macro signals`,
}

var (
	macroSnapshotCmd = &cobra.Command{
		Use:   "snapshot",
		Short: "현재 매크로 스냅샷 조회",
		RunE:  showSnapshot,
	}

	macroRegimeCmd = &cobra.Command{
		Use:   "regime",
		Short: "시장 레짐 판별",
		RunE:  showRegime,
	}

	macroSignalsCmd = &cobra.Command{
		Use:   "signals",
		Short: "크로스에셋 시그널 감지",
		RunE:  showSignals,
	}
)

func init() {
	rootCmd.AddCommand(macroCmd)
	macroCmd.AddCommand(macroSnapshotCmd)
	macroCmd.AddCommand(macroRegimeCmd)
	macroCmd.AddCommand(macroSignalsCmd)
}

func showSnapshot(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	s, stale, err := a.cache.GetSnapshot(cmd.Context())
	if err != nil {
		return fmt.Errorf("get snapshot: %w", err)
	}

	fmt.Println("=== Macro Snapshot ===")
	fmt.Printf("Captured: %s", s.CapturedAt.Format("2006-01-02 15:04 MST"))
	if stale {
		fmt.Print("  (STALE)")
	}
	fmt.Printf("\nSources:  %d/16\n\n", s.SourceCount())

	printRate := func(name string, v *float64, unit string) {
		if v == nil {
			fmt.Printf("  %-18s -\n", name)
			return
		}
		fmt.Printf("  %-18s %.2f%s\n", name, *v, unit)
	}

	fmt.Println("Rates:")
	printRate("US 2Y", s.US2Y, "%")
	printRate("US 10Y", s.US10Y, "%")
	printRate("US 30Y", s.US30Y, "%")
	printRate("10Y-2Y", s.Spread10Y2Y, "%p")
	printRate("Fed Funds", s.FedFunds, "%")

	fmt.Println("Economy:")
	printRate("CPI YoY", s.CPIYoY, "%")
	printRate("GDP Growth", s.GDPGrowth, "%")
	printRate("Unemployment", s.Unemployment, "%")

	fmt.Println("Risk:")
	printRate("VIX", s.VIX, "")
	fmt.Printf("  %-18s %s\n", "VIX Bucket", s.VIXBucket())
	printRate("HY Spread", s.HYSpread, "%p")
	printRate("DXY", s.DXY, "")
	fmt.Printf("  %-18s %s\n", "DXY Trend", s.DXYTrend)
	printRate("USD/JPY", s.USDJPY, "")
	printRate("Fed BS ($T)", s.FedBalanceSheetT, "")

	fmt.Println("Derived:")
	printRate("Term Premium", s.TermPremium(), "%p")
	printRate("Real Rate 10Y", s.RealRate10Y(), "%")
	printRate("HY Spread (bp)", s.HYSpreadBP(), "")

	return nil
}

func showRegime(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	s, stale, err := a.cache.GetSnapshot(cmd.Context())
	if err != nil {
		return fmt.Errorf("get snapshot: %w", err)
	}

	assessment := regime.Assess(s)

	fmt.Println("=== Market Regime ===")
	fmt.Printf("Regime:     %s\n", assessment.Regime)
	fmt.Printf("Confidence: %s (%d sources)\n", assessment.Confidence, assessment.Sources)
	fmt.Printf("Rationale:  %s\n", assessment.Rationale)
	if stale {
		fmt.Println("\n⚠️  Snapshot is stale; assessment may lag the market")
	}
	return nil
}

func showSignals(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	s, stale, err := a.cache.GetSnapshot(cmd.Context())
	if err != nil {
		return fmt.Errorf("get snapshot: %w", err)
	}

	fired := a.bank.DetectAll(s, nil)

	fmt.Println("=== Cross-Asset Signals ===")
	if stale {
		fmt.Println("⚠️  Snapshot is stale")
	}
	if len(fired) == 0 {
		fmt.Println("No signals firing")
		return nil
	}

	for _, sig := range fired {
		fmt.Printf("\n[%s] %s\n", sig.Severity, sig.DetectorID)
		fmt.Printf("  Tags: %v\n", sig.NarrativeTags)
		for field, value := range sig.TriggeringFields {
			fmt.Printf("  %-16s %.2f\n", field, value)
		}
	}
	return nil
}

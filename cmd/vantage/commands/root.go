package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vantage",
	Short: "Vantage - 매크로 레짐 기반 투자 리서치 시스템",
	Long: `Vantage Unified CLI

매크로 환경 분류와 OPRMS 포지션 사이징을 제공하는 리서치 백엔드.
FRED 데이터로 시장 레짐을 판별하고 크로스에셋 시그널을 감지합니다.

Usage:
  go run ./cmd/vantage [command]

Examples:
  go run ./cmd/vantage api
  go run ./cmd/vantage macro regime
  go run ./cmd/vantage rating set AAPL --dna S --timing A
  go run ./cmd/vantage position AAPL --capital 1000000`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

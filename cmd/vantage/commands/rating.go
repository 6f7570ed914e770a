package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/vantage/internal/oprms"
	"github.com/wonny/vantage/pkg/database"
)

// ratingCmd represents the rating command
var ratingCmd = &cobra.Command{
	Use:   "rating",
	Short: "OPRMS 레이팅 관리",
	Long: `종목 레이팅을 기록하고 조회합니다.

레이팅은 append-only 이력으로 저장됩니다. 한번 기록된 레이팅은
수정되지 않으며, 의견 변경은 새 레이팅으로 기록됩니다.

Subcommands:
  set     - 새 레이팅 기록
  show    - 현재 레이팅 조회
  history - 레이팅 이력 조회

Example:
  go run ./cmd/vantage rating set AAPL --dna S --timing A --evidence 3
  go run ./cmd/vantage rating show AAPL
  go run ./cmd/vantage rating history AAPL`,
}

var (
	ratingDNA      string
	ratingTiming   string
	ratingCoeff    float64
	ratingEvidence int

	ratingSetCmd = &cobra.Command{
		Use:   "set [symbol]",
		Short: "새 레이팅 기록",
		Args:  cobra.ExactArgs(1),
		RunE:  setRating,
	}

	ratingShowCmd = &cobra.Command{
		Use:   "show [symbol]",
		Short: "현재 레이팅 조회",
		Args:  cobra.ExactArgs(1),
		RunE:  showRating,
	}

	ratingHistoryCmd = &cobra.Command{
		Use:   "history [symbol]",
		Short: "레이팅 이력 조회 (오래된 순)",
		Args:  cobra.ExactArgs(1),
		RunE:  showRatingHistory,
	}
)

func init() {
	rootCmd.AddCommand(ratingCmd)
	ratingCmd.AddCommand(ratingSetCmd)
	ratingCmd.AddCommand(ratingShowCmd)
	ratingCmd.AddCommand(ratingHistoryCmd)

	ratingSetCmd.Flags().StringVar(&ratingDNA, "dna", "", "DNA 등급 (S|A|B|C)")
	ratingSetCmd.Flags().StringVar(&ratingTiming, "timing", "", "타이밍 등급 (S|A|B|C)")
	ratingSetCmd.Flags().Float64Var(&ratingCoeff, "coeff", 0, "타이밍 계수 (생략 시 등급 밴드 중간값)")
	ratingSetCmd.Flags().IntVar(&ratingEvidence, "evidence", 0, "독립 근거 개수")
	ratingSetCmd.MarkFlagRequired("dna")
	ratingSetCmd.MarkFlagRequired("timing")
}

// newRatingService wires the Postgres-backed OPRMS service.
func newRatingService(a *app) (*oprms.Service, func(), error) {
	db, err := database.New(a.cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	repo := oprms.NewRepository(db.Pool)
	return oprms.NewService(repo, a.log), db.Close, nil
}

func setRating(cmd *cobra.Command, args []string) error {
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

	rating := &oprms.Rating{
		Symbol:        args[0],
		DNA:           oprms.DNARating(ratingDNA),
		Timing:        oprms.TimingRating(ratingTiming),
		TimingCoeff:   ratingCoeff,
		EvidenceCount: ratingEvidence,
	}
	if err := service.SetRating(cmd.Context(), rating); err != nil {
		return err
	}

	fmt.Printf("✅ Rating recorded: %s DNA=%s Timing=%s coeff=%.2f evidence=%d\n",
		rating.Symbol, rating.DNA, rating.Timing, rating.TimingCoeff, rating.EvidenceCount)
	return nil
}

func showRating(cmd *cobra.Command, args []string) error {
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

	rating, err := service.CurrentRating(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printRating(rating)
	return nil
}

func showRatingHistory(cmd *cobra.Command, args []string) error {
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

	history, err := service.RatingHistory(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Printf("No ratings recorded for %s\n", args[0])
		return nil
	}

	fmt.Printf("=== Rating History: %s ===\n", args[0])
	for _, r := range history {
		printRating(r)
	}
	return nil
}

func printRating(r *oprms.Rating) {
	fmt.Printf("%s  %s  DNA=%s Timing=%s coeff=%.2f evidence=%d\n",
		r.CreatedAt.Format("2006-01-02 15:04"), r.Symbol,
		r.DNA, r.Timing, r.TimingCoeff, r.EvidenceCount)
}

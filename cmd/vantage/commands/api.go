package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/vantage/internal/api"
	"github.com/wonny/vantage/internal/api/handlers"
	"github.com/wonny/vantage/internal/oprms"
	"github.com/wonny/vantage/internal/scheduler"
	"github.com/wonny/vantage/internal/scheduler/jobs"
	"github.com/wonny/vantage/pkg/database"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 매크로 스냅샷/레짐/시그널 조회 엔드포인트 제공
- OPRMS 레이팅 기록 및 포지션 사이징 제공
- WebSocket 실시간 스트림 제공

Endpoints:
  GET  /health                        - Health check
  GET  /api/macro/snapshot            - 매크로 스냅샷 조회
  GET  /api/macro/regime              - 시장 레짐 판별
  GET  /api/macro/signals             - 크로스에셋 시그널 조회
  POST /api/ratings                   - 레이팅 기록
  GET  /api/ratings/{symbol}          - 현재 레이팅 조회
  GET  /api/ratings/{symbol}/history  - 레이팅 이력 조회
  POST /api/position                  - 포지션 사이징 계산
  GET  /api/stream                    - WebSocket 실시간 스트림

Example:
  go run ./cmd/vantage api
  go run ./cmd/vantage api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Vantage API Server ===")

	// 1. Wire the macro pipeline
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}
	log := a.log

	log.WithFields(map[string]interface{}{
		"port": a.cfg.Port,
		"env":  a.cfg.Env,
	}).Info("Initializing API server")

	// 2. Connect to database
	db, err := database.New(a.cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connected to database")

	// 3. Warm up the holiday calendar; a failure is not fatal
	if err := a.calendar.Refresh(cmd.Context()); err != nil {
		log.WithError(err).Warn("NYSE calendar refresh failed, treating weekdays as trading days")
	}

	// 4. Create OPRMS service on the Postgres history store
	ratingRepo := oprms.NewRepository(db.Pool)
	ratingService := oprms.NewService(ratingRepo, log)

	// 5. Create handlers and stream hub
	stream := api.NewStreamHub(log)
	macroHandler := handlers.NewMacroHandler(a.cache, a.bank, log)
	ratingHandler := handlers.NewRatingHandler(ratingService, a.cache, log)

	// 6. Create router and server
	router := api.NewRouter(macroHandler, ratingHandler, stream, log)
	server := api.New(a.cfg, log, router)

	// 7. Schedule background refreshes
	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewMacroRefreshJob(a.cache, a.bank, stream, log)); err != nil {
		return err
	}
	if err := sched.AddJob(jobs.NewCalendarRefreshJob(a.calendar, log)); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	// 8. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

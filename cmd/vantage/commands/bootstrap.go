package commands

import (
	"fmt"
	"time"

	"github.com/wonny/vantage/internal/external/fred"
	"github.com/wonny/vantage/internal/external/nyse"
	"github.com/wonny/vantage/internal/macro"
	"github.com/wonny/vantage/internal/signals"
	"github.com/wonny/vantage/pkg/config"
	"github.com/wonny/vantage/pkg/httputil"
	"github.com/wonny/vantage/pkg/logger"
	"github.com/wonny/vantage/pkg/redis"
)

// app holds the wired macro pipeline shared by the CLI commands.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	rdb      *redis.Client
	cache    *macro.SnapshotCache
	bank     *signals.Bank
	calendar *nyse.Calendar
}

// newApp loads config and wires the macro pipeline: FRED client with
// rate limiting, NYSE holiday calendar, snapshot cache with the Redis
// mirror, and the signal detector bank.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	rdb, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	httpClient := httputil.New(log).
		WithRetry(3, 1*time.Second).
		WithLocalLimit(2, 4)
	if rdb.Enabled() {
		httpClient = httpClient.WithRateLimiter(redis.NewRateLimiter(rdb, "vantage"), redis.FREDRateLimit)
	}

	calendar := nyse.NewCalendar(httpClient, log)

	fredClient := fred.NewClient(cfg.FRED.APIKey, cfg.FRED.BaseURL, httpClient, log)
	builder := fred.NewSnapshotBuilder(fredClient)

	window, err := macro.NewTradingWindow(cfg.Macro.Timezone, cfg.Macro.TradingOpen, cfg.Macro.TradingClose, calendar)
	if err != nil {
		return nil, fmt.Errorf("trading window: %w", err)
	}

	cache := macro.NewSnapshotCache(builder, window, cfg.Macro.TTLTrading, cfg.Macro.TTLNonTrading, log)
	if rdb.Enabled() {
		cache = cache.WithMirror(redis.NewCache(rdb, "vantage"))
	}

	cal := signals.DefaultCalibration()
	if cfg.Macro.CalibrationFile != "" {
		cal, err = signals.LoadCalibration(cfg.Macro.CalibrationFile)
		if err != nil {
			return nil, fmt.Errorf("load calibration: %w", err)
		}
	}
	bank := signals.NewBank(cal, log)

	return &app{
		cfg:      cfg,
		log:      log,
		rdb:      rdb,
		cache:    cache,
		bank:     bank,
		calendar: calendar,
	}, nil
}

// Close releases shared resources.
func (a *app) Close() {
	if a.rdb != nil {
		a.rdb.Close()
	}
}

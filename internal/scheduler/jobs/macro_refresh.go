package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wonny/vantage/internal/api"
	"github.com/wonny/vantage/internal/macro"
	"github.com/wonny/vantage/internal/regime"
	"github.com/wonny/vantage/internal/signals"
	"github.com/wonny/vantage/pkg/logger"
)

// MacroRefreshJob refreshes the macro snapshot cache and pushes the
// resulting regime assessment and fired signals to stream clients.
// ⭐ SSOT: 매크로 갱신 스케줄은 이 Job에서만
type MacroRefreshJob struct {
	cache  *macro.SnapshotCache
	bank   *signals.Bank
	stream *api.StreamHub
	logger *logger.Logger
}

// NewMacroRefreshJob creates a new macro refresh job. stream may be
// nil when running without the API server.
func NewMacroRefreshJob(cache *macro.SnapshotCache, bank *signals.Bank, stream *api.StreamHub, log *logger.Logger) *MacroRefreshJob {
	return &MacroRefreshJob{
		cache:  cache,
		bank:   bank,
		stream: stream,
		logger: log,
	}
}

// Name returns the job name
func (j *MacroRefreshJob) Name() string {
	return "macro_refresh"
}

// Schedule returns the cron schedule (every 4 hours, matching the
// trading-window snapshot TTL)
func (j *MacroRefreshJob) Schedule() string {
	return "0 0 */4 * * *"
}

// streamUpdate is the payload pushed to WebSocket clients after each
// refresh.
type streamUpdate struct {
	Type       string            `json:"type"`
	Regime     regime.Assessment `json:"regime"`
	Signals    []*signals.Signal `json:"signals"`
	Stale      bool              `json:"stale"`
	CapturedAt string            `json:"captured_at"`
}

// Run executes the refresh
func (j *MacroRefreshJob) Run(ctx context.Context) error {
	s, stale, err := j.cache.GetSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("refresh snapshot: %w", err)
	}

	assessment := regime.Assess(s)
	fired := j.bank.DetectAll(s, nil)

	j.logger.WithFields(map[string]interface{}{
		"regime":  string(assessment.Regime),
		"signals": len(fired),
		"sources": s.SourceCount(),
		"stale":   stale,
	}).Info("Macro environment refreshed")

	if j.stream == nil {
		return nil
	}

	payload, err := json.Marshal(streamUpdate{
		Type:       "macro_update",
		Regime:     assessment,
		Signals:    fired,
		Stale:      stale,
		CapturedAt: s.CapturedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
	if err != nil {
		return fmt.Errorf("marshal stream update: %w", err)
	}
	j.stream.Broadcast(payload)
	return nil
}

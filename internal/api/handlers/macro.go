package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/wonny/vantage/internal/macro"
	"github.com/wonny/vantage/internal/regime"
	"github.com/wonny/vantage/internal/signals"
	"github.com/wonny/vantage/pkg/logger"
)

// MacroHandler handles macro environment API endpoints
// ⭐ SSOT: 매크로 API 핸들러는 이 구조체에서만
type MacroHandler struct {
	cache  *macro.SnapshotCache
	bank   *signals.Bank
	logger *logger.Logger
}

// NewMacroHandler creates a new macro handler
func NewMacroHandler(cache *macro.SnapshotCache, bank *signals.Bank, log *logger.Logger) *MacroHandler {
	return &MacroHandler{
		cache:  cache,
		bank:   bank,
		logger: log,
	}
}

// SnapshotResponse wraps a snapshot with cache freshness metadata.
type SnapshotResponse struct {
	Snapshot    *macro.Snapshot `json:"snapshot"`
	Stale       bool            `json:"stale"`
	SourceCount int             `json:"source_count"`
	TermPremium *float64        `json:"term_premium"`
	RealRate10Y *float64        `json:"real_rate_10y"`
	HYSpreadBP  *float64        `json:"hy_spread_bp"`
	VIXBucket   string          `json:"vix_bucket"`
}

// GetSnapshot returns the current macro snapshot
// GET /api/macro/snapshot
func (h *MacroHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	s, stale, err := h.cache.GetSnapshot(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get macro snapshot")
		if errors.Is(err, macro.ErrNoSnapshot) {
			respondError(w, http.StatusServiceUnavailable, "Macro data unavailable")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to retrieve snapshot")
		return
	}

	respondJSON(w, http.StatusOK, SnapshotResponse{
		Snapshot:    s,
		Stale:       stale,
		SourceCount: s.SourceCount(),
		TermPremium: s.TermPremium(),
		RealRate10Y: s.RealRate10Y(),
		HYSpreadBP:  s.HYSpreadBP(),
		VIXBucket:   s.VIXBucket(),
	})
}

// RegimeResponse carries the regime assessment and its basis.
type RegimeResponse struct {
	Regime     regime.Regime `json:"regime"`
	Confidence string        `json:"confidence"`
	Rationale  string        `json:"rationale"`
	Sources    int           `json:"sources"`
	Stale      bool          `json:"stale"`
	AssessedAt time.Time     `json:"assessed_at"`
}

// GetRegime returns the current market regime assessment
// GET /api/macro/regime
func (h *MacroHandler) GetRegime(w http.ResponseWriter, r *http.Request) {
	s, stale, err := h.cache.GetSnapshot(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get snapshot for regime")
		respondError(w, http.StatusServiceUnavailable, "Macro data unavailable")
		return
	}

	assessment := regime.Assess(s)
	respondJSON(w, http.StatusOK, RegimeResponse{
		Regime:     assessment.Regime,
		Confidence: assessment.Confidence,
		Rationale:  assessment.Rationale,
		Sources:    assessment.Sources,
		Stale:      stale,
		AssessedAt: s.CapturedAt,
	})
}

// SignalsResponse lists the signals that fired on the latest snapshot.
type SignalsResponse struct {
	Signals []*signals.Signal `json:"signals"`
	Stale   bool              `json:"stale"`
}

// GetSignals returns the cross-asset signals firing right now
// GET /api/macro/signals
func (h *MacroHandler) GetSignals(w http.ResponseWriter, r *http.Request) {
	s, stale, err := h.cache.GetSnapshot(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get snapshot for signals")
		respondError(w, http.StatusServiceUnavailable, "Macro data unavailable")
		return
	}

	fired := h.bank.DetectAll(s, nil)
	if fired == nil {
		fired = []*signals.Signal{}
	}
	respondJSON(w, http.StatusOK, SignalsResponse{Signals: fired, Stale: stale})
}

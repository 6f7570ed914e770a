package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/vantage/internal/macro"
	"github.com/wonny/vantage/internal/oprms"
	"github.com/wonny/vantage/internal/regime"
	"github.com/wonny/vantage/pkg/logger"
)

// RatingHandler handles rating and position sizing API endpoints
// ⭐ SSOT: 레이팅 API 핸들러는 이 구조체에서만
type RatingHandler struct {
	service *oprms.Service
	cache   *macro.SnapshotCache
	logger  *logger.Logger
}

// NewRatingHandler creates a new rating handler
func NewRatingHandler(service *oprms.Service, cache *macro.SnapshotCache, log *logger.Logger) *RatingHandler {
	return &RatingHandler{
		service: service,
		cache:   cache,
		logger:  log,
	}
}

// SetRatingRequest is the POST /api/ratings body. TimingCoeff may be
// omitted, in which case the grade's band midpoint is used.
type SetRatingRequest struct {
	Symbol        string  `json:"symbol"`
	DNA           string  `json:"dna"`
	Timing        string  `json:"timing"`
	TimingCoeff   float64 `json:"timing_coeff,omitempty"`
	EvidenceCount int     `json:"evidence_count"`
}

// SetRating records a new rating for a symbol
// POST /api/ratings
func (h *RatingHandler) SetRating(w http.ResponseWriter, r *http.Request) {
	var req SetRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rating := &oprms.Rating{
		Symbol:        req.Symbol,
		DNA:           oprms.DNARating(req.DNA),
		Timing:        oprms.TimingRating(req.Timing),
		TimingCoeff:   req.TimingCoeff,
		EvidenceCount: req.EvidenceCount,
	}
	if err := h.service.SetRating(r.Context(), rating); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, rating)
}

// GetRating returns the current rating for a symbol
// GET /api/ratings/{symbol}
func (h *RatingHandler) GetRating(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	rating, err := h.service.CurrentRating(r.Context(), symbol)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rating)
}

// GetHistory returns the full rating history for a symbol, oldest first
// GET /api/ratings/{symbol}/history
func (h *RatingHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	history, err := h.service.RatingHistory(r.Context(), symbol)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to get rating history")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve rating history")
		return
	}
	if history == nil {
		history = []*oprms.Rating{}
	}
	respondJSON(w, http.StatusOK, history)
}

// PositionRequest is the POST /api/position body. Regime is optional;
// when omitted the current assessed regime is used.
type PositionRequest struct {
	Symbol       string  `json:"symbol"`
	TotalCapital float64 `json:"total_capital"`
	Regime       string  `json:"regime,omitempty"`
	Sensitivity  bool    `json:"sensitivity,omitempty"`
}

// PositionResponse returns the sizing chain plus the optional what-if
// grid.
type PositionResponse struct {
	Position    *oprms.PositionSize    `json:"position"`
	Regime      regime.Regime          `json:"regime"`
	Sensitivity []oprms.SensitivityRow `json:"sensitivity,omitempty"`
}

// CalculatePosition sizes a position from the symbol's current rating
// POST /api/position
func (h *RatingHandler) CalculatePosition(w http.ResponseWriter, r *http.Request) {
	var req PositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	mkt := regime.Regime(req.Regime)
	if req.Regime == "" {
		s, _, err := h.cache.GetSnapshot(r.Context())
		if err != nil {
			respondError(w, http.StatusServiceUnavailable, "Macro data unavailable; pass an explicit regime")
			return
		}
		mkt = regime.Classify(s)
	} else if !mkt.Valid() {
		respondError(w, http.StatusBadRequest, "Invalid regime")
		return
	}

	position, err := h.service.SizePosition(r.Context(), req.Symbol, req.TotalCapital, mkt)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := PositionResponse{Position: position, Regime: mkt}
	if req.Sensitivity {
		rating, err := h.service.CurrentRating(r.Context(), req.Symbol)
		if err == nil {
			if rows, err := oprms.SensitivityTable(req.TotalCapital, rating); err == nil {
				resp.Sensitivity = rows
			}
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

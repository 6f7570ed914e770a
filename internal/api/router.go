package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/vantage/internal/api/handlers"
	"github.com/wonny/vantage/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(macroHandler *handlers.MacroHandler, ratingHandler *handlers.RatingHandler, stream *StreamHub, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Macro endpoints
	api.HandleFunc("/macro/snapshot", macroHandler.GetSnapshot).Methods("GET")
	api.HandleFunc("/macro/regime", macroHandler.GetRegime).Methods("GET")
	api.HandleFunc("/macro/signals", macroHandler.GetSignals).Methods("GET")

	// Rating and sizing endpoints
	api.HandleFunc("/ratings", ratingHandler.SetRating).Methods("POST")
	api.HandleFunc("/ratings/{symbol}", ratingHandler.GetRating).Methods("GET")
	api.HandleFunc("/ratings/{symbol}/history", ratingHandler.GetHistory).Methods("GET")
	api.HandleFunc("/position", ratingHandler.CalculatePosition).Methods("POST")

	// Live regime/signal stream
	api.HandleFunc("/stream", stream.HandleWS)

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "vantage-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

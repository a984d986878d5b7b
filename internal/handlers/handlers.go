package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"oddsai/internal/logger"
	"oddsai/internal/model"
)

// ProfitReader serves the profit analytics views.
type ProfitReader interface {
	Portfolio(ctx context.Context) (model.PortfolioSummary, error)
	Chart(ctx context.Context) ([]model.ChartPoint, error)
	FixtureSummary(ctx context.Context, fixtureID int64) (*model.FixtureSummary, error)
	RecordBet(ctx context.Context, bet model.BetRecord) (int64, error)
}

// MatchReader serves match listings, details, odds and predictions.
type MatchReader interface {
	List(ctx context.Context, status string, limit int) ([]model.Match, error)
	Detail(ctx context.Context, id int64) (*model.MatchDetail, error)
	OddsHistory(ctx context.Context, fixtureID int64, limit int) ([]model.OddsSnapshot, error)
	Predictions(ctx context.Context, fixtureID int64, market string) ([]model.Prediction, error)
}

// Pinger checks the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	logger  *slog.Logger
	db      Pinger
	profit  ProfitReader
	matches MatchReader
}

// NewHandler creates a new handler with dependencies
func NewHandler(logger *slog.Logger, db Pinger, profit ProfitReader, matches MatchReader) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:  logger,
		db:      db,
		profit:  profit,
		matches: matches,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.respondError(w, r, http.StatusServiceUnavailable, "database unhealthy", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "oddsai",
	})
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	return logger.FromContext(r.Context(), h.logger)
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}

	return value
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		log := h.log(r)
		if status >= http.StatusInternalServerError {
			log.Error(message, "path", r.URL.Path, "error", err)
		} else {
			log.Debug(message, "path", r.URL.Path, "error", err)
		}
	}

	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

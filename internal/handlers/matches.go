package handlers

import (
	"errors"
	"net/http"

	"oddsai/internal/service"
)

const (
	defaultMatchLimit = 50
	maxMatchLimit     = 200
	defaultOddsLimit  = 50
	maxOddsLimit      = 500
)

// GetMatches lists matches.
// Query params: status (live, upcoming, finished), limit
func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	limit := min(parseIntParam(r, "limit", defaultMatchLimit), maxMatchLimit)

	matches, err := h.matches.List(r.Context(), r.URL.Query().Get("status"), limit)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			h.respondError(w, r, http.StatusBadRequest, "status must be live, upcoming or finished", err)
			return
		}
		h.respondError(w, r, http.StatusInternalServerError, "failed to retrieve matches", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"matches": matches,
		"count":   len(matches),
	})
}

// GetMatch returns a match with its latest odds and predictions.
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "id must be a positive integer", nil)
		return
	}

	detail, err := h.matches.Detail(r.Context(), id)
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "failed to retrieve match", err)
		return
	}
	if detail == nil {
		h.respondError(w, r, http.StatusNotFound, "match not found", nil)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

// GetOddsHistory returns odds captures for a fixture, newest first.
// Query params: limit
func (h *Handler) GetOddsHistory(w http.ResponseWriter, r *http.Request) {
	fixtureID, ok := parseIDParam(r, "fixtureID")
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "fixture_id must be a positive integer", nil)
		return
	}
	limit := min(parseIntParam(r, "limit", defaultOddsLimit), maxOddsLimit)

	history, err := h.matches.OddsHistory(r.Context(), fixtureID, limit)
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "failed to retrieve odds history", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"history": history,
		"count":   len(history),
	})
}

// GetPredictions returns AI predictions for a fixture.
// Query params: market (moneyline, handicap, over_under)
func (h *Handler) GetPredictions(w http.ResponseWriter, r *http.Request) {
	fixtureID, ok := parseIDParam(r, "fixtureID")
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "fixture_id must be a positive integer", nil)
		return
	}

	predictions, err := h.matches.Predictions(r.Context(), fixtureID, r.URL.Query().Get("market"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidMarket) {
			h.respondError(w, r, http.StatusBadRequest, "market must be moneyline, handicap or over_under", err)
			return
		}
		h.respondError(w, r, http.StatusInternalServerError, "failed to retrieve predictions", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"predictions": predictions,
		"count":       len(predictions),
	})
}

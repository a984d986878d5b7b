package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"oddsai/internal/profit"
)

// GetPortfolio returns the rollup across every fixture.
func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	summary, err := h.profit.Portfolio(r.Context())
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "failed to compute portfolio summary", err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// GetChart returns the cumulative profit series.
func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	points, err := h.profit.Chart(r.Context())
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "failed to compute profit chart", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"points": points,
		"count":  len(points),
	})
}

// GetFixtureSummary returns one fixture's profit summary.
func (h *Handler) GetFixtureSummary(w http.ResponseWriter, r *http.Request) {
	fixtureID, ok := parseIDParam(r, "fixtureID")
	if !ok {
		h.respondError(w, r, http.StatusBadRequest, "fixture_id must be a positive integer", nil)
		return
	}

	summary, err := h.profit.FixtureSummary(r.Context(), fixtureID)
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "failed to compute fixture summary", err)
		return
	}
	if summary == nil {
		h.respondError(w, r, http.StatusNotFound, "no settled bets for fixture", nil)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// maxBetBodyBytes caps the size of a recorded bet.
const maxBetBodyBytes = 64 << 10

// looseString accepts a JSON string, number or null and keeps its text.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = looseString(str)
		return nil
	}
	*s = looseString(data)
	return nil
}

type createBetRequest struct {
	FixtureID  int64       `json:"fixture_id"`
	Type       string      `json:"bet_type"`
	Clock      *int        `json:"clock"`
	Selection  string      `json:"selection"`
	Line       looseString `json:"line"`
	Odds       looseString `json:"odds"`
	StakeUnits looseString `json:"stake_units"`
	StakeMoney looseString `json:"stake_money"`
	Profit     looseString `json:"profit"`
	Status     string      `json:"status"`
	BetTime    *time.Time  `json:"bet_time"`
}

func (req createBetRequest) raw() profit.RawBet {
	betTime := time.Now().UTC()
	if req.BetTime != nil {
		betTime = *req.BetTime
	}
	return profit.RawBet{
		FixtureID:  req.FixtureID,
		Type:       req.Type,
		Clock:      req.Clock,
		Selection:  req.Selection,
		Line:       string(req.Line),
		Odds:       string(req.Odds),
		StakeUnits: string(req.StakeUnits),
		StakeMoney: string(req.StakeMoney),
		Profit:     string(req.Profit),
		Status:     req.Status,
		BetTime:    betTime,
	}
}

// CreateBet records a settled bet. Numeric fields may be sent as numbers or
// strings; anything unparseable is stored as zero.
func (h *Handler) CreateBet(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBetBodyBytes)

	var req createBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.FixtureID <= 0 {
		h.respondError(w, r, http.StatusBadRequest, "fixture_id must be a positive integer", nil)
		return
	}

	bet, err := req.raw().Record()
	if err != nil {
		switch {
		case errors.Is(err, profit.ErrUnknownBetType):
			h.respondError(w, r, http.StatusBadRequest, "bet_type must be one of ML, HDP, OU", err)
		case errors.Is(err, profit.ErrUnknownBetStatus):
			h.respondError(w, r, http.StatusBadRequest, "status must be one of WIN, LOSS, PUSH", err)
		default:
			h.respondError(w, r, http.StatusBadRequest, "invalid bet", err)
		}
		return
	}

	id, err := h.profit.RecordBet(r.Context(), bet)
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, "failed to record bet", err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

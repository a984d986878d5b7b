package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"oddsai/internal/database"
	"oddsai/internal/logger"
	"oddsai/internal/model"
)

var (
	ErrInvalidStatus = errors.New("invalid match status")
	ErrInvalidMarket = errors.New("invalid prediction market")
)

// MatchService serves match listings and match detail pages.
type MatchService struct {
	logger *slog.Logger
	store  MatchStore
}

// NewMatchService creates a new MatchService.
func NewMatchService(logger *slog.Logger, store MatchStore) *MatchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MatchService{logger: logger, store: store}
}

// ParseMatchStatus validates a status filter. The empty string means all.
func ParseMatchStatus(s string) (model.MatchStatus, error) {
	switch model.MatchStatus(s) {
	case "", model.MatchLive, model.MatchUpcoming, model.MatchFinished:
		return model.MatchStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// ParseMarket validates a prediction market filter. The empty string means all.
func ParseMarket(s string) (model.Market, error) {
	switch model.Market(s) {
	case "", model.MarketMoneyline, model.MarketHandicap, model.MarketOverUnder:
		return model.Market(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMarket, s)
	}
}

// List returns matches in the given status, ordered by kick-off.
func (s *MatchService) List(ctx context.Context, status string, limit int) ([]model.Match, error) {
	st, err := ParseMatchStatus(status)
	if err != nil {
		return nil, err
	}
	matches, err := s.store.ListMatches(ctx, database.MatchFilter{Status: st, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("listing %s matches: %w", status, err)
	}
	return matches, nil
}

// Detail returns a match with its latest odds and predictions, or nil when
// the match does not exist. Odds and predictions that cannot be loaded are
// left empty.
func (s *MatchService) Detail(ctx context.Context, id int64) (*model.MatchDetail, error) {
	match, err := s.store.GetMatch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading match %d: %w", id, err)
	}
	if match == nil {
		return nil, nil
	}

	detail := &model.MatchDetail{
		Match:       *match,
		Predictions: []model.Prediction{},
	}

	if match.FixtureID != nil {
		fixtureID := *match.FixtureID
		log := logger.FromContext(ctx, s.logger)

		odds, err := s.store.LatestOdds(ctx, fixtureID)
		if err != nil {
			log.Warn("Failed to load latest odds", "fixtureID", fixtureID, "error", err)
		}
		detail.LatestOdds = odds

		predictions, err := s.store.Predictions(ctx, fixtureID)
		if err != nil {
			log.Warn("Failed to load predictions", "fixtureID", fixtureID, "error", err)
		} else {
			detail.Predictions = predictions
		}
	}

	matchType := match.Type
	if matchType == "" && detail.LatestOdds != nil {
		matchType = detail.LatestOdds.Type
	}
	detail.ShowOdds = model.ShouldShowOdds(matchType)
	detail.IsLive = model.IsMatchLive(matchType)
	detail.OddsLabel = model.OddsLabel(matchType)

	return detail, nil
}

// OddsHistory returns odds captures for a fixture, newest first.
func (s *MatchService) OddsHistory(ctx context.Context, fixtureID int64, limit int) ([]model.OddsSnapshot, error) {
	history, err := s.store.OddsHistory(ctx, fixtureID, limit)
	if err != nil {
		return nil, fmt.Errorf("loading odds history for fixture %d: %w", fixtureID, err)
	}
	return history, nil
}

// Predictions returns a fixture's predictions, optionally for one market only.
func (s *MatchService) Predictions(ctx context.Context, fixtureID int64, market string) ([]model.Prediction, error) {
	m, err := ParseMarket(market)
	if err != nil {
		return nil, err
	}

	predictions, err := s.store.Predictions(ctx, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("loading predictions for fixture %d: %w", fixtureID, err)
	}
	if m == "" {
		return predictions, nil
	}

	filtered := make([]model.Prediction, 0, len(predictions))
	for _, p := range predictions {
		if p.Market == m {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

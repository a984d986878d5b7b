package database

import (
	"context"

	"oddsai/internal/model"
)

// BetFilter narrows a bet query. A zero FixtureID selects every fixture.
type BetFilter struct {
	FixtureID int64
}

// MatchFilter narrows a match listing. An empty Status selects every match.
type MatchFilter struct {
	Status model.MatchStatus
	Limit  int
}

// Repository defines the standard interface for database operations.
type Repository interface {
	Ping(ctx context.Context) error

	FetchBets(ctx context.Context, filter BetFilter) ([]model.BetRecord, error)
	InsertBet(ctx context.Context, bet model.BetRecord) (int64, error)
	FixtureInfo(ctx context.Context, fixtureIDs []int64) (map[int64]model.FixtureInfo, error)

	ListMatches(ctx context.Context, filter MatchFilter) ([]model.Match, error)
	GetMatch(ctx context.Context, id int64) (*model.Match, error)
	LatestOdds(ctx context.Context, fixtureID int64) (*model.OddsSnapshot, error)
	OddsHistory(ctx context.Context, fixtureID int64, limit int) ([]model.OddsSnapshot, error)
	Predictions(ctx context.Context, fixtureID int64) ([]model.Prediction, error)
}

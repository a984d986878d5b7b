package service

import (
	"context"
	"time"

	"oddsai/internal/database"
	"oddsai/internal/model"
)

// BetStore is the data-access dependency of ProfitService.
type BetStore interface {
	FetchBets(ctx context.Context, filter database.BetFilter) ([]model.BetRecord, error)
	InsertBet(ctx context.Context, bet model.BetRecord) (int64, error)
}

// FixtureLookup resolves fixture display metadata.
type FixtureLookup interface {
	FixtureInfo(ctx context.Context, fixtureIDs []int64) (map[int64]model.FixtureInfo, error)
}

// ResponseCache stores computed views between requests.
type ResponseCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// MatchStore is the data-access dependency of MatchService.
type MatchStore interface {
	ListMatches(ctx context.Context, filter database.MatchFilter) ([]model.Match, error)
	GetMatch(ctx context.Context, id int64) (*model.Match, error)
	LatestOdds(ctx context.Context, fixtureID int64) (*model.OddsSnapshot, error)
	OddsHistory(ctx context.Context, fixtureID int64, limit int) ([]model.OddsSnapshot, error)
	Predictions(ctx context.Context, fixtureID int64) ([]model.Prediction, error)
}

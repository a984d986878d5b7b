package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"oddsai/internal/cache"
	"oddsai/internal/database"
	"oddsai/internal/logger"
	"oddsai/internal/model"
	"oddsai/internal/profit"
)

// ProfitOptions tunes caching and presentation of ProfitService.
type ProfitOptions struct {
	ResponseTTL    time.Duration
	FixtureInfoTTL time.Duration
	Location       *time.Location
}

// ProfitService fetches settled bets and serves the aggregated views.
type ProfitService struct {
	logger      *slog.Logger
	bets        BetStore
	fixtures    FixtureLookup
	responses   ResponseCache
	aggregator  *profit.Aggregator
	fixtureInfo *gocache.Cache
	responseTTL time.Duration
}

// NewProfitService creates a new ProfitService. A nil responses cache
// disables response caching.
func NewProfitService(logger *slog.Logger, bets BetStore, fixtures FixtureLookup, responses ResponseCache, opts ProfitOptions) *ProfitService {
	if logger == nil {
		logger = slog.Default()
	}
	if responses == nil {
		responses = cache.Noop{}
	}
	if opts.FixtureInfoTTL <= 0 {
		opts.FixtureInfoTTL = 10 * time.Minute
	}
	return &ProfitService{
		logger:      logger,
		bets:        bets,
		fixtures:    fixtures,
		responses:   responses,
		aggregator:  profit.NewAggregator(opts.Location),
		fixtureInfo: gocache.New(opts.FixtureInfoTTL, 2*opts.FixtureInfoTTL),
		responseTTL: opts.ResponseTTL,
	}
}

// FixtureSummary returns the profit summary of one fixture, or nil when no
// bets have been settled on it.
func (s *ProfitService) FixtureSummary(ctx context.Context, fixtureID int64) (*model.FixtureSummary, error) {
	key := cache.FixtureKey(fixtureID)
	var cached model.FixtureSummary
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	records, err := s.bets.FetchBets(ctx, database.BetFilter{FixtureID: fixtureID})
	if err != nil {
		return nil, fmt.Errorf("fetching bets for fixture %d: %w", fixtureID, err)
	}

	summary, ok := s.aggregator.SummarizeFixture(fixtureID, records)
	if !ok {
		return nil, nil
	}

	if info, found := s.lookupFixtures(ctx, []int64{fixtureID})[fixtureID]; found {
		summary.LeagueName = info.LeagueName
		summary.HomeTeam = info.HomeTeam
		summary.AwayTeam = info.AwayTeam
		summary.HomeScore = info.HomeScore
		summary.AwayScore = info.AwayScore
	}

	s.cacheSet(ctx, key, summary)
	return &summary, nil
}

// Portfolio returns the rollup across every fixture.
func (s *ProfitService) Portfolio(ctx context.Context) (model.PortfolioSummary, error) {
	var summary model.PortfolioSummary
	if s.cacheGet(ctx, cache.PortfolioKey, &summary) {
		return summary, nil
	}

	records, err := s.bets.FetchBets(ctx, database.BetFilter{})
	if err != nil {
		return model.PortfolioSummary{}, fmt.Errorf("fetching bets: %w", err)
	}

	summary = s.aggregator.SummarizePortfolio(records)
	s.cacheSet(ctx, cache.PortfolioKey, summary)
	return summary, nil
}

// Chart returns the cumulative profit series in settlement order.
func (s *ProfitService) Chart(ctx context.Context) ([]model.ChartPoint, error) {
	var points []model.ChartPoint
	if s.cacheGet(ctx, cache.ChartKey, &points) {
		return points, nil
	}

	records, err := s.bets.FetchBets(ctx, database.BetFilter{})
	if err != nil {
		return nil, fmt.Errorf("fetching bets: %w", err)
	}

	fixtures := s.lookupFixtures(ctx, profit.FixtureIDs(records))
	points = s.aggregator.BuildChartSeries(records, fixtures)
	s.cacheSet(ctx, cache.ChartKey, points)
	return points, nil
}

// RecordBet stores a settled bet and drops every cached view it affects.
func (s *ProfitService) RecordBet(ctx context.Context, bet model.BetRecord) (int64, error) {
	id, err := s.bets.InsertBet(ctx, bet)
	if err != nil {
		return 0, fmt.Errorf("recording bet for fixture %d: %w", bet.FixtureID, err)
	}

	if err := s.responses.Delete(ctx, cache.PortfolioKey, cache.ChartKey, cache.FixtureKey(bet.FixtureID)); err != nil {
		s.log(ctx).Warn("Failed to invalidate cached profit views", "fixtureID", bet.FixtureID, "error", err)
	}
	s.log(ctx).Info("Recorded settled bet", "betID", id, "fixtureID", bet.FixtureID, "type", bet.Type, "status", bet.Status)
	return id, nil
}

// lookupFixtures resolves fixture metadata, serving from the in-process cache
// where possible. A failed lookup degrades to whatever was cached.
func (s *ProfitService) lookupFixtures(ctx context.Context, fixtureIDs []int64) map[int64]model.FixtureInfo {
	result := make(map[int64]model.FixtureInfo, len(fixtureIDs))
	var missing []int64
	for _, id := range fixtureIDs {
		if v, ok := s.fixtureInfo.Get(strconv.FormatInt(id, 10)); ok {
			result[id] = v.(model.FixtureInfo)
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return result
	}

	found, err := s.fixtures.FixtureInfo(ctx, missing)
	if err != nil {
		s.log(ctx).Warn("Fixture lookup failed, team names left empty", "fixtures", len(missing), "error", err)
		return result
	}
	for id, info := range found {
		s.fixtureInfo.SetDefault(strconv.FormatInt(id, 10), info)
		result[id] = info
	}
	return result
}

func (s *ProfitService) cacheGet(ctx context.Context, key string, dst any) bool {
	found, err := s.responses.Get(ctx, key, dst)
	if err != nil {
		s.log(ctx).Warn("Cache read failed", "key", key, "error", err)
		return false
	}
	return found
}

func (s *ProfitService) cacheSet(ctx context.Context, key string, value any) {
	if s.responseTTL <= 0 {
		return
	}
	if err := s.responses.Set(ctx, key, value, s.responseTTL); err != nil {
		s.log(ctx).Warn("Cache write failed", "key", key, "error", err)
	}
}

func (s *ProfitService) log(ctx context.Context) *slog.Logger {
	return logger.FromContext(ctx, s.logger)
}

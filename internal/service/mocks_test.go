package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"oddsai/internal/database"
	"oddsai/internal/model"
)

type MockBetStore struct {
	mock.Mock
}

func (m *MockBetStore) FetchBets(ctx context.Context, filter database.BetFilter) ([]model.BetRecord, error) {
	args := m.Called(ctx, filter)
	records, _ := args.Get(0).([]model.BetRecord)
	return records, args.Error(1)
}

func (m *MockBetStore) InsertBet(ctx context.Context, bet model.BetRecord) (int64, error) {
	args := m.Called(ctx, bet)
	return args.Get(0).(int64), args.Error(1)
}

type MockFixtureLookup struct {
	mock.Mock
}

func (m *MockFixtureLookup) FixtureInfo(ctx context.Context, fixtureIDs []int64) (map[int64]model.FixtureInfo, error) {
	args := m.Called(ctx, fixtureIDs)
	info, _ := args.Get(0).(map[int64]model.FixtureInfo)
	return info, args.Error(1)
}

type MockMatchStore struct {
	mock.Mock
}

func (m *MockMatchStore) ListMatches(ctx context.Context, filter database.MatchFilter) ([]model.Match, error) {
	args := m.Called(ctx, filter)
	matches, _ := args.Get(0).([]model.Match)
	return matches, args.Error(1)
}

func (m *MockMatchStore) GetMatch(ctx context.Context, id int64) (*model.Match, error) {
	args := m.Called(ctx, id)
	match, _ := args.Get(0).(*model.Match)
	return match, args.Error(1)
}

func (m *MockMatchStore) LatestOdds(ctx context.Context, fixtureID int64) (*model.OddsSnapshot, error) {
	args := m.Called(ctx, fixtureID)
	odds, _ := args.Get(0).(*model.OddsSnapshot)
	return odds, args.Error(1)
}

func (m *MockMatchStore) OddsHistory(ctx context.Context, fixtureID int64, limit int) ([]model.OddsSnapshot, error) {
	args := m.Called(ctx, fixtureID, limit)
	history, _ := args.Get(0).([]model.OddsSnapshot)
	return history, args.Error(1)
}

func (m *MockMatchStore) Predictions(ctx context.Context, fixtureID int64) ([]model.Prediction, error) {
	args := m.Called(ctx, fixtureID)
	predictions, _ := args.Get(0).([]model.Prediction)
	return predictions, args.Error(1)
}

// memoryCache is a ResponseCache that round-trips values through JSON like
// the Redis implementation does.
type memoryCache struct {
	mu      sync.Mutex
	values  map[string][]byte
	failGet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return false, errors.New("cache unavailable")
	}
	data, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dst)
}

func (c *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = data
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok
}

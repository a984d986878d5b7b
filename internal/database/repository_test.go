package database

import (
	"context"
	"flag"
	"log"
	"os"
	"testing"
	"testing/fstest"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"oddsai/internal/model"
)

var (
	pool *pgxpool.Pool
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(0)
	}
	os.Exit(run(m))
}

func run(m *testing.M) int {
	ctx := context.Background()

	// Create and start the PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpassword"),
		postgres.BasicWaitStrategies(),
		testcontainers.WithLabels(map[string]string{"test": "oddsai-database"}),
	)
	if err != nil {
		log.Fatalf("could not start postgres container: %s", err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			log.Printf("could not stop postgres container: %s", err)
		}
	}()

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("could not get connection string: %s", err)
	}

	if _, err := RunMigrations(connStr); err != nil {
		log.Fatalf("could not run migrations: %s", err)
	}

	pool, err = NewPool(ctx, connStr)
	if err != nil {
		log.Fatalf("could not connect to database: %s", err)
	}
	defer pool.Close()

	return m.Run()
}

func resetTables(t *testing.T) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `TRUNCATE profit_bets, prematches, odds_history, predictions RESTART IDENTITY`)
	require.NoError(t, err)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	connStr := pool.Config().ConnString()

	version, err := RunMigrations(connStr)
	require.NoError(t, err)
	assert.Equal(t, uint(4), version)
}

func TestNewMigrateFromDB_ClosesDBOnSourceError(t *testing.T) {
	config, err := pgxpool.ParseConfig(pool.Config().ConnString())
	require.NoError(t, err)
	db := stdlib.OpenDB(*config.ConnConfig)

	_, err = newMigrateFromDB(db, fstest.MapFS{}, "migrations")
	require.Error(t, err)
	assert.EqualError(t, db.Ping(), "sql: database is closed")
}

func TestPostgresRepository_InsertAndFetchBets(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	repo := &PostgresRepository{Pool: pool}

	settled := time.Date(2025, time.May, 10, 19, 45, 0, 0, time.UTC)
	clock := 55
	bet := model.BetRecord{
		FixtureID:  100,
		Type:       model.Handicap,
		Clock:      &clock,
		Selection:  "Home -0.25",
		Line:       decimal.RequireFromString("-0.25"),
		Odds:       decimal.RequireFromString("1.92"),
		StakeUnits: decimal.RequireFromString("1"),
		StakeMoney: decimal.RequireFromString("100"),
		Profit:     decimal.RequireFromString("92"),
		Status:     model.StatusWin,
		BetTime:    settled,
	}

	id, err := repo.InsertBet(ctx, bet)
	require.NoError(t, err)
	assert.NotZero(t, id)

	_, err = repo.InsertBet(ctx, model.BetRecord{
		FixtureID: 200, Type: model.Moneyline, Status: model.StatusLoss,
		StakeMoney: decimal.NewFromInt(50), Profit: decimal.NewFromInt(-50),
		BetTime: settled.Add(-time.Hour),
	})
	require.NoError(t, err)

	all, err := repo.FetchBets(ctx, BetFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(200), all[0].FixtureID)

	one, err := repo.FetchBets(ctx, BetFilter{FixtureID: 100})
	require.NoError(t, err)
	require.Len(t, one, 1)
	got := one[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, model.Handicap, got.Type)
	assert.Equal(t, model.StatusWin, got.Status)
	require.NotNil(t, got.Clock)
	assert.Equal(t, 55, *got.Clock)
	assert.Equal(t, "Home -0.25", got.Selection)
	assert.True(t, bet.Line.Equal(got.Line))
	assert.True(t, bet.Profit.Equal(got.Profit))
	assert.True(t, settled.Equal(got.BetTime))

	none, err := repo.FetchBets(ctx, BetFilter{FixtureID: 999})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPostgresRepository_FetchBetsCoercesLedgerText(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	repo := &PostgresRepository{Pool: pool}

	_, err := pool.Exec(ctx, `
		INSERT INTO profit_bets (fixture_id, type, line, odds, stake_units, stake_money, profit, status, bet_time) VALUES
		(300, 'ML', NULL, '2.10', '', '100', '110', 'WIN', '2025-05-01T10:00:00Z'),
		(300, 'OU', '2.5', 'bad', '1', '#N/A', '-100', 'LOSS', '2025-05-01T10:05:00Z'),
		(300, 'BTTS', '0', '1.8', '1', '100', '80', 'WIN', '2025-05-01T10:10:00Z'),
		(300, 'HDP', '0', '1.8', '1', '100', '0', 'PENDING', '2025-05-01T10:15:00Z')`)
	require.NoError(t, err)

	records, err := repo.FetchBets(ctx, BetFilter{FixtureID: 300})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.True(t, records[0].Line.IsZero())
	assert.True(t, records[0].StakeUnits.IsZero())
	assert.True(t, records[1].Odds.IsZero())
	assert.True(t, records[1].StakeMoney.IsZero())
	assert.True(t, decimal.NewFromInt(-100).Equal(records[1].Profit))
}

func seedMatches(t *testing.T) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO prematches (fixture_id, home_name, away_name, league_name, start_date, status_short, type, score_fulltime_home, score_fulltime_away) VALUES
		(100, 'Arsenal', 'Chelsea', 'Premier League', '2025-05-01T15:00:00Z', 'FT', 'Finished', 2, 1),
		(200, 'Inter', 'Milan', 'Serie A', '2025-05-02T18:00:00Z', '2H', 'In Play', NULL, NULL),
		(300, NULL, 'Sevilla', 'La Liga', '2025-05-03T20:00:00Z', 'NS', 'Scheduled', NULL, NULL),
		(NULL, 'Ajax', 'PSV', 'Eredivisie', '2025-05-04T12:00:00Z', 'PST', 'Postponed', NULL, NULL)`)
	require.NoError(t, err)
}

func TestPostgresRepository_FixtureInfo(t *testing.T) {
	resetTables(t)
	seedMatches(t)
	repo := &PostgresRepository{Pool: pool}

	info, err := repo.FixtureInfo(context.Background(), []int64{100, 300, 404})
	require.NoError(t, err)
	require.Len(t, info, 2)
	assert.Equal(t, model.FixtureInfo{
		FixtureID: 100, HomeTeam: "Arsenal", AwayTeam: "Chelsea",
		LeagueName: "Premier League", HomeScore: 2, AwayScore: 1,
	}, info[100])
	assert.Equal(t, "", info[300].HomeTeam)
	assert.Equal(t, "Sevilla", info[300].AwayTeam)

	empty, err := repo.FixtureInfo(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPostgresRepository_Matches(t *testing.T) {
	resetTables(t)
	seedMatches(t)
	ctx := context.Background()
	repo := &PostgresRepository{Pool: pool}

	all, err := repo.ListMatches(ctx, MatchFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Arsenal", all[0].HomeTeam)

	live, err := repo.ListMatches(ctx, MatchFilter{Status: model.MatchLive})
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, model.MatchLive, live[0].Status)
	assert.Equal(t, model.MatchTypeInPlay, live[0].Type)
	assert.Nil(t, live[0].HomeScore)

	upcoming, err := repo.ListMatches(ctx, MatchFilter{Status: model.MatchUpcoming})
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Nil(t, upcoming[1].FixtureID)

	limited, err := repo.ListMatches(ctx, MatchFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	match, err := repo.GetMatch(ctx, all[0].ID)
	require.NoError(t, err)
	require.NotNil(t, match)
	require.NotNil(t, match.HomeScore)
	assert.Equal(t, 2, *match.HomeScore)
	assert.Equal(t, model.MatchFinished, match.Status)

	missing, err := repo.GetMatch(ctx, 99999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPostgresRepository_OddsAndPredictions(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	repo := &PostgresRepository{Pool: pool}

	none, err := repo.LatestOdds(ctx, 100)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = pool.Exec(ctx, `
		INSERT INTO odds_history (fixture_id, bookmaker, moneyline_1x2_home, moneyline_1x2_draw, moneyline_1x2_away, handicap_main_line, type, created_at) VALUES
		(100, 'pinnacle', 2.10, 3.40, 3.20, -0.25, 'Scheduled', '2025-05-01T10:00:00Z'),
		(100, 'pinnacle', 2.05, 3.50, 3.30, -0.25, 'In Play', '2025-05-01T15:10:00Z')`)
	require.NoError(t, err)

	latest, err := repo.LatestOdds(ctx, 100)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.True(t, decimal.RequireFromString("2.05").Equal(latest.MoneylineHome))
	assert.True(t, latest.TotalPointsLine.IsZero())
	assert.Equal(t, model.MatchTypeInPlay, latest.Type)

	history, err := repo.OddsHistory(ctx, 100, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].CreatedAt.After(history[1].CreatedAt))

	_, err = pool.Exec(ctx, `
		INSERT INTO predictions (fixture_id, market, selection, ai_model, commentary, line, over_odds, under_odds) VALUES
		(100, 'over_under', 'Over 2.5', NULL, 'Tempo favours goals', 2.5, 1.95, 1.85),
		(100, 'moneyline', 'Home', 'gpt', '', NULL, NULL, NULL)`)
	require.NoError(t, err)

	predictions, err := repo.Predictions(ctx, 100)
	require.NoError(t, err)
	require.Len(t, predictions, 2)
	assert.Equal(t, model.MarketMoneyline, predictions[0].Market)
	assert.Equal(t, "gpt", predictions[0].AIModel)
	assert.Equal(t, "gemini", predictions[1].AIModel)
	assert.True(t, decimal.RequireFromString("2.5").Equal(predictions[1].Odds.Line))
	assert.True(t, decimal.RequireFromString("1.95").Equal(predictions[1].Odds.Over))
}

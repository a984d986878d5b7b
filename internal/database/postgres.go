package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"oddsai/internal/model"
	"oddsai/internal/profit"
)

const (
	defaultMatchLimit = 50
	defaultOddsLimit  = 50
)

// PostgresRepository implements Repository on a pgx pool.
type PostgresRepository struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(pool *pgxpool.Pool, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{Pool: pool, Logger: logger}
}

func (r *PostgresRepository) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.Pool.Ping(ctx)
}

const betColumns = `
	id, fixture_id, type, clock,
	COALESCE(selection, ''), COALESCE(line, ''), COALESCE(odds, ''),
	COALESCE(stake_units, ''), COALESCE(stake_money, ''), COALESCE(profit, ''),
	status, bet_time`

// FetchBets reads settled bets ordered by bet time. Rows with an unknown bet
// type or status are skipped and logged.
func (r *PostgresRepository) FetchBets(ctx context.Context, filter BetFilter) ([]model.BetRecord, error) {
	query := `SELECT` + betColumns + ` FROM profit_bets`
	var args []any
	if filter.FixtureID != 0 {
		query += ` WHERE fixture_id = $1`
		args = append(args, filter.FixtureID)
	}
	query += ` ORDER BY bet_time, id`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bets: %w", err)
	}
	defer rows.Close()

	records := make([]model.BetRecord, 0)
	skipped := 0
	for rows.Next() {
		var raw profit.RawBet
		if err := rows.Scan(
			&raw.ID, &raw.FixtureID, &raw.Type, &raw.Clock,
			&raw.Selection, &raw.Line, &raw.Odds,
			&raw.StakeUnits, &raw.StakeMoney, &raw.Profit,
			&raw.Status, &raw.BetTime,
		); err != nil {
			return nil, fmt.Errorf("scan bet: %w", err)
		}

		rec, err := raw.Record()
		if err != nil {
			skipped++
			r.logger().Warn("Skipping malformed bet row", "betID", raw.ID, "fixtureID", raw.FixtureID, "error", err)
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bets: %w", err)
	}

	if skipped > 0 {
		r.logger().Warn("Bet rows skipped during fetch", "skipped", skipped, "kept", len(records))
	}
	return records, nil
}

// InsertBet persists a settled bet and returns its id.
func (r *PostgresRepository) InsertBet(ctx context.Context, bet model.BetRecord) (int64, error) {
	query := `
		INSERT INTO profit_bets (
			fixture_id, type, clock, selection, line, odds,
			stake_units, stake_money, profit, status, bet_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	var id int64
	err := r.Pool.QueryRow(ctx, query,
		bet.FixtureID, string(bet.Type), bet.Clock, bet.Selection,
		bet.Line.String(), bet.Odds.String(), bet.StakeUnits.String(),
		bet.StakeMoney.String(), bet.Profit.String(), string(bet.Status), bet.BetTime,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert bet: %w", err)
	}
	return id, nil
}

// FixtureInfo looks up display metadata for the given fixtures. Fixtures
// without a prematch row are absent from the result.
func (r *PostgresRepository) FixtureInfo(ctx context.Context, fixtureIDs []int64) (map[int64]model.FixtureInfo, error) {
	result := make(map[int64]model.FixtureInfo, len(fixtureIDs))
	if len(fixtureIDs) == 0 {
		return result, nil
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT fixture_id,
			COALESCE(home_name, ''), COALESCE(away_name, ''), COALESCE(league_name, ''),
			COALESCE(score_fulltime_home, 0), COALESCE(score_fulltime_away, 0)
		FROM prematches
		WHERE fixture_id = ANY($1)`, fixtureIDs)
	if err != nil {
		return nil, fmt.Errorf("query fixture info: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var info model.FixtureInfo
		if err := rows.Scan(&info.FixtureID, &info.HomeTeam, &info.AwayTeam, &info.LeagueName, &info.HomeScore, &info.AwayScore); err != nil {
			return nil, fmt.Errorf("scan fixture info: %w", err)
		}
		result[info.FixtureID] = info
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fixture info: %w", err)
	}
	return result, nil
}

const matchColumns = `
	id, fixture_id,
	COALESCE(home_name, ''), COALESCE(away_name, ''), COALESCE(league_name, ''),
	start_date, status_short, score_fulltime_home, score_fulltime_away,
	home_logo, away_logo, league_logo, COALESCE(type, ''), created_at`

func scanMatch(row rowScanner) (model.Match, error) {
	var m model.Match
	var statusShort, matchType string
	err := row.Scan(
		&m.ID, &m.FixtureID, &m.HomeTeam, &m.AwayTeam, &m.League,
		&m.MatchDate, &statusShort, &m.HomeScore, &m.AwayScore,
		&m.HomeLogo, &m.AwayLogo, &m.LeagueLogo, &matchType, &m.CreatedAt,
	)
	m.Status = model.MapStatusShort(statusShort)
	m.Type = model.MatchType(matchType)
	return m, err
}

// ListMatches returns matches ordered by kick-off.
func (r *PostgresRepository) ListMatches(ctx context.Context, filter MatchFilter) ([]model.Match, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultMatchLimit
	}

	query := `SELECT` + matchColumns + ` FROM prematches`
	args := []any{limit}
	switch filter.Status {
	case "":
	case model.MatchUpcoming:
		query += ` WHERE NOT (status_short = ANY($2))`
		args = append(args, append(model.StatusShortCodes(model.MatchLive), model.StatusShortCodes(model.MatchFinished)...))
	default:
		query += ` WHERE status_short = ANY($2)`
		args = append(args, model.StatusShortCodes(filter.Status))
	}
	query += ` ORDER BY start_date ASC, id ASC LIMIT $1`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]model.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return matches, nil
}

// GetMatch returns the match with the given id, or nil when it does not exist.
func (r *PostgresRepository) GetMatch(ctx context.Context, id int64) (*model.Match, error) {
	m, err := scanMatch(r.Pool.QueryRow(ctx, `SELECT`+matchColumns+` FROM prematches WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get match %d: %w", id, err)
	}
	return &m, nil
}

const oddsColumns = `
	id, fixture_id, bookmaker,
	COALESCE(moneyline_1x2_home::text, ''), COALESCE(moneyline_1x2_draw::text, ''), COALESCE(moneyline_1x2_away::text, ''),
	COALESCE(handicap_main_line::text, ''), COALESCE(handicap_home::text, ''), COALESCE(handicap_away::text, ''),
	COALESCE(totalpoints_main_line::text, ''), COALESCE(totalpoints_over::text, ''), COALESCE(totalpoints_under::text, ''),
	COALESCE(type, ''), created_at`

func scanOdds(row rowScanner) (model.OddsSnapshot, error) {
	var o model.OddsSnapshot
	var mlHome, mlDraw, mlAway, hdpLine, hdpHome, hdpAway, ouLine, ouOver, ouUnder, matchType string
	if err := row.Scan(
		&o.ID, &o.FixtureID, &o.Bookmaker,
		&mlHome, &mlDraw, &mlAway,
		&hdpLine, &hdpHome, &hdpAway,
		&ouLine, &ouOver, &ouUnder,
		&matchType, &o.CreatedAt,
	); err != nil {
		return o, err
	}

	o.MoneylineHome = profit.ParseAmount(mlHome)
	o.MoneylineDraw = profit.ParseAmount(mlDraw)
	o.MoneylineAway = profit.ParseAmount(mlAway)
	o.HandicapLine = profit.ParseAmount(hdpLine)
	o.HandicapHome = profit.ParseAmount(hdpHome)
	o.HandicapAway = profit.ParseAmount(hdpAway)
	o.TotalPointsLine = profit.ParseAmount(ouLine)
	o.TotalPointsOver = profit.ParseAmount(ouOver)
	o.TotalPointsUnder = profit.ParseAmount(ouUnder)
	o.Type = model.MatchType(matchType)
	return o, nil
}

// LatestOdds returns the most recent odds capture for a fixture, or nil.
func (r *PostgresRepository) LatestOdds(ctx context.Context, fixtureID int64) (*model.OddsSnapshot, error) {
	o, err := scanOdds(r.Pool.QueryRow(ctx,
		`SELECT`+oddsColumns+` FROM odds_history WHERE fixture_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1`,
		fixtureID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest odds for fixture %d: %w", fixtureID, err)
	}
	return &o, nil
}

// OddsHistory returns odds captures for a fixture, newest first.
func (r *PostgresRepository) OddsHistory(ctx context.Context, fixtureID int64, limit int) ([]model.OddsSnapshot, error) {
	if limit <= 0 {
		limit = defaultOddsLimit
	}

	rows, err := r.Pool.Query(ctx,
		`SELECT`+oddsColumns+` FROM odds_history WHERE fixture_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`,
		fixtureID, limit)
	if err != nil {
		return nil, fmt.Errorf("query odds history: %w", err)
	}
	defer rows.Close()

	history := make([]model.OddsSnapshot, 0)
	for rows.Next() {
		o, err := scanOdds(rows)
		if err != nil {
			return nil, fmt.Errorf("scan odds: %w", err)
		}
		history = append(history, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate odds history: %w", err)
	}
	return history, nil
}

// Predictions returns every AI prediction for a fixture, newest first.
func (r *PostgresRepository) Predictions(ctx context.Context, fixtureID int64) ([]model.Prediction, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT id, fixture_id, market, COALESCE(selection, ''), signal,
			COALESCE(NULLIF(ai_model, ''), 'gemini'), COALESCE(commentary, ''), COALESCE(bookmaker, ''),
			clock, stacking_quantity, stacking_plan_description,
			market_analysis_trend_direction, market_analysis_odds_check, market_analysis_vig_status,
			COALESCE(line::text, ''), COALESCE(home_odds::text, ''), COALESCE(draw_odds::text, ''),
			COALESCE(away_odds::text, ''), COALESCE(over_odds::text, ''), COALESCE(under_odds::text, ''),
			created_at
		FROM predictions
		WHERE fixture_id = $1
		ORDER BY id DESC`, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	predictions := make([]model.Prediction, 0)
	for rows.Next() {
		var p model.Prediction
		var market, line, home, draw, away, over, under string
		if err := rows.Scan(
			&p.ID, &p.FixtureID, &market, &p.Selection, &p.Signal,
			&p.AIModel, &p.Analysis, &p.Bookmaker,
			&p.Clock, &p.StackingQuantity, &p.StackingPlanDescription,
			&p.TrendDirection, &p.OddsCheck, &p.VigStatus,
			&line, &home, &draw, &away, &over, &under,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		p.Market = model.Market(market)
		p.Odds = model.PredictionOdds{
			Line:  profit.ParseAmount(line),
			Home:  profit.ParseAmount(home),
			Draw:  profit.ParseAmount(draw),
			Away:  profit.ParseAmount(away),
			Over:  profit.ParseAmount(over),
			Under: profit.ParseAmount(under),
		}
		predictions = append(predictions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate predictions: %w", err)
	}
	return predictions, nil
}

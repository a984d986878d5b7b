package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BetType identifies the market a bet was placed on.
type BetType string

const (
	Moneyline BetType = "ML"
	Handicap  BetType = "HDP"
	OverUnder BetType = "OU"
)

// BetTypes lists every bet type in display order.
var BetTypes = []BetType{Moneyline, Handicap, OverUnder}

// BetStatus is the settled outcome of a bet.
type BetStatus string

const (
	StatusWin  BetStatus = "WIN"
	StatusLoss BetStatus = "LOSS"
	StatusPush BetStatus = "PUSH"
)

// BetRecord represents a single settled wager.
type BetRecord struct {
	ID         int64           `db:"id" json:"id"`
	FixtureID  int64           `db:"fixture_id" json:"fixture_id"`
	Type       BetType         `db:"type" json:"type"`
	Clock      *int            `db:"clock" json:"clock"`
	Selection  string          `db:"selection" json:"selection"`
	Line       decimal.Decimal `db:"line" json:"line"`
	Odds       decimal.Decimal `db:"odds" json:"odds"`
	StakeUnits decimal.Decimal `db:"stake_units" json:"stake_units"`
	StakeMoney decimal.Decimal `db:"stake_money" json:"stake_money"`
	Profit     decimal.Decimal `db:"profit" json:"profit"`
	Status     BetStatus       `db:"status" json:"status"`
	BetTime    time.Time       `db:"bet_time" json:"bet_time"`
}

// FixtureSummary aggregates every bet placed on one fixture.
type FixtureSummary struct {
	FixtureID     int64                       `json:"fixture_id"`
	LeagueName    string                      `json:"league_name"`
	HomeTeam      string                      `json:"home_team"`
	AwayTeam      string                      `json:"away_team"`
	HomeScore     int                         `json:"home_score"`
	AwayScore     int                         `json:"away_score"`
	TotalProfit   decimal.Decimal             `json:"total_profit"`
	TotalInvested decimal.Decimal             `json:"total_invested"`
	TotalBets     int                         `json:"total_bets"`
	ProfitByType  map[BetType]decimal.Decimal `json:"profit_by_type"`
	ROIPercentage float64                     `json:"roi_percentage"`
	Bets          []BetRecord                 `json:"bets"`
}

// PortfolioSummary aggregates every fixture.
type PortfolioSummary struct {
	TotalProfit   decimal.Decimal             `json:"total_profit"`
	TotalInvested decimal.Decimal             `json:"total_invested"`
	ROIPercentage float64                     `json:"roi_percentage"`
	TotalBets     int                         `json:"total_bets"`
	TotalMatches  int                         `json:"total_matches"`
	ProfitByType  map[BetType]decimal.Decimal `json:"profit_by_type"`
	BetsByType    map[BetType]int             `json:"bets_by_type"`
	WinsByType    map[BetType]int             `json:"wins_by_type"`
	WinRateByType map[BetType]float64         `json:"win_rate_by_type"`
}

// ChartPoint is one fixture on the cumulative profit chart.
type ChartPoint struct {
	Date                time.Time       `json:"date"`
	DateLabel           string          `json:"date_label"`
	FixtureID           int64           `json:"fixture_id"`
	HomeTeam            string          `json:"home_team"`
	AwayTeam            string          `json:"away_team"`
	MatchProfit         decimal.Decimal `json:"match_profit"`
	CumulativeProfit    decimal.Decimal `json:"cumulative_profit"`
	CumulativeMoneyline decimal.Decimal `json:"cumulative_ml"`
	CumulativeHandicap  decimal.Decimal `json:"cumulative_hdp"`
	CumulativeOverUnder decimal.Decimal `json:"cumulative_ou"`
}

// FixtureInfo carries the display metadata of a fixture.
type FixtureInfo struct {
	FixtureID  int64  `db:"fixture_id" json:"fixture_id"`
	HomeTeam   string `db:"home_name" json:"home_team"`
	AwayTeam   string `db:"away_name" json:"away_team"`
	LeagueName string `db:"league_name" json:"league_name"`
	HomeScore  int    `db:"score_fulltime_home" json:"home_score"`
	AwayScore  int    `db:"score_fulltime_away" json:"away_score"`
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchStatus is the coarse lifecycle state shown on match lists.
type MatchStatus string

const (
	MatchLive     MatchStatus = "live"
	MatchUpcoming MatchStatus = "upcoming"
	MatchFinished MatchStatus = "finished"
)

// MatchType is the feed's own classification of a fixture.
type MatchType string

const (
	MatchTypeScheduled MatchType = "Scheduled"
	MatchTypeInPlay    MatchType = "In Play"
	MatchTypeFinished  MatchType = "Finished"
	MatchTypePostponed MatchType = "Postponed"
	MatchTypeAbandoned MatchType = "Abandoned"
	MatchTypeNotPlayed MatchType = "Not Played"
)

// Market identifies which prediction table family a prediction belongs to.
type Market string

const (
	MarketMoneyline Market = "moneyline"
	MarketHandicap  Market = "handicap"
	MarketOverUnder Market = "over_under"
)

// Match represents one row of the prematch feed.
type Match struct {
	ID         int64       `db:"id" json:"id"`
	FixtureID  *int64      `db:"fixture_id" json:"fixture_id"`
	HomeTeam   string      `db:"home_name" json:"home_team"`
	AwayTeam   string      `db:"away_name" json:"away_team"`
	League     string      `db:"league_name" json:"league"`
	MatchDate  time.Time   `db:"start_date" json:"match_date"`
	Status     MatchStatus `json:"status"`
	HomeScore  *int        `db:"score_fulltime_home" json:"home_score"`
	AwayScore  *int        `db:"score_fulltime_away" json:"away_score"`
	HomeLogo   *string     `db:"home_logo" json:"home_logo"`
	AwayLogo   *string     `db:"away_logo" json:"away_logo"`
	LeagueLogo *string     `db:"league_logo" json:"league_logo"`
	Type       MatchType   `db:"type" json:"match_type"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
}

// OddsSnapshot is one bookmaker price capture for a fixture.
type OddsSnapshot struct {
	ID               int64           `db:"id" json:"id"`
	FixtureID        int64           `db:"fixture_id" json:"fixture_id"`
	Bookmaker        string          `db:"bookmaker" json:"bookmaker"`
	MoneylineHome    decimal.Decimal `db:"moneyline_1x2_home" json:"moneyline_1x2_home"`
	MoneylineDraw    decimal.Decimal `db:"moneyline_1x2_draw" json:"moneyline_1x2_draw"`
	MoneylineAway    decimal.Decimal `db:"moneyline_1x2_away" json:"moneyline_1x2_away"`
	HandicapLine     decimal.Decimal `db:"handicap_main_line" json:"handicap_main_line"`
	HandicapHome     decimal.Decimal `db:"handicap_home" json:"handicap_home"`
	HandicapAway     decimal.Decimal `db:"handicap_away" json:"handicap_away"`
	TotalPointsLine  decimal.Decimal `db:"totalpoints_main_line" json:"totalpoints_main_line"`
	TotalPointsOver  decimal.Decimal `db:"totalpoints_over" json:"totalpoints_over"`
	TotalPointsUnder decimal.Decimal `db:"totalpoints_under" json:"totalpoints_under"`
	Type             MatchType       `db:"type" json:"type"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// PredictionOdds holds the market prices the model saw. Only the fields of
// the prediction's market are populated.
type PredictionOdds struct {
	Line  decimal.Decimal `json:"line"`
	Home  decimal.Decimal `json:"home"`
	Draw  decimal.Decimal `json:"draw"`
	Away  decimal.Decimal `json:"away"`
	Over  decimal.Decimal `json:"over"`
	Under decimal.Decimal `json:"under"`
}

// Prediction is an AI-generated pick for a fixture.
type Prediction struct {
	ID                      int64          `db:"id" json:"id"`
	FixtureID               int64          `db:"fixture_id" json:"fixture_id"`
	Market                  Market         `db:"market" json:"prediction_type"`
	Selection               string         `db:"selection" json:"predicted_outcome"`
	Signal                  *string        `db:"signal" json:"signal"`
	AIModel                 string         `db:"ai_model" json:"ai_model"`
	Analysis                string         `db:"commentary" json:"ai_analysis"`
	Bookmaker               string         `db:"bookmaker" json:"bookmaker"`
	Clock                   *int           `db:"clock" json:"clock"`
	StackingQuantity        *string        `db:"stacking_quantity" json:"stacking_quantity"`
	StackingPlanDescription *string        `db:"stacking_plan_description" json:"stacking_plan_description"`
	TrendDirection          *string        `db:"market_analysis_trend_direction" json:"market_analysis_trend_direction"`
	OddsCheck               *string        `db:"market_analysis_odds_check" json:"market_analysis_odds_check"`
	VigStatus               *string        `db:"market_analysis_vig_status" json:"market_analysis_vig_status"`
	Odds                    PredictionOdds `json:"odds_data"`
	CreatedAt               time.Time      `db:"created_at" json:"created_at"`
}

// MatchDetail is a match with everything the detail page shows.
type MatchDetail struct {
	Match
	LatestOdds  *OddsSnapshot `json:"latest_odds"`
	Predictions []Prediction  `json:"predictions"`
	ShowOdds    bool          `json:"show_odds"`
	IsLive      bool          `json:"is_live"`
	OddsLabel   string        `json:"odds_label"`
}

// MapStatusShort converts a feed status code into a MatchStatus.
// FT, AET and PEN are finished; 1H, 2H, HT and LIVE are live; everything
// else, including NS, is upcoming.
func MapStatusShort(statusShort string) MatchStatus {
	switch statusShort {
	case "FT", "AET", "PEN":
		return MatchFinished
	case "1H", "2H", "HT", "LIVE":
		return MatchLive
	default:
		return MatchUpcoming
	}
}

// StatusShortCodes returns the feed codes that map to status. Upcoming is
// the catch-all and has no codes of its own, so it returns nil.
func StatusShortCodes(status MatchStatus) []string {
	switch status {
	case MatchFinished:
		return []string{"FT", "AET", "PEN"}
	case MatchLive:
		return []string{"1H", "2H", "HT", "LIVE"}
	default:
		return nil
	}
}

// ShouldShowOdds reports whether odds are meaningful for the match type.
func ShouldShowOdds(t MatchType) bool {
	return t == MatchTypeScheduled || t == MatchTypeInPlay
}

// IsMatchLive reports whether the match is in play.
func IsMatchLive(t MatchType) bool {
	return t == MatchTypeInPlay
}

// OddsLabel returns the heading for the odds section of a match.
func OddsLabel(t MatchType) string {
	switch t {
	case MatchTypeInPlay:
		return "Live Odds"
	case MatchTypeScheduled:
		return "Pre-Match Odds"
	default:
		return "Odds Not Available"
	}
}

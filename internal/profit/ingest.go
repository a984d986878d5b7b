package profit

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"oddsai/internal/model"
)

// maxExponent bounds the decimal exponent accepted from input to the range a
// float64 can represent.
const maxExponent = 300

var (
	ErrUnknownBetType   = errors.New("unknown bet type")
	ErrUnknownBetStatus = errors.New("unknown bet status")
)

// RawBet is a settled bet as it arrives from storage or an API client,
// before any coercion. Numeric fields hold their text representation.
type RawBet struct {
	ID         int64
	FixtureID  int64
	Type       string
	Clock      *int
	Selection  string
	Line       string
	Odds       string
	StakeUnits string
	StakeMoney string
	Profit     string
	Status     string
	BetTime    time.Time
}

// Record converts the raw row into a BetRecord. Malformed numbers become
// zero; an unrecognised type or status is an error.
func (r RawBet) Record() (model.BetRecord, error) {
	betType, err := ParseBetType(r.Type)
	if err != nil {
		return model.BetRecord{}, fmt.Errorf("bet %d: %w", r.ID, err)
	}
	status, err := ParseBetStatus(r.Status)
	if err != nil {
		return model.BetRecord{}, fmt.Errorf("bet %d: %w", r.ID, err)
	}

	return model.BetRecord{
		ID:         r.ID,
		FixtureID:  r.FixtureID,
		Type:       betType,
		Clock:      r.Clock,
		Selection:  r.Selection,
		Line:       ParseAmount(r.Line),
		Odds:       ParseAmount(r.Odds),
		StakeUnits: ParseAmount(r.StakeUnits),
		StakeMoney: ParseAmount(r.StakeMoney),
		Profit:     ParseAmount(r.Profit),
		Status:     status,
		BetTime:    r.BetTime,
	}, nil
}

// ParseAmount parses a decimal number, returning zero for anything that is
// not a finite number.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero
	}
	if f := d.InexactFloat64(); math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero
	}
	return d
}

// ParseBetType accepts the short codes used in storage as well as the long
// market names.
func ParseBetType(s string) (model.BetType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ml", "moneyline", "1x2":
		return model.Moneyline, nil
	case "hdp", "handicap", "ah":
		return model.Handicap, nil
	case "ou", "over_under", "overunder", "totals":
		return model.OverUnder, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBetType, s)
	}
}

// ParseBetStatus parses a settled bet outcome.
func ParseBetStatus(s string) (model.BetStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "WIN", "WON":
		return model.StatusWin, nil
	case "LOSS", "LOST", "LOSE":
		return model.StatusLoss, nil
	case "PUSH", "VOID":
		return model.StatusPush, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBetStatus, s)
	}
}

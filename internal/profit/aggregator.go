package profit

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"oddsai/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Aggregator turns settled bets into fixture, portfolio and chart views.
// It holds no mutable state and is safe for concurrent use.
type Aggregator struct {
	loc *time.Location
}

// NewAggregator creates a new Aggregator. Chart date labels are rendered in
// loc, or UTC when loc is nil.
func NewAggregator(loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{loc: loc}
}

// fixtureGroup is the per-fixture intermediate shared by every view.
type fixtureGroup struct {
	fixtureID    int64
	bets         []model.BetRecord
	profit       decimal.Decimal
	invested     decimal.Decimal
	profitByType map[model.BetType]decimal.Decimal
	settledAt    time.Time
}

func newFixtureGroup(fixtureID int64) *fixtureGroup {
	return &fixtureGroup{
		fixtureID:    fixtureID,
		profitByType: zeroProfitByType(),
	}
}

func (g *fixtureGroup) add(r model.BetRecord) {
	g.bets = append(g.bets, r)
	g.profit = g.profit.Add(r.Profit)
	g.invested = g.invested.Add(r.StakeMoney)
	g.profitByType[r.Type] = g.profitByType[r.Type].Add(r.Profit)
	if r.BetTime.After(g.settledAt) {
		g.settledAt = r.BetTime
	}
}

// groupByFixture buckets records by fixture, keeping first-appearance order.
func groupByFixture(records []model.BetRecord) []*fixtureGroup {
	index := make(map[int64]*fixtureGroup)
	var groups []*fixtureGroup
	for _, r := range records {
		g, ok := index[r.FixtureID]
		if !ok {
			g = newFixtureGroup(r.FixtureID)
			index[r.FixtureID] = g
			groups = append(groups, g)
		}
		g.add(r)
	}
	return groups
}

// SummarizeFixture aggregates the bets of one fixture. records may contain
// other fixtures; they are ignored. ok is false when the fixture has no bets,
// which callers must treat differently from a break-even summary.
func (a *Aggregator) SummarizeFixture(fixtureID int64, records []model.BetRecord) (summary model.FixtureSummary, ok bool) {
	g := newFixtureGroup(fixtureID)
	for _, r := range records {
		if r.FixtureID == fixtureID {
			g.add(r)
		}
	}
	if len(g.bets) == 0 {
		return model.FixtureSummary{}, false
	}

	bets := make([]model.BetRecord, len(g.bets))
	copy(bets, g.bets)
	sort.SliceStable(bets, func(i, j int) bool {
		return bets[i].BetTime.Before(bets[j].BetTime)
	})

	return model.FixtureSummary{
		FixtureID:     fixtureID,
		TotalProfit:   g.profit,
		TotalInvested: g.invested,
		TotalBets:     len(g.bets),
		ProfitByType:  g.profitByType,
		ROIPercentage: roiPercentage(g.profit, g.invested),
		Bets:          bets,
	}, true
}

// SummarizePortfolio aggregates every fixture. Totals are accumulated once
// per fixture group, then summed across groups.
func (a *Aggregator) SummarizePortfolio(records []model.BetRecord) model.PortfolioSummary {
	summary := model.PortfolioSummary{
		ProfitByType:  zeroProfitByType(),
		BetsByType:    make(map[model.BetType]int, len(model.BetTypes)),
		WinsByType:    make(map[model.BetType]int, len(model.BetTypes)),
		WinRateByType: make(map[model.BetType]float64, len(model.BetTypes)),
	}
	for _, t := range model.BetTypes {
		summary.BetsByType[t] = 0
		summary.WinsByType[t] = 0
		summary.WinRateByType[t] = 0
	}

	groups := groupByFixture(records)
	for _, g := range groups {
		summary.TotalProfit = summary.TotalProfit.Add(g.profit)
		summary.TotalInvested = summary.TotalInvested.Add(g.invested)
		summary.TotalBets += len(g.bets)
		for t, p := range g.profitByType {
			summary.ProfitByType[t] = summary.ProfitByType[t].Add(p)
		}
	}
	summary.TotalMatches = len(groups)
	summary.ROIPercentage = roiPercentage(summary.TotalProfit, summary.TotalInvested)

	for _, r := range records {
		summary.BetsByType[r.Type]++
		if r.Status == model.StatusWin {
			summary.WinsByType[r.Type]++
		}
	}
	for t, n := range summary.BetsByType {
		if n > 0 {
			summary.WinRateByType[t] = float64(summary.WinsByType[t]) / float64(n)
		}
	}

	return summary
}

// BuildChartSeries produces one cumulative profit point per fixture in
// settlement order. Fixtures missing from fixtures get empty team names.
// Fixtures settled at the same instant keep their input order.
func (a *Aggregator) BuildChartSeries(records []model.BetRecord, fixtures map[int64]model.FixtureInfo) []model.ChartPoint {
	groups := groupByFixture(records)
	if len(groups) == 0 {
		return []model.ChartPoint{}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].settledAt.Before(groups[j].settledAt)
	})

	points := make([]model.ChartPoint, 0, len(groups))
	var total, ml, hdp, ou decimal.Decimal
	for _, g := range groups {
		total = total.Add(g.profit)
		ml = ml.Add(g.profitByType[model.Moneyline])
		hdp = hdp.Add(g.profitByType[model.Handicap])
		ou = ou.Add(g.profitByType[model.OverUnder])

		info := fixtures[g.fixtureID]
		points = append(points, model.ChartPoint{
			Date:                g.settledAt,
			DateLabel:           g.settledAt.In(a.loc).Format("Jan 2"),
			FixtureID:           g.fixtureID,
			HomeTeam:            info.HomeTeam,
			AwayTeam:            info.AwayTeam,
			MatchProfit:         g.profit,
			CumulativeProfit:    total,
			CumulativeMoneyline: ml,
			CumulativeHandicap:  hdp,
			CumulativeOverUnder: ou,
		})
	}
	return points
}

// FixtureIDs returns the distinct fixture ids in first-appearance order.
func FixtureIDs(records []model.BetRecord) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, r := range records {
		if _, ok := seen[r.FixtureID]; ok {
			continue
		}
		seen[r.FixtureID] = struct{}{}
		ids = append(ids, r.FixtureID)
	}
	return ids
}

// roiPercentage is profit over invested as a percentage, 0 when nothing was
// invested or the ratio does not fit a float64.
func roiPercentage(profit, invested decimal.Decimal) float64 {
	if invested.IsZero() {
		return 0
	}
	roi := profit.Div(invested).Mul(hundred).InexactFloat64()
	if math.IsInf(roi, 0) || math.IsNaN(roi) {
		return 0
	}
	return roi
}

func zeroProfitByType() map[model.BetType]decimal.Decimal {
	m := make(map[model.BetType]decimal.Decimal, len(model.BetTypes))
	for _, t := range model.BetTypes {
		m[t] = decimal.Zero
	}
	return m
}

package view

import (
	"fmt"
	"testing"

	"github.com/edward362/ENPC-TRADING-GAME/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestLeaderboard_ServerOrderIsRank(t *testing.T) {
	rows := Leaderboard([]domain.LeaderboardEntry{
		{Name: "A", Equity: d("12000"), RealizedPnL: d("500")},
		{Name: "B", Equity: d("9000"), RealizedPnL: d("-200")},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "A", rows[0].Name)
	assert.True(t, rows[0].Top())
	assert.Equal(t, MarkerGold, rows[0].Marker)
	assert.Equal(t, domain.SignPositive, rows[0].RealizedPnL.Sign)

	assert.Equal(t, 2, rows[1].Rank)
	assert.Equal(t, "B", rows[1].Name)
	assert.False(t, rows[1].Top())
	assert.Equal(t, domain.SignNegative, rows[1].RealizedPnL.Sign)
}

func TestLeaderboard_NeverSorts(t *testing.T) {
	rows := Leaderboard([]domain.LeaderboardEntry{
		{Name: "low", Equity: d("10")},
		{Name: "high", Equity: d("99999")},
	})
	assert.Equal(t, "low", rows[0].Name)
	assert.Equal(t, domain.SignNeutral, rows[0].RealizedPnL.Sign)
}

func TestLeaderboard_Markers(t *testing.T) {
	entries := make([]domain.LeaderboardEntry, 5)
	for i := range entries {
		entries[i] = domain.LeaderboardEntry{Name: fmt.Sprintf("p%d", i)}
	}

	rows := Leaderboard(entries)
	markers := make([]Marker, len(rows))
	for i, r := range rows {
		markers[i] = r.Marker
	}
	assert.Equal(t, []Marker{MarkerGold, MarkerSilver, MarkerBronze, MarkerNone, MarkerNone}, markers)
	assert.Len(t, Podium(rows), 3)
	assert.Len(t, Podium(rows[:2]), 2)
	assert.Empty(t, Leaderboard(nil))
}

func TestPortfolio_RecentTrades(t *testing.T) {
	var trades []domain.TradeRow
	for i := 1; i <= 7; i++ {
		trades = append(trades, domain.TradeRow{Timestamp: float64(i), Asset: "GOLD", OpenSide: "BUY", Qty: i})
	}

	v := Portfolio(domain.PortfolioSnapshot{Trades: trades})

	require.Len(t, v.RecentTrades, 5)
	var stamps []float64
	for _, tr := range v.RecentTrades {
		stamps = append(stamps, tr.Timestamp)
	}
	assert.Equal(t, []float64{7, 6, 5, 4, 3}, stamps)
	// input untouched
	assert.Equal(t, 1.0, trades[0].Timestamp)
}

func TestPortfolio_FewTrades(t *testing.T) {
	v := Portfolio(domain.PortfolioSnapshot{Trades: []domain.TradeRow{
		{Timestamp: 1, RealizedPnL: d("-3")},
		{Timestamp: 2, RealizedPnL: d("4")},
	}})

	require.Len(t, v.RecentTrades, 2)
	assert.Equal(t, 2.0, v.RecentTrades[0].Timestamp)
	assert.Equal(t, domain.SignPositive, v.RecentTrades[0].RealizedPnL.Sign)
	assert.Equal(t, domain.SignNegative, v.RecentTrades[1].RealizedPnL.Sign)
	assert.Empty(t, RecentTrades(nil, MaxRecentTrades))
}

func TestPortfolio_PositionsAndSigns(t *testing.T) {
	snap := domain.PortfolioSnapshot{
		Cash:          d("5000"),
		Equity:        d("10100"),
		UnrealizedPnL: d("100"),
		RealizedPnL:   d("0"),
		Positions: []domain.PositionRow{
			{Asset: "GOLD", Qty: 10, AvgPrice: d("100"), LastPrice: d("110"), MarketValue: d("1100"), UnrealizedPnL: d("100")},
			{Asset: "OIL", Qty: 5, AvgPrice: d("0"), LastPrice: d("50"), MarketValue: d("250"), UnrealizedPnL: d("-1")},
		},
	}

	v := Portfolio(snap)

	assert.Equal(t, domain.SignPositive, v.UnrealizedPnL.Sign)
	assert.Equal(t, domain.SignNeutral, v.RealizedPnL.Sign)
	require.Len(t, v.Positions, 2)

	gold := v.Positions[0]
	assert.True(t, gold.PnLPercent.Value.Equal(d("10")), "got %s", gold.PnLPercent.Value)
	assert.Equal(t, domain.SignPositive, gold.PnLPercent.Sign)

	oil := v.Positions[1]
	assert.True(t, oil.PnLPercent.Value.IsZero())
	assert.Equal(t, domain.SignNeutral, oil.PnLPercent.Sign)
	assert.Equal(t, domain.SignNegative, oil.UnrealizedPnL.Sign)
}

func TestViews_Idempotent(t *testing.T) {
	snap := domain.PortfolioSnapshot{
		Equity:    d("1"),
		Positions: []domain.PositionRow{{Asset: "GOLD", AvgPrice: d("2"), LastPrice: d("3")}},
		Trades:    []domain.TradeRow{{Timestamp: 1}, {Timestamp: 2}},
	}
	assert.Equal(t, Portfolio(snap), Portfolio(snap))

	entries := []domain.LeaderboardEntry{{Name: "A", Equity: d("1")}}
	assert.Equal(t, Leaderboard(entries), Leaderboard(entries))
}

// Package view turns server snapshots into render-ready rows. Every function
// is pure: the same snapshot always yields the same rows.
package view

import (
	"github.com/edward362/ENPC-TRADING-GAME/internal/domain"
	"github.com/shopspring/decimal"
)

// MaxRecentTrades is the number of closed trades shown.
const MaxRecentTrades = 5

// Cell is a money value with its sign class.
type Cell struct {
	Value decimal.Decimal
	Sign  domain.Sign
}

func newCell(v decimal.Decimal) Cell {
	return Cell{Value: v, Sign: domain.ClassifySign(v)}
}

// PositionView is one open position ready for display.
type PositionView struct {
	Asset         string
	Qty           int
	AvgPrice      decimal.Decimal
	LastPrice     decimal.Decimal
	MarketValue   decimal.Decimal
	UnrealizedPnL Cell
	PnLPercent    Cell
}

// TradeView is one closed trade ready for display.
type TradeView struct {
	Timestamp   float64
	Asset       string
	OpenSide    string
	Qty         int
	RealizedPnL Cell
}

// PortfolioView is the full portfolio panel.
type PortfolioView struct {
	Cash          decimal.Decimal
	Equity        decimal.Decimal
	UnrealizedPnL Cell
	RealizedPnL   Cell
	Positions     []PositionView
	RecentTrades  []TradeView // most recent first
}

// Portfolio builds the panel from a snapshot.
func Portfolio(s domain.PortfolioSnapshot) PortfolioView {
	v := PortfolioView{
		Cash:          s.Cash,
		Equity:        s.Equity,
		UnrealizedPnL: newCell(s.UnrealizedPnL),
		RealizedPnL:   newCell(s.RealizedPnL),
		Positions:     make([]PositionView, 0, len(s.Positions)),
		RecentTrades:  RecentTrades(s.Trades, MaxRecentTrades),
	}

	for _, p := range s.Positions {
		v.Positions = append(v.Positions, PositionView{
			Asset:         p.Asset,
			Qty:           p.Qty,
			AvgPrice:      p.AvgPrice,
			LastPrice:     p.LastPrice,
			MarketValue:   p.MarketValue,
			UnrealizedPnL: newCell(p.UnrealizedPnL),
			PnLPercent:    newCell(p.PnLPercent()),
		})
	}

	return v
}

// RecentTrades reverses chronological trades and keeps the first n.
func RecentTrades(trades []domain.TradeRow, n int) []TradeView {
	if n > len(trades) {
		n = len(trades)
	}
	if n < 0 {
		n = 0
	}

	out := make([]TradeView, 0, n)
	for i := len(trades) - 1; i >= 0 && len(out) < n; i-- {
		t := trades[i]
		out = append(out, TradeView{
			Timestamp:   t.Timestamp,
			Asset:       t.Asset,
			OpenSide:    t.OpenSide,
			Qty:         t.Qty,
			RealizedPnL: newCell(t.RealizedPnL),
		})
	}
	return out
}

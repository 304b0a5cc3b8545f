package domain

import "github.com/shopspring/decimal"

// Sign classifies a P&L-bearing value for rendering.
type Sign string

const (
	SignPositive Sign = "positive"
	SignNegative Sign = "negative"
	SignNeutral  Sign = "neutral"
)

// ClassifySign returns "positive", "negative", or "neutral"
func ClassifySign(v decimal.Decimal) Sign {
	if v.IsPositive() {
		return SignPositive
	}
	if v.IsNegative() {
		return SignNegative
	}
	return SignNeutral
}

// PortfolioSnapshot is the server-computed state of the local player.
// Each push replaces the previous snapshot entirely.
type PortfolioSnapshot struct {
	Cash          decimal.Decimal `json:"cash"`
	Equity        decimal.Decimal `json:"equity"`
	UnrealizedPnL decimal.Decimal `json:"uPnL"`
	RealizedPnL   decimal.Decimal `json:"realizedPnL"`
	Positions     []PositionRow   `json:"positions"`
	Trades        []TradeRow      `json:"trades"` // chronological, oldest first
}

// PositionRow is one open position.
type PositionRow struct {
	Asset         string          `json:"asset"`
	Qty           int             `json:"qty"`
	AvgPrice      decimal.Decimal `json:"avgPrice"`
	LastPrice     decimal.Decimal `json:"lastPrice"`
	MarketValue   decimal.Decimal `json:"marketValue"`
	UnrealizedPnL decimal.Decimal `json:"unrealizedPnL"`
}

var hundred = decimal.NewFromInt(100)

// PnLPercent calculates 100 * (LastPrice - AvgPrice) / AvgPrice.
// Returns zero when AvgPrice is zero.
func (p PositionRow) PnLPercent() decimal.Decimal {
	if p.AvgPrice.IsZero() {
		return decimal.Zero
	}
	return p.LastPrice.Sub(p.AvgPrice).Div(p.AvgPrice).Mul(hundred)
}

// TradeRow is one closed trade.
type TradeRow struct {
	Timestamp   float64         `json:"timestamp"`
	Asset       string          `json:"asset"`
	OpenSide    string          `json:"openSide"`
	Qty         int             `json:"qty"`
	RealizedPnL decimal.Decimal `json:"realizedPnL"`
}

// LeaderboardEntry is one server-ranked row. Rank is its position in the slice.
type LeaderboardEntry struct {
	Name        string          `json:"name"`
	Equity      decimal.Decimal `json:"equity"`
	RealizedPnL decimal.Decimal `json:"realizedPnL"`
}

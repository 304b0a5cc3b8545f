package view

import (
	"github.com/edward362/ENPC-TRADING-GAME/internal/domain"
	"github.com/shopspring/decimal"
)

// Marker distinguishes the podium ranks.
type Marker string

const (
	MarkerNone   Marker = ""
	MarkerGold   Marker = "gold"
	MarkerSilver Marker = "silver"
	MarkerBronze Marker = "bronze"
)

var podium = [...]Marker{MarkerGold, MarkerSilver, MarkerBronze}

// MarkerFor returns the marker of a 1-based rank.
func MarkerFor(rank int) Marker {
	if rank < 1 || rank > len(podium) {
		return MarkerNone
	}
	return podium[rank-1]
}

// LeaderboardRow is one ranked player.
type LeaderboardRow struct {
	Rank        int
	Marker      Marker
	Name        string
	Equity      decimal.Decimal
	RealizedPnL Cell
}

// Top reports whether the row is the leader.
func (r LeaderboardRow) Top() bool {
	return r.Rank == 1
}

// Leaderboard ranks rows in the order the server sent them. It never sorts.
func Leaderboard(entries []domain.LeaderboardEntry) []LeaderboardRow {
	rows := make([]LeaderboardRow, len(entries))
	for i, e := range entries {
		rank := i + 1
		rows[i] = LeaderboardRow{
			Rank:        rank,
			Marker:      MarkerFor(rank),
			Name:        e.Name,
			Equity:      e.Equity,
			RealizedPnL: newCell(e.RealizedPnL),
		}
	}
	return rows
}

// Podium returns the first three rows at most.
func Podium(rows []LeaderboardRow) []LeaderboardRow {
	if len(rows) > len(podium) {
		return rows[:len(podium)]
	}
	return rows
}

package engine

import (
	"github.com/edward362/ENPC-TRADING-GAME/internal/domain"
	"github.com/edward362/ENPC-TRADING-GAME/internal/view"
)

// Listener receives render-ready updates. Calls are made from the sequencer
// goroutine, one at a time.
type Listener interface {
	OnSession(domain.Session)
	OnTick(domain.TickView)
	OnPortfolio(view.PortfolioView)
	OnLeaderboard([]view.LeaderboardRow)
	OnNotice(domain.Notice)
	OnHeadline(string)
}

// NopListener ignores every update. Embed it to implement only some methods.
type NopListener struct{}

func (NopListener) OnSession(domain.Session)            {}
func (NopListener) OnTick(domain.TickView)              {}
func (NopListener) OnPortfolio(view.PortfolioView)      {}
func (NopListener) OnLeaderboard([]view.LeaderboardRow) {}
func (NopListener) OnNotice(domain.Notice)              {}
func (NopListener) OnHeadline(string)                   {}

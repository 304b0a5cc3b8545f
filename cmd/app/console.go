package main

import (
	"log/slog"
	"sync"

	"github.com/edward362/ENPC-TRADING-GAME/internal/domain"
	"github.com/edward362/ENPC-TRADING-GAME/internal/engine"
	"github.com/edward362/ENPC-TRADING-GAME/internal/view"
)

// consoleListener renders every update as a log line.
type consoleListener struct {
	autopilot *autopilot

	mu         sync.Mutex
	lastScreen domain.Screen
}

func newConsoleListener() *consoleListener {
	return &consoleListener{}
}

var _ engine.Listener = (*consoleListener)(nil)

func (l *consoleListener) OnSession(s domain.Session) {
	l.mu.Lock()
	changed := s.Screen != l.lastScreen
	l.lastScreen = s.Screen
	l.mu.Unlock()

	attrs := []any{
		slog.String("connection", s.Connection.String()),
		slog.String("screen", s.Screen.String()),
		slog.String("user_id", s.UserID),
		slog.String("lobby_id", s.LobbyID),
		slog.String("lobby_status", string(s.LobbyStatus)),
		slog.Bool("host", s.IsHost),
		slog.Int("players", len(s.Players)),
	}
	if changed {
		slog.Info("📺 Screen", attrs...)
	} else {
		slog.Debug("Session", attrs...)
	}

	if l.autopilot != nil {
		l.autopilot.observe(s)
	}
}

func (l *consoleListener) OnTick(v domain.TickView) {
	for _, a := range v.Assets {
		if a.LastPrice == nil {
			continue
		}
		attrs := []any{
			slog.String("symbol", a.Symbol),
			slog.Float64("price", *a.LastPrice),
			slog.String("trend", a.Trend.String()),
		}
		if a.DeltaPct != nil {
			attrs = append(attrs, slog.Float64("delta_pct", *a.DeltaPct))
		}
		slog.Debug("Asset", attrs...)
	}
	for _, f := range v.Flashes {
		slog.Debug("Flash", slog.String("symbol", f.Symbol), slog.String("direction", f.Direction.String()))
	}
	slog.Info("📈 Tick",
		slog.String("label", v.Label),
		slog.Int("remaining_sec", v.RemainingSec),
		slog.String("chart", v.ChartSymbol),
		slog.String("chart_trend", v.ChartTrend.String()),
	)
}

func (l *consoleListener) OnPortfolio(p view.PortfolioView) {
	slog.Info("💼 Portfolio",
		slog.String("cash", p.Cash.StringFixed(2)),
		slog.String("equity", p.Equity.StringFixed(2)),
		slog.String("upnl", p.UnrealizedPnL.Value.StringFixed(2)),
		slog.String("realized", p.RealizedPnL.Value.StringFixed(2)),
		slog.Int("positions", len(p.Positions)),
		slog.Int("recent_trades", len(p.RecentTrades)),
	)
}

func (l *consoleListener) OnLeaderboard(rows []view.LeaderboardRow) {
	for _, r := range view.Podium(rows) {
		slog.Info("🏆 Leaderboard",
			slog.Int("rank", r.Rank),
			slog.String("marker", string(r.Marker)),
			slog.String("name", r.Name),
			slog.String("equity", r.Equity.StringFixed(2)),
			slog.String("realized", r.RealizedPnL.Value.StringFixed(2)),
		)
	}
}

func (l *consoleListener) OnNotice(n domain.Notice) {
	switch n.Kind {
	case domain.NoticeError, domain.NoticeRejected:
		slog.Warn("Notice", slog.String("kind", string(n.Kind)), slog.String("message", n.Message), slog.Any("error", n.Err))
	default:
		slog.Info("Notice", slog.String("kind", string(n.Kind)), slog.String("message", n.Message))
	}
}

func (l *consoleListener) OnHeadline(h string) {
	slog.Info("📰 " + h)
}

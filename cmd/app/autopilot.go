package main

import (
	"context"
	"log/slog"
	"sync"

	"github.com/edward362/ENPC-TRADING-GAME/internal/app"
	"github.com/edward362/ENPC-TRADING-GAME/internal/domain"
	"github.com/edward362/ENPC-TRADING-GAME/internal/infra"
)

// autopilot creates or joins a lobby once identity arrives and can mark the
// player ready. Actions run on their own goroutine: listener callbacks come
// from the sequencer, which would deadlock on a synchronous Call.
type autopilot struct {
	ctx  context.Context
	term *app.Terminal
	cfg  *infra.Config

	mu       sync.Mutex
	userID   string
	joined   bool
	readySet bool
}

func newAutopilot(ctx context.Context, term *app.Terminal, cfg *infra.Config) *autopilot {
	if cfg.Session.JoinLobby == "" && !cfg.Session.AutoCreate && !cfg.Session.AutoReady {
		return nil
	}
	return &autopilot{ctx: ctx, term: term, cfg: cfg}
}

func (a *autopilot) observe(s domain.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// New identity means a new logical session.
	if s.UserID != a.userID {
		a.userID = s.UserID
		a.joined = false
		a.readySet = false
	}

	if s.Connection != domain.Connected || s.UserID == "" {
		return
	}

	if s.Screen == domain.ScreenSetup && !a.joined {
		switch {
		case a.cfg.Session.JoinLobby != "":
			a.joined = true
			go a.run("join", func() error {
				return a.term.JoinLobby(a.ctx, a.cfg.Session.JoinLobby, a.cfg.Session.PlayerName)
			})
		case a.cfg.Session.AutoCreate:
			a.joined = true
			go a.run("create", func() error {
				return a.term.CreateLobby(a.ctx, a.cfg.Session.PlayerName, domain.Rules{})
			})
		}
	}

	if s.Screen == domain.ScreenLobby && a.cfg.Session.AutoReady && !a.readySet {
		a.readySet = true
		go a.run("ready", func() error { return a.term.SetReady(a.ctx, true) })
	}
}

func (a *autopilot) run(action string, fn func() error) {
	if err := fn(); err != nil {
		slog.Warn("Autopilot action failed", slog.String("action", action), slog.Any("error", err))
		return
	}
	slog.Info("🤖 Autopilot", slog.String("action", action))
}

package app

import (
	"context"
	"sync"

	"github.com/edward362/ENPC-TRADING-GAME/internal/domain"
	"github.com/edward362/ENPC-TRADING-GAME/internal/engine"
	"github.com/edward362/ENPC-TRADING-GAME/internal/infra"
	"github.com/edward362/ENPC-TRADING-GAME/internal/infra/gateway"
	"github.com/edward362/ENPC-TRADING-GAME/internal/service"
)

// Terminal is the client facade: every user action goes through the
// sequencer so it never interleaves with inbound frame handling.
type Terminal struct {
	seq       *engine.Sequencer
	gateway   *gateway.Gateway
	session   *service.SessionMachine
	market    *service.MarketSync
	orders    *service.OrderDispatcher
	headlines *service.Headlines
	metrics   *infra.Metrics

	wg sync.WaitGroup
}

// NewTerminal wires the components for cfg. journal may be nil.
func NewTerminal(cfg *infra.Config, listener engine.Listener, journal engine.Journal, metrics *infra.Metrics) *Terminal {
	if metrics == nil {
		metrics = infra.NewMetrics()
	}

	seq := engine.NewSequencer(engine.DefaultInboxSize, journal, metrics, listener)
	gw := gateway.New(gateway.Options{
		URL:              cfg.Server.WSURL,
		HandshakeTimeout: cfg.HandshakeTimeout(),
		PingInterval:     cfg.PingInterval(),
		ReadTimeout:      cfg.ReadTimeout(),
	}, seq, metrics)

	t := &Terminal{
		seq:     seq,
		gateway: gw,
		session: service.NewSessionMachine(gw, cfg.Session.PlayerName, cfg.Game.Rules),
		market: service.NewMarketSync(cfg.Game.Symbols,
			cfg.History.SparklineCapacity, cfg.History.ChartCapacity, cfg.Session.ChartSymbol),
		orders:  service.NewOrderDispatcher(gw, metrics),
		metrics: metrics,
	}
	t.headlines = service.NewHeadlines(cfg.UI.Headlines, cfg.HeadlineInterval(), seq.PublishHeadline)

	seq.Attach(engine.Components{
		Session: t.session,
		Market:  t.market,
		Orders:  t.orders,
		Clock:   gw,
	})
	return t
}

// Start runs the sequencer and the headline rotation until ctx is cancelled.
func (t *Terminal) Start(ctx context.Context) {
	t.wg.Add(2)
	go func() {
		defer t.wg.Done()
		t.seq.Run(ctx)
	}()
	go func() {
		defer t.wg.Done()
		t.headlines.Run(ctx)
	}()
}

// Connect opens the game link. Each successful open is a new logical session.
func (t *Terminal) Connect(ctx context.Context) error {
	return t.gateway.Connect(ctx)
}

// CreateLobby asks the server for a new lobby hosted by this client.
func (t *Terminal) CreateLobby(ctx context.Context, name string, rules domain.Rules) error {
	return t.seq.Call(ctx, func() error { return t.session.CreateLobby(name, rules) })
}

// JoinLobby joins an existing lobby by invite code.
func (t *Terminal) JoinLobby(ctx context.Context, lobbyID, name string) error {
	return t.seq.Call(ctx, func() error { return t.session.JoinLobby(lobbyID, name) })
}

// SetReady toggles the ready flag.
func (t *Terminal) SetReady(ctx context.Context, ready bool) error {
	return t.seq.Call(ctx, func() error { return t.session.SetReady(ready) })
}

// StartGame starts the lobby. Host only.
func (t *Terminal) StartGame(ctx context.Context) error {
	return t.seq.Call(ctx, t.session.StartGame)
}

// SubmitOrder sends a market order.
func (t *Terminal) SubmitOrder(ctx context.Context, o domain.OrderIntent) error {
	return t.seq.Call(ctx, func() error { return t.orders.Submit(o) })
}

// SelectChartSymbol switches the primary chart series.
func (t *Terminal) SelectChartSymbol(ctx context.Context, symbol string) error {
	return t.seq.Call(ctx, func() error { return t.market.SelectChartSymbol(symbol) })
}

// Session returns a copy of the current session.
func (t *Terminal) Session() domain.Session {
	return t.session.Snapshot()
}

// Streams returns every asset stream in configured order.
func (t *Terminal) Streams() []domain.AssetStream {
	return t.market.Streams()
}

// Chart returns the shared labels and the selected symbol's series.
func (t *Terminal) Chart() (labels []string, values []float64) {
	return t.market.ChartSeries()
}

// Metrics returns a metrics snapshot.
func (t *Terminal) Metrics() infra.MetricsSnapshot {
	return t.metrics.Snapshot()
}

// Close drops the link and waits for the background loops. The context
// passed to Start must be cancelled first.
func (t *Terminal) Close() {
	t.gateway.Close()
	t.wg.Wait()
}

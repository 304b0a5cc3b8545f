package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/edward362/ENPC-TRADING-GAME/internal/domain"
	"github.com/edward362/ENPC-TRADING-GAME/internal/event"
	"github.com/edward362/ENPC-TRADING-GAME/internal/infra"
	"github.com/edward362/ENPC-TRADING-GAME/internal/service"
	"github.com/edward362/ENPC-TRADING-GAME/internal/view"

	"github.com/google/uuid"
)

// DefaultInboxSize bounds the number of queued frames and actions.
const DefaultInboxSize = 1024

var errStopped = errors.New("sequencer stopped")

// Journal records notices for later inspection.
type Journal interface {
	Record(ctx context.Context, sessionID string, n domain.Notice) error
}

// PingClock reports when the latest keepalive was sent.
type PingClock interface {
	LastPingSent() time.Time
}

// Components are the stateful parts the sequencer drives.
type Components struct {
	Session *service.SessionMachine
	Market  *service.MarketSync
	Orders  *service.OrderDispatcher
	Clock   PingClock // optional
}

type statusChange struct {
	state domain.LinkState
	err   error
}

// input is exactly one of an inbound frame, a link status change or a UI action.
type input struct {
	frame  []byte
	status *statusChange
	action func()
}

// Sequencer is the core single-threaded event processor. Inbound frames,
// link status changes and UI actions are handled one at a time, in order.
type Sequencer struct {
	inbox    chan input
	done     chan struct{}
	stopOnce sync.Once

	session *service.SessionMachine
	market  *service.MarketSync
	orders  *service.OrderDispatcher
	clock   PingClock

	handlers map[event.Type]func(event.Event)

	journal   Journal
	metrics   *infra.Metrics
	listener  Listener
	sessionID string
}

// NewSequencer creates a new sequencer instance. Attach must be called before Run.
func NewSequencer(inboxSize int, journal Journal, metrics *infra.Metrics, listener Listener) *Sequencer {
	if inboxSize <= 0 {
		inboxSize = DefaultInboxSize
	}
	if metrics == nil {
		metrics = infra.NewMetrics()
	}
	if listener == nil {
		listener = NopListener{}
	}
	return &Sequencer{
		inbox:    make(chan input, inboxSize),
		done:     make(chan struct{}),
		journal:  journal,
		metrics:  metrics,
		listener: listener,
	}
}

// Attach wires the components and builds the dispatch table.
func (s *Sequencer) Attach(c Components) {
	s.session = c.Session
	s.market = c.Market
	s.orders = c.Orders
	s.clock = c.Clock

	s.handlers = map[event.Type]func(event.Event){
		event.TypeHello:         func(ev event.Event) { s.onHello(ev.(*event.Hello)) },
		event.TypeInviteCode:    func(ev event.Event) { s.onInviteCode(ev.(*event.InviteCode)) },
		event.TypeLobbyState:    func(ev event.Event) { s.onLobbyState(ev.(*event.LobbyState)) },
		event.TypeGameStarted:   func(ev event.Event) { s.onGameStarted(ev.(*event.GameStarted)) },
		event.TypeGameEnded:     func(ev event.Event) { s.onGameEnded(ev.(*event.GameEnded)) },
		event.TypeTick:          func(ev event.Event) { s.onTick(ev.(*event.Tick)) },
		event.TypePortfolio:     func(ev event.Event) { s.onPortfolio(ev.(*event.Portfolio)) },
		event.TypeLeaderboard:   func(ev event.Event) { s.onLeaderboard(ev.(*event.Leaderboard)) },
		event.TypeOrderAccepted: func(ev event.Event) { s.notify(s.orders.HandleAccepted(ev.(*event.OrderAccepted))) },
		event.TypeOrderReject:   func(ev event.Event) { s.notify(s.orders.HandleRejected(ev.(*event.OrderReject))) },
		event.TypeError:         func(ev event.Event) { s.onServerError(ev.(*event.Error)) },
		event.TypePong:          func(ev event.Event) { s.onPong(ev.(*event.Pong)) },
	}
}

// HandleFrame queues one inbound frame. It blocks while the inbox is full.
func (s *Sequencer) HandleFrame(frame []byte) {
	s.enqueue(input{frame: frame})
}

// HandleStatus queues a link status change.
func (s *Sequencer) HandleStatus(state domain.LinkState, err error) {
	s.enqueue(input{status: &statusChange{state: state, err: err}})
}

// Do queues a UI action. It returns false once the sequencer has stopped.
func (s *Sequencer) Do(fn func()) bool {
	return s.enqueue(input{action: fn})
}

// Call runs fn on the sequencer goroutine and waits for its result. A failed
// action is also published as a notice.
func (s *Sequencer) Call(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	queued := s.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				s.metrics.RecordActionPanic()
				slog.Error("Action panic recovered", slog.Any("panic", r))
				result <- fmt.Errorf("action panic: %v", r)
			}
		}()
		err := fn()
		if err != nil {
			s.notify(domain.NewErrorNotice(err))
		}
		result <- err
	})
	if !queued {
		return errStopped
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return errStopped
	}
}

func (s *Sequencer) enqueue(in input) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.inbox <- in:
		return true
	case <-s.done:
		return false
	}
}

// Run starts the main event loop. This MUST be run in a single goroutine.
func (s *Sequencer) Run(ctx context.Context) {
	slog.Info("Sequencer started")
	defer s.stopOnce.Do(func() { close(s.done) })

	for {
		select {
		case <-ctx.Done():
			slog.Info("Sequencer stopping...")
			return
		case in := <-s.inbox:
			s.process(in)
		}
	}
}

// process handles one input. A panic is logged and counted; the loop continues.
// Only frame handling panics count as protocol errors.
func (s *Sequencer) process(in input) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if in.action != nil {
			s.metrics.RecordActionPanic()
			slog.Error("Action panic recovered", slog.Any("panic", r))
			return
		}
		perr := &domain.ProtocolError{Frame: in.frame, Err: fmt.Errorf("handler panic: %v", r)}
		s.metrics.RecordProtocolError()
		slog.Error("Handler panic recovered", slog.Any("error", perr))
	}()

	switch {
	case in.status != nil:
		s.onStatus(in.status.state, in.status.err)
	case in.action != nil:
		in.action()
	default:
		s.processFrame(in.frame)
	}
}

func (s *Sequencer) processFrame(frame []byte) {
	ev, err := event.Decode(frame)
	if err != nil {
		s.metrics.RecordProtocolError()
		slog.Warn("Dropping malformed frame", slog.Any("error", err))
		return
	}

	handle, ok := s.handlers[ev.GetType()]
	if !ok {
		slog.Debug("Ignoring unknown message", slog.String("type", string(ev.GetType())))
		return
	}
	handle(ev)
}

func (s *Sequencer) onStatus(state domain.LinkState, err error) {
	switch state {
	case domain.LinkConnecting:
		s.sessionID = uuid.NewString()
		slog.Info("Connecting", slog.String("session_id", s.sessionID))
		s.notify(domain.NewNotice(domain.NoticeInfo, "Connecting..."))
	case domain.LinkOpen:
		s.session.OnLink(state)
		s.notify(domain.NewNotice(domain.NoticeInfo, "Connected"))
		s.publishSession()
	case domain.LinkClosed:
		s.session.OnLink(state)
		if err != nil {
			slog.Warn("Connection closed", slog.Any("error", err))
			n := domain.NewErrorNotice(err)
			n.Message = "Disconnected: " + err.Error()
			s.notify(n)
		} else {
			slog.Info("Connection closed")
			s.notify(domain.NewNotice(domain.NoticeInfo, "Disconnected"))
		}
		s.publishSession()
	}
}

func (s *Sequencer) onHello(e *event.Hello) {
	s.session.OnHello(e)
	slog.Info("Identity assigned", slog.String("user_id", e.UserID))
	s.publishSession()
}

func (s *Sequencer) onInviteCode(e *event.InviteCode) {
	s.session.OnInviteCode(e)
	s.notify(domain.NewNotice(domain.NoticeInfo, "Lobby created: "+e.LobbyID))
	s.publishSession()
}

func (s *Sequencer) onLobbyState(e *event.LobbyState) {
	s.session.OnLobbyState(e)
	s.publishSession()
}

func (s *Sequencer) onGameStarted(e *event.GameStarted) {
	s.session.OnGameStarted(e)
	s.market.Reset()
	s.notify(domain.NewNotice(domain.NoticeInfo, "Game started"))
	s.publishSession()
}

func (s *Sequencer) onGameEnded(e *event.GameEnded) {
	s.session.OnGameEnded(e)
	s.notify(domain.NewNotice(domain.NoticeInfo, "Game ended"))
	s.publishSession()
}

func (s *Sequencer) onTick(e *event.Tick) {
	tv := s.market.ApplyTick(e.Prices, service.TickLabel(e.Ts))
	s.session.OnTick(e.RemainingSec)
	tv.RemainingSec = e.RemainingSec
	s.listener.OnTick(tv)
}

func (s *Sequencer) onPortfolio(e *event.Portfolio) {
	s.listener.OnPortfolio(view.Portfolio(e.PortfolioSnapshot))
}

func (s *Sequencer) onLeaderboard(e *event.Leaderboard) {
	s.listener.OnLeaderboard(view.Leaderboard(e.Rows))
}

func (s *Sequencer) onServerError(e *event.Error) {
	n := domain.NewRejectionNotice(e.Code)
	slog.Warn("Server refused request", slog.Any("error", n.Err))
	s.notify(n)
}

func (s *Sequencer) onPong(*event.Pong) {
	if s.clock == nil {
		return
	}
	sent := s.clock.LastPingSent()
	if sent.IsZero() {
		return
	}
	rtt := time.Since(sent)
	s.metrics.RecordRTT(rtt)
	slog.Debug("Pong", slog.Duration("rtt", rtt))
}

// notify publishes a notice and journals it under the current connection.
func (s *Sequencer) notify(n domain.Notice) {
	s.listener.OnNotice(n)

	if s.journal == nil {
		return
	}
	if err := s.journal.Record(context.Background(), s.sessionID, n); err != nil {
		slog.Error("Failed to journal notice", slog.Any("error", err))
	}
}

func (s *Sequencer) publishSession() {
	s.listener.OnSession(s.session.Snapshot())
}

// PublishHeadline forwards a headline to the listener on the sequencer goroutine.
func (s *Sequencer) PublishHeadline(h string) {
	s.Do(func() { s.listener.OnHeadline(h) })
}

// SessionID returns the journal id of the current connection.
// Only safe to call from the sequencer goroutine.
func (s *Sequencer) SessionID() string {
	return s.sessionID
}

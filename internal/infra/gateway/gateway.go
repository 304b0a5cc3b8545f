// Package gateway owns the single websocket link to the game server.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/edward362/ENPC-TRADING-GAME/internal/domain"
	"github.com/edward362/ENPC-TRADING-GAME/internal/event"
	"github.com/edward362/ENPC-TRADING-GAME/internal/infra"

	"github.com/gorilla/websocket"
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultPingInterval     = 30 * time.Second
	defaultReadTimeout      = 60 * time.Second

	// Largest inbound frame accepted. Bigger frames close the link.
	maxFrameSize = 1 << 20
)

// Handler receives everything the link produces, in arrival order.
// Calls are made from the gateway's read goroutine and may block.
type Handler interface {
	HandleFrame(frame []byte)
	HandleStatus(state domain.LinkState, err error)
}

// Options configures the link.
type Options struct {
	URL              string
	HandshakeTimeout time.Duration
	PingInterval     time.Duration
	ReadTimeout      time.Duration
}

func (o Options) withDefaults() Options {
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = defaultHandshakeTimeout
	}
	if o.PingInterval <= 0 {
		o.PingInterval = defaultPingInterval
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = defaultReadTimeout
	}
	return o
}

// Gateway handles the game server WebSocket connection.
// A dropped link is reported and left closed: reconnecting is a user action.
type Gateway struct {
	opts    Options
	handler Handler
	metrics *infra.Metrics

	conn    *websocket.Conn
	state   domain.LinkState
	mu      sync.RWMutex
	writeMu sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	lastPingNs atomic.Int64
}

// New creates a closed gateway.
func New(opts Options, handler Handler, metrics *infra.Metrics) *Gateway {
	if metrics == nil {
		metrics = infra.NewMetrics()
	}
	return &Gateway{
		opts:    opts.withDefaults(),
		handler: handler,
		metrics: metrics,
		state:   domain.LinkClosed,
	}
}

// Connect opens the link in the background. It is a no-op while the link
// is already connecting or open.
func (g *Gateway) Connect(ctx context.Context) error {
	g.mu.Lock()
	if state := g.state; state != domain.LinkClosed {
		g.mu.Unlock()
		slog.Debug("Connect ignored", slog.String("state", state.String()))
		return nil
	}
	g.state = domain.LinkConnecting
	if g.cancel != nil {
		g.cancel()
	}
	ctx, g.cancel = context.WithCancel(ctx)
	g.mu.Unlock()

	g.handler.HandleStatus(domain.LinkConnecting, nil)

	g.wg.Add(1)
	go g.connectionLoop(ctx)

	return nil
}

// connectionLoop dials once and reads until the link drops.
// CLOSED is handed to the handler before the state is released, so a
// following Connect can never report ahead of it.
func (g *Gateway) connectionLoop(ctx context.Context) {
	defer g.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Gateway panic recovered", slog.Any("panic", r))
			g.closeConnection()
			g.handler.HandleStatus(domain.LinkClosed, domain.NewNetworkError("read", fmt.Errorf("panic: %v", r)))
			g.releaseState()
		}
	}()

	if err := g.connect(ctx); err != nil {
		slog.Warn("Gateway connection failed", slog.String("url", g.opts.URL), slog.Any("error", err))
		g.closeConnection()
		g.handler.HandleStatus(domain.LinkClosed, domain.NewNetworkError("dial", err))
		g.releaseState()
		return
	}

	g.handler.HandleStatus(domain.LinkOpen, nil)

	done := make(chan struct{})
	g.wg.Add(1)
	go g.pingLoop(ctx, done)

	err := g.readLoop(ctx)
	close(done)
	g.closeConnection()

	if ctx.Err() != nil {
		err = nil
	}
	g.handler.HandleStatus(domain.LinkClosed, err)
	g.releaseState()
}

// connect establishes the WebSocket connection
func (g *Gateway) connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: g.opts.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, g.opts.URL, nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	g.mu.Lock()
	if ctx.Err() != nil {
		g.mu.Unlock()
		conn.Close()
		return ctx.Err()
	}
	conn.SetReadLimit(maxFrameSize)
	g.conn = conn
	g.state = domain.LinkOpen
	g.mu.Unlock()

	g.metrics.IncrementConnections()
	slog.Info("🔌 Game server connected", slog.String("url", g.opts.URL))

	return nil
}

// readLoop reads frames until the connection fails or ctx is cancelled
func (g *Gateway) readLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		g.mu.RLock()
		conn := g.conn
		g.mu.RUnlock()

		if conn == nil {
			return domain.NewNetworkError("read", errors.New("connection is nil"))
		}

		// Set read deadline
		conn.SetReadDeadline(time.Now().Add(g.opts.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if errors.Is(err, websocket.ErrReadLimit) {
				slog.Warn("Frame exceeds read limit", slog.Int("limit", maxFrameSize))
			} else if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("Gateway read error", slog.Any("error", err))
			}
			return domain.NewNetworkError("read", err)
		}

		g.metrics.RecordFrameReceived()
		g.handler.HandleFrame(message)
	}
}

// pingLoop sends the application-level keepalive
func (g *Gateway) pingLoop(ctx context.Context, done <-chan struct{}) {
	defer g.wg.Done()

	ticker := time.NewTicker(g.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			if err := g.Ping(); err != nil {
				slog.Debug("Ping failed", slog.Any("error", err))
			}
		}
	}
}

// Ping sends one keepalive and remembers when it left.
func (g *Gateway) Ping() error {
	sentAt := time.Now()
	if err := g.Send(event.Ping{}); err != nil {
		return err
	}
	g.lastPingNs.Store(sentAt.UnixNano())
	return nil
}

// LastPingSent returns the send time of the latest keepalive, or the zero time.
func (g *Gateway) LastPingSent() time.Time {
	ns := g.lastPingNs.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Send encodes and writes one intent. Without an open link nothing is
// transmitted and a ValidationError wrapping ErrNotConnected is returned.
func (g *Gateway) Send(in event.Intent) error {
	if !g.IsOpen() {
		slog.Warn("Send while not connected", slog.String("type", string(in.GetType())))
		return domain.NewValidationError("connection", domain.ErrNotConnected)
	}

	data, err := event.Encode(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", in.GetType(), err)
	}

	if err := g.threadSafeWrite(websocket.TextMessage, data); err != nil {
		return domain.NewNetworkError("write", err)
	}

	g.metrics.RecordFrameSent()
	return nil
}

// threadSafeWrite sends a message to the WebSocket connection in a thread-safe manner
func (g *Gateway) threadSafeWrite(messageType int, data []byte) error {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()

	g.mu.RLock()
	conn := g.conn
	g.mu.RUnlock()

	if conn == nil {
		return errors.New("connection is nil")
	}

	return conn.WriteMessage(messageType, data)
}

// closeConnection safely closes the WebSocket connection. The state is left
// alone until releaseState.
func (g *Gateway) closeConnection() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.conn != nil {
		g.conn.Close()
		g.conn = nil
		g.metrics.DecrementConnections()
	}
}

// releaseState marks the link closed so Connect may dial again.
func (g *Gateway) releaseState() {
	g.mu.Lock()
	g.state = domain.LinkClosed
	g.mu.Unlock()
}

// Close tears down the link and waits for its goroutines.
func (g *Gateway) Close() {
	g.mu.RLock()
	cancel := g.cancel
	g.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	g.closeConnection()
	g.wg.Wait()
	g.releaseState()
	slog.Info("Game server disconnected")
}

// State returns the current link state.
func (g *Gateway) State() domain.LinkState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// IsOpen reports whether frames can be sent.
func (g *Gateway) IsOpen() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state == domain.LinkOpen && g.conn != nil
}

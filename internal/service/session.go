package service

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/edward362/ENPC-TRADING-GAME/internal/domain"
	"github.com/edward362/ENPC-TRADING-GAME/internal/event"
)

const defaultPlayerName = "Player"

// Sender transmits outbound intents over the game link.
type Sender interface {
	Send(in event.Intent) error
	IsOpen() bool
}

// screenTransitions lists the only screen changes a lifecycle message may cause.
// Every entry moves forward or stays put.
var screenTransitions = map[domain.Screen]map[event.Type]domain.Screen{
	domain.ScreenSetup: {
		event.TypeLobbyState:  domain.ScreenLobby,
		event.TypeGameStarted: domain.ScreenTrading,
	},
	domain.ScreenLobby: {
		event.TypeLobbyState:  domain.ScreenLobby,
		event.TypeGameStarted: domain.ScreenTrading,
	},
	domain.ScreenTrading: {
		event.TypeLobbyState:  domain.ScreenTrading,
		event.TypeGameStarted: domain.ScreenTrading,
	},
}

// SessionMachine owns the Session. Inbound handlers are called from the
// sequencer goroutine; the mutex only guards external reads.
type SessionMachine struct {
	mu      sync.RWMutex
	session domain.Session
	sender  Sender

	defaultName  string
	defaultRules domain.Rules
}

// NewSessionMachine creates a machine on the Setup screen.
func NewSessionMachine(sender Sender, defaultName string, defaultRules domain.Rules) *SessionMachine {
	if defaultName == "" {
		defaultName = defaultPlayerName
	}
	return &SessionMachine{
		sender:       sender,
		defaultName:  defaultName,
		defaultRules: defaultRules,
	}
}

// advance applies the transition table for one lifecycle message.
// Must be called with lock held
func (m *SessionMachine) advance(t event.Type) {
	from := m.session.Screen
	to, ok := screenTransitions[from][t]
	if !ok || to == from {
		return
	}
	m.session.Screen = to
	slog.Info("Screen transitioned",
		slog.String("from", from.String()),
		slog.String("to", to.String()),
		slog.String("event", string(t)),
	)
}

// OnLink tracks the transport status. An Open link starts a new logical
// session: identity, lobby and screen are cleared.
func (m *SessionMachine) OnLink(state domain.LinkState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch state {
	case domain.LinkOpen:
		m.session = domain.Session{Connection: domain.Connected}
	case domain.LinkClosed:
		m.session.Connection = domain.Disconnected
	}
}

// OnHello stores the identity assigned by the server.
func (m *SessionMachine) OnHello(e *event.Hello) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session.UserID = e.UserID
}

// OnInviteCode stores the lobby created by this client.
func (m *SessionMachine) OnInviteCode(e *event.InviteCode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session.LobbyID = e.LobbyID
	m.session.InviteURL = e.InviteURL
}

// OnLobbyState applies a full lobby snapshot and recomputes IsHost.
func (m *SessionMachine) OnLobbyState(e *event.LobbyState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.advance(event.TypeLobbyState)

	s := &m.session
	s.LobbyID = e.LobbyID
	s.LobbyStatus = e.Status
	s.HostID = e.HostID
	s.Rules = e.Rules
	s.Players = append([]domain.Player(nil), e.Players...)
	s.Seed = e.Seed
	s.IsHost = s.UserID != "" && s.UserID == e.HostID
}

// OnGameStarted moves to Trading regardless of the current screen.
func (m *SessionMachine) OnGameStarted(e *event.GameStarted) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.advance(event.TypeGameStarted)
	m.session.LobbyStatus = domain.LobbyRunning
	m.session.StartTs = e.StartTs
	m.session.EndTs = e.EndTs
}

// OnGameEnded marks the lobby ended. The screen does not change.
func (m *SessionMachine) OnGameEnded(*event.GameEnded) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session.LobbyStatus = domain.LobbyEnded
	m.session.RemainingSec = 0
}

// OnTick updates the countdown.
func (m *SessionMachine) OnTick(remainingSec int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session.RemainingSec = remainingSec
}

// Snapshot returns a copy of the session.
func (m *SessionMachine) Snapshot() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.session
	s.Players = append([]domain.Player(nil), m.session.Players...)
	return s
}

func (m *SessionMachine) requireOpen() error {
	if !m.sender.IsOpen() {
		return domain.NewValidationError("connection", domain.ErrNotConnected)
	}
	return nil
}

// CreateLobby asks the server for a new lobby. Empty name and zero rule
// fields fall back to the configured defaults.
func (m *SessionMachine) CreateLobby(name string, rules domain.Rules) error {
	if err := m.requireOpen(); err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = m.defaultName
	}
	rules = rules.WithDefaults(m.defaultRules)

	return m.sender.Send(event.CreateLobby{Name: name, Rules: event.NewRulesPayload(rules)})
}

// JoinLobby joins by invite code. The code is trimmed and upper-cased.
func (m *SessionMachine) JoinLobby(lobbyID, name string) error {
	if err := m.requireOpen(); err != nil {
		return err
	}

	lobbyID = strings.ToUpper(strings.TrimSpace(lobbyID))
	if lobbyID == "" {
		return domain.NewValidationError("lobbyId", domain.ErrMissingInviteCode)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = m.defaultName
	}

	return m.sender.Send(event.JoinLobby{LobbyID: lobbyID, Name: name})
}

// SetReady toggles the local ready flag.
func (m *SessionMachine) SetReady(ready bool) error {
	if err := m.requireOpen(); err != nil {
		return err
	}
	return m.sender.Send(event.SetReady{Ready: ready})
}

// StartGame is only allowed for the host of a lobby that has not started yet.
func (m *SessionMachine) StartGame() error {
	if err := m.requireOpen(); err != nil {
		return err
	}
	if !m.Snapshot().CanStart() {
		return domain.NewValidationError("start", domain.ErrStartNotAllowed)
	}
	return m.sender.Send(event.StartGame{})
}

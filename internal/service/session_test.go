package service

import (
	"testing"

	"github.com/edward362/ENPC-TRADING-GAME/internal/domain"
	"github.com/edward362/ENPC-TRADING-GAME/internal/event"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRules = domain.Rules{
	StartingCapital: decimal.NewFromInt(100000),
	TickSeconds:     1,
	DurationSec:     300,
}

func newOpenSession(t *testing.T, userID string) (*SessionMachine, *fakeSender) {
	t.Helper()
	sender := &fakeSender{open: true}
	m := NewSessionMachine(sender, "alice", testRules)
	m.OnLink(domain.LinkOpen)
	if userID != "" {
		m.OnHello(&event.Hello{UserID: userID})
	}
	return m, sender
}

func lobbyState(hostID string, status domain.LobbyStatus) *event.LobbyState {
	return &event.LobbyState{
		LobbyID: "ABC123",
		Status:  status,
		HostID:  hostID,
		Rules:   testRules,
		Players: []domain.Player{{UserID: "U1", Name: "alice"}, {UserID: "U2", Name: "bob", Ready: true}},
	}
}

func TestSession_InitialState(t *testing.T) {
	m := NewSessionMachine(&fakeSender{}, "", testRules)
	s := m.Snapshot()

	assert.Equal(t, domain.Disconnected, s.Connection)
	assert.Equal(t, domain.ScreenSetup, s.Screen)
	assert.Empty(t, s.UserID)
	assert.False(t, s.IsHost)
}

func TestSession_HelloKeepsScreen(t *testing.T) {
	m, _ := newOpenSession(t, "U1")
	s := m.Snapshot()

	assert.Equal(t, domain.Connected, s.Connection)
	assert.Equal(t, "U1", s.UserID)
	assert.Equal(t, domain.ScreenSetup, s.Screen)
}

func TestSession_IsHostRecomputation(t *testing.T) {
	tests := []struct {
		userID   string
		status   domain.LobbyStatus
		isHost   bool
		canStart bool
	}{
		{"U1", domain.LobbyOpen, true, true},
		{"U1", domain.LobbyRunning, true, false},
		{"U1", domain.LobbyEnded, true, false},
		{"U2", domain.LobbyOpen, false, false},
		{"U2", domain.LobbyRunning, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.userID+"/"+string(tt.status), func(t *testing.T) {
			m, _ := newOpenSession(t, tt.userID)
			m.OnLobbyState(lobbyState("U1", tt.status))

			s := m.Snapshot()
			assert.Equal(t, tt.isHost, s.IsHost)
			assert.Equal(t, tt.canStart, s.CanStart())
		})
	}
}

func TestSession_HostChangeRecomputes(t *testing.T) {
	m, _ := newOpenSession(t, "U2")
	m.OnLobbyState(lobbyState("U1", domain.LobbyOpen))
	require.False(t, m.Snapshot().IsHost)

	m.OnLobbyState(lobbyState("U2", domain.LobbyOpen))
	assert.True(t, m.Snapshot().IsHost)
}

func TestSession_ScreenExclusivity(t *testing.T) {
	screens := []domain.Screen{domain.ScreenSetup, domain.ScreenLobby, domain.ScreenTrading}
	visibleCount := func(s domain.Session) int {
		n := 0
		for _, sc := range screens {
			if s.Visible(sc) {
				n++
			}
		}
		return n
	}

	tests := []struct {
		name  string
		steps []func(m *SessionMachine)
		want  domain.Screen
	}{
		{
			name:  "lobby snapshot",
			steps: []func(m *SessionMachine){func(m *SessionMachine) { m.OnLobbyState(lobbyState("U1", domain.LobbyOpen)) }},
			want:  domain.ScreenLobby,
		},
		{
			name:  "game started from setup",
			steps: []func(m *SessionMachine){func(m *SessionMachine) { m.OnGameStarted(&event.GameStarted{}) }},
			want:  domain.ScreenTrading,
		},
		{
			name: "lobby after trading stays trading",
			steps: []func(m *SessionMachine){
				func(m *SessionMachine) { m.OnLobbyState(lobbyState("U1", domain.LobbyOpen)) },
				func(m *SessionMachine) { m.OnGameStarted(&event.GameStarted{}) },
				func(m *SessionMachine) { m.OnLobbyState(lobbyState("U1", domain.LobbyRunning)) },
			},
			want: domain.ScreenTrading,
		},
		{
			name: "game ended keeps trading",
			steps: []func(m *SessionMachine){
				func(m *SessionMachine) { m.OnGameStarted(&event.GameStarted{}) },
				func(m *SessionMachine) { m.OnGameEnded(&event.GameEnded{}) },
			},
			want: domain.ScreenTrading,
		},
		{
			name: "game ended in lobby keeps lobby",
			steps: []func(m *SessionMachine){
				func(m *SessionMachine) { m.OnLobbyState(lobbyState("U1", domain.LobbyOpen)) },
				func(m *SessionMachine) { m.OnGameEnded(&event.GameEnded{}) },
			},
			want: domain.ScreenLobby,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newOpenSession(t, "U1")
			for _, step := range tt.steps {
				step(m)
				assert.Equal(t, 1, visibleCount(m.Snapshot()))
			}
			assert.True(t, m.Snapshot().Visible(tt.want))
		})
	}
}

func TestSession_LobbyAndGameFields(t *testing.T) {
	m, _ := newOpenSession(t, "U1")

	m.OnInviteCode(&event.InviteCode{LobbyID: "ABC123", InviteURL: "http://host/?lobby=ABC123"})
	ls := lobbyState("U1", domain.LobbyOpen)
	ls.Seed = 7
	m.OnLobbyState(ls)

	s := m.Snapshot()
	assert.Equal(t, "ABC123", s.LobbyID)
	assert.Equal(t, "http://host/?lobby=ABC123", s.InviteURL)
	assert.Equal(t, int64(7), s.Seed)
	assert.Len(t, s.Players, 2)
	assert.True(t, s.Rules.StartingCapital.Equal(decimal.NewFromInt(100000)))

	m.OnGameStarted(&event.GameStarted{StartTs: 10, EndTs: 310})
	m.OnTick(299)
	s = m.Snapshot()
	assert.Equal(t, domain.LobbyRunning, s.LobbyStatus)
	assert.Equal(t, 310.0, s.EndTs)
	assert.Equal(t, 299, s.RemainingSec)

	m.OnGameEnded(&event.GameEnded{LobbyID: "ABC123"})
	s = m.Snapshot()
	assert.Equal(t, domain.LobbyEnded, s.LobbyStatus)
	assert.Equal(t, 0, s.RemainingSec)
}

func TestSession_LinkLifecycle(t *testing.T) {
	m, _ := newOpenSession(t, "U1")
	m.OnLobbyState(lobbyState("U1", domain.LobbyOpen))

	m.OnLink(domain.LinkClosed)
	s := m.Snapshot()
	assert.Equal(t, domain.Disconnected, s.Connection)
	assert.Equal(t, domain.ScreenLobby, s.Screen)

	// A fresh connection is a new logical session.
	m.OnLink(domain.LinkOpen)
	s = m.Snapshot()
	assert.Equal(t, domain.Connected, s.Connection)
	assert.Empty(t, s.UserID)
	assert.Empty(t, s.LobbyID)
	assert.Equal(t, domain.ScreenSetup, s.Screen)
}

func TestSession_SnapshotIsCopy(t *testing.T) {
	m, _ := newOpenSession(t, "U1")
	m.OnLobbyState(lobbyState("U1", domain.LobbyOpen))

	s := m.Snapshot()
	s.Players[0].Name = "mallory"

	assert.Equal(t, "alice", m.Snapshot().Players[0].Name)
}

func TestSession_CreateLobby(t *testing.T) {
	m, sender := newOpenSession(t, "U1")

	require.NoError(t, m.CreateLobby("  ", domain.Rules{DurationSec: 120}))

	sent := sender.Sent()
	require.Len(t, sent, 1)
	create, ok := sent[0].(event.CreateLobby)
	require.True(t, ok)
	assert.Equal(t, "alice", create.Name)
	assert.Equal(t, event.RulesPayload{StartingCapital: 100000, TickSeconds: 1, DurationSec: 120}, create.Rules)
}

func TestSession_JoinLobby(t *testing.T) {
	m, sender := newOpenSession(t, "U1")

	require.NoError(t, m.JoinLobby("  abc123 ", "bob"))
	assert.Equal(t, []event.Intent{event.JoinLobby{LobbyID: "ABC123", Name: "bob"}}, sender.Sent())

	err := m.JoinLobby("   ", "bob")
	assert.ErrorIs(t, err, domain.ErrMissingInviteCode)
	assert.Len(t, sender.Sent(), 1)
}

func TestSession_ActionsRequireConnection(t *testing.T) {
	sender := &fakeSender{}
	m := NewSessionMachine(sender, "alice", testRules)

	actions := map[string]func() error{
		"create": func() error { return m.CreateLobby("alice", domain.Rules{}) },
		"join":   func() error { return m.JoinLobby("ABC123", "alice") },
		"ready":  func() error { return m.SetReady(true) },
		"start":  func() error { return m.StartGame() },
	}

	for name, action := range actions {
		t.Run(name, func(t *testing.T) {
			err := action()

			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.ErrorIs(t, err, domain.ErrNotConnected)
		})
	}
	assert.Empty(t, sender.Sent())
}

func TestSession_StartGame(t *testing.T) {
	t.Run("host in lobby", func(t *testing.T) {
		m, sender := newOpenSession(t, "U1")
		m.OnLobbyState(lobbyState("U1", domain.LobbyOpen))

		require.NoError(t, m.StartGame())
		assert.Equal(t, []event.Intent{event.StartGame{}}, sender.Sent())
	})

	t.Run("not host", func(t *testing.T) {
		m, sender := newOpenSession(t, "U2")
		m.OnLobbyState(lobbyState("U1", domain.LobbyOpen))

		assert.ErrorIs(t, m.StartGame(), domain.ErrStartNotAllowed)
		assert.Empty(t, sender.Sent())
	})

	t.Run("already running", func(t *testing.T) {
		m, sender := newOpenSession(t, "U1")
		m.OnLobbyState(lobbyState("U1", domain.LobbyRunning))

		assert.ErrorIs(t, m.StartGame(), domain.ErrStartNotAllowed)
		assert.Empty(t, sender.Sent())
	})
}

func TestSession_SetReady(t *testing.T) {
	m, sender := newOpenSession(t, "U1")

	require.NoError(t, m.SetReady(true))
	require.NoError(t, m.SetReady(false))
	assert.Equal(t, []event.Intent{event.SetReady{Ready: true}, event.SetReady{Ready: false}}, sender.Sent())
}

package domain

import "github.com/shopspring/decimal"

// LinkState is the state of the single game connection.
type LinkState int

const (
	LinkClosed LinkState = iota
	LinkConnecting
	LinkOpen
)

// String returns the string representation of LinkState
func (l LinkState) String() string {
	switch l {
	case LinkConnecting:
		return "CONNECTING"
	case LinkOpen:
		return "OPEN"
	default:
		return "CLOSED"
	}
}

// ConnectionStatus is the session-level view of the link.
type ConnectionStatus int

const (
	Disconnected ConnectionStatus = iota
	Connected
)

func (c ConnectionStatus) String() string {
	if c == Connected {
		return "connected"
	}
	return "disconnected"
}

// Screen is the single visible screen. Screens only ever move forward.
type Screen int

const (
	ScreenSetup Screen = iota
	ScreenLobby
	ScreenTrading
)

func (s Screen) String() string {
	switch s {
	case ScreenLobby:
		return "lobby"
	case ScreenTrading:
		return "trading"
	default:
		return "setup"
	}
}

// LobbyStatus mirrors the server lobby lifecycle.
type LobbyStatus string

const (
	LobbyOpen    LobbyStatus = "LOBBY"
	LobbyRunning LobbyStatus = "RUNNING"
	LobbyEnded   LobbyStatus = "ENDED"
)

// Rules are the game parameters chosen by the lobby host.
type Rules struct {
	StartingCapital decimal.Decimal `json:"startingCapital" yaml:"starting_capital"`
	TickSeconds     int             `json:"tickSeconds" yaml:"tick_seconds"`
	DurationSec     int             `json:"durationSec" yaml:"duration_sec"`
}

// WithDefaults fills zero fields from def.
func (r Rules) WithDefaults(def Rules) Rules {
	if r.StartingCapital.IsZero() {
		r.StartingCapital = def.StartingCapital
	}
	if r.TickSeconds == 0 {
		r.TickSeconds = def.TickSeconds
	}
	if r.DurationSec == 0 {
		r.DurationSec = def.DurationSec
	}
	return r
}

// Player is one roster entry of a lobby snapshot.
type Player struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
}

// Session is the client view of the current logical game session.
// Empty UserID / LobbyID mean "not assigned yet".
type Session struct {
	Connection  ConnectionStatus
	UserID      string
	LobbyID     string
	InviteURL   string
	HostID      string
	IsHost      bool
	Screen      Screen
	LobbyStatus LobbyStatus
	Rules       Rules
	Players     []Player
	Seed        int64

	// Trading clock
	StartTs      float64
	EndTs        float64
	RemainingSec int
}

// CanStart reports whether the start action is enabled.
func (s Session) CanStart() bool {
	return s.IsHost && s.LobbyStatus == LobbyOpen
}

// Visible reports whether screen is the one currently shown.
func (s Session) Visible(screen Screen) bool {
	return s.Screen == screen
}

// AllReady reports whether every player in the roster is ready.
func (s Session) AllReady() bool {
	if len(s.Players) == 0 {
		return false
	}
	for _, p := range s.Players {
		if !p.Ready {
			return false
		}
	}
	return true
}

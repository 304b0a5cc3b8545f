// Package event defines the tagged JSON messages exchanged with the game server.
package event

import (
	"github.com/edward362/ENPC-TRADING-GAME/internal/domain"
)

// Type is the value of the "type" discriminator on every frame.
type Type string

// Inbound (server -> client)
const (
	TypeHello         Type = "HELLO"
	TypeInviteCode    Type = "INVITE_CODE"
	TypeLobbyState    Type = "LOBBY_STATE"
	TypeGameStarted   Type = "GAME_STARTED"
	TypeGameEnded     Type = "GAME_ENDED"
	TypeTick          Type = "TICK"
	TypePortfolio     Type = "PORTFOLIO"
	TypeLeaderboard   Type = "LEADERBOARD"
	TypeOrderAccepted Type = "ORDER_ACCEPTED"
	TypeOrderReject   Type = "ORDER_REJECT"
	TypeError         Type = "ERROR"
	TypePong          Type = "PONG"
)

// Outbound (client -> server)
const (
	TypeCreateLobby Type = "CREATE_LOBBY"
	TypeJoinLobby   Type = "JOIN_LOBBY"
	TypeSetReady    Type = "SET_READY"
	TypeStartGame   Type = "START_GAME"
	TypeOrder       Type = "ORDER"
	TypePing        Type = "PING"
)

// Event is a decoded inbound message.
type Event interface {
	GetType() Type
}

// Intent is an outbound message.
type Intent interface {
	GetType() Type
}

// Hello assigns the connection identity.
type Hello struct {
	UserID string `json:"userId"`
}

// InviteCode is sent to the creator of a lobby.
type InviteCode struct {
	LobbyID   string `json:"lobbyId"`
	InviteURL string `json:"inviteUrl,omitempty"`
}

// LobbyState is a full lobby snapshot.
type LobbyState struct {
	LobbyID string             `json:"lobbyId"`
	Status  domain.LobbyStatus `json:"status"`
	HostID  string             `json:"hostId"`
	Rules   domain.Rules       `json:"rules"`
	Players []domain.Player    `json:"players"`
	Seed    int64              `json:"seed,omitempty"`
}

// GameStarted switches every client to trading.
type GameStarted struct {
	StartTs float64 `json:"startTs,omitempty"`
	EndTs   float64 `json:"endTs,omitempty"`
}

// GameEnded closes the trading session.
type GameEnded struct {
	LobbyID string `json:"lobbyId,omitempty"`
}

// Tick is one price snapshot.
type Tick struct {
	Ts           float64            `json:"ts,omitempty"`
	Prices       map[string]float64 `json:"prices"`
	RemainingSec int                `json:"remainingSec"`
}

// Portfolio replaces the local portfolio view.
type Portfolio struct {
	domain.PortfolioSnapshot
}

// Leaderboard replaces the ranking view.
type Leaderboard struct {
	Rows []domain.LeaderboardEntry `json:"rows"`
}

// OrderAccepted acknowledges an executed order.
type OrderAccepted struct {
	domain.OrderFill
}

// OrderReject refuses an order.
type OrderReject struct {
	Reason string `json:"reason"`
}

// Error is a lifecycle refusal such as lobby_not_found or not_host.
type Error struct {
	Code string `json:"code"`
}

// Pong answers a Ping.
type Pong struct {
	Ts float64 `json:"ts"`
}

// Unknown is returned for tags this client does not handle.
type Unknown struct {
	Tag Type
}

func (Hello) GetType() Type         { return TypeHello }
func (InviteCode) GetType() Type    { return TypeInviteCode }
func (LobbyState) GetType() Type    { return TypeLobbyState }
func (GameStarted) GetType() Type   { return TypeGameStarted }
func (GameEnded) GetType() Type     { return TypeGameEnded }
func (Tick) GetType() Type          { return TypeTick }
func (Portfolio) GetType() Type     { return TypePortfolio }
func (Leaderboard) GetType() Type   { return TypeLeaderboard }
func (OrderAccepted) GetType() Type { return TypeOrderAccepted }
func (OrderReject) GetType() Type   { return TypeOrderReject }
func (Error) GetType() Type         { return TypeError }
func (Pong) GetType() Type          { return TypePong }
func (u Unknown) GetType() Type     { return u.Tag }

// RulesPayload is the wire form of lobby rules sent by the client.
type RulesPayload struct {
	StartingCapital float64 `json:"startingCapital"`
	TickSeconds     int     `json:"tickSeconds"`
	DurationSec     int     `json:"durationSec"`
}

// NewRulesPayload converts domain rules for transmission.
func NewRulesPayload(r domain.Rules) RulesPayload {
	return RulesPayload{
		StartingCapital: r.StartingCapital.InexactFloat64(),
		TickSeconds:     r.TickSeconds,
		DurationSec:     r.DurationSec,
	}
}

// CreateLobby asks the server for a new lobby hosted by the sender.
type CreateLobby struct {
	Name  string       `json:"name"`
	Rules RulesPayload `json:"rules"`
}

// JoinLobby joins an existing lobby by invite code.
type JoinLobby struct {
	LobbyID string `json:"lobbyId"`
	Name    string `json:"name"`
}

// SetReady toggles the ready flag in the lobby.
type SetReady struct {
	Ready bool `json:"ready"`
}

// StartGame is sent by the host.
type StartGame struct{}

// Order is a market order.
type Order struct {
	Asset string      `json:"asset"`
	Side  domain.Side `json:"side"`
	Qty   int         `json:"qty"`
}

// Ping is the keepalive request.
type Ping struct{}

func (CreateLobby) GetType() Type { return TypeCreateLobby }
func (JoinLobby) GetType() Type   { return TypeJoinLobby }
func (SetReady) GetType() Type    { return TypeSetReady }
func (StartGame) GetType() Type   { return TypeStartGame }
func (Order) GetType() Type       { return TypeOrder }
func (Ping) GetType() Type        { return TypePing }

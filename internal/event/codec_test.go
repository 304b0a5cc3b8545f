package event

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/edward362/ENPC-TRADING-GAME/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_LobbyState(t *testing.T) {
	frame := []byte(`{"type":"LOBBY_STATE","lobbyId":"AB12","status":"LOBBY","hostId":"U1",
		"rules":{"startingCapital":10000,"tickSeconds":1,"durationSec":300},
		"players":[{"userId":"U1","name":"alice","ready":true},{"userId":"U2","name":"bob","ready":false}],
		"seed":42}`)

	ev, err := Decode(frame)
	require.NoError(t, err)

	lobby, ok := ev.(*LobbyState)
	require.True(t, ok, "got %T", ev)
	assert.Equal(t, "AB12", lobby.LobbyID)
	assert.Equal(t, domain.LobbyOpen, lobby.Status)
	assert.Equal(t, "U1", lobby.HostID)
	assert.True(t, lobby.Rules.StartingCapital.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, 300, lobby.Rules.DurationSec)
	require.Len(t, lobby.Players, 2)
	assert.Equal(t, "bob", lobby.Players[1].Name)
	assert.EqualValues(t, 42, lobby.Seed)
}

func TestDecode_Tick(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"TICK","ts":1700000000.5,"prices":{"GOLD":101.25,"OIL":49.5},"remainingSec":120}`))
	require.NoError(t, err)

	tick, ok := ev.(*Tick)
	require.True(t, ok)
	assert.Equal(t, 101.25, tick.Prices["GOLD"])
	assert.Equal(t, 120, tick.RemainingSec)
}

func TestDecode_PortfolioAndLeaderboard(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"PORTFOLIO","cash":9000,"equity":10100.5,"uPnL":100.5,"realizedPnL":0,
		"positions":[{"asset":"GOLD","qty":10,"avgPrice":100,"lastPrice":110,"marketValue":1100,"unrealizedPnL":100}],
		"trades":[{"timestamp":1.0,"asset":"OIL","openSide":"LONG","qty":5,"realizedPnL":-12.5}]}`))
	require.NoError(t, err)

	p, ok := ev.(*Portfolio)
	require.True(t, ok)
	assert.True(t, p.UnrealizedPnL.Equal(decimal.NewFromFloat(100.5)))
	require.Len(t, p.Positions, 1)
	assert.Equal(t, 10, p.Positions[0].Qty)
	require.Len(t, p.Trades, 1)
	assert.True(t, p.Trades[0].RealizedPnL.IsNegative())

	ev, err = Decode([]byte(`{"type":"LEADERBOARD","rows":[{"name":"A","equity":12000,"realizedPnL":500}]}`))
	require.NoError(t, err)
	lb, ok := ev.(*Leaderboard)
	require.True(t, ok)
	require.Len(t, lb.Rows, 1)
	assert.Equal(t, "A", lb.Rows[0].Name)
}

func TestDecode_OrderAcks(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"ORDER_ACCEPTED","asset":"GOLD","side":"BUY","qty":10,"price":101.25}`))
	require.NoError(t, err)
	acc, ok := ev.(*OrderAccepted)
	require.True(t, ok)
	assert.Equal(t, domain.SideBuy, acc.Side)
	assert.Equal(t, "BUY 10 GOLD @ 101.25", acc.String())

	ev, err = Decode([]byte(`{"type":"ORDER_REJECT","reason":"insufficient_cash"}`))
	require.NoError(t, err)
	assert.Equal(t, "insufficient_cash", ev.(*OrderReject).Reason)
}

func TestDecode_UnknownTagIsIgnored(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"CHAT","text":"hi"}`))
	require.NoError(t, err)
	assert.Equal(t, Unknown{Tag: "CHAT"}, ev)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		frame string
	}{
		{"not json", `hello`},
		{"missing type", `{"userId":"U1"}`},
		{"wrong payload shape", `{"type":"TICK","prices":[1,2,3]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.frame))
			var pe *domain.ProtocolError
			assert.True(t, errors.As(err, &pe), "expected ProtocolError, got %v", err)
		})
	}
}

func TestEncode_AddsDiscriminator(t *testing.T) {
	tests := []struct {
		name   string
		intent Intent
		want   map[string]any
	}{
		{"order", Order{Asset: "GOLD", Side: domain.SideBuy, Qty: 10},
			map[string]any{"type": "ORDER", "asset": "GOLD", "side": "BUY", "qty": float64(10)}},
		{"start game", StartGame{}, map[string]any{"type": "START_GAME"}},
		{"set ready", SetReady{Ready: true}, map[string]any{"type": "SET_READY", "ready": true}},
		{"join", JoinLobby{LobbyID: "AB12", Name: "bob"},
			map[string]any{"type": "JOIN_LOBBY", "lobbyId": "AB12", "name": "bob"}},
		{"ping", Ping{}, map[string]any{"type": "PING"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Encode(tt.intent)
			require.NoError(t, err)

			var got map[string]any
			require.NoError(t, json.Unmarshal(b, &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode_CreateLobbyRules(t *testing.T) {
	rules := domain.Rules{StartingCapital: decimal.NewFromInt(25000), TickSeconds: 2, DurationSec: 600}

	b, err := Encode(CreateLobby{Name: "alice", Rules: NewRulesPayload(rules)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"CREATE_LOBBY","name":"alice","rules":{"startingCapital":25000,"tickSeconds":2,"durationSec":600}}`, string(b))
}

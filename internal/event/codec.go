package event

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/edward362/ENPC-TRADING-GAME/internal/domain"
)

var errMissingType = errors.New("missing type discriminator")

// decoders maps each handled tag to a constructor for its payload.
var decoders = map[Type]func() Event{
	TypeHello:         func() Event { return &Hello{} },
	TypeInviteCode:    func() Event { return &InviteCode{} },
	TypeLobbyState:    func() Event { return &LobbyState{} },
	TypeGameStarted:   func() Event { return &GameStarted{} },
	TypeGameEnded:     func() Event { return &GameEnded{} },
	TypeTick:          func() Event { return &Tick{} },
	TypePortfolio:     func() Event { return &Portfolio{} },
	TypeLeaderboard:   func() Event { return &Leaderboard{} },
	TypeOrderAccepted: func() Event { return &OrderAccepted{} },
	TypeOrderReject:   func() Event { return &OrderReject{} },
	TypeError:         func() Event { return &Error{} },
	TypePong:          func() Event { return &Pong{} },
}

// Decode parses one frame. Unrecognized tags decode to Unknown without error.
// Malformed frames return a *domain.ProtocolError.
func Decode(frame []byte) (Event, error) {
	var envelope struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(frame, &envelope); err != nil {
		return nil, &domain.ProtocolError{Frame: frame, Err: err}
	}
	if envelope.Type == "" {
		return nil, &domain.ProtocolError{Frame: frame, Err: errMissingType}
	}

	newEvent, ok := decoders[envelope.Type]
	if !ok {
		return Unknown{Tag: envelope.Type}, nil
	}

	ev := newEvent()
	if err := json.Unmarshal(frame, ev); err != nil {
		return nil, &domain.ProtocolError{Frame: frame, Err: fmt.Errorf("%s payload: %w", envelope.Type, err)}
	}
	return ev, nil
}

// Encode serializes an outbound intent with its "type" discriminator.
func Encode(in Intent) ([]byte, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}

	tag, err := json.Marshal(in.GetType())
	if err != nil {
		return nil, err
	}
	fields["type"] = tag

	return json.Marshal(fields)
}

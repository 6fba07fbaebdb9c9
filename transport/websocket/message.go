package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-board/internal/presenter"
)

const (
	actionGameState   = "game:state"
	actionTileClick   = "tile:click"
	actionGameRestart = "game:restart"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	Cell *int `json:"cell,omitempty"`
}

type ResponsePayload struct {
	View  *presenter.View `json:"view,omitempty"`
	Error string          `json:"error,omitempty"`
}

func newMessage(action string, payload ResponsePayload) (*Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	return &Message{Action: action, Payload: body}, nil
}

func (that *Message) decodePayload() (RequestPayload, error) {
	var payload RequestPayload
	if len(that.Payload) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(that.Payload, &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return payload, nil
}

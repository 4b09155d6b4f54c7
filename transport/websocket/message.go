package websocket

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RoomPayload is sent with the join and leave events.
type RoomPayload struct {
	RoomCode string `json:"roomCode"`
	Username string `json:"username"`
}

type TurnPayload struct {
	RoomCode string `json:"roomCode"`
	X        *int   `json:"x"`
	Y        *int   `json:"y"`
	Username string `json:"username,omitempty"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

func encode(action string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	data, err := json.Marshal(Message{Action: action, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	return data, nil
}

// decodeRoomCode accepts either a bare JSON string or an object with a roomCode field.
func decodeRoomCode(raw json.RawMessage) (string, error) {
	var code string
	if err := json.Unmarshal(raw, &code); err == nil {
		return strings.TrimSpace(code), nil
	}

	var payload RoomPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("failed to unmarshal room code: %w", err)
	}

	return strings.TrimSpace(payload.RoomCode), nil
}

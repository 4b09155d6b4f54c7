package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/usecase"
)

var (
	ErrRoomCodeRequired = errors.New("roomCode is required")
	ErrUsernameRequired = errors.New("username is required")
	ErrCellRequired     = errors.New("x and y are required")
)

func (that *Server) handleJoinMember(ctx context.Context, client *Client, msg *Message) error {
	payload, err := decodeRoomPayload(msg.Payload, true)
	if err != nil {
		return err
	}

	return that.coordinator.JoinMember(ctx, client.id, payload.RoomCode, payload.Username)
}

func (that *Server) handleJoinMaster(ctx context.Context, client *Client, msg *Message) error {
	payload, err := decodeRoomPayload(msg.Payload, true)
	if err != nil {
		return err
	}

	return that.coordinator.JoinMaster(ctx, client.id, payload.RoomCode, payload.Username)
}

func (that *Server) handleLeaveMember(ctx context.Context, client *Client, msg *Message) error {
	payload, err := decodeRoomPayload(msg.Payload, true)
	if err != nil {
		return err
	}

	return that.coordinator.LeaveMember(ctx, client.id, payload.RoomCode, payload.Username)
}

func (that *Server) handleLeaveMaster(ctx context.Context, client *Client, msg *Message) error {
	payload, err := decodeRoomPayload(msg.Payload, false)
	if err != nil {
		return err
	}

	return that.coordinator.LeaveMaster(ctx, client.id, payload.RoomCode)
}

func (that *Server) handleRefreshRoom(ctx context.Context, _ *Client, _ *Message) error {
	return that.coordinator.Refresh(ctx)
}

func (that *Server) handleStartGame(ctx context.Context, _ *Client, msg *Message) error {
	roomCode, err := decodeRoomCode(msg.Payload)
	if err != nil {
		return err
	}

	if roomCode == "" {
		return ErrRoomCodeRequired
	}

	return that.coordinator.StartGame(ctx, roomCode)
}

func (that *Server) handleLeaveGame(ctx context.Context, _ *Client, msg *Message) error {
	roomCode, err := decodeRoomCode(msg.Payload)
	if err != nil {
		return err
	}

	if roomCode == "" {
		return ErrRoomCodeRequired
	}

	return that.coordinator.LeaveGame(ctx, roomCode)
}

func (that *Server) handleTurn(ctx context.Context, _ *Client, msg *Message) error {
	var payload TurnPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if strings.TrimSpace(payload.RoomCode) == "" {
		return ErrRoomCodeRequired
	}

	if payload.X == nil || payload.Y == nil {
		return ErrCellRequired
	}

	return that.coordinator.Turn(ctx, strings.TrimSpace(payload.RoomCode), usecase.Move{
		X:        *payload.X,
		Y:        *payload.Y,
		Username: payload.Username,
	})
}

func decodeRoomPayload(raw json.RawMessage, usernameRequired bool) (*RoomPayload, error) {
	var payload RoomPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	payload.RoomCode = strings.TrimSpace(payload.RoomCode)
	payload.Username = strings.TrimSpace(payload.Username)

	if payload.RoomCode == "" {
		return nil, ErrRoomCodeRequired
	}

	if usernameRequired && payload.Username == "" {
		return nil, ErrUsernameRequired
	}

	return &payload, nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

const (
	ActionBroadcastRooms = "broadcast-rooms"
	ActionBroadcastGame  = "broadcast-game"
)

// Channels is what the coordinator needs from the connection layer.
type Channels interface {
	Join(ctx context.Context, clientID, channel string) error
	Leave(ctx context.Context, clientID, channel string) error
	Active() []string

	Broadcast(channel, action string, payload any) error
	BroadcastAll(action string, payload any) error
}

// Coordinator turns inbound events into registry and store calls and
// broadcasts the resulting snapshots. Events are handled one at a time.
type Coordinator struct {
	mu sync.Mutex

	logger   *slog.Logger
	rooms    *RoomRegistry
	games    *GameStore
	channels Channels
}

func NewCoordinator(logger *slog.Logger, rooms *RoomRegistry, games *GameStore, channels Channels) *Coordinator {
	return &Coordinator{
		logger:   logger.With("component", "coordinator"),
		rooms:    rooms,
		games:    games,
		channels: channels,
	}
}

func (that *Coordinator) JoinMember(ctx context.Context, clientID, roomCode, username string) error {
	return that.join(ctx, clientID, roomCode, func() error {
		return that.rooms.AddMember(ctx, roomCode, username)
	})
}

func (that *Coordinator) JoinMaster(ctx context.Context, clientID, roomCode, username string) error {
	return that.join(ctx, clientID, roomCode, func() error {
		return that.rooms.SetMaster(ctx, roomCode, username)
	})
}

func (that *Coordinator) LeaveMember(ctx context.Context, clientID, roomCode, username string) error {
	return that.leave(ctx, clientID, roomCode, func() error {
		return that.rooms.RemoveMember(ctx, roomCode, username)
	})
}

func (that *Coordinator) LeaveMaster(ctx context.Context, clientID, roomCode string) error {
	return that.leave(ctx, clientID, roomCode, func() error {
		return that.rooms.ClearMaster(ctx, roomCode)
	})
}

// Refresh re-sends the all-rooms snapshot to everyone.
func (that *Coordinator) Refresh(ctx context.Context) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.broadcastRooms(ctx)
}

// Disconnected is called after the connection layer dropped a client from its channels.
func (that *Coordinator) Disconnected(ctx context.Context, clientID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.logger.Info("client disconnected", "clientID", clientID)

	return that.broadcastRooms(ctx)
}

func (that *Coordinator) StartGame(ctx context.Context, roomCode string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	pool, err := that.rooms.Pool(ctx, roomCode)
	if err != nil {
		return fmt.Errorf("failed to collect players: %w", err)
	}

	session, err := that.games.StartGame(ctx, roomCode, pool)
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	return that.broadcastGame(roomCode, session)
}

func (that *Coordinator) LeaveGame(ctx context.Context, roomCode string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.games.EndGame(ctx, roomCode); err != nil {
		return fmt.Errorf("failed to end game: %w", err)
	}

	return that.broadcastGame(roomCode, nil)
}

// Turn applies a move. A room without a session is a silent no-op; rejected
// moves are returned to the caller and nothing is broadcast.
func (that *Coordinator) Turn(ctx context.Context, roomCode string, move Move) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "Turn", "roomCode", roomCode)

	session, err := that.games.ApplyTurn(ctx, roomCode, move)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		log.Info("turn ignored, no active game")
		return nil
	}

	if err != nil {
		log.Warn("turn rejected", "x", move.X, "y", move.Y, "error", err)
		return err
	}

	if session.Finished {
		log.Info("game finished", "winner", session.Winner, "draw", session.Draw)
	}

	return that.broadcastGame(roomCode, session)
}

// Rooms returns the all-rooms snapshot without broadcasting it.
func (that *Coordinator) Rooms(ctx context.Context) ([]entity.RoomSnapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.rooms.SnapshotAll(ctx, that.channels.Active())
}

// Game returns the room's session; ErrSessionNotFound when there is none.
func (that *Coordinator) Game(ctx context.Context, roomCode string) (*entity.GameSession, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.games.Game(ctx, roomCode)
}

// join subscribes the client first so membership only changes once the channel operation succeeded.
func (that *Coordinator) join(ctx context.Context, clientID, roomCode string, mutate func() error) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.channels.Join(ctx, clientID, roomCode); err != nil {
		return fmt.Errorf("failed to join channel: %w", err)
	}

	if err := mutate(); err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	return that.broadcastRooms(ctx)
}

func (that *Coordinator) leave(ctx context.Context, clientID, roomCode string, mutate func() error) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.channels.Leave(ctx, clientID, roomCode); err != nil {
		return fmt.Errorf("failed to leave channel: %w", err)
	}

	if err := mutate(); err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}

	return that.broadcastRooms(ctx)
}

func (that *Coordinator) broadcastRooms(ctx context.Context) error {
	snapshots, err := that.rooms.SnapshotAll(ctx, that.channels.Active())
	if err != nil {
		return fmt.Errorf("failed to snapshot rooms: %w", err)
	}

	if err = that.channels.BroadcastAll(ActionBroadcastRooms, snapshots); err != nil {
		return fmt.Errorf("failed to broadcast rooms: %w", err)
	}

	return nil
}

func (that *Coordinator) broadcastGame(roomCode string, session *entity.GameSession) error {
	if err := that.channels.Broadcast(roomCode, ActionBroadcastGame, session); err != nil {
		return fmt.Errorf("failed to broadcast game: %w", err)
	}

	return nil
}

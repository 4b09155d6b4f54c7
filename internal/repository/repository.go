package repository

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

type RoomRepository interface {
	Get(ctx context.Context, roomCode string) (*entity.RoomMembership, error)
	Save(ctx context.Context, room *entity.RoomMembership) error
	Delete(ctx context.Context, roomCode string) error
}

type GameRepository interface {
	Get(ctx context.Context, roomCode string) (*entity.GameSession, error)
	Save(ctx context.Context, session *entity.GameSession) error
	Delete(ctx context.Context, roomCode string) error
}

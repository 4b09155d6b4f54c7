package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

type dbGame struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewGameRepository stores sessions as JSON under "<prefix>game:<code>".
func NewGameRepository(client *redis.Client, prefix string, ttl time.Duration) GameRepository {
	return &dbGame{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (that *dbGame) key(roomCode string) string {
	return that.prefix + "game:" + roomCode
}

func (that *dbGame) Get(ctx context.Context, roomCode string) (*entity.GameSession, error) {
	response, err := that.client.Get(ctx, that.key(roomCode)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by room code: %w", err)
	}

	var session entity.GameSession
	if err = json.Unmarshal([]byte(response), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &session, nil
}

func (that *dbGame) Save(ctx context.Context, session *entity.GameSession) error {
	gameJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	if err = that.client.Set(ctx, that.key(session.RoomCode), gameJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *dbGame) Delete(ctx context.Context, roomCode string) error {
	if err := that.client.Del(ctx, that.key(roomCode)).Err(); err != nil {
		return fmt.Errorf("failed to delete game by room code: %w", err)
	}

	return nil
}

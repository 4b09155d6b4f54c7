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

type dbRoom struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRoomRepository stores memberships as JSON under "<prefix>room:<code>".
// A zero ttl keeps keys until they are deleted.
func NewRoomRepository(client *redis.Client, prefix string, ttl time.Duration) RoomRepository {
	return &dbRoom{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (that *dbRoom) key(roomCode string) string {
	return that.prefix + "room:" + roomCode
}

func (that *dbRoom) Get(ctx context.Context, roomCode string) (*entity.RoomMembership, error) {
	response, err := that.client.Get(ctx, that.key(roomCode)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrRoomNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get room by code: %w", err)
	}

	var room entity.RoomMembership
	if err = json.Unmarshal([]byte(response), &room); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}

	if room.Members == nil {
		room.Members = []string{}
	}

	return &room, nil
}

func (that *dbRoom) Save(ctx context.Context, room *entity.RoomMembership) error {
	roomJSON, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("failed to marshal room: %w", err)
	}

	if err = that.client.Set(ctx, that.key(room.RoomCode), roomJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set room: %w", err)
	}

	return nil
}

func (that *dbRoom) Delete(ctx context.Context, roomCode string) error {
	if err := that.client.Del(ctx, that.key(roomCode)).Err(); err != nil {
		return fmt.Errorf("failed to delete room by code: %w", err)
	}

	return nil
}

package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// memoryRooms and memoryGames keep state for the process lifetime.
// Values are cloned on the way in and out so callers never share memory with the store.

type memoryRooms struct {
	mu    sync.RWMutex
	rooms map[string]*entity.RoomMembership
}

func NewMemoryRoomRepository() RoomRepository {
	return &memoryRooms{
		rooms: make(map[string]*entity.RoomMembership),
	}
}

func (that *memoryRooms) Get(_ context.Context, roomCode string) (*entity.RoomMembership, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[roomCode]
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	return room.Clone(), nil
}

func (that *memoryRooms) Save(_ context.Context, room *entity.RoomMembership) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.rooms[room.RoomCode] = room.Clone()

	return nil
}

func (that *memoryRooms) Delete(_ context.Context, roomCode string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, roomCode)

	return nil
}

type memoryGames struct {
	mu    sync.RWMutex
	games map[string]*entity.GameSession
}

func NewMemoryGameRepository() GameRepository {
	return &memoryGames{
		games: make(map[string]*entity.GameSession),
	}
}

func (that *memoryGames) Get(_ context.Context, roomCode string) (*entity.GameSession, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	session, ok := that.games[roomCode]
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	return session.Clone(), nil
}

func (that *memoryGames) Save(_ context.Context, session *entity.GameSession) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.games[session.RoomCode] = session.Clone()

	return nil
}

func (that *memoryGames) Delete(_ context.Context, roomCode string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.games, roomCode)

	return nil
}

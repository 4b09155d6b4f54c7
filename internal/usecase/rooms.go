package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

type roomRepo interface {
	Get(ctx context.Context, roomCode string) (*entity.RoomMembership, error)
	Save(ctx context.Context, room *entity.RoomMembership) error
	Delete(ctx context.Context, roomCode string) error
}

// RoomRegistry tracks the master and members of every room.
// Operations on an unknown room start from an empty record; a record left
// without master and members is deleted.
type RoomRegistry struct {
	logger   *slog.Logger
	roomRepo roomRepo
}

func NewRoomRegistry(logger *slog.Logger, roomRepo roomRepo) *RoomRegistry {
	return &RoomRegistry{
		logger:   logger.With("component", "rooms"),
		roomRepo: roomRepo,
	}
}

func (that *RoomRegistry) AddMember(ctx context.Context, roomCode, username string) error {
	return that.update(ctx, roomCode, func(room *entity.RoomMembership) {
		if !room.AddMember(username) {
			that.logger.Debug("member already in room", "roomCode", roomCode, "username", username)
		}
	})
}

func (that *RoomRegistry) SetMaster(ctx context.Context, roomCode, username string) error {
	return that.update(ctx, roomCode, func(room *entity.RoomMembership) {
		room.SetMaster(username)
	})
}

func (that *RoomRegistry) RemoveMember(ctx context.Context, roomCode, username string) error {
	return that.update(ctx, roomCode, func(room *entity.RoomMembership) {
		room.RemoveMember(username)
	})
}

func (that *RoomRegistry) ClearMaster(ctx context.Context, roomCode string) error {
	return that.update(ctx, roomCode, func(room *entity.RoomMembership) {
		room.ClearMaster()
	})
}

// Get returns the stored membership, or an empty one when the room is unknown.
func (that *RoomRegistry) Get(ctx context.Context, roomCode string) (*entity.RoomMembership, error) {
	room, err := that.roomRepo.Get(ctx, roomCode)
	if errors.Is(err, apperror.ErrRoomNotFound) {
		return entity.NewRoomMembership(roomCode), nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}

// Pool returns the candidates for a game: the master merged into the members.
func (that *RoomRegistry) Pool(ctx context.Context, roomCode string) ([]string, error) {
	room, err := that.Get(ctx, roomCode)
	if err != nil {
		return nil, err
	}

	return room.Pool(), nil
}

// SnapshotAll builds one snapshot per active channel, sorted by room code.
// Channels without a stored record appear with an empty master and member list.
func (that *RoomRegistry) SnapshotAll(ctx context.Context, channels []string) ([]entity.RoomSnapshot, error) {
	codes := slices.Clone(channels)
	slices.Sort(codes)
	codes = slices.Compact(codes)

	snapshots := make([]entity.RoomSnapshot, 0, len(codes))
	for _, code := range codes {
		room, err := that.Get(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot room %s: %w", code, err)
		}

		snapshots = append(snapshots, room.Snapshot())
	}

	return snapshots, nil
}

func (that *RoomRegistry) update(ctx context.Context, roomCode string, mutate func(room *entity.RoomMembership)) error {
	room, err := that.Get(ctx, roomCode)
	if err != nil {
		return err
	}

	mutate(room)

	if room.IsEmpty() {
		if err = that.roomRepo.Delete(ctx, roomCode); err != nil {
			return fmt.Errorf("failed to delete empty room: %w", err)
		}

		return nil
	}

	if err = that.roomRepo.Save(ctx, room); err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}

	return nil
}

package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

func TestCoordinator_Lobby(t *testing.T) {
	ctx := context.Background()

	t.Run("Master and member join ABC", func(t *testing.T) {
		// Given: a fresh coordinator
		fx := newFixture(true)

		// When: alice joins as master and bob as member
		require.NoError(t, fx.coordinator.JoinMaster(ctx, "c1", "ABC", "alice"))
		require.NoError(t, fx.coordinator.JoinMember(ctx, "c2", "ABC", "bob"))

		// Then: the last rooms broadcast goes to everyone with both names
		last := fx.channels.last(t)
		assert.Equal(t, ActionBroadcastRooms, last.action)
		assert.Empty(t, last.channel)
		assert.Equal(t, []entity.RoomSnapshot{
			{RoomCode: "ABC", Master: "alice", Members: []string{"bob"}},
		}, last.payload)

		// And: both clients are subscribed to the room channel
		assert.True(t, fx.channels.subscriptions["ABC"]["c1"])
		assert.True(t, fx.channels.subscriptions["ABC"]["c2"])
	})

	t.Run("Leaving updates membership and the channel", func(t *testing.T) {
		fx := newFixture(true)
		require.NoError(t, fx.coordinator.JoinMaster(ctx, "c1", "ABC", "alice"))
		require.NoError(t, fx.coordinator.JoinMember(ctx, "c2", "ABC", "bob"))

		// When: bob leaves
		require.NoError(t, fx.coordinator.LeaveMember(ctx, "c2", "ABC", "bob"))

		// Then: only alice remains
		assert.Equal(t, []entity.RoomSnapshot{
			{RoomCode: "ABC", Master: "alice", Members: []string{}},
		}, fx.channels.last(t).payload)

		// When: alice leaves as master
		require.NoError(t, fx.coordinator.LeaveMaster(ctx, "c1", "ABC"))

		// Then: the channel is gone and so is the room
		assert.Equal(t, []entity.RoomSnapshot{}, fx.channels.last(t).payload)
	})

	t.Run("Failed channel join leaves membership untouched", func(t *testing.T) {
		// Given: a transport that refuses joins
		fx := newFixture(true)
		fx.channels.joinErr = errChannelDown

		// When: bob tries to join
		err := fx.coordinator.JoinMember(ctx, "c2", "ABC", "bob")

		// Then: the error surfaces, nothing was stored or broadcast
		require.ErrorIs(t, err, errChannelDown)
		room, err := fx.rooms.Get(ctx, "ABC")
		require.NoError(t, err)
		assert.Empty(t, room.Members)
		assert.Empty(t, fx.channels.broadcasts)
	})

	t.Run("Refresh broadcasts the current snapshot", func(t *testing.T) {
		fx := newFixture(true)
		require.NoError(t, fx.coordinator.JoinMember(ctx, "c2", "ABC", "bob"))
		count := len(fx.channels.broadcasts)

		require.NoError(t, fx.coordinator.Refresh(ctx))

		require.Len(t, fx.channels.broadcasts, count+1)
		assert.Equal(t, ActionBroadcastRooms, fx.channels.last(t).action)
	})

	t.Run("Disconnect broadcasts the current snapshot", func(t *testing.T) {
		fx := newFixture(true)

		require.NoError(t, fx.coordinator.Disconnected(ctx, "c1"))

		assert.Equal(t, ActionBroadcastRooms, fx.channels.last(t).action)
		assert.Equal(t, []entity.RoomSnapshot{}, fx.channels.last(t).payload)
	})

	t.Run("Rooms reads without broadcasting", func(t *testing.T) {
		fx := newFixture(true)
		require.NoError(t, fx.coordinator.JoinMember(ctx, "c2", "ABC", "bob"))
		count := len(fx.channels.broadcasts)

		snapshots, err := fx.coordinator.Rooms(ctx)

		require.NoError(t, err)
		assert.Len(t, snapshots, 1)
		assert.Len(t, fx.channels.broadcasts, count)
	})
}

func TestCoordinator_Game(t *testing.T) {
	ctx := context.Background()

	t.Run("Start game merges the master into the pool and broadcasts to the room", func(t *testing.T) {
		// Given: alice is master, bob member, picker chooses index 0 and X
		fx := newFixture(true, 0, 0)
		require.NoError(t, fx.coordinator.JoinMaster(ctx, "c1", "ABC", "alice"))
		require.NoError(t, fx.coordinator.JoinMember(ctx, "c2", "ABC", "bob"))

		// When: the game starts
		require.NoError(t, fx.coordinator.StartGame(ctx, "ABC"))

		// Then: the room channel receives the new session
		last := fx.channels.last(t)
		assert.Equal(t, "ABC", last.channel)
		assert.Equal(t, ActionBroadcastGame, last.action)
		session, ok := last.payload.(*entity.GameSession)
		require.True(t, ok)
		assert.Equal(t, entity.PlayerSlot{Username: "alice", Symbol: entity.PlayerX}, session.CurrentTurn)
		assert.Equal(t, "bob", session.Players[1].Username)
	})

	t.Run("Turn broadcasts the updated session to the room", func(t *testing.T) {
		fx := newFixture(true, 0, 0)
		require.NoError(t, fx.coordinator.JoinMaster(ctx, "c1", "ABC", "alice"))
		require.NoError(t, fx.coordinator.JoinMember(ctx, "c2", "ABC", "bob"))
		require.NoError(t, fx.coordinator.StartGame(ctx, "ABC"))

		require.NoError(t, fx.coordinator.Turn(ctx, "ABC", Move{X: 1, Y: 1}))

		last := fx.channels.last(t)
		assert.Equal(t, ActionBroadcastGame, last.action)
		session, ok := last.payload.(*entity.GameSession)
		require.True(t, ok)
		assert.Equal(t, entity.PlayerX, session.Board[1][1])
	})

	t.Run("Turn without a session broadcasts nothing", func(t *testing.T) {
		fx := newFixture(true)

		err := fx.coordinator.Turn(ctx, "ABC", Move{X: 0, Y: 0})

		require.NoError(t, err)
		assert.Empty(t, fx.channels.broadcasts)
	})

	t.Run("Rejected turn returns the error and broadcasts nothing", func(t *testing.T) {
		fx := newFixture(true, 0, 0)
		require.NoError(t, fx.coordinator.StartGame(ctx, "ABC"))
		count := len(fx.channels.broadcasts)

		err := fx.coordinator.Turn(ctx, "ABC", Move{X: 9, Y: 9})

		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		assert.Len(t, fx.channels.broadcasts, count)
	})

	t.Run("Leave game broadcasts an empty game and later turns are no-ops", func(t *testing.T) {
		// Given: an active game
		fx := newFixture(true, 0, 0)
		require.NoError(t, fx.coordinator.JoinMaster(ctx, "c1", "ABC", "alice"))
		require.NoError(t, fx.coordinator.JoinMember(ctx, "c2", "ABC", "bob"))
		require.NoError(t, fx.coordinator.StartGame(ctx, "ABC"))

		// When: the game is left
		require.NoError(t, fx.coordinator.LeaveGame(ctx, "ABC"))

		// Then: the room is told the game is gone
		last := fx.channels.last(t)
		assert.Equal(t, "ABC", last.channel)
		assert.Equal(t, ActionBroadcastGame, last.action)
		assert.Nil(t, last.payload)

		// And: a subsequent turn changes nothing
		count := len(fx.channels.broadcasts)
		require.NoError(t, fx.coordinator.Turn(ctx, "ABC", Move{X: 0, Y: 0}))
		assert.Len(t, fx.channels.broadcasts, count)
		_, err := fx.coordinator.Game(ctx, "ABC")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}

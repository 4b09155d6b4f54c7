package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/tictactoe"
)

var errChannelDown = errors.New("channel down")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedPicker returns the queued values in order, then zeros.
type scriptedPicker struct {
	values []int
}

func (that *scriptedPicker) IntN(n int) int {
	if len(that.values) == 0 {
		return 0
	}
	value := that.values[0]
	that.values = that.values[1:]
	return value % n
}

type broadcast struct {
	channel string
	action  string
	payload any
}

// fakeChannels records subscriptions per client and every broadcast.
type fakeChannels struct {
	subscriptions map[string]map[string]bool
	broadcasts    []broadcast
	joinErr       error
}

func newFakeChannels() *fakeChannels {
	return &fakeChannels{subscriptions: make(map[string]map[string]bool)}
}

func (that *fakeChannels) Join(_ context.Context, clientID, channel string) error {
	if that.joinErr != nil {
		return that.joinErr
	}
	if that.subscriptions[channel] == nil {
		that.subscriptions[channel] = make(map[string]bool)
	}
	that.subscriptions[channel][clientID] = true
	return nil
}

func (that *fakeChannels) Leave(_ context.Context, clientID, channel string) error {
	delete(that.subscriptions[channel], clientID)
	if len(that.subscriptions[channel]) == 0 {
		delete(that.subscriptions, channel)
	}
	return nil
}

func (that *fakeChannels) Active() []string {
	channels := make([]string, 0, len(that.subscriptions))
	for channel := range that.subscriptions {
		channels = append(channels, channel)
	}
	slices.Sort(channels)
	return channels
}

func (that *fakeChannels) Broadcast(channel, action string, payload any) error {
	that.broadcasts = append(that.broadcasts, broadcast{channel: channel, action: action, payload: payload})
	return nil
}

func (that *fakeChannels) BroadcastAll(action string, payload any) error {
	that.broadcasts = append(that.broadcasts, broadcast{action: action, payload: payload})
	return nil
}

func (that *fakeChannels) last(t *testing.T) broadcast {
	t.Helper()
	require.NotEmpty(t, that.broadcasts)
	return that.broadcasts[len(that.broadcasts)-1]
}

type fixture struct {
	rooms       *RoomRegistry
	games       *GameStore
	channels    *fakeChannels
	coordinator *Coordinator
}

func newFixture(strict bool, picks ...int) *fixture {
	logger := discardLogger()
	rooms := NewRoomRegistry(logger, repository.NewMemoryRoomRepository())
	games := NewGameStore(logger, repository.NewMemoryGameRepository(), tictactoe.NewEngine(strict), &scriptedPicker{values: picks})
	channels := newFakeChannels()

	return &fixture{
		rooms:       rooms,
		games:       games,
		channels:    channels,
		coordinator: NewCoordinator(logger, rooms, games, channels),
	}
}

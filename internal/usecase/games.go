package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/tictactoe"
)

type gameRepo interface {
	Get(ctx context.Context, roomCode string) (*entity.GameSession, error)
	Save(ctx context.Context, session *entity.GameSession) error
	Delete(ctx context.Context, roomCode string) error
}

// Picker is the source of randomness for player and symbol selection.
// *rand.Rand from math/rand/v2 satisfies it.
type Picker interface {
	IntN(n int) int
}

// Move is a turn request. Username is optional; when set it must match the player to move.
type Move struct {
	X        int
	Y        int
	Username string
}

// GameStore holds at most one session per room and applies turns through the engine.
type GameStore struct {
	logger   *slog.Logger
	gameRepo gameRepo
	engine   *tictactoe.Engine
	picker   Picker
}

func NewGameStore(logger *slog.Logger, gameRepo gameRepo, engine *tictactoe.Engine, picker Picker) *GameStore {
	return &GameStore{
		logger:   logger.With("component", "games"),
		gameRepo: gameRepo,
		engine:   engine,
		picker:   picker,
	}
}

// StartGame picks a random first player and symbol from the pool; the next
// distinct pool entry plays the other symbol. Any previous session is replaced.
// A pool with fewer than two distinct names yields a session with empty usernames.
func (that *GameStore) StartGame(ctx context.Context, roomCode string, pool []string) (*entity.GameSession, error) {
	log := that.logger.With("method", "StartGame", "roomCode", roomCode)

	candidates := distinct(pool)

	var first, second string
	if len(candidates) > 0 {
		first = candidates[that.picker.IntN(len(candidates))]
	}

	symbol := entity.Symbols[that.picker.IntN(len(entity.Symbols))]

	remaining := slices.DeleteFunc(slices.Clone(candidates), func(username string) bool {
		return username == first
	})
	if len(remaining) > 0 {
		second = remaining[0]
	}

	if second == "" {
		log.Warn("starting degraded game", "error", apperror.ErrNotEnoughPlayers, "pool", candidates)
	}

	session := entity.NewGameSession(roomCode,
		entity.PlayerSlot{Username: first, Symbol: symbol},
		entity.PlayerSlot{Username: second, Symbol: symbol.Opponent()},
	)

	if err := that.gameRepo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}

	log.Info("game started", "first", first, "second", second, "symbol", symbol)

	return session, nil
}

// EndGame deletes the room's session. It is a no-op when none exists.
func (that *GameStore) EndGame(ctx context.Context, roomCode string) error {
	if err := that.gameRepo.Delete(ctx, roomCode); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}

func (that *GameStore) Game(ctx context.Context, roomCode string) (*entity.GameSession, error) {
	session, err := that.gameRepo.Get(ctx, roomCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return session, nil
}

// ApplyTurn places the current player's symbol, settles winner or draw and
// passes the turn to the other player. Without a session it returns ErrSessionNotFound
// and stores nothing.
func (that *GameStore) ApplyTurn(ctx context.Context, roomCode string, move Move) (*entity.GameSession, error) {
	session, err := that.Game(ctx, roomCode)
	if err != nil {
		return nil, err
	}

	if session.Finished {
		return nil, apperror.ErrGameFinished
	}

	if move.Username != "" && move.Username != session.CurrentTurn.Username {
		return nil, fmt.Errorf("%w: %s to move", apperror.ErrNotYourTurn, session.CurrentTurn.Username)
	}

	board, err := that.engine.ApplyMove(session.Board, move.X, move.Y, session.CurrentTurn.Symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to apply move: %w", err)
	}

	session.Board = board

	if winner := tictactoe.DetectWinner(board); winner != entity.EmptyCell {
		player, _ := session.PlayerBySymbol(winner)
		session.Winner = player.Username
		session.Finished = true
	} else if tictactoe.IsDraw(board) {
		session.Draw = true
		session.Finished = true
	}

	session.CurrentTurn = tictactoe.NextTurn(session)

	if err = that.gameRepo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}

	return session, nil
}

func distinct(pool []string) []string {
	result := make([]string, 0, len(pool))
	for _, username := range pool {
		if username != "" && !slices.Contains(result, username) {
			result = append(result, username)
		}
	}
	return result
}

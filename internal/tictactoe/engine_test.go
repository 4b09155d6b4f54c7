package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

var (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.EmptyCell
)

func boardGen() *rapid.Generator[entity.Board] {
	return rapid.Custom(func(t *rapid.T) entity.Board {
		marks := rapid.SliceOfN(rapid.SampledFrom([]entity.Mark{e, x, o}), 9, 9).Draw(t, "marks")

		var board entity.Board
		for i, mark := range marks {
			board[i/entity.BoardSize][i%entity.BoardSize] = mark
		}
		return board
	})
}

func TestEngine_ApplyMove(t *testing.T) {
	t.Run("Places the symbol on an empty cell", func(t *testing.T) {
		// Given: a strict engine and an empty board
		engine := NewEngine(true)
		board := entity.NewBoard()

		// When: X moves to the center
		next, err := engine.ApplyMove(board, 1, 1, x)

		// Then: only the center changed and the input is untouched
		require.NoError(t, err)
		assert.Equal(t, x, next[1][1])
		assert.True(t, board.IsEmpty())
	})

	t.Run("Strict engine rejects an occupied cell", func(t *testing.T) {
		// Given: a board where X holds the corner
		engine := NewEngine(true)
		board := entity.Board{{x, e, e}, {e, e, e}, {e, e, e}}

		// When: O moves onto the same corner
		next, err := engine.ApplyMove(board, 0, 0, o)

		// Then: the move is rejected and the board is unchanged
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, board, next)
	})

	t.Run("Lenient engine overwrites an occupied cell", func(t *testing.T) {
		// Given: a lenient engine and a board where X holds the corner
		engine := NewEngine(false)
		board := entity.Board{{x, e, e}, {e, e, e}, {e, e, e}}

		// When: O moves onto the same corner
		next, err := engine.ApplyMove(board, 0, 0, o)

		// Then: the corner now belongs to O
		require.NoError(t, err)
		assert.Equal(t, o, next[0][0])
	})

	t.Run("Out of range is rejected in both modes", func(t *testing.T) {
		for _, strict := range []bool{true, false} {
			engine := NewEngine(strict)

			_, err := engine.ApplyMove(entity.NewBoard(), 3, 0, x)
			require.ErrorIs(t, err, apperror.ErrInvalidMove)

			_, err = engine.ApplyMove(entity.NewBoard(), 0, -1, x)
			require.ErrorIs(t, err, apperror.ErrInvalidMove)
		}
	})

	t.Run("Unknown symbol is rejected", func(t *testing.T) {
		engine := NewEngine(true)

		_, err := engine.ApplyMove(entity.NewBoard(), 0, 0, entity.EmptyCell)

		require.ErrorIs(t, err, apperror.ErrInvalidMove)
	})
}

func TestPropertyApplyMoveChangesOnlyTargetCell(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		strict := rapid.Bool().Draw(t, "strict")
		board := boardGen().Draw(t, "board")
		cx := rapid.IntRange(0, 2).Draw(t, "x")
		cy := rapid.IntRange(0, 2).Draw(t, "y")
		symbol := rapid.SampledFrom(entity.Symbols[:]).Draw(t, "symbol")

		next, err := NewEngine(strict).ApplyMove(board, cx, cy, symbol)
		if strict && board[cx][cy] != e {
			if err == nil {
				t.Fatalf("strict engine accepted a move onto occupied (%d, %d)", cx, cy)
			}
			return
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for i := range entity.BoardSize {
			for j := range entity.BoardSize {
				if i == cx && j == cy {
					if next[i][j] != symbol {
						t.Fatalf("target (%d, %d) holds %q, want %q", i, j, next[i][j], symbol)
					}
					continue
				}
				if next[i][j] != board[i][j] {
					t.Fatalf("cell (%d, %d) changed from %q to %q", i, j, board[i][j], next[i][j])
				}
			}
		}
	})
}

func TestDetectWinner(t *testing.T) {
	t.Run("Every line wins for both symbols", func(t *testing.T) {
		for _, symbol := range entity.Symbols {
			for i, line := range WinLines {
				// Given: a board where only this line is filled
				var board entity.Board
				for _, pos := range line {
					board[pos.x][pos.y] = symbol
				}

				// When: detecting the winner
				winner := DetectWinner(board)

				// Then: the line's symbol wins
				assert.Equal(t, symbol, winner, "line %d", i)
			}
		}
	})

	t.Run("No complete line yields EmptyCell", func(t *testing.T) {
		board := entity.Board{
			{x, o, e},
			{e, x, e},
			{e, e, o},
		}

		assert.Equal(t, e, DetectWinner(board))
	})

	t.Run("Full board without a line yields EmptyCell", func(t *testing.T) {
		board := entity.Board{
			{x, o, x},
			{x, o, o},
			{o, x, x},
		}

		assert.Equal(t, e, DetectWinner(board))
	})

	t.Run("Earlier row takes precedence over a later row", func(t *testing.T) {
		// Given: row 0 complete with X and row 2 complete with O
		board := entity.Board{
			{x, x, x},
			{e, e, e},
			{o, o, o},
		}

		// Then: the first row checked wins
		assert.Equal(t, x, DetectWinner(board))
	})

	t.Run("Earlier column takes precedence over a later column", func(t *testing.T) {
		board := entity.Board{
			{x, e, o},
			{x, e, o},
			{x, e, o},
		}

		assert.Equal(t, x, DetectWinner(board))
	})

	t.Run("Row, column and diagonal complete at once", func(t *testing.T) {
		// Given: X completes row 0, column 0 and the main diagonal
		board := entity.Board{
			{x, x, x},
			{x, x, o},
			{x, o, x},
		}

		// Then: X is reported
		assert.Equal(t, x, DetectWinner(board))
	})
}

func TestPropertyDetectWinnerMatchesSomeLine(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		board := boardGen().Draw(t, "board")

		winner := DetectWinner(board)

		var first entity.Mark
		for _, line := range WinLines {
			a, b, c := board[line[0].x][line[0].y], board[line[1].x][line[1].y], board[line[2].x][line[2].y]
			if a != e && a == b && b == c {
				first = a
				break
			}
		}
		if winner != first {
			t.Fatalf("DetectWinner returned %q, first complete line is %q", winner, first)
		}
	})
}

func TestIsDraw(t *testing.T) {
	full := entity.Board{
		{x, o, x},
		{x, o, o},
		{o, x, x},
	}
	assert.True(t, IsDraw(full))

	won := entity.Board{
		{x, x, x},
		{o, o, x},
		{x, o, o},
	}
	assert.False(t, IsDraw(won))

	assert.False(t, IsDraw(entity.NewBoard()))
}

func TestNextTurn(t *testing.T) {
	t.Run("Alternates by symbol, not by slot order", func(t *testing.T) {
		// Given: the O player sits in the first slot
		session := entity.NewGameSession("ABC",
			entity.PlayerSlot{Username: "alice", Symbol: o},
			entity.PlayerSlot{Username: "bob", Symbol: x},
		)

		// When: rotating the turn twice
		first := NextTurn(session)
		session.CurrentTurn = first
		second := NextTurn(session)

		// Then: turn passes to bob (X) and back to alice (O)
		assert.Equal(t, entity.PlayerSlot{Username: "bob", Symbol: x}, first)
		assert.Equal(t, entity.PlayerSlot{Username: "alice", Symbol: o}, second)
	})

	t.Run("Degraded session with an empty second player", func(t *testing.T) {
		session := entity.NewGameSession("ABC",
			entity.PlayerSlot{Username: "alice", Symbol: x},
			entity.PlayerSlot{Username: "", Symbol: o},
		)

		next := NextTurn(session)

		assert.Equal(t, entity.PlayerSlot{Username: "", Symbol: o}, next)
	})
}

// Package tictactoe holds the pure 3x3 game rules: placing marks, finding a winner
// and rotating the turn between the two players of a session.
package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

type position struct{ x, y int }

// WinLines in evaluation order: rows, then columns, then the two diagonals.
var WinLines = [8][3]position{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Engine applies moves under a legality policy.
// A strict engine rejects moves onto occupied cells; a lenient one overwrites them.
type Engine struct {
	strict bool
}

func NewEngine(strict bool) *Engine {
	return &Engine{strict: strict}
}

func (that *Engine) Strict() bool {
	return that.strict
}

// ApplyMove returns a copy of the board with symbol placed at (x, y).
func (that *Engine) ApplyMove(board entity.Board, x, y int, symbol entity.Mark) (entity.Board, error) {
	if !entity.InRange(x, y) {
		return board, fmt.Errorf("%w: cell (%d, %d) is off the board", apperror.ErrInvalidMove, x, y)
	}

	if !symbol.IsSymbol() {
		return board, fmt.Errorf("%w: unknown symbol %q", apperror.ErrInvalidMove, symbol)
	}

	if that.strict && board[x][y] != entity.EmptyCell {
		return board, fmt.Errorf("%w: (%d, %d)", apperror.ErrCellOccupied, x, y)
	}

	board[x][y] = symbol

	return board, nil
}

// DetectWinner returns the symbol of the first complete line, or EmptyCell.
// It does not report draws; see IsDraw.
func DetectWinner(board entity.Board) entity.Mark {
	for _, line := range WinLines {
		a := board[line[0].x][line[0].y]
		b := board[line[1].x][line[1].y]
		c := board[line[2].x][line[2].y]
		if a != entity.EmptyCell && a == b && b == c {
			return a
		}
	}

	return entity.EmptyCell
}

// IsDraw reports a full board with no complete line.
func IsDraw(board entity.Board) bool {
	return DetectWinner(board) == entity.EmptyCell && board.IsFull()
}

// NextTurn returns the player holding the opposite symbol of the current turn.
func NextTurn(session *entity.GameSession) entity.PlayerSlot {
	next := session.CurrentTurn.Symbol.Opponent()

	player, ok := session.PlayerBySymbol(next)
	if !ok {
		return entity.PlayerSlot{Symbol: next}
	}

	return player
}

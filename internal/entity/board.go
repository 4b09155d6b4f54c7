package entity

const BoardSize = 3

// Mark is the content of a single board cell.
type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

// Symbols is the fixed two-symbol set players are assigned from.
var Symbols = [2]Mark{PlayerX, PlayerO}

// IsSymbol reports whether the mark belongs to the two-symbol set.
func (that Mark) IsSymbol() bool {
	return that == Symbols[0] || that == Symbols[1]
}

// Opponent returns the other symbol of the set, or EmptyCell for a mark outside it.
func (that Mark) Opponent() Mark {
	switch that {
	case Symbols[0]:
		return Symbols[1]
	case Symbols[1]:
		return Symbols[0]
	default:
		return EmptyCell
	}
}

// Board is indexed as Board[x][y]; x selects the row.
type Board [BoardSize][BoardSize]Mark

func NewBoard() Board {
	return Board{}
}

func InRange(x, y int) bool {
	return x >= 0 && x < BoardSize && y >= 0 && y < BoardSize
}

func (that Board) IsFull() bool {
	for _, row := range that {
		for _, mark := range row {
			if mark == EmptyCell {
				return false
			}
		}
	}
	return true
}

func (that Board) IsEmpty() bool {
	return that == Board{}
}

package entity

// PlayerSlot pairs a username with the symbol it plays.
type PlayerSlot struct {
	Username string `json:"username"`
	Symbol   Mark   `json:"symbol"`
}

// GameSession is the single active game bound to a room.
type GameSession struct {
	RoomCode    string        `json:"roomCode"`
	Players     [2]PlayerSlot `json:"players"`
	Board       Board         `json:"board"`
	CurrentTurn PlayerSlot    `json:"currentTurn"`
	Finished    bool          `json:"finished"`
	Winner      string        `json:"winner,omitempty"`
	Draw        bool          `json:"draw,omitempty"`
}

func NewGameSession(roomCode string, first, second PlayerSlot) *GameSession {
	return &GameSession{
		RoomCode:    roomCode,
		Players:     [2]PlayerSlot{first, second},
		Board:       NewBoard(),
		CurrentTurn: first,
	}
}

// PlayerBySymbol finds the player that owns the symbol.
func (that *GameSession) PlayerBySymbol(symbol Mark) (PlayerSlot, bool) {
	for _, player := range that.Players {
		if player.Symbol == symbol {
			return player, true
		}
	}
	return PlayerSlot{}, false
}

// Clone returns an independent copy; every field is a value type.
func (that *GameSession) Clone() *GameSession {
	if that == nil {
		return nil
	}
	clone := *that
	return &clone
}

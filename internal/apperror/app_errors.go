package apperror

import "errors"

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrSessionNotFound  = errors.New("game session not found")
	ErrInvalidMove      = errors.New("invalid move")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrGameFinished     = errors.New("game is already finished")
	ErrNotEnoughPlayers = errors.New("not enough players to start a game")
)

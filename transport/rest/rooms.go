package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
)

func (that *Server) roomsHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "roomsHandler")

	rooms, err := that.lobby.Rooms(r.Context())
	if err != nil {
		log.Error("failed to get rooms", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, rooms)
}

func (that *Server) gameHandler(w http.ResponseWriter, r *http.Request) {
	roomCode := mux.Vars(r)["roomCode"]
	log := that.logger.With("method", "gameHandler", "roomCode", roomCode)

	session, err := that.lobby.Game(r.Context(), roomCode)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	if err != nil {
		log.Error("failed to get game", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, session)
}

func (that *Server) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

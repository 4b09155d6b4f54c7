package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

type lobby interface {
	Rooms(ctx context.Context) ([]entity.RoomSnapshot, error)
	Game(ctx context.Context, roomCode string) (*entity.GameSession, error)
}

type Server struct {
	logger         *slog.Logger
	lobby          lobby
	allowedOrigins []string
}

func New(logger *slog.Logger, lobby lobby, allowedOrigins []string) *Server {
	return &Server{
		logger:         logger.With("component", "rest"),
		lobby:          lobby,
		allowedOrigins: allowedOrigins,
	}
}

// Handler - builds the router wrapped with CORS and panic recovery.
func (that *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/ping", pingHandler).Methods(http.MethodGet)
	router.HandleFunc("/rooms", that.roomsHandler).Methods(http.MethodGet)
	router.HandleFunc("/rooms/{roomCode}/game", that.gameHandler).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedOrigins(that.allowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
	)

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{logger: that.logger}),
	)

	return recovery(cors(router))
}

// Start - starts HTTP server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown http server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

type recoveryLogger struct {
	logger *slog.Logger
}

func (that recoveryLogger) Println(v ...any) {
	that.logger.Error("recovered from panic", "error", fmt.Sprint(v...))
}

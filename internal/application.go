package application

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/config"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-rooms/transport/rest"
	"github.com/rocketscienceinc/tictactoe-rooms/transport/websocket"
)

type randomPicker struct{}

func (randomPicker) IntN(n int) int {
	return rand.IntN(n)
}

type repositories struct {
	rooms repository.RoomRepository
	games repository.GameRepository
	close func()
}

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	repos, err := newRepositories(ctx, log, conf)
	if err != nil {
		return err
	}
	defer repos.close()

	engine := tictactoe.NewEngine(!conf.Game.LenientMoves)
	rooms := usecase.NewRoomRegistry(logger, repos.rooms)
	games := usecase.NewGameStore(logger, repos.games, engine, randomPicker{})

	hub := websocket.NewHub(logger)
	coordinator := usecase.NewCoordinator(logger, rooms, games, hub)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		restServer := rest.New(logger, coordinator, conf.AllowedOrigins)
		if httpErr := restServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort, "strictMoves", engine.Strict())
		wsServer := websocket.New(logger, hub, coordinator, conf.AllowedOrigins)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

func newRepositories(ctx context.Context, log *slog.Logger, conf *config.Config) (*repositories, error) {
	if conf.Storage == config.StorageMemory {
		log.Info("Using in-memory storage")

		return &repositories{
			rooms: repository.NewMemoryRoomRepository(),
			games: repository.NewMemoryGameRepository(),
			close: func() {},
		}, nil
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	log.Info("Using redis storage", "addr", conf.Redis.GetRedisAddr(), "prefix", conf.Redis.KeyPrefix)

	return &repositories{
		rooms: repository.NewRoomRepository(redisStorage.Connection, conf.Redis.KeyPrefix, conf.Redis.TTL),
		games: repository.NewGameRepository(redisStorage.Connection, conf.Redis.KeyPrefix, conf.Redis.TTL),
		close: func() {
			if closeErr := redisStorage.Close(); closeErr != nil {
				log.Error("could not close redis storage", "error", closeErr)
			}
		},
	}, nil
}

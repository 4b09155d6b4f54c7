package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/usecase"
)

const (
	ActionJoinMember  = "join-member"
	ActionJoinMaster  = "join-master"
	ActionLeaveMember = "leave-member"
	ActionLeaveMaster = "leave-master"
	ActionRefreshRoom = "refresh-room"
	ActionStartGame   = "start-game"
	ActionLeaveGame   = "leave-game"
	ActionTurn        = "turn"
	ActionError       = "error"
)

type coordinator interface {
	JoinMember(ctx context.Context, clientID, roomCode, username string) error
	JoinMaster(ctx context.Context, clientID, roomCode, username string) error
	LeaveMember(ctx context.Context, clientID, roomCode, username string) error
	LeaveMaster(ctx context.Context, clientID, roomCode string) error
	Refresh(ctx context.Context) error

	StartGame(ctx context.Context, roomCode string) error
	LeaveGame(ctx context.Context, roomCode string) error
	Turn(ctx context.Context, roomCode string, move usecase.Move) error

	Disconnected(ctx context.Context, clientID string) error
}

type handlerFunc func(ctx context.Context, client *Client, message *Message) error

type Server struct {
	logger      *slog.Logger
	hub         *Hub
	coordinator coordinator
	upgrader    websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, hub *Hub, coordinator coordinator, allowedOrigins []string) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		hub:         hub,
		coordinator: coordinator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[ActionJoinMember] = server.handleJoinMember
	server.handlers[ActionJoinMaster] = server.handleJoinMaster
	server.handlers[ActionLeaveMember] = server.handleLeaveMember
	server.handlers[ActionLeaveMaster] = server.handleLeaveMaster
	server.handlers[ActionRefreshRoom] = server.handleRefreshRoom
	server.handlers[ActionStartGame] = server.handleStartGame
	server.handlers[ActionLeaveGame] = server.handleLeaveGame
	server.handlers[ActionTurn] = server.handleTurn

	return server
}

// Router serves the websocket endpoint at /ws.
func (that *Server) Router(ctx context.Context) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWebSocket(ctx, w, r)
	})

	return router
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Router(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown websocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWebSocket - upgrades the connection and runs the client until it disconnects.
func (that *Server) serveWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWebSocket")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := newClient(pkg.GenerateConnectionID(), conn, that.logger)
	that.hub.Register(client)

	log.Info("WebSocket connection established", "clientID", client.id, "remote", conn.RemoteAddr().String())

	go client.writePump()

	that.handleMessages(ctx, client)
}

// handleMessages - processes messages from the client until the connection closes.
func (that *Server) handleMessages(ctx context.Context, client *Client) {
	log := that.logger.With("method", "handleMessages", "clientID", client.id)

	defer func() {
		that.hub.Unregister(client)
		if err := that.coordinator.Disconnected(ctx, client.id); err != nil {
			log.Error("failed to handle disconnect", "error", err)
		}
	}()

	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			that.sendError(client, ActionError, "malformed message")
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			that.sendError(client, message.Action, "unknown action")
			continue
		}

		if err = handler(ctx, client, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
			that.sendError(client, message.Action, err.Error())
		}
	}
}

func (that *Server) sendError(client *Client, action, errorMsg string) {
	if err := that.hub.SendTo(client.id, action, ErrorPayload{Error: errorMsg}); err != nil {
		that.logger.Error("failed to send error response", "clientID", client.id, "error", err)
	}
}

// checkOrigin allows requests without an Origin header, any origin for "*",
// and otherwise only the listed origins.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || slices.Contains(allowed, "*") {
			return true
		}

		return slices.Contains(allowed, origin)
	}
}

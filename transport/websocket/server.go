package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tilewars-backend/internal/pkg"
	"github.com/rocketscienceinc/tilewars-backend/internal/usecase"
)

type registry interface {
	CreateRoom(ctx context.Context, participantID, name string) *usecase.Room
	JoinRoom(ctx context.Context, roomID, participantID, name string) (*usecase.Room, map[string]string, error)
	RouteToRoom(participantID string) (*usecase.Room, error)
	ReassignIdentity(ctx context.Context, previousID, newID string) (*usecase.Room, error)
	CloseRoom(roomID string)
}

// client is the per-connection state the handlers operate on. The
// identifier is fixed at upgrade time; a reconnect remaps the room-side
// identity onto it rather than the other way around.
type client struct {
	id   string
	conn *websocket.Conn
}

type handlerFunc func(ctx context.Context, c *client, message *Message) error

type Server struct {
	logger   *slog.Logger
	registry registry
	conns    *connectionManager
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, reg registry) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		registry: reg,
		conns:    newConnectionManager(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers["game:create"] = server.handleCreateGame
	server.handlers["game:join"] = server.handleJoinGame
	server.handlers["game:start"] = server.handleStartGame
	server.handlers["game:turn"] = server.handlePlayTurn
	server.handlers["reconnect"] = server.handleReconnect

	return server
}

// Start - starts the WebSocket server and blocks until it fails or the
// context is cancelled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) upgradeConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "upgradeConnection")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := &client{
		id:   pkg.GenerateParticipantID(),
		conn: conn,
	}

	that.conns.add(c.id, conn)
	defer func() {
		that.conns.remove(c.id, conn)
		_ = conn.Close()
	}()

	log.Info("participant connected", "participant", c.id)

	that.readMessages(ctx, c)

	// no registry cleanup here: a dropped connection may come back via
	// the reconnect flow, so the participant stays in their room
	log.Info("participant disconnected", "participant", c.id)
}

// readMessages - processes messages from the client in admission order.
func (that *Server) readMessages(ctx context.Context, c *client) {
	log := that.logger.With("method", "readMessages", "participant", c.id)

	for {
		var message Message
		if err := c.conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error("failed to read message", "error", err)
			}
			return
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			continue
		}

		if err := handler(ctx, c, &message); err != nil {
			log.Error("failed to process message", "action", message.Action, "error", err)
		}
	}
}

// sendError - reports a rule violation to the offending participant only.
func (that *Server) sendError(c *client, err error, reason string) error {
	return that.conns.sendTo(c.id, "error", errorPayload{
		Message: err.Error(),
		Reason:  reason,
	})
}

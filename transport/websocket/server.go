package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/arcade-backend/internal/apperror"
	"github.com/rocketscienceinc/arcade-backend/internal/entity"
	"github.com/rocketscienceinc/arcade-backend/internal/metrics"
	"github.com/rocketscienceinc/arcade-backend/internal/pkg"
)

const shutdownTimeout = 5 * time.Second

type gameEngine interface {
	Handle(ctx context.Context, playerID string, cmd *entity.Command) error
	Disconnect(ctx context.Context, playerID string)
}

type Server struct {
	logger   *slog.Logger
	hub      *Hub
	engine   gameEngine
	upgrader websocket.Upgrader
}

// New - allowedOrigin restricts the Origin header; empty accepts any origin.
func New(logger *slog.Logger, hub *Hub, engine gameEngine, allowedOrigin string) *Server {
	return &Server{
		logger: logger.With("component", "websocket"),
		hub:    hub,
		engine: engine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

// Start - starts WebSocket server and blocks until ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(ctx),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

// Handler - accepts connections on any path.
func (that *Server) Handler(ctx context.Context) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		that.serveConn(ctx, w, r)
	})
}

func (that *Server) serveConn(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveConn")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	playerID := pkg.GenerateNewSessionID()
	c := newClient(playerID, conn)

	that.hub.register(c)
	metrics.Connections.Inc()
	log.Info("WebSocket connection established", "playerID", playerID)

	go c.writePump()

	that.hub.Send(playerID, entity.InitEvent(playerID))

	if err = c.readPump(ctx, func(ctx context.Context, raw []byte) {
		that.handleMessage(ctx, playerID, raw)
	}); err != nil {
		log.Info("connection closed unexpectedly", "playerID", playerID, "error", err)
	}

	that.hub.unregister(c)
	metrics.Connections.Dec()
	that.engine.Disconnect(ctx, playerID)

	log.Info("WebSocket connection closed", "playerID", playerID)
}

// handleMessage - malformed or rejected messages never close the connection.
func (that *Server) handleMessage(ctx context.Context, playerID string, raw []byte) {
	log := that.logger.With("method", "handleMessage", "playerID", playerID)

	cmd, err := decodeCommand(raw)
	if err != nil {
		log.Error("failed to decode message", "error", err)
		return
	}

	if err = that.engine.Handle(ctx, playerID, cmd); err != nil {
		if errors.Is(err, apperror.ErrUnknownCommand) {
			log.Error("error processing message", "error", err)
			return
		}

		log.Debug("command rejected", "type", cmd.Type, "error", err)
	}
}

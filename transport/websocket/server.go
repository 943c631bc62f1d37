package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	gorilla "github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/transport/websocket"
)

const shutdownTimeout = 5 * time.Second

// Server - accepts real-time clients on its own port and hands them to the hub.
type Server struct {
	logger   *slog.Logger
	hub      *websocket.Hub
	upgrader gorilla.Upgrader
}

func New(logger *slog.Logger, hub *websocket.Hub) *Server {
	return &Server{
		logger: logger.With("component", "socketServer"),
		hub:    hub,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handler - upgrades any request on the socket port.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", that.upgradeToWebSocket)

	return mux
}

// Start - serves the socket port until ctx is done, then closes every client.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		that.hub.Close()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection and keeps it registered until it closes.
func (that *Server) upgradeToWebSocket(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeConnection")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := websocket.NewConnection(that.logger, conn)
	that.hub.Register(client)

	log.Info("WebSocket connection established", "connection", client.ID, "remote", req.RemoteAddr)

	client.Serve(req.Context())

	log.Info("WebSocket connection closed", "connection", client.ID)
}

package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/rocketscienceinc/tictactoe-coordinator/pkg/handlers"
)

const shutdownTimeout = 5 * time.Second

// NewRouter - the request surface: heartbeat, game listing, game creation and moves.
func NewRouter(logger *slog.Logger, h *Handlers, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /heartbeat", handlers.HeartbeatHandler)
	mux.HandleFunc("GET /games/{userId}", h.GamesForUser)
	mux.HandleFunc("POST /game", h.CreateGame)
	mux.HandleFunc("POST /move", h.MakeMove)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	return recoverPanics(logger, logRequests(logger, corsHandler.Handler(mux)))
}

// Start - serves handler on port until ctx is done.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

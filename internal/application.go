package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/config"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/repository"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/transport/redis"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/transport/websocket"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-coordinator/transport/rest"
	wsserver "github.com/rocketscienceinc/tictactoe-coordinator/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

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

	hub := websocket.NewHub(logger)
	notifiers := []usecase.Notifier{hub}

	if conf.Redis.Enabled {
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		log.Info("Relaying moves to redis", "addr", redisAddrString, "channel", conf.Redis.Channel)
		notifiers = append(notifiers, redis.NewPublisher(logger, redisStorage.Connection, conf.Redis.Channel))
	}

	gameRepo := repository.NewGameRepository(repository.NewIDGenerator())
	gameUseCase := usecase.NewGameManager(logger, gameRepo, notifiers...)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		router := rest.NewRouter(logger, rest.NewHandlers(logger, gameUseCase), conf.CORS.AllowedOrigins)
		if httpErr := rest.Start(ctx, conf.HTTPPort, router); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := wsserver.New(logger, hub)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err := <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err := <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

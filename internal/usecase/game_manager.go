package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/entity"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/tictactoe"
)

type gameRepo interface {
	Create(ctx context.Context, player1, player2 string) (*entity.Game, error)
	GetByID(ctx context.Context, id int64) (*entity.Game, error)
	ListForUser(ctx context.Context, userID string) (map[int64]*entity.Game, error)
	DeleteByID(ctx context.Context, id int64) error
}

// Notifier receives every applied move. Implementations handle their own delivery failures.
type Notifier interface {
	Notify(ctx context.Context, event entity.MoveEvent)
}

// GameManager - creates games and runs moves through validation, the board, notification and cleanup.
// Moves are applied one at a time under mu.
type GameManager struct {
	logger *slog.Logger

	mu        sync.Mutex
	gameRepo  gameRepo
	notifiers []Notifier
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, notifiers ...Notifier) *GameManager {
	return &GameManager{
		logger:    logger.With("component", "gameManager"),
		gameRepo:  gameRepo,
		notifiers: notifiers,
	}
}

func (that *GameManager) CreateGame(ctx context.Context, player1, player2 string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.gameRepo.Create(ctx, player1, player2)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID, "player1", player1, "player2", player2)

	return game.Clone(), nil
}

func (that *GameManager) GetGame(ctx context.Context, id int64) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game.Clone(), nil
}

// GamesForUser - copies of the user's games, taken under mu so no board is read mid-move.
func (that *GameManager) GamesForUser(ctx context.Context, userID string) (map[int64]*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	games, err := that.gameRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list games for user: %w", err)
	}

	return games, nil
}

// MakeMove - applies a move and returns the winner, "" while the game goes on.
// Every applied move is broadcast; a game is removed right after its winning move is broadcast.
func (that *GameManager) MakeMove(ctx context.Context, gameID int64, row, column int, marker string) (string, error) {
	log := that.logger.With("method", "MakeMove", "gameID", gameID)

	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil && !errors.Is(err, apperror.ErrGameNotFound) {
		return "", fmt.Errorf("failed to get game by id: %w", err)
	}

	if err = tictactoe.ValidateMove(gameID, game, row, column, marker); err != nil {
		return "", fmt.Errorf("invalid move: %w", err)
	}

	winner, err := tictactoe.ApplyMove(game, row, column, marker)
	if err != nil {
		return "", fmt.Errorf("failed to apply move: %w", err)
	}

	event := entity.NewMoveEvent(game, row, column, marker)
	for _, n := range that.notifiers {
		n.Notify(ctx, event)
	}

	if winner != "" {
		if err = that.gameRepo.DeleteByID(ctx, gameID); err != nil {
			log.Error("failed to delete finished game", "error", err)
		}

		log.Info("game finished", "winner", winner)
	}

	return winner, nil
}

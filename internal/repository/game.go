package repository

import (
	"context"
	"sync"

	"github.com/samber/lo"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/entity"
)

type GameRepository interface {
	Create(ctx context.Context, player1, player2 string) (*entity.Game, error)
	GetByID(ctx context.Context, id int64) (*entity.Game, error)
	ListForUser(ctx context.Context, userID string) (map[int64]*entity.Game, error)
	DeleteByID(ctx context.Context, id int64) error
}

// memoryGame keeps active games in process memory only, nothing survives a restart.
type memoryGame struct {
	mu    sync.RWMutex
	games map[int64]*entity.Game
	ids   *IDGenerator
}

func NewGameRepository(ids *IDGenerator) GameRepository {
	return &memoryGame{
		games: make(map[int64]*entity.Game),
		ids:   ids,
	}
}

func (that *memoryGame) Create(_ context.Context, player1, player2 string) (*entity.Game, error) {
	if player1 == "" || player2 == "" {
		return nil, apperror.New(apperror.ErrInvalidInput, "player names not supplied")
	}

	game := entity.NewGame(that.ids.Next(), player1, player2)

	that.mu.Lock()
	that.games[game.ID] = game
	that.mu.Unlock()

	return game, nil
}

// GetByID - returns the stored game itself, callers mutate it in place.
func (that *memoryGame) GetByID(_ context.Context, id int64) (*entity.Game, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	game, ok := that.games[id]
	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	return game, nil
}

// ListForUser - returns copies of every game userID plays in, keyed by game id.
func (that *memoryGame) ListForUser(_ context.Context, userID string) (map[int64]*entity.Game, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	games := lo.PickBy(that.games, func(_ int64, game *entity.Game) bool {
		return game.HasPlayer(userID)
	})

	return lo.MapValues(games, func(game *entity.Game, _ int64) *entity.Game {
		return game.Clone()
	}), nil
}

func (that *memoryGame) DeleteByID(_ context.Context, id int64) error {
	that.mu.Lock()
	delete(that.games, id)
	that.mu.Unlock()

	return nil
}

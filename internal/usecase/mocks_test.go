package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/entity"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, event entity.MoveEvent) {
	m.Called(ctx, event)
}

type mockGameRepo struct {
	mock.Mock
}

func (m *mockGameRepo) Create(ctx context.Context, player1, player2 string) (*entity.Game, error) {
	args := m.Called(ctx, player1, player2)
	return args.Get(0).(*entity.Game), args.Error(1)
}

func (m *mockGameRepo) GetByID(ctx context.Context, id int64) (*entity.Game, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*entity.Game), args.Error(1)
}

func (m *mockGameRepo) ListForUser(ctx context.Context, userID string) (map[int64]*entity.Game, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(map[int64]*entity.Game), args.Error(1)
}

func (m *mockGameRepo) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

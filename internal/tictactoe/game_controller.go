package tictactoe

import (
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/entity"
)

// ValidateMove - checks a move before the board is touched and returns the first failure.
// gameInstance is nil when no game with gameID exists.
func ValidateMove(gameID int64, gameInstance *entity.Game, row, column int, marker string) error {
	if !entity.IsValidCoordinate(row) {
		return apperror.New(apperror.ErrInvalidCoordinate, "invalid row %d", row)
	}

	if !entity.IsValidCoordinate(column) {
		return apperror.New(apperror.ErrInvalidCoordinate, "invalid column %d", column)
	}

	if !entity.IsValidMarker(marker) {
		return apperror.New(apperror.ErrInvalidMarker, "invalid marker %q", marker)
	}

	if gameInstance == nil {
		return apperror.New(apperror.ErrGameNotFound, "game %d not found on server", gameID)
	}

	if gameInstance.LastMarker != "" && gameInstance.LastMarker == marker {
		return apperror.New(apperror.ErrOutOfTurn, "It is not your turn.")
	}

	return nil
}

// ApplyMove - places marker on a validated game and records the winner, if any.
// The occupancy check lives here so it runs against the same board state the write does.
func ApplyMove(gameInstance *entity.Game, row, column int, marker string) (string, error) {
	if !gameInstance.IsCellEmpty(row, column) {
		return "", apperror.New(apperror.ErrCellOccupied, "position already occupied")
	}

	gameInstance.Board[row][column] = marker
	gameInstance.LastMarker = marker
	gameInstance.Winner = gameInstance.ResolveWinner()

	return gameInstance.Winner, nil
}

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-coordinator/internal/entity"
)

const (
	msgInvalidBody      = "invalid request body"
	msgPlayersMissing   = "player names not supplied"
	msgMissingRow       = "invalid row null"
	msgMissingColumn    = "invalid column null"
	msgInternalError    = "Internal Server Error"
	contentTypeJSON     = "application/json"
	contentTypePlain    = "text/plain; charset=utf-8"
	headerContentType   = "Content-Type"
	pathValueUserID     = "userId"
	maxRequestBodyBytes = 4 << 20
)

type gameUseCase interface {
	CreateGame(ctx context.Context, player1, player2 string) (*entity.Game, error)
	GamesForUser(ctx context.Context, userID string) (map[int64]*entity.Game, error)
	MakeMove(ctx context.Context, gameID int64, row, column int, marker string) (string, error)
}

type createGameRequest struct {
	Player1 string `json:"player1" validate:"required"`
	Player2 string `json:"player2" validate:"required"`
}

// moveRequest - row and column are pointers so a missing value is not read as 0.
type moveRequest struct {
	GameID int64  `json:"gameId"`
	Row    *int   `json:"row"`
	Column *int   `json:"column"`
	Marker string `json:"marker"`
}

type Handlers struct {
	logger   *slog.Logger
	games    gameUseCase
	validate *validator.Validate
}

func NewHandlers(logger *slog.Logger, games gameUseCase) *Handlers {
	return &Handlers{
		logger:   logger.With("component", "rest"),
		games:    games,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// GamesForUser - GET /games/{userId}.
func (that *Handlers) GamesForUser(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "GamesForUser")

	games, err := that.games.GamesForUser(r.Context(), r.PathValue(pathValueUserID))
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusOK, games)
}

// CreateGame - POST /game.
func (that *Handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "CreateGame")

	var req createGameRequest
	if err := decodeBody(r, &req); err != nil {
		log.Debug("failed to decode request", "error", err)
		writeText(w, log, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if err := that.validate.Struct(req); err != nil {
		writeText(w, log, http.StatusBadRequest, msgPlayersMissing)
		return
	}

	game, err := that.games.CreateGame(r.Context(), req.Player1, req.Player2)
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	writeJSON(w, log, http.StatusCreated, game)
}

// MakeMove - POST /move, answers with the winner or an empty body while the game goes on.
func (that *Handlers) MakeMove(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "MakeMove")

	var req moveRequest
	if err := decodeBody(r, &req); err != nil {
		log.Debug("failed to decode request", "error", err)
		writeText(w, log, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if req.Row == nil {
		writeText(w, log, http.StatusBadRequest, msgMissingRow)
		return
	}

	if req.Column == nil {
		writeText(w, log, http.StatusBadRequest, msgMissingColumn)
		return
	}

	winner, err := that.games.MakeMove(r.Context(), req.GameID, *req.Row, *req.Column, req.Marker)
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	writeText(w, log, http.StatusOK, winner)
}

// writeError - client input errors become 400 with their message, anything else is a 500.
func (that *Handlers) writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	if msg, ok := apperror.Message(err); ok {
		writeText(w, log, http.StatusBadRequest, msg)
		return
	}

	log.Error("request failed", "error", err)
	writeText(w, log, http.StatusInternalServerError, msgInternalError)
}

// decodeBody - an empty body decodes to the zero request.
func decodeBody(r *http.Request, v any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err := decoder.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

func writeText(w http.ResponseWriter, log *slog.Logger, status int, msg string) {
	w.Header().Set(headerContentType, contentTypePlain)
	w.WriteHeader(status)
	if _, err := io.WriteString(w, msg); err != nil {
		log.Error("failed to write response", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error("failed to marshal response", "error", err)
		writeText(w, log, http.StatusInternalServerError, msgInternalError)
		return
	}

	w.Header().Set(headerContentType, contentTypeJSON)
	w.WriteHeader(status)
	if _, err = w.Write(data); err != nil {
		log.Error("failed to write response", "error", err)
	}
}

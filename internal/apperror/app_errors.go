package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidMarker     = errors.New("invalid marker")
	ErrGameNotFound      = errors.New("game not found")
	ErrOutOfTurn         = errors.New("it's not your turn")
	ErrCellOccupied      = errors.New("cell is already occupied")
)

// Error is a client input error. Message is what the caller gets back,
// Kind is one of the sentinel errors above.
type Error struct {
	Kind    error
	Message string
}

func New(kind error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func (that *Error) Error() string {
	return that.Message
}

func (that *Error) Unwrap() error {
	return that.Kind
}

// Message - returns the client facing message carried somewhere in the err chain.
func Message(err error) (string, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message, true
	}

	return "", false
}

package entity

const (
	MarkerX = "X"
	MarkerO = "O"

	EmptyCell = ""

	BoardSize = 3
)

// winLines - every row, column and both diagonals as (row, column) pairs.
var winLines = [][BoardSize][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

type Board [BoardSize][BoardSize]string

// Game - one active match. Player1 always plays X, Player2 always plays O.
type Game struct {
	ID         int64  `json:"id"`
	Player1    string `json:"player1"`
	Player2    string `json:"player2"`
	Board      Board  `json:"board"`
	LastMarker string `json:"lastMarker,omitempty"`
	Winner     string `json:"winner"`
}

func NewGame(id int64, player1, player2 string) *Game {
	return &Game{
		ID:      id,
		Player1: player1,
		Player2: player2,
	}
}

// HasWon - reports whether marker fills a whole row, column or diagonal.
func HasWon(board Board, marker string) bool {
	for _, line := range winLines {
		won := true
		for _, cell := range line {
			if board[cell[0]][cell[1]] != marker {
				won = false
				break
			}
		}

		if won {
			return true
		}
	}

	return false
}

// ResolveWinner - returns the id of the winning player or "" while undecided.
// X is checked first, so an impossible board where both markers won still resolves to Player1.
func (that *Game) ResolveWinner() string {
	switch {
	case HasWon(that.Board, MarkerX):
		return that.Player1
	case HasWon(that.Board, MarkerO):
		return that.Player2
	default:
		return ""
	}
}

func (that *Game) IsConcluded() bool {
	return that.Winner != ""
}

func (that *Game) HasPlayer(userID string) bool {
	return that.Player1 == userID || that.Player2 == userID
}

func (that *Game) IsCellEmpty(row, column int) bool {
	return that.Board[row][column] == EmptyCell
}

// Clone - returns a copy safe to hand out while the original keeps changing.
func (that *Game) Clone() *Game {
	clone := *that
	return &clone
}

func IsValidMarker(marker string) bool {
	return marker == MarkerX || marker == MarkerO
}

func IsValidCoordinate(value int) bool {
	return value >= 0 && value < BoardSize
}

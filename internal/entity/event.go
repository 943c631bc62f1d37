package entity

// MoveEvent - pushed to every real-time client after a move is applied.
type MoveEvent struct {
	GameID int64  `json:"gameId"`
	Row    int    `json:"row"`
	Column int    `json:"column"`
	Marker string `json:"marker"`
	Winner string `json:"winner"`
}

func NewMoveEvent(game *Game, row, column int, marker string) MoveEvent {
	return MoveEvent{
		GameID: game.ID,
		Row:    row,
		Column: column,
		Marker: marker,
		Winner: game.Winner,
	}
}

package entity

// Player is a seat occupant of a session.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Seat int    `json:"seat"`
	Wins int    `json:"score"`
}

func NewPlayer(id, name string) *Player {
	return &Player{ID: id, Name: name}
}

// Mark - the grid value used for this player's pieces (seat number, 1-based).
func (that *Player) Mark() int {
	return SeatMark(that.Seat)
}

// SeatMark - converts a 0-based seat index to the 1-based value stored in grids.
func SeatMark(seat int) int {
	return seat + 1
}

package entity

// Square addresses a cell on a row/column grid.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Move carries every variant's move shape; each validator reads only its own fields.
//
//	tic-tac-toe, battleship, memory: index
//	connect-four:                    column
//	checkers:                        from, to
//	rock-paper-scissors:             choice
//	dots-and-boxes:                  type ("h" | "v"), r, c
type Move struct {
	Index  *int    `json:"index,omitempty"`
	Column *int    `json:"column,omitempty"`
	From   *Square `json:"from,omitempty"`
	To     *Square `json:"to,omitempty"`
	Choice string  `json:"choice,omitempty"`
	Edge   string  `json:"type,omitempty"`
	Row    *int    `json:"r,omitempty"`
	Col    *int    `json:"c,omitempty"`
}

package entity

const (
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
	EmptyCell Mark = ""
)

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusDrawn      Status = "drawn"
)

// BoardSize is the number of cells on the board. Cells are addressed 1..BoardSize in reading order.
const BoardSize = 9

// Mark is the symbol occupying a cell, or EmptyCell.
type Mark string

// Other returns the opponent marker.
func (that Mark) Other() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

type Status string

func (that Status) IsOver() bool {
	return that == StatusWon || that == StatusDrawn
}

// Board holds cells in reading order; index 0 is cell 1.
type Board [BoardSize]Mark

// At returns the marker at a 1-based cell.
func (that Board) At(cell int) Mark {
	return that[cell-1]
}

func (that Board) IsFull() bool {
	for _, mark := range that {
		if mark == EmptyCell {
			return false
		}
	}

	return true
}

// Game is the persisted state of one browser session.
type Game struct {
	ID    string `json:"id"`
	Board Board  `json:"board"`
	Turn  Mark   `json:"player_turn"`
}

package entity

// WinningLine is a triple of 1-based cells tagged with the id of its strike overlay.
type WinningLine struct {
	ID    string `json:"id"`
	Cells [3]int `json:"cells"`
}

// WinningLines are checked in this order: rows top-to-bottom, columns left-to-right, then diagonals.
var WinningLines = [...]WinningLine{
	{ID: "row-1", Cells: [3]int{1, 2, 3}},
	{ID: "row-2", Cells: [3]int{4, 5, 6}},
	{ID: "row-3", Cells: [3]int{7, 8, 9}},
	{ID: "column-1", Cells: [3]int{1, 4, 7}},
	{ID: "column-2", Cells: [3]int{2, 5, 8}},
	{ID: "column-3", Cells: [3]int{3, 6, 9}},
	{ID: "diagonal-1", Cells: [3]int{1, 5, 9}},
	{ID: "diagonal-2", Cells: [3]int{3, 5, 7}},
}

// Owner returns the marker filling every cell of the line, or EmptyCell.
func (that WinningLine) Owner(board Board) Mark {
	a, b, c := board.At(that.Cells[0]), board.At(that.Cells[1]), board.At(that.Cells[2])
	if a != EmptyCell && a == b && b == c {
		return a
	}

	return EmptyCell
}

// LineByID looks a winning line up by its display id.
func LineByID(id string) (WinningLine, bool) {
	for _, line := range WinningLines {
		if line.ID == id {
			return line, true
		}
	}

	return WinningLine{}, false
}

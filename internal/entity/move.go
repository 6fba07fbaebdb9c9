package entity

import "github.com/rocketscienceinc/tictactoe-board/internal/apperror"

type MoveOutcome string

const (
	OutcomeAccepted     MoveOutcome = "accepted"
	OutcomeGameOver     MoveOutcome = "game_over"
	OutcomeCellOccupied MoveOutcome = "cell_occupied"
	OutcomeInvalidCell  MoveOutcome = "invalid_cell"
)

// MoveResult describes what a single move did to the game.
type MoveResult struct {
	Outcome MoveOutcome  `json:"outcome"`
	Cell    int          `json:"cell"`
	Board   Board        `json:"board"`
	Status  Status       `json:"status"`
	Turn    Mark         `json:"player_turn"`
	Winner  Mark         `json:"winner,omitempty"`
	Line    *WinningLine `json:"line,omitempty"`

	// Finished is set only on the move that ended the game.
	Finished bool `json:"finished"`
}

func (that MoveResult) Accepted() bool {
	return that.Outcome == OutcomeAccepted
}

// Err maps a rejected outcome to its apperror sentinel. Accepted moves return nil.
func (that MoveResult) Err() error {
	return that.Outcome.Err()
}

func (that MoveOutcome) Err() error {
	switch that {
	case OutcomeGameOver:
		return apperror.ErrGameOver
	case OutcomeCellOccupied:
		return apperror.ErrCellOccupied
	case OutcomeInvalidCell:
		return apperror.ErrInvalidCell
	default:
		return nil
	}
}

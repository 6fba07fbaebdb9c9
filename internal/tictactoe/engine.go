package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

// Engine owns the board, the turn and the game status of a single game.
// It is not safe for concurrent use; callers invoke it one operation at a time.
type Engine struct {
	board  entity.Board
	turn   entity.Mark
	status entity.Status
	winner entity.Mark
	line   *entity.WinningLine
}

// New returns an engine with an empty board and X to move.
func New() *Engine {
	engine := &Engine{}
	engine.Reset()

	return engine
}

// Restore rebuilds an engine from a persisted board and turn, re-deriving the status.
func Restore(board entity.Board, turn entity.Mark) (*Engine, error) {
	if !turn.IsPlayer() {
		return nil, fmt.Errorf("%w: turn %q", apperror.ErrInvalidSnapshot, turn)
	}

	lead := 0
	for i, mark := range board {
		switch mark {
		case entity.PlayerX:
			lead++
		case entity.PlayerO:
			lead--
		case entity.EmptyCell:
		default:
			return nil, fmt.Errorf("%w: cell %d holds %q", apperror.ErrInvalidSnapshot, i+1, mark)
		}
	}

	// X moves first, so X is level with O on X's turn and one ahead on O's.
	if (turn == entity.PlayerX && lead != 0) || (turn == entity.PlayerO && lead != 1) {
		return nil, fmt.Errorf("%w: %s to move with X leading by %d", apperror.ErrInvalidSnapshot, turn, lead)
	}

	engine := &Engine{
		board:  board,
		turn:   turn,
		status: entity.StatusInProgress,
	}
	engine.updateGameStatus()

	return engine, nil
}

// ApplyMove places the current turn's marker on a 1-based cell.
// Rejected moves leave the engine untouched and report why in the result outcome.
func (that *Engine) ApplyMove(cell int) entity.MoveResult {
	if outcome, ok := that.validateMove(cell); !ok {
		return that.result(outcome, cell, false)
	}

	that.board[cell-1] = that.turn
	that.turn = that.turn.Other()
	that.updateGameStatus()

	return that.result(entity.OutcomeAccepted, cell, that.status.IsOver())
}

// Reset returns the engine to its initial state regardless of the current status.
func (that *Engine) Reset() {
	that.board = entity.Board{}
	that.turn = entity.PlayerX
	that.status = entity.StatusInProgress
	that.winner = entity.EmptyCell
	that.line = nil
}

// HoverMarker returns the marker the next move would place. It keeps returning the
// nominal turn after the game is over; hiding hover hints is up to the caller.
func (that *Engine) HoverMarker() entity.Mark {
	return that.turn
}

func (that *Engine) Board() entity.Board {
	return that.board
}

func (that *Engine) Turn() entity.Mark {
	return that.turn
}

func (that *Engine) Status() entity.Status {
	return that.status
}

// Winner returns the winning marker, or EmptyCell unless the status is won.
func (that *Engine) Winner() entity.Mark {
	return that.winner
}

// WinningLine returns the completed line, or nil unless the status is won.
func (that *Engine) WinningLine() *entity.WinningLine {
	if that.line == nil {
		return nil
	}

	line := *that.line
	return &line
}

// Snapshot returns the persistable state of the engine under the given id.
func (that *Engine) Snapshot(id string) *entity.Game {
	return &entity.Game{
		ID:    id,
		Board: that.board,
		Turn:  that.turn,
	}
}

// validateMove - checks the move against the game rules.
func (that *Engine) validateMove(cell int) (entity.MoveOutcome, bool) {
	if that.status.IsOver() {
		return entity.OutcomeGameOver, false
	}

	if cell < 1 || cell > entity.BoardSize {
		return entity.OutcomeInvalidCell, false
	}

	if that.board.At(cell) != entity.EmptyCell {
		return entity.OutcomeCellOccupied, false
	}

	return entity.OutcomeAccepted, true
}

// updateGameStatus - evaluates win, then draw, after the board changed.
func (that *Engine) updateGameStatus() {
	if line, winner, ok := findWinningLine(that.board); ok {
		that.status = entity.StatusWon
		that.winner = winner
		that.line = &line
		return
	}

	if that.board.IsFull() {
		that.status = entity.StatusDrawn
		return
	}

	that.status = entity.StatusInProgress
}

func (that *Engine) result(outcome entity.MoveOutcome, cell int, finished bool) entity.MoveResult {
	return entity.MoveResult{
		Outcome:  outcome,
		Cell:     cell,
		Board:    that.board,
		Status:   that.status,
		Turn:     that.turn,
		Winner:   that.winner,
		Line:     that.WinningLine(),
		Finished: finished,
	}
}

// findWinningLine returns the first uniform line in entity.WinningLines order.
func findWinningLine(board entity.Board) (entity.WinningLine, entity.Mark, bool) {
	for _, line := range entity.WinningLines {
		if owner := line.Owner(board); owner != entity.EmptyCell {
			return line, owner, true
		}
	}

	return entity.WinningLine{}, entity.EmptyCell, false
}

package apperror

import "errors"

var (
	ErrGameOver        = errors.New("game is already over")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrInvalidCell     = errors.New("invalid cell index")
	ErrGameNotFound    = errors.New("game not found")
	ErrInvalidSnapshot = errors.New("invalid game snapshot")
	ErrUnknownAction   = errors.New("unknown action")
)

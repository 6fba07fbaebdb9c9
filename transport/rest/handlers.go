package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-board/internal/presenter"
)

type moveRequest struct {
	Cell *int `json:"cell"`
}

type errorResponse struct {
	Error string          `json:"error"`
	View  *presenter.View `json:"view,omitempty"`
}

type gameHandler struct {
	logger  *slog.Logger
	game    gameSession
	session pkg.SessionCookie
}

func newGameHandler(logger *slog.Logger, game gameSession, session pkg.SessionCookie) *gameHandler {
	return &gameHandler{
		logger:  logger.With("component", "rest"),
		game:    game,
		session: session,
	}
}

func (that *gameHandler) getState(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := that.session.Ensure(w, r)

	view, err := that.game.State(r.Context(), sessionID)
	if err != nil {
		that.internalError(w, "getState", err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (that *gameHandler) postMove(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := that.session.Ensure(w, r)

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cell is required"})
		return
	}

	view, err := that.game.MakeMove(r.Context(), sessionID, *req.Cell)
	if err != nil {
		that.internalError(w, "postMove", err)
		return
	}

	if err = view.Outcome.Err(); err != nil {
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error(), View: view})
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (that *gameHandler) postReset(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := that.session.Ensure(w, r)

	view, err := that.game.Restart(r.Context(), sessionID)
	if err != nil {
		that.internalError(w, "postReset", err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// deleteGame drops the session's game; the next request starts over.
func (that *gameHandler) deleteGame(w http.ResponseWriter, r *http.Request) {
	sessionID, issued := that.session.Ensure(w, r)
	if issued {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := that.game.End(r.Context(), sessionID); err != nil {
		that.internalError(w, "deleteGame", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *gameHandler) internalError(w http.ResponseWriter, method string, err error) {
	that.logger.Error("request failed", "method", method, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrInvalidCell):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrGameOver), errors.Is(err, apperror.ErrCellOccupied):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

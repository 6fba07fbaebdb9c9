package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
	"github.com/rocketscienceinc/tictactoe-board/internal/presenter"
	"github.com/rocketscienceinc/tictactoe-board/internal/tictactoe"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameSession runs one game per browser session on top of the engine.
type GameSession struct {
	logger   *slog.Logger
	gameRepo gameRepo

	locks *sessionLocks
}

func NewGameSession(logger *slog.Logger, gameRepo gameRepo) *GameSession {
	return &GameSession{
		logger:   logger.With("component", "game_session"),
		gameRepo: gameRepo,
		locks:    newSessionLocks(),
	}
}

// State returns the view of the session's game, starting a new game if there is none.
func (that *GameSession) State(ctx context.Context, sessionID string) (*presenter.View, error) {
	unlock := that.lock(sessionID)
	defer unlock()

	engine, err := that.loadEngine(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return presenter.Render(engine, nil), nil
}

// MakeMove applies a move for the session. A rejected move is not an error: the view carries the outcome.
func (that *GameSession) MakeMove(ctx context.Context, sessionID string, cell int) (*presenter.View, error) {
	log := that.logger.With("method", "MakeMove", "cell", cell)

	unlock := that.lock(sessionID)
	defer unlock()

	engine, err := that.loadEngine(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result := engine.ApplyMove(cell)
	if !result.Accepted() {
		log.Debug("move rejected", "outcome", result.Outcome)
		return presenter.Render(engine, &result), nil
	}

	if err = that.saveEngine(ctx, sessionID, engine); err != nil {
		return nil, err
	}

	if result.Finished {
		log.Info("game over", "status", result.Status, "winner", result.Winner)
	}

	return presenter.Render(engine, &result), nil
}

// Restart resets the session's game whatever its status.
func (that *GameSession) Restart(ctx context.Context, sessionID string) (*presenter.View, error) {
	unlock := that.lock(sessionID)
	defer unlock()

	engine := tictactoe.New()
	if err := that.saveEngine(ctx, sessionID, engine); err != nil {
		return nil, err
	}

	that.logger.Debug("game restarted", "method", "Restart")

	return presenter.Render(engine, nil), nil
}

// End drops the session's game from storage.
func (that *GameSession) End(ctx context.Context, sessionID string) error {
	unlock := that.lock(sessionID)
	defer unlock()

	err := that.gameRepo.DeleteByID(ctx, sessionID)
	if err != nil && !errors.Is(err, apperror.ErrGameNotFound) {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}

func (that *GameSession) loadEngine(ctx context.Context, sessionID string) (*tictactoe.Engine, error) {
	game, err := that.gameRepo.GetByID(ctx, sessionID)
	if errors.Is(err, apperror.ErrGameNotFound) {
		return tictactoe.New(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	engine, err := tictactoe.Restore(game.Board, game.Turn)
	if err != nil {
		that.logger.Warn("discarding unreadable game", "method", "loadEngine", "error", err)
		return tictactoe.New(), nil
	}

	return engine, nil
}

func (that *GameSession) saveEngine(ctx context.Context, sessionID string, engine *tictactoe.Engine) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, engine.Snapshot(sessionID)); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}

	return nil
}

// lock serialises operations of one session so its engine sees one call at a time.
func (that *GameSession) lock(sessionID string) func() {
	return that.locks.lock(sessionID)
}

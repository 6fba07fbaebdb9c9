package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

type memoryEntry struct {
	game      entity.Game
	expiresAt time.Time
}

func (that memoryEntry) expired(now time.Time) bool {
	return !that.expiresAt.IsZero() && !now.Before(that.expiresAt)
}

type MemoryGameRepository struct {
	mu    sync.Mutex
	games map[string]memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryGameRepository keeps games in process memory with the same expiry rules as the redis repository.
// Call RunSweeper to drop expired games that are never read again.
func NewMemoryGameRepository(ttl time.Duration) *MemoryGameRepository {
	return newMemoryGameRepository(ttl, time.Now)
}

func newMemoryGameRepository(ttl time.Duration, now func() time.Time) *MemoryGameRepository {
	return &MemoryGameRepository{
		games: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   now,
	}
}

func (that *MemoryGameRepository) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry := memoryEntry{game: *game}
	if that.ttl > 0 {
		entry.expiresAt = that.now().Add(that.ttl)
	}

	that.games[game.ID] = entry

	return nil
}

func (that *MemoryGameRepository) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.lookup(id)
	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	game := entry.game
	return &game, nil
}

func (that *MemoryGameRepository) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.lookup(id); !ok {
		return apperror.ErrGameNotFound
	}

	delete(that.games, id)

	return nil
}

// Sweep removes every expired game and returns how many were removed.
func (that *MemoryGameRepository) Sweep() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	now := that.now()
	removed := 0

	for id, entry := range that.games {
		if entry.expired(now) {
			delete(that.games, id)
			removed++
		}
	}

	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (that *MemoryGameRepository) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			that.Sweep()
		}
	}
}

// lookup drops the entry when it has expired. Callers hold mu.
func (that *MemoryGameRepository) lookup(id string) (memoryEntry, bool) {
	entry, ok := that.games[id]
	if !ok {
		return memoryEntry{}, false
	}

	if entry.expired(that.now()) {
		delete(that.games, id)
		return memoryEntry{}, false
	}

	return entry, true
}

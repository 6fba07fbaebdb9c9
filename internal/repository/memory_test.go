package repository

import (
	"context"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (that *fakeClock) Now() time.Time {
	return that.now
}

func TestMemoryGameRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores and returns a copy", func(t *testing.T) {
		// Given: a stored game
		repo := NewMemoryGameRepository(0)
		game := sampleGame()
		require.NoError(t, repo.CreateOrUpdate(ctx, game))

		// When: the caller mutates its game after saving
		game.Board[1] = "O"

		// Then: the stored game is unaffected
		stored, err := repo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, sampleGame(), stored)
	})

	t.Run("Missing game", func(t *testing.T) {
		repo := NewMemoryGameRepository(0)

		_, err := repo.GetByID(ctx, "nope")

		assert.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewMemoryGameRepository(0)
		require.NoError(t, repo.CreateOrUpdate(ctx, sampleGame()))

		require.NoError(t, repo.DeleteByID(ctx, "123"))

		_, err := repo.GetByID(ctx, "123")
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.ErrorIs(t, repo.DeleteByID(ctx, "123"), apperror.ErrGameNotFound)
	})

	t.Run("Entries expire after the ttl", func(t *testing.T) {
		// Given: a repository with a one minute ttl and a stored game
		clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
		repo := newMemoryGameRepository(time.Minute, clock.Now)
		require.NoError(t, repo.CreateOrUpdate(ctx, sampleGame()))

		// When: less than the ttl has passed
		clock.now = clock.now.Add(59 * time.Second)

		// Then: the game is still there
		_, err := repo.GetByID(ctx, "123")
		require.NoError(t, err)

		// When: the ttl has passed
		clock.now = clock.now.Add(time.Second)

		// Then: the game is gone
		_, err = repo.GetByID(ctx, "123")
		assert.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Writes refresh the ttl", func(t *testing.T) {
		clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
		repo := newMemoryGameRepository(time.Minute, clock.Now)
		require.NoError(t, repo.CreateOrUpdate(ctx, sampleGame()))

		clock.now = clock.now.Add(50 * time.Second)
		require.NoError(t, repo.CreateOrUpdate(ctx, sampleGame()))
		clock.now = clock.now.Add(50 * time.Second)

		_, err := repo.GetByID(ctx, "123")
		assert.NoError(t, err)
	})
}

func TestMemoryGameRepository_Sweep(t *testing.T) {
	ctx := context.Background()

	t.Run("Removes expired games without a lookup", func(t *testing.T) {
		// Given: two games, one written a minute before the other
		clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
		repo := newMemoryGameRepository(90*time.Second, clock.Now)
		require.NoError(t, repo.CreateOrUpdate(ctx, &entity.Game{ID: "old", Turn: entity.PlayerX}))
		clock.now = clock.now.Add(time.Minute)
		require.NoError(t, repo.CreateOrUpdate(ctx, &entity.Game{ID: "new", Turn: entity.PlayerX}))

		// When: the first game has expired and a sweep runs
		clock.now = clock.now.Add(40 * time.Second)
		removed := repo.Sweep()

		// Then: only the expired game is dropped from memory
		assert.Equal(t, 1, removed)
		assert.Len(t, repo.games, 1)
		assert.Contains(t, repo.games, "new")
	})

	t.Run("Keeps games without a ttl", func(t *testing.T) {
		repo := NewMemoryGameRepository(0)
		require.NoError(t, repo.CreateOrUpdate(ctx, sampleGame()))

		assert.Zero(t, repo.Sweep())
		assert.Len(t, repo.games, 1)
	})
}

func TestMemoryGameRepository_RunSweeper(t *testing.T) {
	// Given: a game that expires almost immediately
	repo := NewMemoryGameRepository(time.Millisecond)
	require.NoError(t, repo.CreateOrUpdate(context.Background(), sampleGame()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	// When: the sweeper runs in the background
	go func() {
		repo.RunSweeper(ctx, 5*time.Millisecond)
		close(done)
	}()

	// Then: the game is dropped without anyone reading it
	require.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()

		return len(repo.games) == 0
	}, time.Second, 5*time.Millisecond)

	// And: the sweeper stops with its context
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

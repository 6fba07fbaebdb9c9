package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-board/internal/config"
	"github.com/rocketscienceinc/tictactoe-board/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-board/internal/repository"
	"github.com/rocketscienceinc/tictactoe-board/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-board/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-board/transport/rest"
	"github.com/rocketscienceinc/tictactoe-board/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gameRepo, closeRepo, err := newGameRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err := closeRepo(); err != nil {
			log.Error("could not close game storage", "error", err)
		}
	}()

	gameSession := usecase.NewGameSession(logger, gameRepo)
	sessionCookie := pkg.SessionCookie{Name: conf.Session.CookieName, TTL: conf.Session.TTL}
	wsServer := websocket.New(logger, gameSession, sessionCookie, conf.CORS.AllowedOrigins)

	router := rest.NewRouter(logger, gameSession, rest.Options{
		Session:        sessionCookie,
		AllowedOrigins: conf.CORS.AllowedOrigins,
		Mount: func(r chi.Router) {
			r.Handle("/ws", wsServer)
		},
	})

	log.Info("Starting HTTP server", "port", conf.HTTPPort, "storage", conf.Storage)

	if err = rest.Start(ctx, conf.HTTPPort, router); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

func newGameRepository(ctx context.Context, conf *config.Config) (repository.GameRepository, func() error, error) {
	if conf.Storage != config.StorageRedis {
		memoryRepo := repository.NewMemoryGameRepository(conf.Session.TTL)
		if conf.Session.TTL > 0 && conf.Session.SweepInterval > 0 {
			go memoryRepo.RunSweeper(ctx, conf.Session.SweepInterval)
		}

		return memoryRepo, func() error { return nil }, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return repository.NewGameRepository(redisStorage, conf.Session.TTL), redisStorage.Close, nil
}

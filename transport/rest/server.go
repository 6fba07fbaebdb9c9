package rest

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rocketscienceinc/tictactoe-board/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-board/internal/presenter"
)

//go:embed web
var webFiles embed.FS

type gameSession interface {
	State(ctx context.Context, sessionID string) (*presenter.View, error)
	MakeMove(ctx context.Context, sessionID string, cell int) (*presenter.View, error)
	Restart(ctx context.Context, sessionID string) (*presenter.View, error)
	End(ctx context.Context, sessionID string) error
}

type Options struct {
	Session        pkg.SessionCookie
	AllowedOrigins []string

	// Mount registers extra routes, such as the websocket endpoint, on the router.
	Mount func(r chi.Router)
}

// NewRouter builds the HTTP surface of the game: the page, the JSON api and /ping.
func NewRouter(logger *slog.Logger, game gameSession, opts Options) http.Handler {
	handler := newGameHandler(logger, game, opts.Session)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", pingHandler)

	r.Route("/api/game", func(r chi.Router) {
		r.Get("/", handler.getState)
		r.Post("/moves", handler.postMove)
		r.Post("/reset", handler.postReset)
		r.Delete("/", handler.deleteGame)
	})

	if opts.Mount != nil {
		opts.Mount(r)
	}

	static, err := fs.Sub(webFiles, "web")
	if err != nil {
		panic(err)
	}
	r.Handle("/*", http.FileServer(http.FS(static)))

	return r
}

// Start - serves the handler until ctx is canceled.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	log := logger.With("component", "http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Debug("request served",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

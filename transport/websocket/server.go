package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-board/internal/presenter"
)

type gameSession interface {
	State(ctx context.Context, sessionID string) (*presenter.View, error)
	MakeMove(ctx context.Context, sessionID string, cell int) (*presenter.View, error)
	Restart(ctx context.Context, sessionID string) (*presenter.View, error)
}

type handlerFunc func(ctx context.Context, sessionID string, msg *Message) (*presenter.View, error)

type Server struct {
	logger   *slog.Logger
	game     gameSession
	session  pkg.SessionCookie
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc
}

// New returns the websocket endpoint. Browsers from origins outside allowedOrigins are refused;
// an entry of "*" allows any origin.
func New(logger *slog.Logger, game gameSession, session pkg.SessionCookie, allowedOrigins []string) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		game:    game,
		session: session,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionGameState] = server.handleGameState
	server.handlers[actionTileClick] = server.handleTileClick
	server.handlers[actionGameRestart] = server.handleGameRestart

	return server
}

// ServeHTTP - upgrades the connection to WebSocket and serves its messages.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	sessionID, cookie := that.session.Resolve(req)

	header := http.Header{}
	if cookie != nil {
		header.Add("Set-Cookie", cookie.String())
	}

	conn, err := that.upgrader.Upgrade(writer, req, header)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer conn.Close()

	log.Info("WebSocket connection established")

	if err = that.handleMessages(req.Context(), conn, sessionID); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client until it goes away.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn, sessionID string) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, body, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info("WebSocket connection closed")
				return nil
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(body, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			if err = that.sendError(conn, "", "malformed message"); err != nil {
				return err
			}
			continue
		}

		if err = that.dispatch(ctx, conn, sessionID, &message); err != nil {
			return err
		}
	}
}

func (that *Server) dispatch(ctx context.Context, conn *websocket.Conn, sessionID string, msg *Message) error {
	log := that.logger.With("method", "dispatch", "action", msg.Action)

	handler, ok := that.handlers[msg.Action]
	if !ok {
		log.Warn("unknown action")
		return that.sendError(conn, msg.Action, apperror.ErrUnknownAction.Error())
	}

	view, err := handler(ctx, sessionID, msg)

	response := ResponsePayload{View: view}
	if err != nil {
		if view == nil {
			log.Error("error processing message", "error", err)
		}
		response.Error = err.Error()
	}

	return that.send(conn, msg.Action, response)
}

func (that *Server) handleGameState(ctx context.Context, sessionID string, _ *Message) (*presenter.View, error) {
	view, err := that.game.State(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return view, nil
}

// handleTileClick applies a move. A rejected move returns the view together with the rejection.
func (that *Server) handleTileClick(ctx context.Context, sessionID string, msg *Message) (*presenter.View, error) {
	payload, err := msg.decodePayload()
	if err != nil {
		return nil, err
	}

	if payload.Cell == nil {
		return nil, errors.New("cell is required")
	}

	view, err := that.game.MakeMove(ctx, sessionID, *payload.Cell)
	if err != nil {
		return nil, fmt.Errorf("failed to make move: %w", err)
	}

	return view, view.Outcome.Err()
}

func (that *Server) handleGameRestart(ctx context.Context, sessionID string, _ *Message) (*presenter.View, error) {
	view, err := that.game.Restart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to restart game: %w", err)
	}

	return view, nil
}

func (that *Server) send(conn *websocket.Conn, action string, payload ResponsePayload) error {
	message, err := newMessage(action, payload)
	if err != nil {
		return err
	}

	if err = conn.WriteJSON(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendError(conn *websocket.Conn, action, errorMsg string) error {
	if err := that.send(conn, action, ResponsePayload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

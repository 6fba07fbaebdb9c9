package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
	"github.com/rocketscienceinc/tictactoe-board/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-board/internal/presenter"
	"github.com/rocketscienceinc/tictactoe-board/internal/repository"
	"github.com/rocketscienceinc/tictactoe-board/internal/usecase"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	game := usecase.NewGameSession(logger, repository.NewMemoryGameRepository(0))
	server := New(logger, game, pkg.SessionCookie{Name: "user_session", TTL: time.Hour}, []string{"http://localhost:9090"})

	httpServer := httptest.NewServer(server)
	t.Cleanup(httpServer.Close)

	return httpServer
}

func dial(t *testing.T, server *httptest.Server, header http.Header) (*websocket.Conn, *http.Response) {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn, resp
}

func roundTrip(t *testing.T, conn *websocket.Conn, request string) (string, ResponsePayload) {
	t.Helper()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(request)))

	var message Message
	require.NoError(t, conn.ReadJSON(&message))

	var payload ResponsePayload
	require.NoError(t, json.Unmarshal(message.Payload, &payload))

	return message.Action, payload
}

func TestServer_Handshake(t *testing.T) {
	t.Run("Issues a session cookie on upgrade", func(t *testing.T) {
		_, resp := dial(t, newTestServer(t), nil)

		cookies := resp.Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "user_session", cookies[0].Name)
	})

	t.Run("Refuses foreign origins", func(t *testing.T) {
		server := newTestServer(t)
		url := "ws" + strings.TrimPrefix(server.URL, "http")

		_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"http://evil.example"}})

		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestServer_Game(t *testing.T) {
	// Given: a connected client
	conn, _ := dial(t, newTestServer(t), nil)

	// When: the state is requested
	action, payload := roundTrip(t, conn, `{"action":"game:state"}`)

	// Then: a fresh game is returned
	assert.Equal(t, actionGameState, action)
	require.NotNil(t, payload.View)
	assert.Equal(t, entity.PlayerX, payload.View.Turn)

	// When: X wins the top row
	var view *presenter.View
	for _, cell := range []string{"1", "4", "2", "5", "3"} {
		action, payload = roundTrip(t, conn, `{"action":"tile:click","payload":{"cell":`+cell+`}}`)
		require.Equal(t, actionTileClick, action)
		require.Empty(t, payload.Error)
		view = payload.View
	}

	// Then: the view announces the winner
	require.NotNil(t, view)
	assert.Equal(t, "Winner is X!", view.GameOver.Text)
	assert.Equal(t, "strike strike-row-1", view.Strike)

	// When: another tile is clicked
	_, payload = roundTrip(t, conn, `{"action":"tile:click","payload":{"cell":9}}`)

	// Then: it is rejected but the view is still sent
	assert.Equal(t, "game is already over", payload.Error)
	require.NotNil(t, payload.View)
	assert.Equal(t, entity.OutcomeGameOver, payload.View.Outcome)

	// When: the game is restarted
	action, payload = roundTrip(t, conn, `{"action":"game:restart"}`)

	// Then: the board is empty again
	assert.Equal(t, actionGameRestart, action)
	require.NotNil(t, payload.View)
	assert.False(t, payload.View.GameOver.Visible)
	assert.Empty(t, payload.View.Tiles[0].Text)
}

func TestServer_BadMessages(t *testing.T) {
	conn, _ := dial(t, newTestServer(t), nil)

	t.Run("Unknown action", func(t *testing.T) {
		action, payload := roundTrip(t, conn, `{"action":"game:undo"}`)

		assert.Equal(t, "game:undo", action)
		assert.Equal(t, "unknown action", payload.Error)
		assert.Nil(t, payload.View)
	})

	t.Run("Malformed message", func(t *testing.T) {
		_, payload := roundTrip(t, conn, `not json`)

		assert.Equal(t, "malformed message", payload.Error)
	})

	t.Run("Click without a cell", func(t *testing.T) {
		_, payload := roundTrip(t, conn, `{"action":"tile:click","payload":{}}`)

		assert.Equal(t, "cell is required", payload.Error)
	})

	t.Run("Connection survives bad messages", func(t *testing.T) {
		_, payload := roundTrip(t, conn, `{"action":"tile:click","payload":{"cell":5}}`)

		require.NotNil(t, payload.View)
		assert.Equal(t, entity.OutcomeAccepted, payload.View.Outcome)
	})
}

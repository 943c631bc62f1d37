package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-coordinator/internal/entity"
)

const waitFor = 2 * time.Second

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer - upgrades every request and registers it with hub.
func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()

	upgrader := gorilla.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		client := NewConnection(newTestLogger(), conn)
		hub.Register(client)
		client.Serve(context.Background())
	}))

	t.Cleanup(srv.Close)
	t.Cleanup(hub.Close)

	return srv
}

func dial(t *testing.T, srv *httptest.Server) *gorilla.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = resp.Body.Close()
		_ = conn.Close()
	})

	return conn
}

func readEvent(t *testing.T, conn *gorilla.Conn) entity.MoveEvent {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(waitFor)))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event entity.MoveEvent
	require.NoError(t, json.Unmarshal(data, &event))

	return event
}

func TestHub_Notify(t *testing.T) {
	t.Run("Every client receives the move", func(t *testing.T) {
		// Given: two connected clients
		hub := NewHub(newTestLogger())
		srv := newTestServer(t, hub)
		first := dial(t, srv)
		second := dial(t, srv)
		require.Eventually(t, func() bool { return hub.Len() == 2 }, waitFor, 10*time.Millisecond)

		// When: a move is broadcast
		event := entity.MoveEvent{GameID: 42, Row: 1, Column: 2, Marker: entity.MarkerO, Winner: ""}
		hub.Notify(context.Background(), event)

		// Then: both clients get the same event
		assert.Equal(t, event, readEvent(t, first))
		assert.Equal(t, event, readEvent(t, second))
	})

	t.Run("Wire format", func(t *testing.T) {
		hub := NewHub(newTestLogger())
		srv := newTestServer(t, hub)
		client := dial(t, srv)
		require.Eventually(t, func() bool { return hub.Len() == 1 }, waitFor, 10*time.Millisecond)

		// When: a winning move is broadcast
		hub.Notify(context.Background(), entity.MoveEvent{GameID: 7, Row: 2, Column: 2, Marker: entity.MarkerX, Winner: "alice"})

		// Then: the message carries gameId, row, column, marker and winner
		require.NoError(t, client.SetReadDeadline(time.Now().Add(waitFor)))
		_, data, err := client.ReadMessage()
		require.NoError(t, err)
		assert.JSONEq(t, `{"gameId":7,"row":2,"column":2,"marker":"X","winner":"alice"}`, string(data))
	})

	t.Run("Closed connections are pruned", func(t *testing.T) {
		// Given: a client that disconnects
		hub := NewHub(newTestLogger())
		srv := newTestServer(t, hub)
		client := dial(t, srv)
		require.Eventually(t, func() bool { return hub.Len() == 1 }, waitFor, 10*time.Millisecond)

		closeMessage := gorilla.FormatCloseMessage(gorilla.CloseNormalClosure, "bye")
		require.NoError(t, client.WriteControl(gorilla.CloseMessage, closeMessage, time.Now().Add(waitFor)))

		hub.mu.Lock()
		registered := hub.connections[0]
		hub.mu.Unlock()
		require.Eventually(t, func() bool { return registered.State() == StateClosed }, waitFor, 10*time.Millisecond)

		// When: the next move is broadcast
		hub.Notify(context.Background(), entity.MoveEvent{GameID: 1, Marker: entity.MarkerX})

		// Then: the closed connection is gone
		assert.Equal(t, 0, hub.Len())
	})

	t.Run("A stuck connection does not block the others", func(t *testing.T) {
		// Given: a connection whose queue never drains next to a healthy client
		hub := NewHub(newTestLogger())
		srv := newTestServer(t, hub)

		stuck := &Connection{
			ID:     "stuck",
			logger: newTestLogger(),
			send:   make(chan []byte),
			done:   make(chan struct{}),
		}
		hub.Register(stuck)

		client := dial(t, srv)
		require.Eventually(t, func() bool { return hub.Len() == 2 }, waitFor, 10*time.Millisecond)

		// When: a move is broadcast
		event := entity.MoveEvent{GameID: 3, Row: 0, Column: 0, Marker: entity.MarkerX}
		assert.NotPanics(t, func() { hub.Notify(context.Background(), event) })

		// Then: the healthy client still receives it and the stuck one stays registered
		assert.Equal(t, event, readEvent(t, client))
		assert.Equal(t, 2, hub.Len())
	})

	t.Run("No connections", func(t *testing.T) {
		hub := NewHub(newTestLogger())

		assert.NotPanics(t, func() {
			hub.Notify(context.Background(), entity.MoveEvent{GameID: 1})
		})
		assert.Equal(t, 0, hub.Len())
	})
}

func TestConnection_Send(t *testing.T) {
	newConnection := func() *Connection {
		return &Connection{
			ID:     "test",
			logger: newTestLogger(),
			send:   make(chan []byte, 1),
			done:   make(chan struct{}),
		}
	}

	t.Run("Queues while open", func(t *testing.T) {
		conn := newConnection()

		require.NoError(t, conn.Send([]byte("move")))
		assert.Equal(t, []byte("move"), <-conn.send)
	})

	t.Run("Reports a full queue", func(t *testing.T) {
		conn := newConnection()
		require.NoError(t, conn.Send([]byte("first")))

		assert.ErrorIs(t, conn.Send([]byte("second")), ErrSendBufferFull)
	})

	t.Run("Closing connections are still live", func(t *testing.T) {
		conn := newConnection()

		// When: a close is requested but the pump has not finished
		conn.Close()

		// Then: the connection is closing and still accepts broadcasts
		assert.Equal(t, StateClosing, conn.State())
		assert.True(t, conn.IsLive())
		assert.NoError(t, conn.Send([]byte("move")))
	})

	t.Run("Rejects closed connections", func(t *testing.T) {
		conn := newConnection()
		conn.state.Store(int32(StateClosed))

		assert.False(t, conn.IsLive())
		assert.ErrorIs(t, conn.Send([]byte("move")), ErrConnectionClosed)
	})
}

func TestConnection_Serve(t *testing.T) {
	t.Run("Messages queued before Close are still delivered", func(t *testing.T) {
		// Given: a server connection with three queued messages and a close already requested
		upgrader := gorilla.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			conn, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}

			client := NewConnection(newTestLogger(), conn)
			for _, message := range []string{"first", "second", "third"} {
				_ = client.Send([]byte(message))
			}
			client.Close()

			client.Serve(context.Background())
		}))
		t.Cleanup(srv.Close)

		// When: the client reads until the socket closes
		conn := dial(t, srv)

		var received []string
		for {
			require.NoError(t, conn.SetReadDeadline(time.Now().Add(waitFor)))

			_, data, err := conn.ReadMessage()
			if err != nil {
				assert.True(t, gorilla.IsCloseError(err, gorilla.CloseNormalClosure), "unexpected error: %v", err)
				break
			}
			received = append(received, string(data))
		}

		// Then: every queued message arrived before the close frame
		assert.Equal(t, []string{"first", "second", "third"}, received)
	})
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "closing", StateClosing.String())
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "state(9)", State(9).String())
}

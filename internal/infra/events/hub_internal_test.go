package events

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pizzeria/internal/domain/model"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serverConn returns the server side of a live websocket connection.
func serverConn(t *testing.T) *websocket.Conn {
	t.Helper()
	conns := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns <- conn
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case conn := <-conns:
		t.Cleanup(func() { conn.Close() })
		return conn
	case <-time.After(time.Second):
		t.Fatal("websocket upgrade timed out")
		return nil
	}
}

func TestHub_StatusChanged_DropsStalledClient(t *testing.T) {
	hub := NewHub()
	t.Cleanup(hub.Close)

	// no writer goroutine: the queue never drains
	c := newWSClient(serverConn(t), 0)
	hub.register(c)

	start := time.Now()
	for i := range sendBuffer + 1 {
		hub.StatusChanged(context.Background(), model.StatusChange{
			Resource:   model.StatusResourceOrder,
			ResourceID: 1,
			OrderID:    1,
			To:         "COOKING",
			CreatedAt:  start.Add(time.Duration(i) * time.Second),
		})
	}

	assert.Less(t, time.Since(start), writeWait)
	assert.Equal(t, 0, hub.Clients())
	select {
	case <-c.done:
	default:
		t.Fatal("stalled client was not closed")
	}
}

func TestHub_Close_StopsWriter(t *testing.T) {
	hub := NewHub()
	c := newWSClient(serverConn(t), 0)
	hub.register(c)

	stopped := make(chan struct{})
	go func() {
		hub.writeLoop(c)
		close(stopped)
	}()

	hub.Close()
	hub.Close()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("writer still running after Close")
	}
	assert.Equal(t, 0, hub.Clients())
}

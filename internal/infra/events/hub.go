package events

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"pizzeria/internal/domain/model"
	"pizzeria/internal/usecase"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many events a client may fall behind before it is dropped.
	sendBuffer = 16
)

// Hub pushes status changes to connected websocket clients. A client may
// restrict itself to one order.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
}

var _ usecase.StatusNotifier = (*Hub)(nil)

// wsClient owns one connection. Only its writer goroutine writes to conn.
type wsClient struct {
	conn    *websocket.Conn
	orderID int64
	send    chan Event
	done    chan struct{}
	once    sync.Once
}

func newWSClient(conn *websocket.Conn, orderID int64) *wsClient {
	return &wsClient{
		conn:    conn,
		orderID: orderID,
		send:    make(chan Event, sendBuffer),
		done:    make(chan struct{}),
	}
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  make(map[*wsClient]struct{}),
	}
}

// ServeWS upgrades the request and blocks until the client goes away.
// orderID 0 subscribes to every order.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, orderID int64) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := newWSClient(conn, orderID)
	h.register(c)
	defer h.unregister(c)
	go h.writeLoop(c)

	slog.InfoContext(r.Context(), "websocket client connected", slog.Int64("order-id", orderID))

	// inbound frames are ignored; reading detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

// Clients is the number of connected subscribers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) StatusChanged(ctx context.Context, change model.StatusChange) {
	h.mu.RLock()
	targets := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		if c.orderID == 0 || c.orderID == change.OrderID {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	msg := Event{Event: EventStatusChanged, Data: change}
	for _, c := range targets {
		select {
		case c.send <- msg:
		case <-c.done:
		default:
			slog.WarnContext(ctx, "websocket client too slow, dropping client",
				slog.Int64("order-id", change.OrderID),
			)
			h.unregister(c)
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.close()
		delete(h.clients, c)
	}
}

func (h *Hub) register(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		c.close()
		delete(h.clients, c)
	}
}

// writeLoop drains the client's queue until the client is closed.
func (h *Hub) writeLoop(c *wsClient) {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			if err := c.write(msg); err != nil {
				slog.Warn("websocket write failed, dropping client",
					slog.Int64("order-id", c.orderID),
					slog.Any("err", err),
				)
				h.unregister(c)
				return
			}
		}
	}
}

func (c *wsClient) write(v any) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

func (c *wsClient) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

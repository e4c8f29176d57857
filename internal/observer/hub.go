// Package observer streams match snapshots to websocket clients.
//
// A Hub owns the set of connected clients. The simulation goroutine publishes
// frames with Publish; the hub fans each frame out to every client's buffered
// send channel and drops clients that fall behind. A newly connected client
// first receives the most recent frame.
package observer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// ErrStopped is returned by Publish once the hub loop has exited
var ErrStopped = errors.New("observer hub stopped")

const (
	sendBuffer = 16
	writeWait  = 5 * time.Second
)

// Message is the JSON envelope of every frame
type Message struct {
	Type    string `json:"type"`
	Tick    int64  `json:"tick"`
	Payload any    `json:"payload"`
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the active clients and broadcasts frames to them
type Hub struct {
	log        zerolog.Logger
	clients    map[*client]struct{}
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}
	count      atomic.Int64
	upgrader   websocket.Upgrader
}

// NewHub creates a hub. Run must be started before clients connect.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		log:        log.With().Str("component", "observer").Logger(),
		clients:    make(map[*client]struct{}),
		broadcast:  make(chan []byte),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Run is the hub event loop. It returns when ctx is cancelled, closing every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	var last []byte
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.count.Add(1)
			if last != nil {
				c.send <- last
			}
			h.log.Debug().Str("remote", c.conn.RemoteAddr().String()).Msg("client connected")

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}

		case frame := <-h.broadcast:
			last = frame
			for c := range h.clients {
				select {
				case c.send <- frame:
				default:
					h.log.Warn().Str("remote", c.conn.RemoteAddr().String()).Msg("client too slow, dropping")
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
	h.count.Add(-1)
}

// Clients returns the number of registered clients
func (h *Hub) Clients() int {
	return int(h.count.Load())
}

// Publish encodes payload in a Message envelope and hands it to the hub loop. It
// blocks until the loop takes the frame, or returns the context error.
func (h *Hub) Publish(ctx context.Context, kind string, tick int64, payload any) error {
	frame, err := json.Marshal(Message{Type: kind, Tick: tick, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to encode %s frame: %w", kind, err)
	}
	select {
	case h.broadcast <- frame:
		return nil
	case <-h.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ServeHTTP upgrades the request to a websocket and registers the client
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

// readPump discards inbound messages and unregisters the client once the
// connection closes
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug().Err(err).Msg("client read failed")
			}
			return
		}
	}
}

// writePump drains the send channel onto the socket until the hub closes it
func (c *client) writePump() {
	defer c.conn.Close()
	for frame := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
}

// Package wsbridge fans the playback domain's pubsub streams out over
// websocket connections: every state transition, performance snapshot, and
// alert reaches every connected client as a typed JSON envelope.
package wsbridge

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/streamcore/playback/internal/domain"
	"github.com/streamcore/playback/internal/pubsub"
)

type envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub is the register/unregister/broadcast dispatcher for a set of
// websocket clients. A single background goroutine owns client
// bookkeeping; Handler, Broadcast, and Close are all safe for concurrent
// use.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}
	logger     *slog.Logger
}

// New creates a Hub and starts its dispatch loop.
func New(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		logger:     logger,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			for c := range h.clients {
				_ = c.conn.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(2*time.Second),
				)
				close(c.send)
				delete(h.clients, c)
			}
			h.logger.Debug("ws hub stopped, all clients disconnected")
			return
		case c := <-h.register:
			h.clients[c] = true
			h.logger.Debug("ws client connected", slog.Int("total", len(h.clients)))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.logger.Debug("ws client disconnected", slog.Int("total", len(h.clients)))
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					close(c.send)
					delete(h.clients, c)
				}
			}
		}
	}
}

// Close stops the dispatch loop and disconnects every client.
func (h *Hub) Close() {
	close(h.done)
}

// ClientCount reports how many clients are currently connected. It reads
// the client map without locking, so it is only safe to call from the same
// goroutine driving run.
func (h *Hub) ClientCount() int {
	return len(h.clients)
}

// Broadcast sends a typed JSON message to every connected client.
func (h *Hub) Broadcast(msgType string, data interface{}) {
	payload, err := json.Marshal(envelope{Type: msgType, Data: data})
	if err != nil {
		h.logger.Error("ws marshal failed", slog.String("error", err.Error()))
		return
	}
	select {
	case h.broadcast <- payload:
	default:
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades an HTTP request to a websocket connection and registers
// it with the hub.
func (h *Hub) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", slog.String("error", err.Error()))
		return
	}
	c := &client{hub: h, conn: conn, send: make(chan []byte, 32)}
	h.register <- c

	go c.writePump()
	go c.readPump()
}

func (c *client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

// BridgeSource is the subset of subscription streams a Bridge fans out.
// Any type providing these four pubsub subscriptions can be wired into Run;
// cmd/playerd's sessionBridge combines them from an orchestrator.Session.
type BridgeSource interface {
	SubscribeState() *pubsub.Subscription[domain.PlaybackState]
	Snapshots() *pubsub.Subscription[domain.PerformanceSnapshot]
	Alerts() *pubsub.Subscription[domain.PerformanceAlert]
	BufferConfigs() *pubsub.Subscription[domain.BufferConfiguration]
}

// Run subscribes to the given source's streams and forwards every value to
// the hub as a typed broadcast, until done is closed. It blocks; run it in its
// own goroutine.
func Run(done <-chan struct{}, hub *Hub, source BridgeSource) {
	states := source.SubscribeState()
	snapshots := source.Snapshots()
	alerts := source.Alerts()
	bufferConfigs := source.BufferConfigs()
	defer states.Unsubscribe()
	defer snapshots.Unsubscribe()
	defer alerts.Unsubscribe()
	defer bufferConfigs.Unsubscribe()

	for {
		select {
		case <-done:
			return
		case s, ok := <-states.C:
			if !ok {
				return
			}
			hub.Broadcast("state", s)
		case s, ok := <-snapshots.C:
			if !ok {
				return
			}
			hub.Broadcast("snapshot", s)
		case a, ok := <-alerts.C:
			if !ok {
				return
			}
			hub.Broadcast("alert", a)
		case c, ok := <-bufferConfigs.C:
			if !ok {
				return
			}
			hub.Broadcast("bufferConfig", c)
		}
	}
}

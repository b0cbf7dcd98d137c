package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"intranet/core/emitter"
	"intranet/core/logger"
	"intranet/core/router"
	"intranet/core/router/middleware"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

// Message is the envelope pushed to dashboard clients
type Message struct {
	Event  string `json:"event"`
	Data   any    `json:"data"`
	UserId uint   `json:"-"`
}

// Targeted is implemented by payloads that belong to a single user
type Targeted interface {
	TargetUserId() uint
}

// Client is one connected dashboard
type Client struct {
	Id     string
	UserId uint
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
}

// Hub fans emitter events out to connected clients
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client
	logger   logger.Logger
	upgrader websocket.Upgrader
	unsubs   []func()
}

// NewHub creates an empty hub
func NewHub(log logger.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		logger:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Forward relays the given emitter events to clients
func (h *Hub) Forward(em *emitter.Emitter, events ...string) {
	for _, event := range events {
		event := event
		h.unsubs = append(h.unsubs, em.On(event, func(data any) {
			msg := Message{Event: event, Data: data}
			if t, ok := data.(Targeted); ok {
				msg.UserId = t.TargetUserId()
			}
			h.Broadcast(msg)
		}))
	}
}

// Routes mounts the websocket endpoint
func (h *Hub) Routes(group *router.RouterGroup) {
	group.GET("/ws", h.Serve)
}

// Serve upgrades the request and registers the client
func (h *Hub) Serve(c *router.Context) error {
	conn, err := h.upgrader.Upgrade(c.Writer.Unwrap(), c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", logger.Err(err))
		return nil
	}

	client := &Client{
		Id:     uuid.NewString(),
		UserId: middleware.UserId(c),
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
	h.register(client)

	go client.writePump()
	go client.readPump()
	return nil
}

// Broadcast sends msg to every client, or only to msg.UserId when set
func (h *Hub) Broadcast(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to encode websocket message", logger.String("event", msg.Event), logger.Err(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if msg.UserId != 0 && client.UserId != msg.UserId {
			continue
		}
		select {
		case client.send <- payload:
		default:
			h.logger.Warn("dropping websocket message for slow client", logger.String("client", client.Id))
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Run blocks until ctx is done, then disconnects every client
func (h *Hub) Run(ctx context.Context) error {
	<-ctx.Done()
	for _, off := range h.unsubs {
		off()
	}
	h.mu.Lock()
	for id, client := range h.clients {
		close(client.send)
		delete(h.clients, id)
	}
	h.mu.Unlock()
	return nil
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c.Id] = c
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", logger.String("client", c.Id), logger.Uint("user_id", c.UserId))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.Id]; ok {
		delete(h.clients, c.Id)
		close(c.send)
	}
	h.mu.Unlock()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		// clients only listen; inbound frames are drained to service pongs
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

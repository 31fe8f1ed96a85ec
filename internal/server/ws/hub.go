// Package ws pushes cycle snapshots to browser clients over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64

	// ChannelStatus carries hub status envelopes.
	ChannelStatus = "status"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Envelope is the JSON frame sent to clients.
type Envelope struct {
	Type    string          `json:"type"`
	Channel string          `json:"channel"`
	Payload json.RawMessage `json:"payload"`
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	mu   sync.RWMutex
	subs map[string]bool
}

// subscribeMsg lets a client change its channel set:
// {"action":"subscribe","channels":["opportunities"]}.
type subscribeMsg struct {
	Action   string   `json:"action"`
	Channels []string `json:"channels"`
}

type broadcastMsg struct {
	channel string
	data    []byte
}

// Config describes the hub.
type Config struct {
	// Channel is the bus channel carrying snapshot JSON. Empty disables
	// the bus relay.
	Channel   string
	Mode      string
	Sports    []domain.Sport
	StartedAt time.Time
}

// Hub fans snapshots out to connected clients. Snapshots arrive either from
// the signal bus (multi-instance deployments) or directly via
// PublishSnapshot.
type Hub struct {
	cfg    Config
	bus    domain.SignalBus
	latest func(ctx context.Context) (domain.CycleSnapshot, error)
	logger *slog.Logger

	mu         sync.RWMutex
	clients    map[*client]bool
	broadcast  chan broadcastMsg
	register   chan *client
	unregister chan *client
	done       chan struct{}
}

// NewHub creates a hub. bus and latest may be nil.
func NewHub(cfg Config, bus domain.SignalBus, latest func(ctx context.Context) (domain.CycleSnapshot, error), logger *slog.Logger) *Hub {
	if cfg.StartedAt.IsZero() {
		cfg.StartedAt = time.Now().UTC()
	}
	if cfg.Mode == "" {
		cfg.Mode = "unknown"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		cfg:        cfg,
		bus:        bus,
		latest:     latest,
		logger:     logger.With(slog.String("component", "ws")),
		clients:    make(map[*client]bool),
		broadcast:  make(chan broadcastMsg, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// snapshotChannel is the client-facing channel name for snapshots.
func (h *Hub) snapshotChannel() string {
	if h.cfg.Channel != "" {
		return h.cfg.Channel
	}
	return "opportunities"
}

// Run is the hub event loop. It returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	if h.bus != nil && h.cfg.Channel != "" {
		go h.relay(ctx, h.cfg.Channel)
	}

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return ctx.Err()

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client connected", slog.Int("total_clients", n))

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client disconnected", slog.Int("total_clients", n))

		case msg := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				if !c.isSubscribed(msg.channel) {
					continue
				}
				select {
				case c.send <- msg.data:
				default:
					h.logger.Warn("dropping message for slow client")
				}
			}
			h.mu.RUnlock()
		}
	}
}

// relay forwards bus messages on channel to clients.
func (h *Hub) relay(ctx context.Context, channel string) {
	msgs, err := h.bus.Subscribe(ctx, channel)
	if err != nil {
		h.logger.Error("subscribe failed",
			slog.String("channel", channel),
			slog.String("error", err.Error()),
		)
		return
	}
	h.logger.Info("relaying bus channel", slog.String("channel", channel))

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-msgs:
			if !ok {
				h.logger.Warn("bus subscription closed", slog.String("channel", channel))
				return
			}
			h.enqueue(ctx, h.snapshotChannel(), "snapshot", data)
		}
	}
}

// PublishSnapshot broadcasts snap to subscribed clients.
func (h *Hub) PublishSnapshot(ctx context.Context, snap domain.CycleSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	h.enqueue(ctx, h.snapshotChannel(), "snapshot", data)
	return nil
}

func (h *Hub) enqueue(ctx context.Context, channel, typ string, payload []byte) {
	frame, err := json.Marshal(Envelope{Type: typ, Channel: channel, Payload: payload})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- broadcastMsg{channel: channel, data: frame}:
	case <-ctx.Done():
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWS upgrades the request and registers the client.
// GET /ws
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		subs: map[string]bool{h.snapshotChannel(): true, ChannelStatus: true},
	}

	// Queue before registering so the hub cannot have closed send yet.
	c.sendInitial(r.Context())
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// sendInitial queues a status envelope and, when available, the latest
// snapshot so a fresh client does not wait a whole interval for data.
func (c *client) sendInitial(ctx context.Context) {
	h := c.hub
	uptime := int64(time.Since(h.cfg.StartedAt).Seconds())
	if uptime < 0 {
		uptime = 0
	}
	status, err := json.Marshal(map[string]any{
		"mode":           h.cfg.Mode,
		"sports":         h.cfg.Sports,
		"uptime_seconds": uptime,
	})
	if err == nil {
		c.queue(Envelope{Type: "status", Channel: ChannelStatus, Payload: status})
	}

	if h.latest == nil {
		return
	}
	snap, err := h.latest(ctx)
	if err != nil {
		return
	}
	if data, err := json.Marshal(snap); err == nil {
		c.queue(Envelope{Type: "snapshot", Channel: h.snapshotChannel(), Payload: data})
	}
}

func (c *client) queue(env Envelope) {
	frame, err := json.Marshal(env)
	if err != nil {
		return
	}
	select {
	case c.send <- frame:
	default:
	}
}

func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("unexpected close", slog.String("error", err.Error()))
			}
			return
		}

		var sub subscribeMsg
		if json.Unmarshal(message, &sub) == nil && sub.Action != "" {
			c.handleSubscription(sub)
		}
	}
}

func (c *client) handleSubscription(msg subscribeMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch strings.ToLower(msg.Action) {
	case "subscribe":
		for _, ch := range msg.Channels {
			c.subs[ch] = true
		}
	case "unsubscribe":
		for _, ch := range msg.Channels {
			delete(c.subs, ch)
		}
	}
}

// isSubscribed matches exact names and trailing-* wildcards.
func (c *client) isSubscribed(channel string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.subs[channel] {
		return true
	}
	for sub := range c.subs {
		if prefix, ok := strings.CutSuffix(sub, "*"); ok && strings.HasPrefix(channel, prefix) {
			return true
		}
	}
	return false
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

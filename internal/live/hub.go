package live

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hyderfleet/fleetops/internal/infrastructure/config"
	"github.com/hyderfleet/fleetops/internal/infrastructure/logging"
)

// defaultSendBuffer is used when the configured buffer is not positive.
const defaultSendBuffer = 256

// Observer is notified of hub activity, typically to update metrics.
type Observer interface {
	ClientsChanged(n int)
	Broadcasted(t EventType, recipients int)
}

type nopObserver struct{}

func (nopObserver) ClientsChanged(int)         {}
func (nopObserver) Broadcasted(EventType, int) {}

// Hub tracks live clients and broadcasts events to all of them.
type Hub struct {
	cfg      config.WebSocketConfig
	logger   *logging.Logger
	observer Observer
	now      func() time.Time
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// NewHub creates a hub with no clients.
func NewHub(cfg config.WebSocketConfig, logger *logging.Logger) *Hub {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = defaultSendBuffer
	}
	return &Hub{
		cfg:      cfg,
		logger:   logger.Component("live"),
		observer: nopObserver{},
		now:      time.Now,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024, //nolint:mnd // gorilla default
			WriteBufferSize: 1024, //nolint:mnd // gorilla default
			CheckOrigin: func(_ *http.Request) bool {
				// The live channel is open to any origin.
				return true
			},
		},
		clients: make(map[*Client]struct{}),
	}
}

// Path is the configured HTTP path of the live channel, possibly empty.
func (h *Hub) Path() string {
	return h.cfg.Path
}

// SetObserver installs o. Call before serving connections. ClientsChanged
// runs under the hub lock and must not call back into the hub.
func (h *Hub) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	h.observer = o
}

// Run blocks until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// ServeHTTP upgrades the request to a WebSocket and connects it.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error response.
		h.logger.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}
	h.Connect(conn)
}

// Connect registers conn and starts its pumps.
func (h *Hub) Connect(conn *websocket.Conn) *Client {
	c := h.newClient(conn)
	h.Register(c)
	go c.writePump()
	go c.readPump()
	return c
}

func (h *Hub) newClient(conn *websocket.Conn) *Client {
	return &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, h.cfg.SendBuffer),
	}
}

// Register adds a client to the live set.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.observer.ClientsChanged(n)
	h.mu.Unlock()

	h.logger.Debug("websocket client connected", "clients", n)
}

// Unregister removes a client. Removing an absent client is a no-op.
// Only the call that actually removes the client closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, existed := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	if existed {
		h.observer.ClientsChanged(n)
	}
	h.mu.Unlock()

	if !existed {
		return
	}
	c.closeSend()
	h.logger.Debug("websocket client disconnected", "clients", n)
}

// Broadcast sends ev to every connected client. Per-client failures are
// swallowed and do not remove the client.
func (h *Hub) Broadcast(ev Event) {
	data, err := Encode(ev, h.now())
	if err != nil {
		h.logger.Error("failed to encode broadcast", "event_type", ev.Type(), "error", err)
		return
	}

	// Snapshot under the read lock, then send without holding it.
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range clients {
		if c.trySend(data) {
			delivered++
		}
	}

	h.observer.Broadcasted(ev.Type(), delivered)
	h.logger.Debug("broadcast sent",
		"event_type", ev.Type(),
		"clients", len(clients),
		"delivered", delivered,
	)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*Client]struct{})
	h.observer.ClientsChanged(0)
	h.mu.Unlock()

	for c := range clients {
		c.closeSend()
		if c.conn != nil {
			c.conn.Close() //nolint:errcheck // shutting down
		}
	}
}

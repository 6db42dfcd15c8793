package live

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is one live WebSocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// mu guards closed so a send never races the channel close.
	mu     sync.Mutex
	closed bool
}

// trySend queues data without blocking. It reports false when the buffer
// is full or the send channel has been closed.
func (c *Client) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// closeSend closes the send channel once, ending the write pump.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// readPump discards inbound frames and unregisters the client when the
// connection closes or the peer stops answering pings.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close() //nolint:errcheck // connection already failing
	}()

	cfg := c.hub.cfg
	if cfg.MaxMessageSize > 0 {
		c.conn.SetReadLimit(int64(cfg.MaxMessageSize))
	}
	wait := c.readWait()
	if wait > 0 {
		//nolint:errcheck // Best-effort deadline on connection setup
		c.conn.SetReadDeadline(time.Now().Add(wait))
		c.conn.SetPongHandler(func(string) error {
			return c.conn.SetReadDeadline(time.Now().Add(wait))
		})
	}

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read error", "error", err)
			} else {
				c.hub.logger.Debug("websocket closed", "error", err)
			}
			return
		}
		if wait > 0 {
			//nolint:errcheck // Best-effort deadline reset
			c.conn.SetReadDeadline(time.Now().Add(wait))
		}
	}
}

// writePump drains the send channel and pings the peer.
func (c *Client) writePump() {
	interval := time.Duration(c.hub.cfg.PingInterval) * time.Second
	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}
	defer c.conn.Close() //nolint:errcheck // pump exiting

	writeWait := time.Duration(c.hub.cfg.PongTimeout) * time.Second
	if writeWait <= 0 {
		writeWait = 10 * time.Second //nolint:mnd // fallback write deadline
	}

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				//nolint:errcheck // Best-effort close message
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			//nolint:errcheck // Best-effort deadline; write error caught below
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-tick:
			//nolint:errcheck // Best-effort deadline; ping error caught below
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readWait is how long the read loop waits for any frame or pong.
func (c *Client) readWait() time.Duration {
	cfg := c.hub.cfg
	if cfg.PingInterval <= 0 {
		return 0
	}
	return time.Duration(cfg.PingInterval+cfg.PongTimeout) * time.Second
}

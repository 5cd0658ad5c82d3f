package realtime

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/raheem101000-netizen/gamehub/middleware"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 256
)

// Client is one live socket in a room. Identity is fixed at upgrade time
// from the session; nothing a client sends can change it.
type Client struct {
	id             string
	registry       *Registry
	conn           *websocket.Conn
	send           chan []byte
	room           RoomKey
	user           middleware.Identity
	maxMessageSize int64
	inbound        func(*Client, []byte)
	logger         *slog.Logger

	mu     sync.Mutex
	closed bool
}

func newClient(
	registry *Registry,
	conn *websocket.Conn,
	room RoomKey,
	user middleware.Identity,
	maxMessageSize int64,
	inbound func(*Client, []byte),
	logger *slog.Logger,
) *Client {
	return &Client{
		id:             uuid.NewString(),
		registry:       registry,
		conn:           conn,
		send:           make(chan []byte, sendBuffer),
		room:           room,
		user:           user,
		maxMessageSize: maxMessageSize,
		inbound:        inbound,
		logger:         logger,
	}
}

// trySend queues data for the write pump without ever blocking. A full
// buffer or an already-closed client drops the frame.
func (c *Client) trySend(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// sendJSON marshals and queues a single frame for this client only.
func (c *Client) sendJSON(payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("failed to marshal frame", slog.String("conn_id", c.id), slog.Any("error", err))
		return
	}
	c.trySend(data)
}

func (c *Client) sendError(message string) {
	c.sendJSON(map[string]string{"error": message})
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.send)
		c.closed = true
	}
}

func (c *Client) readPump() {
	defer func() {
		c.registry.Unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(c.maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			switch {
			case errors.Is(err, websocket.ErrReadLimit):
				// The library already sent the 1009 (message too big)
				// close frame; we just tear down.
				c.logger.Warn("oversized message, closing connection",
					slog.String("conn_id", c.id),
					slog.String("room", c.room.String()),
					slog.Int("user_id", c.user.UserID))
			case websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure):
				c.logger.Warn("unexpected socket close",
					slog.String("conn_id", c.id), slog.Any("error", err))
			}
			return
		}
		c.inbound(c, data)
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
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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

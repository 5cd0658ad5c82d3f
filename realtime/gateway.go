package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/raheem101000-netizen/gamehub/middleware"
	"github.com/raheem101000-netizen/gamehub/services"
)

// SessionResolver maps an upgrade request to an authenticated identity.
type SessionResolver interface {
	ResolveRequest(r *http.Request) (*middleware.Identity, error)
}

// inboundFrame is everything a client may send over an open socket:
// either a chat payload or a typing signal.
type inboundFrame struct {
	services.InboundChatPayload
	Typing *bool `json:"typing,omitempty"`
}

type outboundMessage struct {
	Type    string      `json:"type"`
	Message interface{} `json:"message"`
}

type typingEvent struct {
	Type     string `json:"type"`
	UserID   int    `json:"userId"`
	Username string `json:"username"`
	Typing   bool   `json:"typing"`
}

// Gateway authenticates websocket upgrades, enforces connection and
// message-size caps, and turns inbound frames into persisted, enriched
// broadcasts.
type Gateway struct {
	registry       *Registry
	auth           SessionResolver
	chat           services.ChatService
	maxMessageSize int64
	logger         *slog.Logger
	upgrader       websocket.Upgrader
}

func NewGateway(
	registry *Registry,
	auth SessionResolver,
	chat services.ChatService,
	maxMessageSize int64,
	logger *slog.Logger,
) *Gateway {
	return &Gateway{
		registry:       registry,
		auth:           auth,
		chat:           chat,
		maxMessageSize: maxMessageSize,
		logger:         logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// TODO: restrict Origin once the frontend domains are fixed.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeMatch handles GET /ws/match?matchId=N.
func (g *Gateway) ServeMatch(w http.ResponseWriter, r *http.Request) {
	g.serve(w, r, RoomKindMatch, "matchId")
}

// ServeChannel handles GET /ws/channel?channelId=N.
func (g *Gateway) ServeChannel(w http.ResponseWriter, r *http.Request) {
	g.serve(w, r, RoomKindChannel, "channelId")
}

func (g *Gateway) serve(w http.ResponseWriter, r *http.Request, kind RoomKind, param string) {
	// Auth happens before the upgrade so a bad session never gets 101.
	identity, err := g.auth.ResolveRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	roomID, err := strconv.Atoi(r.URL.Query().Get(param))
	if err != nil || roomID <= 0 {
		http.Error(w, "missing or invalid "+param, http.StatusBadRequest)
		return
	}

	if err := g.registry.Admit(identity.UserID); err != nil {
		http.Error(w, "connection limit reached", http.StatusTooManyRequests)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.registry.Release(identity.UserID)
		g.logger.Warn("websocket upgrade failed",
			slog.Int("user_id", identity.UserID), slog.Any("error", err))
		return
	}

	client := newClient(g.registry, conn, RoomKey{Kind: kind, ID: roomID}, *identity, g.maxMessageSize, g.handleInbound, g.logger)
	g.registry.Register(client)

	go client.writePump()
	go client.readPump()
}

// handleInbound processes one frame from an open socket. The sender
// identity always comes from the client's session, never the payload.
func (g *Gateway) handleInbound(c *Client, data []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		c.sendError("invalid message payload")
		return
	}

	if frame.Typing != nil {
		g.registry.Broadcast(c.room, typingEvent{
			Type:     "typing",
			UserID:   c.user.UserID,
			Username: c.user.Username,
			Typing:   *frame.Typing,
		})
		return
	}

	// A write already in flight finishes even if the socket closes, so
	// the request context is deliberately not tied to the connection.
	ctx := context.Background()

	switch c.room.Kind {
	case RoomKindMatch:
		msg, err := g.chat.SaveMatchMessage(ctx, c.room.ID, c.user.UserID, frame.InboundChatPayload)
		if err != nil {
			g.reportSaveError(c, err)
			return
		}
		g.registry.Broadcast(c.room, outboundMessage{Type: "new_message", Message: msg})
	case RoomKindChannel:
		msg, err := g.chat.SaveChannelMessage(ctx, c.room.ID, c.user.UserID, frame.InboundChatPayload)
		if err != nil {
			g.reportSaveError(c, err)
			return
		}
		g.registry.Broadcast(c.room, outboundMessage{Type: "new_message", Message: msg})
	}
}

func (g *Gateway) reportSaveError(c *Client, err error) {
	if errors.Is(err, services.ErrEmptyMessage) {
		c.sendError("message must contain text or an image")
		return
	}
	g.logger.Error("failed to persist chat message",
		slog.String("conn_id", c.id),
		slog.String("room", c.room.String()),
		slog.Any("error", err))
	c.sendError("failed to send message")
}

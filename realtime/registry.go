package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrConnectionLimit is returned by Admit when the user already holds the
// maximum number of open connections.
var ErrConnectionLimit = errors.New("connection limit reached")

// RoomKind distinguishes the two socket room namespaces.
type RoomKind string

const (
	RoomKindMatch   RoomKind = "match"
	RoomKindChannel RoomKind = "channel"
)

// RoomKey identifies one broadcast room.
type RoomKey struct {
	Kind RoomKind
	ID   int
}

func (k RoomKey) String() string {
	return fmt.Sprintf("%s_%d", k.Kind, k.ID)
}

// Registry owns all live socket state: room membership and per-user
// connection counts. Everything is guarded by one mutex so that
// cap-check-and-reserve is a single atomic step with no I/O inside.
// State is purely in-process and rebuilt from nothing on restart.
type Registry struct {
	maxPerUser int
	logger     *slog.Logger

	mu        sync.Mutex
	rooms     map[RoomKey]map[*Client]bool
	userConns map[int]int
}

func NewRegistry(maxPerUser int, logger *slog.Logger) *Registry {
	return &Registry{
		maxPerUser: maxPerUser,
		logger:     logger,
		rooms:      make(map[RoomKey]map[*Client]bool),
		userConns:  make(map[int]int),
	}
}

// Admit reserves a connection slot for the user, or fails if the user is
// at the cap. Called before the upgrade; a reservation that never turns
// into a Register must be undone with Release.
func (r *Registry) Admit(userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.userConns[userID] >= r.maxPerUser {
		return ErrConnectionLimit
	}
	r.userConns[userID]++
	return nil
}

// Release undoes an Admit whose upgrade failed.
func (r *Registry) Release(userID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decrementUserLocked(userID)
}

// Register adds the client to its room. The user's slot was already
// reserved by Admit.
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[c.room]
	if !ok {
		room = make(map[*Client]bool)
		r.rooms[c.room] = room
	}
	room[c] = true
	r.logger.Debug("client registered",
		slog.String("conn_id", c.id),
		slog.String("room", c.room.String()),
		slog.Int("user_id", c.user.UserID),
		slog.Int("room_size", len(room)))
}

// Unregister removes the client from its room, dropping the room entry
// when it empties, and gives back the user's connection slot. Safe to
// call more than once for the same client.
func (r *Registry) Unregister(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[c.room]
	if !ok || !room[c] {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(r.rooms, c.room)
	}
	r.decrementUserLocked(c.user.UserID)
	c.closeSend()
	r.logger.Debug("client unregistered",
		slog.String("conn_id", c.id),
		slog.String("room", c.room.String()))
}

// Broadcast fans the payload out to every socket in the room. Delivery is
// fire-and-forget: a client whose send buffer is full is skipped, never
// waited on.
func (r *Registry) Broadcast(room RoomKey, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error("failed to marshal broadcast payload",
			slog.String("room", room.String()), slog.Any("error", err))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.rooms[room] {
		c.trySend(data)
	}
}

// UserConnections reports the user's current reserved connection count.
func (r *Registry) UserConnections(userID int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.userConns[userID]
}

// RoomSize reports how many sockets are currently in the room.
func (r *Registry) RoomSize(room RoomKey) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms[room])
}

func (r *Registry) decrementUserLocked(userID int) {
	if n := r.userConns[userID]; n > 1 {
		r.userConns[userID] = n - 1
	} else {
		delete(r.userConns, userID)
	}
}

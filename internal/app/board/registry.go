package board

import (
	"sync"

	"github.com/rs/zerolog"

	"collabboard/internal/pkg/logx"
)

// Registry is the in-memory directory of live rooms. All membership mutations
// happen through it under one lock, so no partial participant list is ever
// observable and removing the last participant deletes the room in the same
// critical section — a lookup immediately after can never see an empty room.
//
// Mutating methods are called only from the coordinator loop; read methods are
// also used by HTTP handlers and metrics.
type Registry struct {
	mu           sync.RWMutex
	rooms        map[string]*Room
	historyLimit int
	logger       zerolog.Logger
}

// NewRegistry constructs an empty registry. historyLimit bounds each room's
// canvas op log (0 means DefaultHistoryLimit).
func NewRegistry(historyLimit int) *Registry {
	return &Registry{
		rooms:        make(map[string]*Room),
		historyLimit: historyLimit,
		logger:       logx.Component("Registry"),
	}
}

// EnsureRoom returns the live room with the given name, creating it when the
// name is previously unseen. The second result reports whether it was created.
func (g *Registry) EnsureRoom(name string, kind RoomKind) (*Room, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if room, ok := g.rooms[name]; ok {
		return room, false
	}

	room := newRoom(name, kind, g.historyLimit)
	g.rooms[name] = room

	g.logger.Info().Str("room", name).Str("kind", string(kind)).Msg("Room created.")
	return room, true
}

// Lookup returns the live room with the given name, or nil.
func (g *Registry) Lookup(name string) *Room {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rooms[name]
}

// AddParticipant inserts a client into a room's participant set.
func (g *Registry) AddParticipant(room *Room, c *Client) {
	g.mu.Lock()
	defer g.mu.Unlock()

	room.participants[c.session.ConnID] = c

	g.logger.Info().
		Str("room", room.Name).
		Str("conn_id", c.session.ConnID).
		Str("username", c.session.User.Username).
		Int("total_users", len(room.participants)).
		Msg("Participant joined room.")
}

// RemoveParticipant deletes a client from a room's participant set and,
// atomically with the removal, deletes the room itself when it became empty.
// It returns whether the client was a member and whether the room was deleted.
func (g *Registry) RemoveParticipant(room *Room, connID string) (removed, roomDeleted bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := room.participants[connID]; !ok {
		return false, false
	}
	delete(room.participants, connID)

	g.logger.Info().
		Str("room", room.Name).
		Str("conn_id", connID).
		Int("total_users", len(room.participants)).
		Msg("Participant left room.")

	if room.isEmpty() {
		delete(g.rooms, room.Name)
		g.logger.Info().Str("room", room.Name).Msg("Room is empty and was removed.")
		return true, true
	}
	return true, false
}

// Roster returns the room's participant list.
func (g *Registry) Roster(room *Room) []RosterEntry {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return room.roster()
}

// Peers returns the room's participants excluding one connection. Pass an
// empty connID to get every participant.
func (g *Registry) Peers(room *Room, exceptConnID string) []*Client {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return room.peers(exceptConnID)
}

// SetRole updates a roster-visible participant's live role under the write
// lock, so concurrent roster snapshots never race the mutation. It reports
// whether the connection is still a member of the room.
func (g *Registry) SetRole(room *Room, connID string, role Role) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	c, ok := room.participants[connID]
	if !ok {
		return false
	}
	c.session.setRole(role)
	return true
}

// FindByUsername locates a participant in a room by display identity.
func (g *Registry) FindByUsername(room *Room, username string) *Client {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return room.byUsername(username)
}

// Counts reports the number of live rooms and total participants, for metrics
// and the room info endpoint.
func (g *Registry) Counts() (rooms, participants int) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	rooms = len(g.rooms)
	for _, room := range g.rooms {
		participants += len(room.participants)
	}
	return rooms, participants
}

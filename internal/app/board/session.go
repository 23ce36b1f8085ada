package board

import (
	"time"

	"collabboard/internal/app/user"
)

// Session binds one transport connection to its coordination state: the room
// it currently occupies and the role it holds there. A session belongs to at
// most one room at any instant; joining a new room unbinds the old one first.
//
// The room and role fields are mutated only by the coordinator loop. While
// the session is inside a room's participant set its fields are also read by
// roster snapshots from HTTP handlers, so mutations made during that window
// go through the registry's lock (Registry.SetRole).
type Session struct {
	// ConnID uniquely identifies the connection for its lifetime.
	ConnID string

	// User is the display identity presented at connect time.
	User user.User

	room     *Room
	role     Role
	joinedAt time.Time
}

// NewSession creates an unbound session for a fresh connection.
func NewSession(connID string, u user.User) *Session {
	return &Session{ConnID: connID, User: u}
}

// Room returns the bound room, or nil when the connection has not joined one.
func (s *Session) Room() *Room {
	return s.room
}

// Role returns the role held in the bound room; empty while unbound.
func (s *Session) Role() Role {
	return s.role
}

// Joined reports whether the session is currently bound to a room.
func (s *Session) Joined() bool {
	return s.room != nil
}

// JoinedAt returns the time the current binding was established.
func (s *Session) JoinedAt() time.Time {
	return s.joinedAt
}

// bindTo attaches the session to a room with the resolved role.
// The caller must have unbound any previous room first.
func (s *Session) bindTo(r *Room, role Role) {
	s.room = r
	s.role = role
	s.joinedAt = time.Now()
}

// unbind detaches the session from its room. Role is cleared together with the
// room so the two stay non-nil or nil as a pair.
func (s *Session) unbind() {
	s.room = nil
	s.role = ""
	s.joinedAt = time.Time{}
}

// setRole updates the live role after an owner-initiated permission change.
// While the session is roster-visible the caller must hold the registry write
// lock (see Registry.SetRole); roster reads take the same lock.
func (s *Session) setRole(role Role) {
	if s.room != nil {
		s.role = role
	}
}

package board

import "time"

// Room is one live coordination unit: a named set of connected participants
// sharing a canvas. Rooms exist only while occupied; the registry deletes a
// room the moment its last participant leaves, so durable room metadata is the
// membership store's concern, not ours.
//
// A Room's participant map is guarded by the Registry's lock; its canvas is
// touched only by the coordinator loop.
type Room struct {
	Name string
	Kind RoomKind

	createdAt    time.Time
	participants map[string]*Client // keyed by connection ID
	canvas       *CanvasState
}

func newRoom(name string, kind RoomKind, historyLimit int) *Room {
	return &Room{
		Name:         name,
		Kind:         kind,
		createdAt:    time.Now(),
		participants: make(map[string]*Client),
		canvas:       NewCanvasState(historyLimit),
	}
}

// Canvas returns the room's catch-up state. Coordinator loop only.
func (r *Room) Canvas() *CanvasState {
	return r.canvas
}

// roster builds the participant list reported in roster-bearing events.
// Caller holds the registry lock.
func (r *Room) roster() []RosterEntry {
	entries := make([]RosterEntry, 0, len(r.participants))
	for _, c := range r.participants {
		entries = append(entries, RosterEntry{
			Username: c.session.User.Username,
			Role:     c.session.Role(),
		})
	}
	return entries
}

// peers returns every participant except the given connection.
// Caller holds the registry lock.
func (r *Room) peers(exceptConnID string) []*Client {
	out := make([]*Client, 0, len(r.participants))
	for id, c := range r.participants {
		if id != exceptConnID {
			out = append(out, c)
		}
	}
	return out
}

// byUsername finds a participant by display identity. With duplicate guest
// names the match is arbitrary, mirroring the string-match the permission
// model uses. Caller holds the registry lock.
func (r *Room) byUsername(username string) *Client {
	for _, c := range r.participants {
		if c.session.User.Username == username {
			return c
		}
	}
	return nil
}

func (r *Room) isEmpty() bool {
	return len(r.participants) == 0
}

/*
Package board contains the real-time coordination core of the whiteboard server.

This file defines the WebSocket wire catalog: the event envelope exchanged with
clients and the payload structures for every event type.
*/
package board

import (
	"encoding/json"
	"errors"
	"math"
)

// EventType identifies a WebSocket event.
type EventType string

const (
	// client -> server
	EventJoinRoom         EventType = "join-room"
	EventUpdatePermission EventType = "update-user-permission"
	EventSaveCanvasState  EventType = "save-canvas-state"

	// server -> client
	EventRoomJoined         EventType = "room-joined"
	EventJoinError          EventType = "join-error"
	EventUserJoined         EventType = "user-joined"
	EventUserLeft           EventType = "user-left"
	EventPermissionChanged  EventType = "user-permission-changed"
	EventPermissionUpdated  EventType = "permission-updated"
	EventPermissionDenied   EventType = "permission-denied"
	EventCanvasState        EventType = "canvas-state"
	EventRequestCanvasState EventType = "request-canvas-state"
	EventDrawingHistory     EventType = "drawing-history"

	// both directions
	EventDrawing     EventType = "drawing"
	EventCanvasClear EventType = "canvas-clear"
	EventCursorMove  EventType = "cursor-move"
	EventChatMessage EventType = "chat-message"
)

// Envelope is the outer frame of every WebSocket message. Room is required on
// content events so the coordinator can verify it against the sender's bound
// room; events for a different room are dropped without effect.
type Envelope struct {
	Type    EventType       `json:"type"`
	Room    string          `json:"room,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Event is an outbound message prior to serialization.
type Event struct {
	Type    EventType `json:"type"`
	Room    string    `json:"room,omitempty"`
	Payload any       `json:"payload,omitempty"`
}

// EncodeEvent serializes an outbound event for delivery to clients.
func EncodeEvent(eventType EventType, room string, payload any) ([]byte, error) {
	return json.Marshal(Event{Type: eventType, Room: room, Payload: payload})
}

// unmarshalPayload decodes an inbound payload, treating an absent body as an
// error so handlers can drop the event in one check.
func unmarshalPayload(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return errors.New("empty payload")
	}
	return json.Unmarshal(raw, dst)
}

// Tool identifies a drawing instrument.
type Tool string

const (
	ToolPen       Tool = "pen"
	ToolEraser    Tool = "eraser"
	ToolRectangle Tool = "rectangle"
	ToolCircle    Tool = "circle"
	ToolText      Tool = "text"
)

// validTools is the set of tools accepted from clients.
var validTools = map[Tool]struct{}{
	ToolPen:       {},
	ToolEraser:    {},
	ToolRectangle: {},
	ToolCircle:    {},
	ToolText:      {},
}

// JoinPayload is the client request to enter a room.
type JoinPayload struct {
	Room     string `json:"room"`
	Username string `json:"username"`
}

// DrawingPayload carries one stroke, shape, or text instruction. Coordinates
// are normalized to 0..1 so boards render identically at any resolution.
type DrawingPayload struct {
	Tool      Tool    `json:"tool"`
	X0        float64 `json:"x0"`
	Y0        float64 `json:"y0"`
	X1        float64 `json:"x1"`
	Y1        float64 `json:"y1"`
	Color     string  `json:"color"`
	LineWidth float64 `json:"lineWidth"`
	Text      string  `json:"text,omitempty"`
}

// Valid reports whether the payload names a known tool and keeps all
// coordinates inside the normalized unit square.
func (p DrawingPayload) Valid() bool {
	if _, ok := validTools[p.Tool]; !ok {
		return false
	}
	for _, v := range []float64{p.X0, p.Y0, p.X1, p.Y1} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return false
		}
	}
	return p.LineWidth >= 0
}

// DrawingEvent is the immutable, server-stamped form of a drawing instruction.
// It is what peers receive and what the canvas op log records.
type DrawingEvent struct {
	DrawingPayload
	Username  string `json:"username"`
	ConnID    string `json:"connId"`
	Timestamp int64  `json:"timestamp"`
}

// RosterEntry is one participant as reported in roster updates.
type RosterEntry struct {
	Username string `json:"username"`
	Role     Role   `json:"permission"`
}

// RoomJoinedPayload acknowledges a successful join. Snapshot carries the
// cached rendering; any ordered replay follows as a drawing-history frame. The
// client must apply both before accepting local input.
type RoomJoinedPayload struct {
	Room         string        `json:"room"`
	Kind         RoomKind      `json:"kind"`
	Role         Role          `json:"userPermissions"`
	ActiveUsers  int           `json:"activeUsers"`
	Participants []RosterEntry `json:"users"`
	Snapshot     string        `json:"snapshot,omitempty"`
}

// UserEventPayload is broadcast on user-joined / user-left.
type UserEventPayload struct {
	Username     string        `json:"username"`
	ActiveUsers  int           `json:"activeUsers"`
	Participants []RosterEntry `json:"users"`
}

// ChatPayload is the inbound chat message body.
type ChatPayload struct {
	Message string `json:"message"`
}

// ChatMessage is the server-stamped chat broadcast, echoed to the sender as
// well so the server remains the single ordering authority.
type ChatMessage struct {
	Message   string `json:"message"`
	Username  string `json:"username"`
	ConnID    string `json:"connId"`
	Timestamp int64  `json:"timestamp"`
}

// CursorPayload is an ephemeral pointer position; it is never persisted.
type CursorPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CursorEvent is the stamped cursor broadcast.
type CursorEvent struct {
	CursorPayload
	Username string `json:"username"`
	ConnID   string `json:"connId"`
}

// ClearEvent announces that the canvas was wiped.
type ClearEvent struct {
	ClearedBy string `json:"clearedBy"`
	Timestamp int64  `json:"timestamp"`
}

// UpdatePermissionPayload is the owner request to change a participant's role.
type UpdatePermissionPayload struct {
	TargetUsername string `json:"targetUsername"`
	NewRole        string `json:"newPermission"`
}

// PermissionChangedPayload is broadcast to the whole room after a role change.
type PermissionChangedPayload struct {
	Username     string        `json:"username"`
	NewRole      Role          `json:"newPermission"`
	UpdatedBy    string        `json:"updatedBy"`
	Participants []RosterEntry `json:"users"`
}

// PermissionUpdatedPayload is sent directly to the participant whose role changed.
type PermissionUpdatedPayload struct {
	Username  string `json:"username"`
	Role      Role   `json:"permission"`
	UpdatedBy string `json:"updatedBy"`
}

// PermissionDeniedPayload tells the offending connection which action was
// refused. It is never broadcast.
type PermissionDeniedPayload struct {
	Action  Action `json:"action"`
	Message string `json:"message"`
}

// JoinErrorPayload reports a failed join; the connection stays open, unbound.
type JoinErrorPayload struct {
	Message string `json:"message"`
}

// SnapshotPayload carries an opaque (base64-encoded) full canvas rendering.
type SnapshotPayload struct {
	Snapshot string `json:"snapshot"`
}

// HistoryPayload carries an ordered drawing-history replay.
type HistoryPayload struct {
	Events []DrawingEvent `json:"events"`
}

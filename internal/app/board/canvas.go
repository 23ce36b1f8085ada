package board

import "time"

// CanvasState holds the catch-up material for one room: the latest cached
// snapshot (an opaque blob rendered by a client) and the ordered log of drawing
// events recorded since that snapshot.
//
// The log is bounded. Once it grows past the limit the oldest entries are
// trimmed, so a joiner catching up from a long-lived room relies on the
// snapshot plus the tail rather than an unbounded replay. CanvasState is
// touched only from the coordinator loop and needs no locking.
type CanvasState struct {
	snapshot   string
	snapshotAt time.Time
	ops        []DrawingEvent
	limit      int

	// snapshotRequested latches once a participant has been asked for a
	// snapshot, so the room does not repeat the request on every stroke.
	snapshotRequested bool
}

// DefaultHistoryLimit bounds the op log when no explicit limit is configured.
const DefaultHistoryLimit = 512

// NewCanvasState creates an empty canvas with the given op-log bound.
func NewCanvasState(limit int) *CanvasState {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &CanvasState{limit: limit}
}

// Append records a drawing event. When the log exceeds its bound the oldest
// events are dropped; it returns true when that trim discarded events that are
// not covered by a cached snapshot.
func (c *CanvasState) Append(ev DrawingEvent) bool {
	c.ops = append(c.ops, ev)
	if len(c.ops) <= c.limit {
		return false
	}
	c.ops = c.ops[len(c.ops)-c.limit:]
	return c.snapshot == ""
}

// SetSnapshot caches a freshly supplied snapshot and clears the op log, since
// the snapshot supersedes everything recorded before it.
func (c *CanvasState) SetSnapshot(blob string) {
	if blob == "" {
		return
	}
	c.snapshot = blob
	c.snapshotAt = time.Now()
	c.ops = c.ops[:0]
	c.snapshotRequested = false
}

// Clear wipes both snapshot and log after a canvas-clear event.
func (c *CanvasState) Clear() {
	c.snapshot = ""
	c.snapshotAt = time.Time{}
	c.ops = c.ops[:0]
	c.snapshotRequested = false
}

// Snapshot returns the cached snapshot blob, or empty when none is cached.
func (c *CanvasState) Snapshot() string {
	return c.snapshot
}

// History returns a copy of the op log in append (timestamp) order.
func (c *CanvasState) History() []DrawingEvent {
	if len(c.ops) == 0 {
		return nil
	}
	out := make([]DrawingEvent, len(c.ops))
	copy(out, c.ops)
	return out
}

// HistoryLen reports the current op-log length.
func (c *CanvasState) HistoryLen() int {
	return len(c.ops)
}

// NeedsSnapshot reports whether the room should ask a participant for a fresh
// snapshot: the log is past half its bound, no snapshot is cached, and no
// request is already outstanding. Further growth would start losing catch-up
// data.
func (c *CanvasState) NeedsSnapshot() bool {
	return c.snapshot == "" && !c.snapshotRequested && len(c.ops) > c.limit/2
}

// MarkSnapshotRequested records that a snapshot request went out. The latch
// resets when a snapshot arrives or the canvas is cleared.
func (c *CanvasState) MarkSnapshotRequested() {
	c.snapshotRequested = true
}

package board

import "context"

// RoleResolution is the membership store's answer for one (room, identity)
// pair at join time.
type RoleResolution struct {
	// Kind is the stored room kind, or the collaborative default when the
	// store has never seen the room.
	Kind RoomKind

	// Role is the role the connection starts with.
	Role Role

	// KnownRoom reports whether the store holds metadata for the room. When
	// it does not and the live room is being created by this join, the first
	// joiner becomes owner regardless of Role.
	KnownRoom bool

	// Recorded reports whether Role came from an explicit stored record
	// (creator or permission row) rather than the room-kind default.
	Recorded bool
}

// MembershipStore is the external, durable authority for room metadata and
// long-term permission records. The coordinator consults it once per join and
// caches its answer on the session for the connection's lifetime; it never
// holds room state locked across these calls.
type MembershipStore interface {
	// ResolveRole looks up the role the identity holds in the named room.
	// An error fails the join entirely; no partial membership is created.
	ResolveRole(ctx context.Context, room, username string) (RoleResolution, error)

	// RecordRole persists an owner-initiated role change. Called best-effort
	// off the coordinator loop; failures only cost durability, the live role
	// has already changed.
	RecordRole(ctx context.Context, room, username string, role Role) error
}

// SnapshotArchive persists canvas snapshots outside the process, best effort,
// so a room that died and was reborn can still offer catch-up data. A nil
// archive disables persistence entirely.
type SnapshotArchive interface {
	PutSnapshot(ctx context.Context, room, blob string) error

	// GetSnapshot returns the archived blob for a room, or empty when none
	// exists.
	GetSnapshot(ctx context.Context, room string) (string, error)
}

/*
Package board contains the real-time coordination core of the whiteboard server:
room registry, per-connection sessions, permission policy, canvas catch-up state,
and the event coordinator that fans content out to room participants.

This file defines the Role and Action enumerations and the pure permission table
consulted before every content-mutating event.
*/
package board

// Role is the capability level a participant holds within a room.
// Capabilities are strictly ordered: owner > edit > view.
type Role string

const (
	RoleOwner Role = "owner"
	RoleEdit  Role = "edit"
	RoleView  Role = "view"
)

// ParseRole validates a role string received from a client or the membership store.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleOwner, RoleEdit, RoleView:
		return Role(s), true
	}
	return "", false
}

// RoomKind distinguishes free-for-all boards from presenter-driven ones.
// It determines the default role assigned to joiners with no recorded permission.
type RoomKind string

const (
	KindCollaborative RoomKind = "collaborative"
	KindPresentation  RoomKind = "presentation"
)

// ParseRoomKind validates a room kind string.
func ParseRoomKind(s string) (RoomKind, bool) {
	switch RoomKind(s) {
	case KindCollaborative, KindPresentation:
		return RoomKind(s), true
	}
	return "", false
}

// DefaultRole returns the role a joiner receives when the membership store
// has no recorded answer for them.
func (k RoomKind) DefaultRole() Role {
	if k == KindPresentation {
		return RoleView
	}
	return RoleEdit
}

// Action names a permission-gated operation. Values match the wire event types
// so a permission-denied payload can carry the attempted action verbatim.
type Action string

const (
	ActionDraw        Action = "drawing"
	ActionClear       Action = "canvas-clear"
	ActionManageRoles Action = "update-user-permission"
	ActionChat        Action = "chat-message"
	ActionCursorMove  Action = "cursor-move"
)

// CanPerform reports whether a role permits an action. It is the single source
// of truth for permission checks and never inspects room or participant state.
//
// owner and edit may draw and clear; only owner may manage roles; view is
// restricted to the observation-class actions (chat, cursor movement).
func CanPerform(role Role, action Action) bool {
	switch action {
	case ActionChat, ActionCursorMove:
		return role == RoleOwner || role == RoleEdit || role == RoleView
	case ActionDraw, ActionClear:
		return role == RoleOwner || role == RoleEdit
	case ActionManageRoles:
		return role == RoleOwner
	}
	return false
}

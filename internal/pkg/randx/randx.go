/*
Package randx provides identifier generation and validation helpers.

It generates unique connection identifiers and validates the room names and
usernames clients are allowed to present.
*/
package randx

import (
	"regexp"

	"github.com/google/uuid"
)

const (
	// MaxRoomNameLength bounds user-chosen room names.
	MaxRoomNameLength = 64

	// MaxUsernameLength bounds display names.
	MaxUsernameLength = 32
)

var (
	roomNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)
)

// ConnectionID generates a UUID v4 string identifying one WebSocket
// connection for its lifetime.
func ConnectionID() string {
	return uuid.New().String()
}

// IsValidRoomName checks that a client-chosen room name is non-empty, within
// length bounds, and uses only URL-safe characters.
func IsValidRoomName(name string) bool {
	if len(name) == 0 || len(name) > MaxRoomNameLength {
		return false
	}
	return roomNameRegex.MatchString(name)
}

// IsValidUsername checks that a display name is usable as an identity key.
func IsValidUsername(name string) bool {
	if len(name) == 0 || len(name) > MaxUsernameLength {
		return false
	}
	return usernameRegex.MatchString(name)
}

/*
Package user contains the identity value passed between the transport layer and
the coordination core.

A User is display identity only; the role a connection holds is a property of
its (connection, room) binding and lives on the board session instead.
*/
package user

// User represents the display identity of a board participant.
type User struct {

	// ID is the account UUID for registered users; empty for guests.
	ID string `json:"id,omitempty"`

	// Username is the display name. It is not guaranteed globally unique
	// across guest connections.
	Username string `json:"username"`

	// UserType is "registered" or "guest".
	UserType string `json:"userType"`
}

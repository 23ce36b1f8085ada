/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Room Business Logic Errors
const (
	// ErrRoomKindInvalid indicates that an invalid room kind was provided during creation.
	ErrRoomKindInvalid = 2101

	// ErrRoomNameInvalid indicates that the supplied room name failed validation.
	ErrRoomNameInvalid = 2102

	// ErrRoomExists indicates that a room with the requested name already exists.
	ErrRoomExists = 2103

	// ErrRoomNotFound indicates that the requested room does not exist.
	ErrRoomNotFound = 2104
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrAlreadyLoggedIn indicates the client presented a valid identity on an anonymous-only endpoint.
	ErrAlreadyLoggedIn = 3001

	// ErrInvalidUsername indicates the username failed format validation.
	ErrInvalidUsername = 3002

	// ErrInvalidPassword indicates the password failed length validation.
	ErrInvalidPassword = 3003

	// ErrUserAlreadyExists indicates the requested username is taken.
	ErrUserAlreadyExists = 3004

	// ErrInvalidCredentials indicates a failed username/password check.
	ErrInvalidCredentials = 3005

	// ErrUnauthorized indicates the request requires an authenticated identity.
	ErrUnauthorized = 3006
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)

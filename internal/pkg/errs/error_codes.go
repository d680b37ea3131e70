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

// 2xxx: Chat and Message Business Logic Errors
const (
	// ErrEmptyMessage indicates that a sent message was empty after trimming whitespace.
	ErrEmptyMessage = 2101

	// ErrMessageNotFound indicates that the referenced message does not exist in the log.
	ErrMessageNotFound = 2102

	// ErrInvalidScreen indicates that an unknown screen name was requested for navigation.
	ErrInvalidScreen = 2301
)

// 3xxx: User and Session Errors
const (
	// ErrInvalidUsername indicates that the supplied username was empty or otherwise unusable.
	ErrInvalidUsername = 3001

	// ErrUsernameTaken indicates that a user with the same username is already registered.
	ErrUsernameTaken = 3002

	// ErrUserNotFound indicates that no registered user matches the supplied username.
	ErrUserNotFound = 3003

	// ErrSessionRequired indicates that the operation requires an active session.
	ErrSessionRequired = 3004

	// ErrInvalidAvatar indicates that the chosen avatar is not part of the fixed avatar set.
	ErrInvalidAvatar = 3005
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)

/*
Package identity contains the user directory and session logic.

This file defines the User struct, the basic representation of a registered participant.
Field names match the persisted JSON records of the profile.
*/
package identity

// User represents one registered participant of the chat.
type User struct {

	// ID is the unique identifier for the user, assigned at registration. Immutable.
	ID string `json:"id"`

	// Username is the display name, unique (case-sensitive) across the directory.
	// Uniqueness is enforced at registration time only.
	Username string `json:"username"`

	// Avatar is the URL of the profile picture, chosen at registration from the fixed set.
	Avatar string `json:"avatar"`

	// Status is the declared presence state ("online"/"offline"). Declared but not
	// actively transitioned after registration.
	Status string `json:"status"`

	// Color is the display color drawn from the fixed neon palette, assigned once at
	// registration or lazily on first load for legacy records. Stable thereafter.
	Color string `json:"color,omitempty"`
}

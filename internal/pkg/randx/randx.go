/*
Package randx provides functions for generating unique identifiers and random profile attributes.

It is primarily used to generate UUID identifiers for users and messages, and to draw a
display color uniformly at random from the fixed neon palette assigned at registration.
*/
package randx

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

// NeonColors is the fixed ten-value palette from which every registered user's display
// color is drawn. Collisions between users are acceptable.
var NeonColors = []string{
	"#FF3131", // Neon Red
	"#FF5722", // Neon Orange
	"#FFC107", // Neon Amber
	"#39FF14", // Neon Green
	"#0FF0FC", // Neon Cyan
	"#007FFF", // Neon Blue
	"#BC13FE", // Neon Purple
	"#FF1493", // Neon Pink
	"#CCFF00", // Electric Lime
	"#FE019A", // Hot Pink
}

// Avatars is the fixed set of profile pictures a user chooses from at registration.
var Avatars = []string{
	"https://api.dicebear.com/7.x/avataaars/svg?seed=Felix",
	"https://api.dicebear.com/7.x/avataaars/svg?seed=Aneka",
	"https://api.dicebear.com/7.x/avataaars/svg?seed=Bob",
	"https://api.dicebear.com/7.x/avataaars/svg?seed=Willow",
	"https://api.dicebear.com/7.x/avataaars/svg?seed=Midnight",
}

// UserID generates a standard UUID v4 string to serve as a unique identifier for a user.
func UserID() string {
	return uuid.New().String()
}

// MessageID generates a standard UUID v4 string to serve as a unique identifier for a message.
func MessageID() string {
	return uuid.New().String()
}

// Color selects one value uniformly at random from NeonColors using crypto/rand.
// No uniqueness constraint is applied across users.
func Color() string {
	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(NeonColors))))
	if err != nil {
		return NeonColors[0]
	}

	return NeonColors[num.Int64()]
}

// IsValidColor reports whether the given string belongs to the NeonColors palette.
func IsValidColor(color string) bool {
	for _, c := range NeonColors {
		if c == color {
			return true
		}
	}

	return false
}

// IsValidAvatar reports whether the given URL belongs to the fixed avatar set.
func IsValidAvatar(avatar string) bool {
	for _, a := range Avatars {
		if a == avatar {
			return true
		}
	}

	return false
}

package common

import (
	"github.com/google/uuid"
)

// NewSessionID generates a durable session token with the "sid_" prefix.
// Format: sid_<uuid>
func NewSessionID() string {
	return "sid_" + uuid.New().String()
}

package utils

import (
	"strings"

	"github.com/google/uuid"
)

var newUUIDv7 = uuid.NewV7

// NewID returns a time-ordered id for a new row. Falls back to a random v4 id
// if the v7 generator fails.
func NewID() uuid.UUID {
	id, err := newUUIDv7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// ParseID parses an id supplied by a client, ignoring surrounding whitespace
func ParseID(raw string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(raw))
}

package shape

import (
	"fmt"

	"github.com/google/uuid"
)

// ID uniquely identifies a shape for the lifetime of a process and across
// save/load boundaries. Equality and hashing only; ordering carries no
// meaning.
type ID struct {
	uuid.UUID
}

// NewID returns a random (v4) shape id.
func NewID() ID {
	return ID{uuid.New()}
}

// ParseID parses a full UUID string.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ID{}, fmt.Errorf("invalid shape id %q: %w", s, err)
	}
	return ID{u}, nil
}

// IsNil reports whether the id is the zero value ("no shape").
func (id ID) IsNil() bool {
	return id.UUID == uuid.Nil
}

// String returns the 8-character short form used in logs and the CLI.
func (id ID) String() string {
	return id.UUID.String()[:8]
}

package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Falls back to v4 if v7 generation fails
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// LoadID identifies one dataset load of a dashboard
type LoadID ID

func (id LoadID) String() string { return ID(id).String() }

// IsEmpty reports whether no load has happened yet
func (id LoadID) IsEmpty() bool { return id == "" }

// NewLoadID creates a fresh load identifier
func NewLoadID() LoadID {
	return LoadID(NewID())
}

// ParseLoadID parses a string into LoadID
func ParseLoadID(s string) (LoadID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("load ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("invalid load ID %q: %w", s, err)
	}
	return LoadID(s), nil
}

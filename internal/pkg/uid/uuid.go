package uid

import "github.com/google/uuid"

// UUID yields time-ordered v7 UUIDs for correlation and token IDs. If the v7
// source fails it degrades to a random v4 rather than returning an error.
type UUID struct {
	next func() (uuid.UUID, error)
}

func NewUUID() *UUID {
	return &UUID{next: uuid.NewV7}
}

func (u *UUID) Generate() string {
	if id, err := u.next(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

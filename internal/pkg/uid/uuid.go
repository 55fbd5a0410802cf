package uid

import "github.com/google/uuid"

// UUID generates RFC 9562 UUID strings, time-ordered when possible.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new UUIDv7 string, or a UUIDv4 if v7 cannot be produced.
func (u *UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

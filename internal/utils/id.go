package utils

import "github.com/google/uuid"

// NewRequestID returns a time-ordered UUIDv7 so request logs sort by arrival.
// It falls back to a random v4 id if the clock-based generator fails.
func NewRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

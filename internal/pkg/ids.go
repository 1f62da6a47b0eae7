package pkg

import "github.com/google/uuid"

// GenerateParticipantID - returns a fresh identifier for a connecting
// participant.
func GenerateParticipantID() string {
	return uuid.NewString()
}

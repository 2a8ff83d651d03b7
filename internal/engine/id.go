package engine

import "github.com/google/uuid"

// generateID creates a stable identifier for pantry items.
func generateID() string {
	return uuid.NewString()
}

package utils

import "github.com/google/uuid"

// GenerateUUID returns a new random UUID string for task identifiers.
func GenerateUUID() string {
	return uuid.New().String()
}

package pkg

import "github.com/google/uuid"

// GenerateGameID - generates a fresh session identifier.
func GenerateGameID() string {
	return uuid.NewString()
}

// GenerateNewSessionID - generates a fresh player (connection) identifier.
func GenerateNewSessionID() string {
	return uuid.NewString()
}

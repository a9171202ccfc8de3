// Package storage provides SQLite-backed durable client storage: a small
// key-value table that survives restarts and an archive of finished interviews.
package storage

import "time"

// Well-known keys.
const (
	KeyAuthToken = "authToken"
	KeyAPIKey    = "apiKey"
)

// Interview is an archived interview session.
type Interview struct {
	ID          string
	Username    string
	Type        string
	Difficulty  string
	Questions   int
	Corrections int
	StartedAt   time.Time
	EndedAt     time.Time
}

// Turn is one archived conversation turn.
type Turn struct {
	ID          int
	InterviewID string
	Role        string // user, assistant
	Content     string
	Tone        string
	Timestamp   time.Time
}

// Summary provides a high-level view of an interview for listing.
type Summary struct {
	ID          string
	Type        string
	Difficulty  string
	Questions   int
	Corrections int
	Turns       int
	StartedAt   time.Time
}

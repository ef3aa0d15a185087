// Package store persists finished voice recordings in SQLite.
package store

import (
	"time"

	"github.com/google/uuid"
)

// Recording is one persisted voice memo. Records are append-only: after
// insertion the only permitted mutation is deletion.
type Recording struct {
	ID            uuid.UUID
	Timestamp     time.Time
	Transcript    string
	AudioFileName *string // nil once the transient audio artifact is cleaned up
	Duration      time.Duration
}

// NewRecording builds a Recording for a capture session that has stopped.
// ID and timestamp are assigned here, exactly once.
func NewRecording(transcript string, audioFileName *string, duration time.Duration) Recording {
	return Recording{
		ID:            uuid.New(),
		Timestamp:     time.Now().UTC(),
		Transcript:    transcript,
		AudioFileName: audioFileName,
		Duration:      duration,
	}
}

package models

import "time"

// SyncEvent is a single archiver log entry.
type SyncEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // INDEX_SYNC | SHOT_FETCH | ERROR
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}

package webhook

import (
	"encoding/json"

	"github.com/google/uuid"
)

// StoreChangeEvent is the database webhook payload sent on row changes
type StoreChangeEvent struct {
	Type      string          `json:"type"`
	Table     string          `json:"table"`
	Schema    string          `json:"schema,omitempty"`
	Record    json.RawMessage `json:"record,omitempty"`
	OldRecord json.RawMessage `json:"old_record,omitempty"`
}

// TranscriptRecord is the subset of a transcripts row the webhook reads
type TranscriptRecord struct {
	ID       uuid.UUID `json:"id"`
	ClientID string    `json:"client_id"`
}

// MeetingRecord is the subset of a meetings row the webhook reads
type MeetingRecord struct {
	ID           uuid.UUID  `json:"id"`
	TranscriptID *uuid.UUID `json:"transcript_id"`
}

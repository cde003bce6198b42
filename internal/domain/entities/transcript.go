package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultMeetingTitle is used when a transcript was captured without a title
const DefaultMeetingTitle = "Untitled Meeting"

// Transcript is the raw captured text of a meeting. Rows are written by the capture
// process and never mutated or deleted by the pipeline.
type Transcript struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ClientID     string    `json:"client_id" gorm:"type:varchar(255);not null;index"`
	MeetingTitle *string   `json:"meeting_title,omitempty" gorm:"type:varchar(500)"`
	AudioURL     *string   `json:"audio_url,omitempty" gorm:"type:text"`
	Text         *string   `json:"transcript_text,omitempty" gorm:"column:transcript_text;type:text"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Transcript) TableName() string {
	return "transcripts"
}

// NewTranscript creates a new transcript owned by clientID
func NewTranscript(clientID string, title, audioURL, text *string) *Transcript {
	return &Transcript{
		ID:           uuid.New(),
		ClientID:     clientID,
		MeetingTitle: title,
		AudioURL:     audioURL,
		Text:         text,
		CreatedAt:    time.Now().UTC(),
	}
}

// TextValue returns the raw text, or "" when the column is NULL
func (t *Transcript) TextValue() string {
	if t.Text == nil {
		return ""
	}
	return *t.Text
}

// Title returns the captured meeting title or DefaultMeetingTitle
func (t *Transcript) Title() string {
	if t.MeetingTitle == nil || strings.TrimSpace(*t.MeetingTitle) == "" {
		return DefaultMeetingTitle
	}
	return strings.TrimSpace(*t.MeetingTitle)
}

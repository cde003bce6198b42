package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Meeting is the summary record derived from a transcript.
// transcript_id carries a unique constraint: one meeting per transcript.
type Meeting struct {
	ID             uuid.UUID                   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TranscriptID   *uuid.UUID                  `json:"transcript_id,omitempty" gorm:"type:uuid;uniqueIndex"`
	Title          string                      `json:"title" gorm:"type:varchar(500);not null"`
	Summary        string                      `json:"summary" gorm:"type:text"`
	KeyPoints      datatypes.JSONSlice[string] `json:"key_points" gorm:"type:jsonb"`
	FollowupPoints datatypes.JSONSlice[string] `json:"followup_points" gorm:"type:jsonb"`
	CreatedAt      time.Time                   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time                   `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting is the insert payload produced by the reconciler for one transcript
type NewMeeting struct {
	TranscriptID   uuid.UUID
	Title          string
	Summary        string
	KeyPoints      []string
	FollowupPoints []string
}

// Build materializes the payload into a Meeting row with a fresh id
func (n NewMeeting) Build() *Meeting {
	transcriptID := n.TranscriptID
	now := time.Now().UTC()
	return &Meeting{
		ID:             uuid.New(),
		TranscriptID:   &transcriptID,
		Title:          n.Title,
		Summary:        n.Summary,
		KeyPoints:      datatypes.JSONSlice[string](append([]string(nil), n.KeyPoints...)),
		FollowupPoints: datatypes.JSONSlice[string](append([]string(nil), n.FollowupPoints...)),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// MeetingDetail is a meeting joined with the fields of its source transcript
type MeetingDetail struct {
	Meeting             `gorm:"embedded"`
	ClientID            *string    `json:"client_id,omitempty" gorm:"column:client_id"`
	MeetingTitle        *string    `json:"meeting_title,omitempty" gorm:"column:meeting_title"`
	AudioURL            *string    `json:"audio_url,omitempty" gorm:"column:audio_url"`
	TranscriptText      *string    `json:"transcript_text,omitempty" gorm:"column:transcript_text"`
	TranscriptCreatedAt *time.Time `json:"transcript_created_at,omitempty" gorm:"column:transcript_created_at"`
}

// MeetingFilter narrows meeting listings
type MeetingFilter struct {
	Search string
	Limit  int
	Offset int
}

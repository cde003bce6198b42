package meeting

import (
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
)

// MeetingResponse is a meeting joined with its source transcript
type MeetingResponse struct {
	ID                  uuid.UUID  `json:"id"`
	TranscriptID        *uuid.UUID `json:"transcript_id,omitempty"`
	Title               string     `json:"title"`
	Summary             string     `json:"summary"`
	KeyPoints           []string   `json:"key_points"`
	FollowupPoints      []string   `json:"followup_points"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	ClientID            *string    `json:"client_id,omitempty"`
	MeetingTitle        *string    `json:"meeting_title,omitempty"`
	AudioURL            *string    `json:"audio_url,omitempty"`
	TranscriptText      *string    `json:"transcript_text,omitempty"`
	TranscriptCreatedAt *time.Time `json:"transcript_created_at,omitempty"`
}

// NewMeetingResponse converts a meeting detail. Transcript text is only
// included when withText is set.
func NewMeetingResponse(d entities.MeetingDetail, withText bool) MeetingResponse {
	resp := MeetingResponse{
		ID:                  d.ID,
		TranscriptID:        d.TranscriptID,
		Title:               d.Title,
		Summary:             d.Summary,
		KeyPoints:           nonNil(d.KeyPoints),
		FollowupPoints:      nonNil(d.FollowupPoints),
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
		ClientID:            d.ClientID,
		MeetingTitle:        d.MeetingTitle,
		AudioURL:            d.AudioURL,
		TranscriptCreatedAt: d.TranscriptCreatedAt,
	}
	if withText {
		resp.TranscriptText = d.TranscriptText
	}
	return resp
}

// TranscriptResponse acknowledges a stored transcript
type TranscriptResponse struct {
	ID        uuid.UUID `json:"id"`
	ClientID  string    `json:"client_id"`
	Title     string    `json:"title"`
	HasText   bool      `json:"has_text"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTranscriptResponse converts a stored transcript
func NewTranscriptResponse(t *entities.Transcript) TranscriptResponse {
	return TranscriptResponse{
		ID:        t.ID,
		ClientID:  t.ClientID,
		Title:     t.Title(),
		HasText:   t.Text != nil,
		CreatedAt: t.CreatedAt,
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

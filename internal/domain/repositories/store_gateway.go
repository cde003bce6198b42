package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
)

// StoreGateway is the narrow store contract used by the reconciliation pipeline
type StoreGateway interface {
	// ListTranscriptsWithText returns every transcript whose text is not NULL
	ListTranscriptsWithText(ctx context.Context) ([]entities.Transcript, error)

	// ListLinkedTranscriptIDs returns the ids of transcripts already referenced by a meeting
	ListLinkedTranscriptIDs(ctx context.Context) (map[uuid.UUID]struct{}, error)

	// InsertMeeting inserts a meeting for in.TranscriptID.
	// Returns entities.ErrMeetingConflict when that transcript already has a meeting.
	InsertMeeting(ctx context.Context, in entities.NewMeeting) (*entities.Meeting, error)
}

// MeetingReader serves the read side of the HTTP API
type MeetingReader interface {
	// ListMeetings lists meetings joined with their transcripts, newest first
	ListMeetings(ctx context.Context, filter entities.MeetingFilter) ([]entities.MeetingDetail, error)

	// GetMeeting returns one meeting or entities.ErrMeetingNotFound
	GetMeeting(ctx context.Context, id uuid.UUID) (*entities.MeetingDetail, error)
}

// TranscriptWriter accepts transcripts from the capture side
type TranscriptWriter interface {
	CreateTranscript(ctx context.Context, transcript *entities.Transcript) error
}

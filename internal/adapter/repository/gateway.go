package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
)

// DefaultStoreTimeout bounds every store call made through the gateway
const DefaultStoreTimeout = 10 * time.Second

// StoreGateway composes the transcript and meeting repositories behind the
// pipeline's store contract, bounding each call with a timeout
type StoreGateway struct {
	transcripts *TranscriptRepository
	meetings    *MeetingRepository
	timeout     time.Duration
}

// NewStoreGateway creates a store gateway over db
func NewStoreGateway(db *gorm.DB, timeout time.Duration) *StoreGateway {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &StoreGateway{
		transcripts: NewTranscriptRepository(db),
		meetings:    NewMeetingRepository(db),
		timeout:     timeout,
	}
}

func (g *StoreGateway) ListTranscriptsWithText(ctx context.Context) ([]entities.Transcript, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.transcripts.ListTranscriptsWithText(ctx)
}

func (g *StoreGateway) ListLinkedTranscriptIDs(ctx context.Context) (map[uuid.UUID]struct{}, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.meetings.ListLinkedTranscriptIDs(ctx)
}

func (g *StoreGateway) InsertMeeting(ctx context.Context, in entities.NewMeeting) (*entities.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.meetings.InsertMeeting(ctx, in)
}

func (g *StoreGateway) ListMeetings(ctx context.Context, filter entities.MeetingFilter) ([]entities.MeetingDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.meetings.ListMeetings(ctx, filter)
}

func (g *StoreGateway) GetMeeting(ctx context.Context, id uuid.UUID) (*entities.MeetingDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.meetings.GetMeeting(ctx, id)
}

func (g *StoreGateway) CreateTranscript(ctx context.Context, transcript *entities.Transcript) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.transcripts.CreateTranscript(ctx, transcript)
}

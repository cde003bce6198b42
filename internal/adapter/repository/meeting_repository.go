package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
)

const uniqueViolation = "23505"

const meetingDetailColumns = `meetings.*,
	transcripts.client_id AS client_id,
	transcripts.meeting_title AS meeting_title,
	transcripts.audio_url AS audio_url,
	transcripts.transcript_text AS transcript_text,
	transcripts.created_at AS transcript_created_at`

// MeetingRepository handles meeting data operations
type MeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// ListLinkedTranscriptIDs returns the transcript ids referenced by any meeting
func (r *MeetingRepository) ListLinkedTranscriptIDs(ctx context.Context) (map[uuid.UUID]struct{}, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("transcript_id IS NOT NULL").
		Pluck("transcript_id", &ids).Error
	if err != nil {
		return nil, err
	}

	linked := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		linked[id] = struct{}{}
	}
	return linked, nil
}

// InsertMeeting inserts a meeting. The unique index on transcript_id makes a second
// insert for the same transcript a no-op, reported as entities.ErrMeetingConflict.
func (r *MeetingRepository) InsertMeeting(ctx context.Context, in entities.NewMeeting) (*entities.Meeting, error) {
	meeting := in.Build()

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "transcript_id"}},
			DoNothing: true,
		}).
		Create(meeting)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return nil, entities.ErrMeetingConflict
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, entities.ErrMeetingConflict
	}
	return meeting, nil
}

// ListMeetings lists meetings joined with their transcripts, newest first
func (r *MeetingRepository) ListMeetings(ctx context.Context, filter entities.MeetingFilter) ([]entities.MeetingDetail, error) {
	query := r.detailQuery(ctx)

	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"LOWER(meetings.title) LIKE ? OR LOWER(meetings.summary) LIKE ? OR LOWER(transcripts.client_id) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var details []entities.MeetingDetail
	if err := query.Order("meetings.created_at DESC").Scan(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

// GetMeeting retrieves one meeting joined with its transcript
func (r *MeetingRepository) GetMeeting(ctx context.Context, id uuid.UUID) (*entities.MeetingDetail, error) {
	var details []entities.MeetingDetail
	if err := r.detailQuery(ctx).Where("meetings.id = ?", id).Limit(1).Scan(&details).Error; err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, entities.ErrMeetingNotFound
	}
	return &details[0], nil
}

func (r *MeetingRepository) detailQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("meetings").
		Select(meetingDetailColumns).
		Joins("LEFT JOIN transcripts ON transcripts.id = meetings.transcript_id")
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return false
}

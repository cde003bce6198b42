// Package memstore is an in-memory store gateway. It enforces the same
// one-meeting-per-transcript constraint as the database and backs tests and dry runs.
package memstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
)

// Store is a mutex-guarded transcript and meeting table pair
type Store struct {
	mu           sync.RWMutex
	transcripts  map[uuid.UUID]entities.Transcript
	meetings     map[uuid.UUID]*entities.Meeting
	byTranscript map[uuid.UUID]uuid.UUID
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{
		transcripts:  make(map[uuid.UUID]entities.Transcript),
		meetings:     make(map[uuid.UUID]*entities.Meeting),
		byTranscript: make(map[uuid.UUID]uuid.UUID),
	}
}

// CreateTranscript stores a transcript
func (s *Store) CreateTranscript(ctx context.Context, transcript *entities.Transcript) error {
	if transcript == nil {
		return errors.New("transcript cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if transcript.ID == uuid.Nil {
		transcript.ID = uuid.New()
	}
	if transcript.CreatedAt.IsZero() {
		transcript.CreatedAt = time.Now().UTC()
	}
	s.transcripts[transcript.ID] = *transcript
	return nil
}

// ListTranscriptsWithText returns transcripts with non-NULL text, oldest first
func (s *Store) ListTranscriptsWithText(ctx context.Context) ([]entities.Transcript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Transcript, 0, len(s.transcripts))
	for _, t := range s.transcripts {
		if t.Text == nil {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// ListLinkedTranscriptIDs returns transcript ids that already have a meeting
func (s *Store) ListLinkedTranscriptIDs(ctx context.Context) (map[uuid.UUID]struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make(map[uuid.UUID]struct{}, len(s.byTranscript))
	for id := range s.byTranscript {
		ids[id] = struct{}{}
	}
	return ids, nil
}

// InsertMeeting inserts a meeting unless the transcript already has one
func (s *Store) InsertMeeting(ctx context.Context, in entities.NewMeeting) (*entities.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byTranscript[in.TranscriptID]; exists {
		return nil, entities.ErrMeetingConflict
	}

	m := in.Build()
	s.meetings[m.ID] = m
	s.byTranscript[in.TranscriptID] = m.ID

	cp := *m
	return &cp, nil
}

// ListMeetings lists meetings joined with transcripts, newest first
func (s *Store) ListMeetings(ctx context.Context, filter entities.MeetingFilter) ([]entities.MeetingDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]entities.MeetingDetail, 0, len(s.meetings))
	for _, m := range s.meetings {
		d := s.detailLocked(m)
		if needle != "" && !matches(d, needle) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []entities.MeetingDetail{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// GetMeeting returns one meeting joined with its transcript
func (s *Store) GetMeeting(ctx context.Context, id uuid.UUID) (*entities.MeetingDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.meetings[id]
	if !ok {
		return nil, entities.ErrMeetingNotFound
	}
	d := s.detailLocked(m)
	return &d, nil
}

// MeetingCount returns the number of stored meetings
func (s *Store) MeetingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.meetings)
}

// MeetingsForTranscript counts meetings referencing transcriptID
func (s *Store) MeetingsForTranscript(transcriptID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, m := range s.meetings {
		if m.TranscriptID != nil && *m.TranscriptID == transcriptID {
			n++
		}
	}
	return n
}

func (s *Store) detailLocked(m *entities.Meeting) entities.MeetingDetail {
	d := entities.MeetingDetail{Meeting: *m}
	if m.TranscriptID == nil {
		return d
	}
	t, ok := s.transcripts[*m.TranscriptID]
	if !ok {
		return d
	}
	clientID := t.ClientID
	createdAt := t.CreatedAt
	d.ClientID = &clientID
	d.MeetingTitle = t.MeetingTitle
	d.AudioURL = t.AudioURL
	d.TranscriptText = t.Text
	d.TranscriptCreatedAt = &createdAt
	return d
}

func matches(d entities.MeetingDetail, needle string) bool {
	if strings.Contains(strings.ToLower(d.Title), needle) ||
		strings.Contains(strings.ToLower(d.Summary), needle) {
		return true
	}
	return d.ClientID != nil && strings.Contains(strings.ToLower(*d.ClientID), needle)
}

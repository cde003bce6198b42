package entities

import "errors"

// Domain errors
var (
	// Transcript errors
	ErrTranscriptNotFound = errors.New("transcript not found")
	ErrClientIDRequired   = errors.New("client_id is required")

	// Meeting errors
	ErrMeetingNotFound = errors.New("meeting not found")
	// ErrMeetingConflict is returned when the transcript already has a meeting
	ErrMeetingConflict = errors.New("meeting already exists for transcript")

	// Generic errors
	ErrInvalidRequest = errors.New("invalid request")
)

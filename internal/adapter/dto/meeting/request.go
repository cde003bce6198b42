package meeting

// CreateTranscriptRequest represents a transcript pushed by a capture client
type CreateTranscriptRequest struct {
	ClientID       string  `json:"client_id" validate:"notblank,max=255"`
	MeetingTitle   *string `json:"meeting_title,omitempty" validate:"omitempty,max=500"`
	AudioURL       *string `json:"audio_url,omitempty" validate:"omitempty,max=2048"`
	TranscriptText *string `json:"transcript_text,omitempty"`
}

// ListMeetingsRequest represents query parameters for listing meetings
type ListMeetingsRequest struct {
	Search   string `query:"search" validate:"max=200"`
	Page     int    `query:"page" validate:"min=1"`
	PageSize int    `query:"page_size" validate:"min=1,max=100"`
}

// Normalize fills paging defaults
func (r *ListMeetingsRequest) Normalize() {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.PageSize <= 0 {
		r.PageSize = 20
	}
}

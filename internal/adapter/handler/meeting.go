package handler

import (
	"context"
	stdErrors "errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-digest/errors"
	dtocommon "github.com/johnquangdev/meeting-digest/internal/adapter/dto/common"
	dtomeeting "github.com/johnquangdev/meeting-digest/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
	"github.com/johnquangdev/meeting-digest/internal/domain/repositories"
)

// AudioLinker resolves a stored audio reference into a downloadable link
type AudioLinker interface {
	AudioLink(ctx context.Context, ref string) (string, error)
}

// Meeting handles the meeting read endpoints
type Meeting struct {
	reader repositories.MeetingReader
	links  AudioLinker
	logger *zap.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(reader repositories.MeetingReader, links AudioLinker, logger *zap.Logger) *Meeting {
	return &Meeting{reader: reader, links: links, logger: logger}
}

// List lists meetings, newest first, optionally filtered by search
// @Summary      List meetings
// @Tags         Meetings
// @Produce      json
// @Param        search     query  string  false  "Matches title, summary or client id"
// @Param        page       query  int     false  "Page number"
// @Param        page_size  query  int     false  "Page size (max 100)"
// @Success      200  {object}  common.ListResponse
// @Router       /meetings [get]
func (h *Meeting) List(c echo.Context) error {
	var req dtomeeting.ListMeetingsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	details, err := h.reader.ListMeetings(c.Request().Context(), entities.MeetingFilter{
		Search: req.Search,
		Limit:  req.PageSize,
		Offset: (req.Page - 1) * req.PageSize,
	})
	if err != nil {
		return HandleError(h.logger, c, errors.ErrStoreUnavailable(err))
	}

	items := make([]dtomeeting.MeetingResponse, 0, len(details))
	for _, d := range details {
		items = append(items, dtomeeting.NewMeetingResponse(d, false))
	}

	return HandleSuccess(h.logger, c, dtocommon.ListResponse{
		Data: items,
		Pagination: &dtocommon.PaginationResponse{
			Page:     req.Page,
			PageSize: req.PageSize,
			Count:    len(items),
		},
	})
}

// Get returns one meeting with its transcript and audio link
// @Summary      Get meeting
// @Tags         Meetings
// @Produce      json
// @Param        id  path  string  true  "Meeting ID (UUID)"
// @Success      200  {object}  meeting.MeetingResponse
// @Failure      404  {object}  map[string]interface{}
// @Router       /meetings/{id} [get]
func (h *Meeting) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting id"))
	}

	detail, err := h.reader.GetMeeting(c.Request().Context(), id)
	if err != nil {
		if stdErrors.Is(err, entities.ErrMeetingNotFound) {
			return HandleError(h.logger, c, errors.ErrNotFound("Meeting").WithDetail("meeting_id", id.String()))
		}
		return HandleError(h.logger, c, errors.ErrStoreUnavailable(err))
	}

	resp := dtomeeting.NewMeetingResponse(*detail, true)
	if resp.AudioURL != nil && h.links != nil {
		link, err := h.links.AudioLink(c.Request().Context(), *resp.AudioURL)
		if err != nil {
			// The stored reference is still returned; the failure is only reported.
			if h.logger != nil {
				appErr := errors.ErrStorageFailed("presign audio link", err)
				h.logger.Warn("⚠️ Failed to presign audio link",
					zap.String("meeting_id", id.String()),
					zap.String("code", appErr.Code.String()),
					zap.Error(appErr),
				)
			}
		} else {
			resp.AudioURL = &link
		}
	}

	return HandleSuccess(h.logger, c, resp)
}

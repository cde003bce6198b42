package handler

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-digest/errors"
	dtomeeting "github.com/johnquangdev/meeting-digest/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
	"github.com/johnquangdev/meeting-digest/internal/domain/repositories"
	"github.com/johnquangdev/meeting-digest/internal/infrastructure/notify"
)

// ChangeNotifier announces that a transcript was written
type ChangeNotifier interface {
	TranscriptChanged(ctx context.Context, event notify.ChangeEvent) error
}

// Transcript handles transcript ingestion from capture clients
type Transcript struct {
	writer   repositories.TranscriptWriter
	notifier ChangeNotifier
	logger   *zap.Logger
}

// NewTranscriptHandler creates a new transcript handler
func NewTranscriptHandler(writer repositories.TranscriptWriter, notifier ChangeNotifier, logger *zap.Logger) *Transcript {
	return &Transcript{writer: writer, notifier: notifier, logger: logger}
}

// Create stores a transcript and announces the change
// @Summary      Ingest transcript
// @Tags         Transcripts
// @Accept       json
// @Produce      json
// @Param        request  body  meeting.CreateTranscriptRequest  true  "Transcript"
// @Success      201  {object}  meeting.TranscriptResponse
// @Failure      400  {object}  map[string]interface{}  "client_id missing"
// @Router       /transcripts [post]
func (h *Transcript) Create(c echo.Context) error {
	var req dtomeeting.CreateTranscriptRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if strings.TrimSpace(req.ClientID) == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(entities.ErrClientIDRequired.Error()))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	transcript := entities.NewTranscript(strings.TrimSpace(req.ClientID), req.MeetingTitle, req.AudioURL, req.TranscriptText)
	if err := h.writer.CreateTranscript(c.Request().Context(), transcript); err != nil {
		return HandleError(h.logger, c, errors.ErrStoreUnavailable(err))
	}

	if h.logger != nil {
		h.logger.Info("📥 Transcript stored",
			zap.String("transcript_id", transcript.ID.String()),
			zap.String("client_id", transcript.ClientID),
		)
	}

	if h.notifier != nil {
		event := notify.ChangeEvent{
			TranscriptID: transcript.ID,
			ClientID:     transcript.ClientID,
			Source:       "api",
		}
		if err := h.notifier.TranscriptChanged(c.Request().Context(), event); err != nil && h.logger != nil {
			h.logger.Warn("⚠️ Failed to publish transcript change", zap.Error(err))
		}
	}

	return HandleCreated(h.logger, c, dtomeeting.NewTranscriptResponse(transcript))
}

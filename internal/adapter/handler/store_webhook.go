package handler

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-digest/errors"
	dtocommon "github.com/johnquangdev/meeting-digest/internal/adapter/dto/common"
	dtowebhook "github.com/johnquangdev/meeting-digest/internal/adapter/dto/webhook"
	"github.com/johnquangdev/meeting-digest/internal/infrastructure/notify"
	"github.com/johnquangdev/meeting-digest/pkg/signature"
)

const maxWebhookBody = 1 << 20

// StoreWebhook receives signed row-change webhooks from the store
type StoreWebhook struct {
	notifier ChangeNotifier
	secret   string
	logger   *zap.Logger
}

// NewStoreWebhookHandler creates a new handler
func NewStoreWebhookHandler(notifier ChangeNotifier, secret string, logger *zap.Logger) *StoreWebhook {
	return &StoreWebhook{notifier: notifier, secret: secret, logger: logger}
}

// HandleStoreChange verifies the signature and turns transcript inserts and
// updates, and meeting deletions, into change notifications
func (h *StoreWebhook) HandleStoreChange(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	if !signature.VerifyHMAC(h.secret, body, c.Request().Header.Get(signature.Header)) {
		if h.logger != nil {
			h.logger.Warn("invalid store webhook signature")
		}
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	var event dtowebhook.StoreChangeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	change, ok := h.changeFor(event)
	if !ok {
		return HandleSuccess(h.logger, c, dtocommon.StatusResponse{Status: "ignored"})
	}

	if err := h.notifier.TranscriptChanged(c.Request().Context(), change); err != nil {
		return HandleError(h.logger, c, errors.ErrNotifyFailed(err))
	}

	if h.logger != nil {
		h.logger.Info("🪝 Store change received",
			zap.String("table", event.Table),
			zap.String("type", event.Type),
			zap.String("transcript_id", change.TranscriptID.String()),
		)
	}
	return HandleSuccess(h.logger, c, dtocommon.StatusResponse{Status: "accepted"})
}

// changeFor maps a row change to a notification. Transcript writes add work;
// deleting a meeting makes its transcript pending again.
func (h *StoreWebhook) changeFor(event dtowebhook.StoreChangeEvent) (notify.ChangeEvent, bool) {
	deleted := strings.EqualFold(event.Type, "DELETE")

	switch {
	case strings.EqualFold(event.Table, "transcripts") && !deleted:
		var record dtowebhook.TranscriptRecord
		h.decodeRecord(event.Record, &record)
		return notify.ChangeEvent{TranscriptID: record.ID, ClientID: record.ClientID, Source: "webhook"}, true

	case strings.EqualFold(event.Table, "meetings") && deleted:
		var record dtowebhook.MeetingRecord
		h.decodeRecord(event.OldRecord, &record)
		if record.TranscriptID == nil {
			return notify.ChangeEvent{}, false
		}
		return notify.ChangeEvent{TranscriptID: *record.TranscriptID, Source: "webhook"}, true
	}
	return notify.ChangeEvent{}, false
}

func (h *StoreWebhook) decodeRecord(raw json.RawMessage, v any) {
	if len(raw) == 0 {
		return
	}
	if err := json.Unmarshal(raw, v); err != nil && h.logger != nil {
		h.logger.Warn("⚠️ Unreadable record in store webhook", zap.Error(err))
	}
}

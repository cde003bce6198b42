package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-digest/errors"
	dtopipeline "github.com/johnquangdev/meeting-digest/internal/adapter/dto/pipeline"
	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
	ucerrors "github.com/johnquangdev/meeting-digest/internal/usecase/errors"
	"github.com/johnquangdev/meeting-digest/internal/usecase/trigger"
)

// PipelineController is the trigger surface used by the pipeline handler
type PipelineController interface {
	Request(ctx context.Context, source trigger.Source) (*entities.ProcessingOutcome, error)
	Status() trigger.Status
	Reset()
}

// PendingCounter counts transcripts waiting for a meeting
type PendingCounter interface {
	Pending(ctx context.Context) (int, error)
}

// DefaultRunTimeout bounds a manual run when no timeout is configured
const DefaultRunTimeout = 5 * time.Minute

// Pipeline handles manual trigger, status and reset endpoints
type Pipeline struct {
	controller PipelineController
	pending    PendingCounter
	runTimeout time.Duration
	logger     *zap.Logger
}

// NewPipelineHandler creates a new pipeline handler. Manual runs are detached
// from the request and bounded by runTimeout instead.
func NewPipelineHandler(controller PipelineController, pending PendingCounter, runTimeout time.Duration, logger *zap.Logger) *Pipeline {
	if runTimeout <= 0 {
		runTimeout = DefaultRunTimeout
	}
	return &Pipeline{controller: controller, pending: pending, runTimeout: runTimeout, logger: logger}
}

// Run triggers a reconciliation run
// @Summary      Run reconciliation
// @Description  Converts every valid transcript without a meeting into a meeting
// @Tags         Pipeline
// @Produce      json
// @Success      200  {object}  pipeline.OutcomeResponse
// @Failure      409  {object}  map[string]interface{}  "Run suppressed (already running, too soon or circuit open)"
// @Failure      503  {object}  map[string]interface{}  "Store unavailable"
// @Router       /pipeline/run [post]
func (h *Pipeline) Run(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), h.runTimeout)
	defer cancel()

	outcome, err := h.controller.Request(ctx, trigger.SourceManual)
	if err != nil {
		return HandleError(h.logger, c, h.mapRunError(err))
	}
	return HandleSuccess(h.logger, c, dtopipeline.NewOutcomeResponse(outcome))
}

// Status returns the trigger controller snapshot and the pending count
func (h *Pipeline) Status(c echo.Context) error {
	resp := dtopipeline.NewStatusResponse(h.controller.Status())

	if h.pending != nil {
		n, err := h.pending.Pending(c.Request().Context())
		if err != nil {
			resp.PendingError = err.Error()
		} else {
			resp.Pending = &n
		}
	}
	return HandleSuccess(h.logger, c, resp)
}

// Reset clears the failure counter and re-enables auto-processing
func (h *Pipeline) Reset(c echo.Context) error {
	h.controller.Reset()
	if h.logger != nil {
		h.logger.Info("🔄 Pipeline reset by operator", zap.String("request_id", getRequestID(c)))
	}
	return HandleSuccess(h.logger, c, dtopipeline.NewStatusResponse(h.controller.Status()))
}

func (h *Pipeline) mapRunError(err error) error {
	if reason, ok := trigger.IsSuppressed(err); ok {
		if reason == trigger.ReasonCircuitOpen {
			return errors.ErrCircuitOpen(h.controller.Status().ConsecutiveFailures)
		}
		return errors.ErrTriggerSuppressed(string(reason))
	}
	if ucerrors.KindOf(err) == ucerrors.KindTransient {
		return errors.ErrStoreUnavailable(err)
	}
	return errors.ErrReconcileFailed(err)
}

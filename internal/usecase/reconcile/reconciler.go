// Package reconcile converts valid, unlinked transcripts into meetings.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
	"github.com/johnquangdev/meeting-digest/internal/domain/repositories"
	ucerrors "github.com/johnquangdev/meeting-digest/internal/usecase/errors"
	"github.com/johnquangdev/meeting-digest/internal/usecase/summarizer"
	"github.com/johnquangdev/meeting-digest/internal/usecase/validity"
	"github.com/johnquangdev/meeting-digest/pkg/jobcontext"
)

// Defaults used when Options fields are left zero
const (
	DefaultWorkers          = 4
	DefaultMaxSentences     = 3
	DefaultMaxKeyPoints     = 5
	DefaultCandidateTimeout = 30 * time.Second
)

// Options tunes a Reconciler
type Options struct {
	Workers          int
	MaxSentences     int
	MaxKeyPoints     int
	CandidateTimeout time.Duration
}

// DefaultOptions returns the production defaults
func DefaultOptions() Options {
	return Options{
		Workers:          DefaultWorkers,
		MaxSentences:     DefaultMaxSentences,
		MaxKeyPoints:     DefaultMaxKeyPoints,
		CandidateTimeout: DefaultCandidateTimeout,
	}
}

// Reconciler runs one reconciliation pass per call. It holds no run state and
// overlapping calls are safe: the store's unique transcript_id arbitrates.
type Reconciler struct {
	store      repositories.StoreGateway
	summarizer *summarizer.Summarizer
	opts       Options
	logger     *zap.Logger
	now        func() time.Time
}

// NewReconciler creates a new Reconciler
func NewReconciler(store repositories.StoreGateway, sum *summarizer.Summarizer, opts Options, logger *zap.Logger) *Reconciler {
	if sum == nil {
		sum = summarizer.New(summarizer.DefaultOptions())
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.MaxSentences <= 0 {
		opts.MaxSentences = DefaultMaxSentences
	}
	if opts.MaxKeyPoints <= 0 {
		opts.MaxKeyPoints = DefaultMaxKeyPoints
	}
	if opts.CandidateTimeout <= 0 {
		opts.CandidateTimeout = DefaultCandidateTimeout
	}
	return &Reconciler{
		store:      store,
		summarizer: sum,
		opts:       opts,
		logger:     logger,
		now:        time.Now,
	}
}

// Reconcile converts every valid transcript without a meeting into exactly one meeting.
// Candidate failures are recorded in the outcome; only listing failures return an error.
func (r *Reconciler) Reconcile(ctx context.Context) (*entities.ProcessingOutcome, error) {
	outcome := entities.NewProcessingOutcome(r.now())

	candidates, err := r.collect(ctx, outcome)
	if err != nil {
		if r.logger != nil {
			r.logger.Error("❌ Failed to list reconciliation candidates",
				zap.String("run_id", outcome.RunID.String()),
				zap.Error(err),
			)
		}
		return nil, err
	}

	if r.logger != nil {
		r.logger.Info("🔄 Reconciliation started",
			zap.String("run_id", outcome.RunID.String()),
			zap.Int("considered", outcome.Considered),
			zap.Int("already_linked", outcome.AlreadyLinked),
			zap.Int("skipped", outcome.Skipped),
			zap.Int("candidates", outcome.Candidates),
		)
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(r.opts.Workers)

	for i := range candidates {
		transcript := candidates[i]
		sequence := i + 1
		g.Go(func() error {
			meta, err := r.process(ctx, outcome.RunID, sequence, transcript)

			mu.Lock()
			defer mu.Unlock()
			r.record(outcome, transcript, meta, err)
			return nil
		})
	}
	_ = g.Wait()

	outcome.FinishedAt = r.now()

	if r.logger != nil {
		r.logger.Info("✅ Reconciliation finished",
			zap.String("run_id", outcome.RunID.String()),
			zap.Int("processed", outcome.Processed),
			zap.Int("conflicts", outcome.Conflicts),
			zap.Int("failed", outcome.Failed),
			zap.Duration("duration", outcome.Duration()),
		)
	}

	return outcome, nil
}

// Pending counts valid transcripts that do not have a meeting yet
func (r *Reconciler) Pending(ctx context.Context) (int, error) {
	outcome := entities.NewProcessingOutcome(r.now())
	candidates, err := r.collect(ctx, outcome)
	if err != nil {
		return 0, err
	}
	return len(candidates), nil
}

// collect lists transcripts, drops linked ones and classifies the rest
func (r *Reconciler) collect(ctx context.Context, outcome *entities.ProcessingOutcome) ([]entities.Transcript, error) {
	transcripts, err := r.store.ListTranscriptsWithText(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list transcripts: %w", ucerrors.ErrTransientStore, err)
	}
	linked, err := r.store.ListLinkedTranscriptIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list linked transcripts: %w", ucerrors.ErrTransientStore, err)
	}

	outcome.Considered = len(transcripts)
	candidates := make([]entities.Transcript, 0, len(transcripts))
	for i := range transcripts {
		t := transcripts[i]
		if _, ok := linked[t.ID]; ok {
			outcome.AlreadyLinked++
			continue
		}
		verdict := validity.ClassifyTranscript(&t)
		if !verdict.Valid {
			outcome.RecordSkip(verdict.Reason)
			if r.logger != nil {
				r.logger.Debug("⏭️ Transcript skipped",
					zap.String("transcript_id", t.ID.String()),
					zap.String("reason", string(verdict.Reason)),
				)
			}
			continue
		}
		candidates = append(candidates, t)
	}
	outcome.Candidates = len(candidates)
	return candidates, nil
}

// process summarizes one transcript and inserts its meeting, exactly once
func (r *Reconciler) process(parent context.Context, runID uuid.UUID, sequence int, t entities.Transcript) (*jobcontext.CandidateMetadata, error) {
	ctx, cancel := jobcontext.CandidateBegin(parent, runID, t.ID, sequence, r.opts.CandidateTimeout)
	defer cancel()

	err := jobcontext.CandidateRun(ctx, func(ctx context.Context) error {
		digest := r.summarizer.Digest(t.TextValue(), r.opts.MaxSentences, r.opts.MaxKeyPoints)
		_, err := r.store.InsertMeeting(ctx, entities.NewMeeting{
			TranscriptID:   t.ID,
			Title:          t.Title(),
			Summary:        digest.Summary,
			KeyPoints:      digest.KeyPoints,
			FollowupPoints: digest.FollowUps,
		})
		return err
	})
	return jobcontext.GetCandidateMetadata(ctx), err
}

// record folds one candidate result into the outcome; callers hold the lock
func (r *Reconciler) record(outcome *entities.ProcessingOutcome, t entities.Transcript, meta *jobcontext.CandidateMetadata, err error) {
	switch {
	case err == nil:
		outcome.Processed++
		if r.logger != nil {
			r.logger.Info("✅ Meeting created",
				zap.String("transcript_id", t.ID.String()),
				zap.String("title", t.Title()),
			)
		}
	case errors.Is(err, entities.ErrMeetingConflict):
		outcome.Conflicts++
		if r.logger != nil {
			r.logger.Info("⏭️ Transcript already converted by another run",
				zap.String("transcript_id", t.ID.String()),
			)
		}
	default:
		outcome.Failed++
		outcome.Errors = append(outcome.Errors, fmt.Sprintf("transcript %s: %v", t.ID, err))
		if r.logger != nil {
			r.logger.Error("❌ Failed to create meeting",
				zap.String("run_id", meta.RunID.String()),
				zap.String("transcript_id", meta.TranscriptID.String()),
				zap.Int("sequence", meta.Sequence),
				zap.Duration("elapsed", time.Since(meta.StartTime)),
				zap.String("kind", string(ucerrors.KindOf(err))),
				zap.Error(err),
			)
		}
	}
}

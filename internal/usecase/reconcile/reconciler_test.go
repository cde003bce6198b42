package reconcile

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
	"github.com/johnquangdev/meeting-digest/internal/domain/repositories"
	"github.com/johnquangdev/meeting-digest/internal/infrastructure/memstore"
	ucerrors "github.com/johnquangdev/meeting-digest/internal/usecase/errors"
	"github.com/johnquangdev/meeting-digest/internal/usecase/validity"
)

const validText = "The team reviewed the quarterly budget. Marketing asked for more headcount. " +
	"Engineering will deliver the roadmap update next week."

func strPtr(s string) *string { return &s }

func seed(t *testing.T, s *memstore.Store, texts ...*string) []*entities.Transcript {
	t.Helper()
	out := make([]*entities.Transcript, 0, len(texts))
	for i, text := range texts {
		tr := entities.NewTranscript("client", nil, nil, text)
		tr.CreatedAt = time.Now().Add(time.Duration(i) * time.Millisecond)
		if err := s.CreateTranscript(context.Background(), tr); err != nil {
			t.Fatalf("CreateTranscript: %v", err)
		}
		out = append(out, tr)
	}
	return out
}

func newTestReconciler(store repositories.StoreGateway) *Reconciler {
	opts := DefaultOptions()
	opts.CandidateTimeout = 2 * time.Second
	return NewReconciler(store, nil, opts, zap.NewNop())
}

func TestReconcileCreatesMeetingsForValidTranscripts(t *testing.T) {
	store := memstore.New()
	trs := seed(t, store,
		strPtr(validText),
		strPtr("test"),
		strPtr("   "),
		strPtr("... ,,, !!! ??? ;;; ---"),
		strPtr("Short but real"),
		nil,
	)

	r := newTestReconciler(store)
	outcome, err := r.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if outcome.Considered != 5 {
		t.Errorf("Considered = %d, want 5 (NULL text excluded)", outcome.Considered)
	}
	if outcome.Candidates != 1 || outcome.Processed != 1 {
		t.Errorf("Candidates=%d Processed=%d, want 1 and 1", outcome.Candidates, outcome.Processed)
	}
	if outcome.Skipped != 4 {
		t.Errorf("Skipped = %d, want 4", outcome.Skipped)
	}
	if outcome.SkipReasons[validity.ReasonTestPhrase] != 1 ||
		outcome.SkipReasons[validity.ReasonEmpty] != 1 ||
		outcome.SkipReasons[validity.ReasonNoMeaningfulContent] != 1 ||
		outcome.SkipReasons[validity.ReasonTooShort] != 1 {
		t.Errorf("unexpected skip reasons: %v", outcome.SkipReasons)
	}
	if store.MeetingsForTranscript(trs[0].ID) != 1 {
		t.Error("expected exactly one meeting for the valid transcript")
	}
	if store.MeetingCount() != 1 {
		t.Errorf("MeetingCount = %d, want 1", store.MeetingCount())
	}

	detail, err := store.ListMeetings(context.Background(), entities.MeetingFilter{})
	if err != nil {
		t.Fatalf("ListMeetings: %v", err)
	}
	if detail[0].Title != entities.DefaultMeetingTitle {
		t.Errorf("Title = %q, want %q", detail[0].Title, entities.DefaultMeetingTitle)
	}
	if detail[0].Summary == "" || len(detail[0].KeyPoints) == 0 || len(detail[0].FollowupPoints) == 0 {
		t.Errorf("expected summary, key points and follow-ups, got %+v", detail[0].Meeting)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	store := memstore.New()
	seed(t, store, strPtr(validText), strPtr(validText+" Second meeting."))

	r := newTestReconciler(store)
	first, err := r.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}
	if first.Processed != 2 {
		t.Fatalf("first run Processed = %d, want 2", first.Processed)
	}

	second, err := r.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}
	if second.Processed != 0 || second.Candidates != 0 {
		t.Errorf("second run Processed=%d Candidates=%d, want 0 and 0", second.Processed, second.Candidates)
	}
	if second.AlreadyLinked != 2 {
		t.Errorf("second run AlreadyLinked = %d, want 2", second.AlreadyLinked)
	}
	if store.MeetingCount() != 2 {
		t.Errorf("MeetingCount = %d, want 2", store.MeetingCount())
	}
}

func TestConcurrentReconcileCreatesOneMeetingPerTranscript(t *testing.T) {
	store := memstore.New()
	texts := make([]*string, 20)
	for i := range texts {
		texts[i] = strPtr(validText)
	}
	trs := seed(t, store, texts...)

	a := newTestReconciler(store)
	b := newTestReconciler(store)

	var (
		wg       sync.WaitGroup
		outcomes [2]*entities.ProcessingOutcome
		errs     [2]error
	)
	for i, r := range []*Reconciler{a, b} {
		wg.Add(1)
		go func(i int, r *Reconciler) {
			defer wg.Done()
			outcomes[i], errs[i] = r.Reconcile(context.Background())
		}(i, r)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("Reconcile %d: %v", i, err)
		}
	}

	processed := outcomes[0].Processed + outcomes[1].Processed
	if processed != len(trs) {
		t.Errorf("total Processed = %d, want %d", processed, len(trs))
	}
	for _, o := range outcomes {
		if o.Failed != 0 {
			t.Errorf("unexpected failures: %v", o.Errors)
		}
	}
	for _, tr := range trs {
		if n := store.MeetingsForTranscript(tr.ID); n != 1 {
			t.Errorf("transcript %s has %d meetings, want 1", tr.ID, n)
		}
	}
}

// flakyStore wraps memstore and injects failures
type flakyStore struct {
	*memstore.Store
	failFor   map[uuid.UUID]error
	panicFor  map[uuid.UUID]bool
	listErr   error
	conflicts map[uuid.UUID]bool
}

func (f *flakyStore) ListTranscriptsWithText(ctx context.Context) ([]entities.Transcript, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.Store.ListTranscriptsWithText(ctx)
}

func (f *flakyStore) InsertMeeting(ctx context.Context, in entities.NewMeeting) (*entities.Meeting, error) {
	if f.panicFor[in.TranscriptID] {
		panic("driver exploded")
	}
	if f.conflicts[in.TranscriptID] {
		return nil, entities.ErrMeetingConflict
	}
	if err, ok := f.failFor[in.TranscriptID]; ok {
		return nil, err
	}
	return f.Store.InsertMeeting(ctx, in)
}

func TestReconcileIsolatesCandidateFailures(t *testing.T) {
	inner := memstore.New()
	trs := seed(t, inner, strPtr(validText), strPtr(validText), strPtr(validText), strPtr(validText))

	store := &flakyStore{
		Store:     inner,
		failFor:   map[uuid.UUID]error{trs[0].ID: context.DeadlineExceeded},
		panicFor:  map[uuid.UUID]bool{trs[1].ID: true},
		conflicts: map[uuid.UUID]bool{trs[2].ID: true},
	}

	r := newTestReconciler(store)
	outcome, err := r.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if outcome.Processed != 1 || outcome.Failed != 2 || outcome.Conflicts != 1 {
		t.Errorf("Processed=%d Failed=%d Conflicts=%d, want 1, 2, 1",
			outcome.Processed, outcome.Failed, outcome.Conflicts)
	}
	if outcome.OwnedCandidates() != 3 {
		t.Errorf("OwnedCandidates = %d, want 3", outcome.OwnedCandidates())
	}
	if len(outcome.Errors) != 2 {
		t.Fatalf("expected 2 error messages, got %v", outcome.Errors)
	}
	joined := strings.Join(outcome.Errors, "\n")
	if !strings.Contains(joined, "panic recovered") {
		t.Errorf("expected a recovered panic in errors, got %v", outcome.Errors)
	}
	if inner.MeetingsForTranscript(trs[3].ID) != 1 {
		t.Error("healthy candidate should still get its meeting")
	}
}

// hangingStore blocks the insert for one transcript until its context ends
type hangingStore struct {
	*memstore.Store
	hangFor uuid.UUID

	mu       sync.Mutex
	attempts map[uuid.UUID]int
}

func (h *hangingStore) InsertMeeting(ctx context.Context, in entities.NewMeeting) (*entities.Meeting, error) {
	h.mu.Lock()
	h.attempts[in.TranscriptID]++
	h.mu.Unlock()

	if in.TranscriptID == h.hangFor {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return h.Store.InsertMeeting(ctx, in)
}

func (h *hangingStore) Attempts(id uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.attempts[id]
}

func TestCandidateTimeoutStopsHangingInsert(t *testing.T) {
	inner := memstore.New()
	trs := seed(t, inner, strPtr(validText), strPtr(validText), strPtr(validText))
	store := &hangingStore{Store: inner, hangFor: trs[1].ID, attempts: make(map[uuid.UUID]int)}

	core, logs := observer.New(zapcore.ErrorLevel)
	opts := DefaultOptions()
	opts.CandidateTimeout = 50 * time.Millisecond
	r := NewReconciler(store, nil, opts, zap.New(core))

	done := make(chan struct{})
	var (
		outcome *entities.ProcessingOutcome
		err     error
	)
	go func() {
		outcome, err = r.Reconcile(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Reconcile did not return; candidate timeout not applied")
	}
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if outcome.Failed != 1 || outcome.Processed != 2 {
		t.Errorf("Failed=%d Processed=%d, want 1 and 2", outcome.Failed, outcome.Processed)
	}
	if n := store.Attempts(trs[1].ID); n != 1 {
		t.Errorf("hanging candidate attempted %d times, want 1", n)
	}
	if len(outcome.Errors) != 1 || !strings.Contains(outcome.Errors[0], context.DeadlineExceeded.Error()) {
		t.Errorf("expected a deadline error, got %v", outcome.Errors)
	}
	if inner.MeetingsForTranscript(trs[1].ID) != 0 {
		t.Error("timed-out candidate must not get a meeting")
	}
	for _, i := range []int{0, 2} {
		if inner.MeetingsForTranscript(trs[i].ID) != 1 {
			t.Errorf("transcript %d should still get its meeting", i)
		}
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one failure log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["run_id"] != outcome.RunID.String() || fields["transcript_id"] != trs[1].ID.String() {
		t.Errorf("failure log should carry run and transcript ids: %v", fields)
	}
	if seq, ok := fields["sequence"].(int64); !ok || seq < 1 || seq > 3 {
		t.Errorf("sequence field = %v", fields["sequence"])
	}
	if elapsed, ok := fields["elapsed"].(time.Duration); !ok || elapsed < opts.CandidateTimeout {
		t.Errorf("elapsed field = %v, want at least %v", fields["elapsed"], opts.CandidateTimeout)
	}
}

func TestReconcileListingFailureReturnsError(t *testing.T) {
	store := &flakyStore{Store: memstore.New(), listErr: errors.New("connection refused")}

	r := newTestReconciler(store)
	outcome, err := r.Reconcile(context.Background())
	if err == nil {
		t.Fatal("expected listing error")
	}
	if outcome != nil {
		t.Errorf("expected nil outcome, got %+v", outcome)
	}
	if !errors.Is(err, ucerrors.ErrTransientStore) {
		t.Errorf("expected ErrTransientStore, got %v", err)
	}
}

func TestPendingMatchesCandidates(t *testing.T) {
	store := memstore.New()
	seed(t, store, strPtr(validText), strPtr("test"), strPtr(validText))

	r := newTestReconciler(store)
	n, err := r.Pending(context.Background())
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if n != 2 {
		t.Errorf("Pending = %d, want 2", n)
	}

	if _, err := r.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	n, err = r.Pending(context.Background())
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if n != 0 {
		t.Errorf("Pending after reconcile = %d, want 0", n)
	}
}

func TestNewReconcilerAppliesDefaults(t *testing.T) {
	r := NewReconciler(memstore.New(), nil, Options{}, nil)
	if r.opts != DefaultOptions() {
		t.Errorf("opts = %+v, want %+v", r.opts, DefaultOptions())
	}
}

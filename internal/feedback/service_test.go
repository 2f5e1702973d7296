package feedback

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"hogis-feedback-backend/internal/models"
	"hogis-feedback-backend/internal/notify"
	"hogis-feedback-backend/internal/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type fakeStore struct {
	created []*models.Feedback
	err     error
}

func (f *fakeStore) Create(ctx context.Context, rec *models.Feedback) error {
	if f.err != nil {
		return f.err
	}
	rec.ID = bson.NewObjectID()
	rec.CreatedAt = time.Now()
	f.created = append(f.created, rec)
	return nil
}

type fakeBlobs struct {
	puts []string
	err  error
}

func (f *fakeBlobs) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.puts = append(f.puts, key)
	return "https://media.example.com/" + key, nil
}

type fakeNotifier struct {
	dispatched []*models.Feedback
	err        error
}

func (f *fakeNotifier) DispatchFeedback(ctx context.Context, rec *models.Feedback) error {
	if f.err != nil {
		return f.err
	}
	f.dispatched = append(f.dispatched, rec)
	return nil
}

func validDraft() Draft {
	return Draft{
		Name:      "Amy",
		Email:     "a@x.com",
		Venue:     "Hogis Royale and Apartments",
		Body:      "great room, bad noise at night",
		Reaction:  models.ReactionPositive,
		SessionID: "session-1",
	}
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func newTestService(store *fakeStore, blobs *fakeBlobs, notifier *fakeNotifier) *Service {
	return NewService(store, blobs, notifier, 5*time.Second)
}

func TestSubmitWithoutMediaCreatesSingleRecord(t *testing.T) {
	store := &fakeStore{}
	blobs := &fakeBlobs{}
	notifier := &fakeNotifier{}
	svc := newTestService(store, blobs, notifier)

	result, err := svc.Submit(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusStored {
		t.Fatalf("expected stored status, got %s", result.Status)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(store.created))
	}
	rec := store.created[0]
	if rec.PhotoURL != "" || rec.AudioURL != "" {
		t.Fatalf("no media attached, URLs must be empty: %+v", rec)
	}
	if rec.CreatedAt.IsZero() {
		t.Fatalf("expected server-assigned creation timestamp")
	}
	if len(blobs.puts) != 0 {
		t.Fatalf("no media, no uploads expected, got %v", blobs.puts)
	}
	if len(notifier.dispatched) != 1 {
		t.Fatalf("expected one dispatch, got %d", len(notifier.dispatched))
	}
}

func TestSubmitMissingRequiredFieldsDoesNoIO(t *testing.T) {
	store := &fakeStore{}
	blobs := &fakeBlobs{}
	notifier := &fakeNotifier{}
	svc := newTestService(store, blobs, notifier)

	drafts := []Draft{
		{}, // everything missing
		{Name: "Amy", Email: "a@x.com", Body: "hi", Venue: "Hogis Luxury Suites"},           // no reaction
		{Name: "Amy", Email: "a@x.com", Body: "hi", Reaction: models.ReactionPositive},      // no venue
		{Name: "Amy", Email: "a@x.com", Body: "hi", Venue: "Unknown Place", Reaction: "ok"}, // bad values
	}

	for i, d := range drafts {
		if _, err := svc.Submit(context.Background(), d); KindOf(err) != KindValidation {
			t.Fatalf("draft %d: expected ValidationError, got %v", i, err)
		}
	}
	if len(store.created) != 0 || len(blobs.puts) != 0 || len(notifier.dispatched) != 0 {
		t.Fatalf("validation failures must not perform I/O")
	}
}

func TestSubmitOversizedImageFailsBeforeNetworkCalls(t *testing.T) {
	store := &fakeStore{}
	blobs := &fakeBlobs{}
	notifier := &fakeNotifier{}
	svc := newTestService(store, blobs, notifier)

	draft := validDraft()
	draft.Photo = make([]byte, 12*1024*1024)

	_, err := svc.Submit(context.Background(), draft)
	if KindOf(err) != KindPayloadTooLarge {
		t.Fatalf("expected PayloadTooLarge, got %v", err)
	}
	if len(blobs.puts) != 0 || len(store.created) != 0 {
		t.Fatalf("oversized image must be rejected before any network call")
	}
}

func TestSubmitUploadFailureLeavesNothingPersisted(t *testing.T) {
	store := &fakeStore{}
	blobs := &fakeBlobs{err: errors.New("bucket gone")}
	notifier := &fakeNotifier{}
	svc := newTestService(store, blobs, notifier)

	draft := validDraft()
	draft.Photo = pngBytes(t, 100, 80)

	_, err := svc.Submit(context.Background(), draft)
	if KindOf(err) != KindStorageFailure {
		t.Fatalf("expected StorageFailure, got %v", err)
	}
	if len(store.created) != 0 {
		t.Fatalf("record must not persist when media upload fails")
	}
	if len(notifier.dispatched) != 0 {
		t.Fatalf("no notifications on failed submission")
	}
}

func TestSubmitUnauthorizedUploadMapsToStorageUnauthorized(t *testing.T) {
	store := &fakeStore{}
	blobs := &fakeBlobs{err: fmt.Errorf("put: %w", storage.ErrUnauthorized)}
	svc := newTestService(store, blobs, &fakeNotifier{})

	draft := validDraft()
	draft.Photo = pngBytes(t, 100, 80)

	_, err := svc.Submit(context.Background(), draft)
	if KindOf(err) != KindStorageUnauthorized {
		t.Fatalf("expected StorageUnauthorized, got %v", err)
	}
	if len(store.created) != 0 {
		t.Fatalf("record must not persist when upload is unauthorized")
	}
}

func TestSubmitPhotoUploadedAndLinked(t *testing.T) {
	store := &fakeStore{}
	blobs := &fakeBlobs{}
	svc := newTestService(store, blobs, &fakeNotifier{})

	draft := validDraft()
	draft.Photo = pngBytes(t, 1200, 900)

	result, err := svc.Submit(context.Background(), draft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blobs.puts) != 1 || !strings.HasPrefix(blobs.puts[0], "feedback-photos/") {
		t.Fatalf("expected one photo upload, got %v", blobs.puts)
	}
	if !strings.Contains(blobs.puts[0], "_amy.jpg") {
		t.Fatalf("object key must carry the sanitized submitter name: %v", blobs.puts)
	}
	if result.Record.PhotoURL == "" {
		t.Fatalf("persisted record must reference the uploaded photo")
	}
}

func TestSubmitOversizedAudioDroppedNotFatal(t *testing.T) {
	store := &fakeStore{}
	blobs := &fakeBlobs{}
	svc := newTestService(store, blobs, &fakeNotifier{})

	draft := validDraft()
	draft.Audio = bytes.Repeat([]byte{0}, 11*1024*1024) // not even a WAV; dropped either way

	result, err := svc.Submit(context.Background(), draft)
	if err != nil {
		t.Fatalf("a rejected voice note must not fail the submission: %v", err)
	}
	if result.Record.AudioURL != "" {
		t.Fatalf("dropped audio must leave no reference on the record")
	}
	if len(blobs.puts) != 0 {
		t.Fatalf("dropped audio must not be uploaded")
	}
}

func TestSubmitNotificationFailureYieldsDegradedSuccess(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{err: &notify.SendError{Failed: []string{"branch", "admin", "submitter"}}}
	svc := newTestService(store, &fakeBlobs{}, notifier)

	result, err := svc.Submit(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("notification failure after persistence must not surface as error: %v", err)
	}
	if result.Status != StatusStoredNotNotified {
		t.Fatalf("expected degraded status, got %s", result.Status)
	}
	if result.NotifyError == nil {
		t.Fatalf("degraded result must carry the dispatch error")
	}
	if len(store.created) != 1 {
		t.Fatalf("record must remain persisted, got %d", len(store.created))
	}
}

func TestSubmitPersistFailureAfterUploadReportsStorageFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("write concern failed")}
	blobs := &fakeBlobs{}
	notifier := &fakeNotifier{}
	svc := newTestService(store, blobs, notifier)

	draft := validDraft()
	draft.Photo = pngBytes(t, 100, 80)

	_, err := svc.Submit(context.Background(), draft)
	if KindOf(err) != KindStorageFailure {
		t.Fatalf("expected StorageFailure, got %v", err)
	}
	// The uploaded blob stays orphaned (no compensating delete); what
	// matters is that no notification goes out for an unwritten record.
	if len(notifier.dispatched) != 0 {
		t.Fatalf("no notifications for unwritten records")
	}
}

func TestAfterSuccessHookFailureIsSwallowed(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &fakeBlobs{}, &fakeNotifier{})

	called := false
	svc.AfterSuccess = func(Result) {
		called = true
		panic("speaker unplugged")
	}

	result, err := svc.Submit(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("hook panic must not fail the submission: %v", err)
	}
	if !called {
		t.Fatalf("hook was not invoked on success")
	}
	if result.Status != StatusStored {
		t.Fatalf("expected stored status, got %s", result.Status)
	}
}

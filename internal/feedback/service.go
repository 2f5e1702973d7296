package feedback

import (
	"context"
	"errors"
	"log"
	"time"

	"hogis-feedback-backend/internal/config"
	"hogis-feedback-backend/internal/media"
	"hogis-feedback-backend/internal/models"
	"hogis-feedback-backend/internal/notify"
	"hogis-feedback-backend/internal/storage"
)

// Store is the persistence surface the orchestrator writes through.
type Store interface {
	Create(ctx context.Context, feedback *models.Feedback) error
}

// Notifier dispatches the post-persistence notification emails.
type Notifier interface {
	DispatchFeedback(ctx context.Context, rec *models.Feedback) error
}

// Draft is one validated-in-progress submission: required fields plus raw
// captured media, before any encoding or I/O.
type Draft struct {
	Name      string
	Email     string
	Phone     string
	Venue     string
	Body      string
	Reaction  models.Reaction
	Photo     []byte // raw captured image, nil if absent
	Audio     []byte // raw captured WAV, nil if absent
	SessionID string
}

// Status is the user-visible outcome of a submission.
type Status string

const (
	// StatusStored means the record persisted and all notifications went out.
	StatusStored Status = "stored"
	// StatusStoredNotNotified means the record persisted but one or more
	// notification emails failed. The record is never rolled back and a
	// retry would create a duplicate, so this surfaces as degraded success
	// and is logged for operator follow-up.
	StatusStoredNotNotified Status = "stored_not_notified"
)

// Result reports a completed submission.
type Result struct {
	Status      Status
	Record      *models.Feedback
	NotifyError error // set only when Status is StatusStoredNotNotified
}

// Service drives one feedback submission end to end: validate, encode media,
// upload, persist, notify.
type Service struct {
	store    Store
	blobs    storage.BlobStore
	notifier Notifier
	timeout  time.Duration

	// AfterSuccess is an optional post-success hook (the client plays its
	// acknowledgment sound here). Failures inside it never affect the
	// submission outcome.
	AfterSuccess func(Result)
}

func NewService(store Store, blobs storage.BlobStore, notifier Notifier, timeout time.Duration) *Service {
	return &Service{
		store:    store,
		blobs:    blobs,
		notifier: notifier,
		timeout:  timeout,
	}
}

// Submit runs the full pipeline for one draft. At most one record is created
// per call: validation and encoding happen before any network I/O, media
// uploads complete before the record write, and a notification failure after
// a successful write yields degraded success rather than an error.
func (s *Service) Submit(ctx context.Context, draft Draft) (*Result, error) {
	if err := validate(draft); err != nil {
		return nil, err
	}

	var photo, audio *media.Payload

	if len(draft.Photo) > 0 {
		p, err := media.EncodeImage(draft.Photo)
		if err != nil {
			if errors.Is(err, media.ErrTooLarge) {
				return nil, NewError(KindPayloadTooLarge, "image size must be less than 10MB", err)
			}
			return nil, NewError(KindValidation, "could not process image", err)
		}
		photo = p
	}

	if len(draft.Audio) > 0 {
		a, err := media.EncodeAudio(draft.Audio)
		if err != nil {
			// An over-limit or unreadable recording drops the voice note;
			// the submission itself proceeds without audio.
			log.Printf("⚠️  Dropping voice note: %v", err)
		} else {
			audio = a
		}
	}

	rec := &models.Feedback{
		Name:      draft.Name,
		Email:     draft.Email,
		Phone:     draft.Phone,
		Venue:     draft.Venue,
		Body:      draft.Body,
		Reaction:  draft.Reaction,
		SessionID: draft.SessionID,
	}

	now := time.Now()
	if photo != nil {
		url, err := s.upload(ctx, storage.PhotoKey(now, draft.Name), photo)
		if err != nil {
			return nil, err
		}
		rec.PhotoURL = url
	}
	if audio != nil {
		url, err := s.upload(ctx, storage.AudioKey(now, draft.Name), audio)
		if err != nil {
			return nil, err
		}
		rec.AudioURL = url
	}

	if err := s.persist(ctx, rec); err != nil {
		return nil, err
	}

	if err := s.dispatch(ctx, rec); err != nil {
		log.Printf("⚠️  Feedback %s stored but notification dispatch failed: %v", rec.ID.Hex(), err)
		return &Result{Status: StatusStoredNotNotified, Record: rec, NotifyError: err}, nil
	}

	result := &Result{Status: StatusStored, Record: rec}
	s.fireAfterSuccess(*result)
	return result, nil
}

func validate(draft Draft) error {
	if draft.Name == "" || draft.Email == "" || draft.Body == "" ||
		draft.Venue == "" || draft.Reaction == "" {
		return NewError(KindValidation, "missing required fields", nil)
	}
	if !draft.Reaction.Valid() {
		return NewError(KindValidation, "unknown reaction", nil)
	}
	if !config.KnownVenue(draft.Venue) {
		return NewError(KindValidation, "unknown venue", nil)
	}
	return nil
}

func (s *Service) upload(ctx context.Context, key string, p *media.Payload) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	url, err := s.blobs.Put(ctx, key, p.ContentType, p.Data)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return "", NewError(KindTimeout, "media upload timed out", err)
		case errors.Is(err, storage.ErrUnauthorized):
			return "", NewError(KindStorageUnauthorized, "unable to upload media", err)
		default:
			return "", NewError(KindStorageFailure, "unable to upload media", err)
		}
	}
	return url, nil
}

func (s *Service) persist(ctx context.Context, rec *models.Feedback) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.Create(ctx, rec); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return NewError(KindTimeout, "saving feedback timed out", err)
		}
		return NewError(KindStorageFailure, "failed to save feedback", err)
	}
	return nil
}

func (s *Service) dispatch(ctx context.Context, rec *models.Feedback) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.notifier.DispatchFeedback(ctx, rec); err != nil {
		if errors.Is(err, notify.ErrUnknownVenue) {
			return NewError(KindInvalidVenue, "unrecognized venue", err)
		}
		return NewError(KindNotificationFailure, "notification delivery failed", err)
	}
	return nil
}

func (s *Service) fireAfterSuccess(result Result) {
	if s.AfterSuccess == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️  AfterSuccess hook panicked: %v", r)
		}
	}()
	s.AfterSuccess(result)
}

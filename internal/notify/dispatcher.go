package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"hogis-feedback-backend/internal/mailer"
	"hogis-feedback-backend/internal/models"
)

// ErrUnknownVenue reports a record attributed to a venue with no configured
// mailbox; dispatch aborts with zero emails sent.
var ErrUnknownVenue = errors.New("notify: unknown venue")

// SendError aggregates the outcome of a multi-recipient dispatch: which of
// the independent sends failed and why. Sends are never retried in-process.
type SendError struct {
	Failed []string // recipient labels: "branch", "admin", "submitter"
	Errs   []error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("notify: %d of 3 sends failed (%s): %v",
		len(e.Failed), strings.Join(e.Failed, ", "), errors.Join(e.Errs...))
}

// Dispatcher formats and sends the feedback notification emails. The
// venue→mailbox table is immutable and injected at construction so tests can
// substitute both the table and the transport.
type Dispatcher struct {
	mailer      mailer.Mailer
	venueEmails map[string]string
	adminEmail  string
	addresses   map[string]string
}

func NewDispatcher(m mailer.Mailer, venueEmails map[string]string, adminEmail string, venueAddresses map[string]string) *Dispatcher {
	emails := make(map[string]string, len(venueEmails))
	for k, v := range venueEmails {
		emails[k] = v
	}
	return &Dispatcher{
		mailer:      m,
		venueEmails: emails,
		adminEmail:  adminEmail,
		addresses:   venueAddresses,
	}
}

// DispatchFeedback sends up to three emails for a persisted record: the
// branch notification, a copy to the central admin mailbox, and an
// acknowledgment to the submitter sent from the venue mailbox. The three
// sends run concurrently; completion order is not relied upon. Partial
// failure is reported per recipient via *SendError.
func (d *Dispatcher) DispatchFeedback(ctx context.Context, rec *models.Feedback) error {
	branchEmail, ok := d.venueEmails[rec.Venue]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVenue, rec.Venue)
	}

	sends := []struct {
		label string
		msg   mailer.Message
	}{
		{"branch", mailer.Message{
			From:    branchEmail,
			To:      branchEmail,
			Subject: fmt.Sprintf("New Feedback from %s", html.EscapeString(rec.Venue)),
			HTML:    feedbackNotificationHTML(rec),
		}},
		{"admin", mailer.Message{
			From:    branchEmail,
			To:      d.adminEmail,
			Subject: fmt.Sprintf("New Feedback from %s", html.EscapeString(rec.Venue)),
			HTML:    feedbackNotificationHTML(rec),
		}},
		{"submitter", mailer.Message{
			From:    branchEmail,
			To:      rec.Email,
			Subject: "Thank you for your feedback",
			HTML:    acknowledgmentHTML(rec),
		}},
	}

	errs := make([]error, len(sends))
	var wg sync.WaitGroup
	for i, s := range sends {
		wg.Add(1)
		go func(i int, msg mailer.Message) {
			defer wg.Done()
			errs[i] = d.mailer.Send(ctx, msg)
		}(i, s.msg)
	}
	wg.Wait()

	var failure SendError
	for i, err := range errs {
		if err != nil {
			failure.Failed = append(failure.Failed, sends[i].label)
			failure.Errs = append(failure.Errs, err)
		}
	}
	if len(failure.Failed) > 0 {
		return &failure
	}
	return nil
}

// DispatchDigest emails the monthly feedback summary to a venue's mailbox.
func (d *Dispatcher) DispatchDigest(ctx context.Context, venue string, stats DigestData) error {
	branchEmail, ok := d.venueEmails[venue]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVenue, venue)
	}

	msg := mailer.Message{
		From:    branchEmail,
		To:      branchEmail,
		Subject: fmt.Sprintf("Monthly Feedback Digest - %s - %s", venue, stats.Period),
		HTML:    digestHTML(venue, d.addresses[venue], stats),
	}
	return d.mailer.Send(ctx, msg)
}

package mailer

import (
	"context"
	"log"
)

// MockMailer implements the Mailer interface by logging messages to stdout.
// Used when no RESEND_API_KEY is configured (local development).
type MockMailer struct{}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(ctx context.Context, msg Message) error {
	log.Printf("📨 [MockMailer] from=%s to=%s subject=%q (%d bytes of HTML)", msg.From, msg.To, msg.Subject, len(msg.HTML))
	return nil
}

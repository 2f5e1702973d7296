package mailer

import "context"

// Message is one outbound HTML email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Mailer defines the interface for sending a single email message.
// This abstraction allows swapping the mock with the real Resend transport
// without refactoring.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

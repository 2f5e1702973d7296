package feedback

import (
	"errors"
	"fmt"
)

// Kind classifies every failure the submission and read paths can produce.
// Handlers map kinds to HTTP statuses; internal detail stays in the wrapped
// error and is logged, never shown to the user.
type Kind string

const (
	KindValidation          Kind = "ValidationError"
	KindPayloadTooLarge     Kind = "PayloadTooLarge"
	KindStorageFailure      Kind = "StorageFailure"
	KindStorageUnauthorized Kind = "StorageUnauthorized"
	KindInvalidVenue        Kind = "InvalidVenue"
	KindNotificationFailure Kind = "NotificationFailure"
	KindPagination          Kind = "PaginationError"
	KindTimeout             Kind = "Timeout"
)

// Error is a structured failure carrying its Kind and a user-safe message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an Error wrapping cause; cause may be nil.
func NewError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf extracts the Kind from err, or empty string for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

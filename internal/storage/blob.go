package storage

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// BlobStore uploads encoded media payloads and returns a durable, publicly
// fetchable URL. This abstraction allows swapping the S3 implementation with
// a fake in tests without refactoring.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// SanitizeName lowercases a submitter name and replaces every run of
// non-alphanumeric characters with an underscore, for use in object keys.
func SanitizeName(name string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(name), "_")
	if s == "" {
		s = "anonymous"
	}
	return s
}

// PhotoKey builds the object key for a feedback photo.
func PhotoKey(now time.Time, submitterName string) string {
	return fmt.Sprintf("feedback-photos/%d_%s.jpg", now.UnixMilli(), SanitizeName(submitterName))
}

// AudioKey builds the object key for a feedback voice note.
func AudioKey(now time.Time, submitterName string) string {
	return fmt.Sprintf("feedback-audio/%d_%s.wav", now.UnixMilli(), SanitizeName(submitterName))
}

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"hogis-feedback-backend/internal/feedback"
	"hogis-feedback-backend/internal/middleware"
	"hogis-feedback-backend/internal/models"
)

// maxSubmissionBytes bounds the whole multipart body: two 10MB media payloads
// plus form fields.
const maxSubmissionBytes = 25 << 20

type FeedbackHandler struct {
	service *feedback.Service
	reader  *feedback.Reader
}

func NewFeedbackHandler(service *feedback.Service, reader *feedback.Reader) *FeedbackHandler {
	return &FeedbackHandler{
		service: service,
		reader:  reader,
	}
}

// --- POST /api/feedback ---
// Multipart submission: form fields plus optional photo/audio file parts.

func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	if sessionID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionBytes)
	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid form data"})
		return
	}

	draft := feedback.Draft{
		Name:      r.FormValue("name"),
		Email:     r.FormValue("email"),
		Phone:     r.FormValue("phone"),
		Venue:     r.FormValue("venue"),
		Body:      r.FormValue("feedback"),
		Reaction:  models.Reaction(r.FormValue("reaction")),
		SessionID: sessionID,
	}

	photo, err := readFilePart(r, "photo")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read photo"})
		return
	}
	draft.Photo = photo

	audio, err := readFilePart(r, "audio")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read audio"})
		return
	}
	draft.Audio = audio

	result, err := h.service.Submit(r.Context(), draft)
	if err != nil {
		writeFeedbackError(w, err)
		return
	}

	if result.Status == feedback.StatusStoredNotNotified {
		// The record is durable; only the notification emails failed.
		// Surfaced as degraded success so a retry does not duplicate it.
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":  "feedback saved; notification delivery is delayed",
			"success":  true,
			"status":   result.Status,
			"feedback": result.Record,
		})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Your feedback is valuable to us. We'll review it right away!",
		"success":  true,
		"status":   result.Status,
		"feedback": result.Record,
	})
}

// --- GET /api/feedback?page=N ---

func (h *FeedbackHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid page"})
			return
		}
		page = parsed
	}

	result, err := h.reader.Fetch(r.Context(), page)
	if err != nil {
		writeFeedbackError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// --- GET /api/feedback/stats ---
// Recomputes the aggregate snapshot from the full record set on every call.

func (h *FeedbackHandler) Stats(w http.ResponseWriter, r *http.Request) {
	records, err := h.reader.All(r.Context())
	if err != nil {
		writeFeedbackError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, feedback.Aggregate(records))
}

func readFilePart(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// writeFeedbackError maps the error taxonomy onto HTTP statuses. Internal
// detail is logged, never sent to the user.
func writeFeedbackError(w http.ResponseWriter, err error) {
	log.Printf("Error handling feedback request: %v", err)

	status := http.StatusInternalServerError
	message := "an error occurred, please try again"

	var fe *feedback.Error
	if errors.As(err, &fe) {
		message = fe.Message
		switch fe.Kind {
		case feedback.KindValidation, feedback.KindInvalidVenue, feedback.KindPagination:
			status = http.StatusBadRequest
		case feedback.KindPayloadTooLarge:
			status = http.StatusRequestEntityTooLarge
		case feedback.KindStorageUnauthorized:
			status = http.StatusUnauthorized
		case feedback.KindTimeout:
			status = http.StatusGatewayTimeout
		case feedback.KindNotificationFailure, feedback.KindStorageFailure:
			status = http.StatusInternalServerError
		}
	}

	writeJSON(w, status, map[string]interface{}{
		"message": message,
		"success": false,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

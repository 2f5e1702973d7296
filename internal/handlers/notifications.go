package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"hogis-feedback-backend/internal/feedback"
	"hogis-feedback-backend/internal/models"
	"hogis-feedback-backend/internal/notify"
)

// NotificationHandler exposes the standalone email endpoints that were
// serverless functions in the first version of this system: a direct
// "send feedback emails" call and the monthly digest trigger.
type NotificationHandler struct {
	dispatcher *notify.Dispatcher
	reader     *feedback.Reader
	venues     []string
	timeout    time.Duration
}

func NewNotificationHandler(dispatcher *notify.Dispatcher, reader *feedback.Reader, venues []string, timeout time.Duration) *NotificationHandler {
	return &NotificationHandler{
		dispatcher: dispatcher,
		reader:     reader,
		venues:     venues,
		timeout:    timeout,
	}
}

type sendFeedbackEmailRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Venue       string `json:"venue"`
	Reaction    string `json:"reaction"`
	Feedback    string `json:"feedback"`
	PhotoURL    string `json:"photoURL,omitempty"`
	AudioURL    string `json:"audioURL,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	FeedbackID  string `json:"feedbackId,omitempty"`
}

// --- POST|OPTIONS /api/notifications/feedback ---
// JSON intake boundary: pre-flight returns 204 with permissive CORS headers,
// any method other than POST returns 405.

func (h *NotificationHandler) SendFeedbackEmail(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]interface{}{
			"message": "Method Not Allowed",
			"success": false,
		})
		return
	}

	var req sendFeedbackEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"message": "invalid request body",
			"details": err.Error(),
			"success": false,
		})
		return
	}

	if req.Name == "" || req.Email == "" || req.Venue == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"message": "Missing required fields",
			"details": "name, email and venue are required",
			"success": false,
		})
		return
	}

	rec := &models.Feedback{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.PhoneNumber,
		Venue:     req.Venue,
		Body:      req.Feedback,
		Reaction:  models.Reaction(req.Reaction),
		PhotoURL:  req.PhotoURL,
		AudioURL:  req.AudioURL,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.dispatcher.DispatchFeedback(ctx, rec); err != nil {
		if errors.Is(err, notify.ErrUnknownVenue) {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"message": "Unrecognized venue",
				"details": req.Venue,
				"success": false,
			})
			return
		}
		log.Printf("Error dispatching feedback emails: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"message": "Failed to send email",
			"success": false,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Feedback email sent successfully",
		"success": true,
	})
}

// --- POST /api/digest/monthly ---
// Aggregates the previous calendar month per venue and emails each branch
// its digest. Intended to be hit by an external scheduler.

func (h *NotificationHandler) SendMonthlyDigest(w http.ResponseWriter, r *http.Request) {
	records, err := h.reader.All(r.Context())
	if err != nil {
		writeFeedbackError(w, err)
		return
	}

	lastMonth := time.Now().AddDate(0, -1, 0)
	stats := feedback.MonthlyStats(records, lastMonth.Year(), lastMonth.Month())
	period := lastMonth.Format("January 2006")

	sent := 0
	var failed []string
	for _, venue := range h.venues {
		s, ok := stats[venue]
		if !ok {
			continue
		}

		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		err := h.dispatcher.DispatchDigest(ctx, venue, notify.DigestData{
			Period:   period,
			Total:    s.Total,
			Positive: s.Positive,
			Neutral:  s.Neutral,
			Negative: s.Negative,
			Photos:   s.Photos,
			Audio:    s.Audio,
		})
		cancel()
		if err != nil {
			log.Printf("Error sending digest to %s: %v", venue, err)
			failed = append(failed, venue)
			continue
		}
		sent++
	}

	if len(failed) > 0 {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"message": "some digest emails failed",
			"sent":    sent,
			"failed":  failed,
			"success": false,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Monthly digest emails sent successfully",
		"sent":    sent,
		"success": true,
	})
}

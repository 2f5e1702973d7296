package feedback

import (
	"sort"
	"strings"
	"time"

	"hogis-feedback-backend/internal/models"
)

// Sentiment classification reinforces the declared reaction with keyword
// matching: a record tagged neutral whose text contains a positive keyword is
// counted as positive. Positive is checked before negative; first match wins.
var positiveKeywords = []string{
	"great", "excellent", "good", "amazing", "fantastic",
	"love", "satisfied", "happy", "recommend", "nice",
}

var negativeKeywords = []string{
	"bad", "poor", "terrible", "hate", "dissatisfied",
	"worst", "unhappy", "not good",
}

// keywordVocabulary is the fixed set of domain terms counted for the
// dashboard's keyword frequency chart.
var keywordVocabulary = []string{
	"food", "room", "noise", "worst", "smoking", "staffs",
	"professional", "service", "product", "quality", "price",
	"support", "experience", "recommendation", "value",
	"delivery", "variety",
}

// Sentiment is the classified sentiment of one record.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// SentimentCounts holds per-class record counts.
type SentimentCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// VenueCount is one venue's share of the record set.
type VenueCount struct {
	Venue string `json:"venue"`
	Count int    `json:"count"`
}

// Snapshot is the derived, in-memory summary the dashboard renders. It is
// recomputed on every read and never persisted.
type Snapshot struct {
	Total     int             `json:"total"`
	Sentiment SentimentCounts `json:"sentiment"`
	Keywords  map[string]int  `json:"keywords"`
	Venues    []VenueCount    `json:"venues"`
}

// Classify returns the sentiment for one record: the declared reaction wins
// if it is positive or negative; otherwise keyword matches against the
// lowercased body can promote a neutral record. A record is counted exactly
// once.
func Classify(rec models.Feedback) Sentiment {
	body := strings.ToLower(rec.Body)
	if rec.Reaction == models.ReactionPositive || containsAny(body, positiveKeywords) {
		return SentimentPositive
	}
	if rec.Reaction == models.ReactionNegative || containsAny(body, negativeKeywords) {
		return SentimentNegative
	}
	return SentimentNeutral
}

// Aggregate computes a Snapshot from a record set. Pure function, no I/O.
// Venue counts are sorted by count descending, ties broken by venue name so
// the output is deterministic.
func Aggregate(records []models.Feedback) Snapshot {
	snap := Snapshot{
		Total:    len(records),
		Keywords: map[string]int{},
	}

	venues := map[string]int{}
	for _, rec := range records {
		switch Classify(rec) {
		case SentimentPositive:
			snap.Sentiment.Positive++
		case SentimentNegative:
			snap.Sentiment.Negative++
		default:
			snap.Sentiment.Neutral++
		}

		body := strings.ToLower(rec.Body)
		for _, kw := range keywordVocabulary {
			if strings.Contains(body, kw) {
				snap.Keywords[kw]++
			}
		}

		if rec.Venue != "" {
			venues[rec.Venue]++
		}
	}

	snap.Venues = make([]VenueCount, 0, len(venues))
	for venue, count := range venues {
		snap.Venues = append(snap.Venues, VenueCount{Venue: venue, Count: count})
	}
	sort.Slice(snap.Venues, func(i, j int) bool {
		if snap.Venues[i].Count != snap.Venues[j].Count {
			return snap.Venues[i].Count > snap.Venues[j].Count
		}
		return snap.Venues[i].Venue < snap.Venues[j].Venue
	})

	return snap
}

// DigestStats is one venue's monthly summary for the digest email.
type DigestStats struct {
	Total    int
	Positive int
	Neutral  int
	Negative int
	Photos   int
	Audio    int
}

// MonthlyStats buckets records falling inside the given month by venue.
// Records outside the month, and records with an empty venue, are skipped.
func MonthlyStats(records []models.Feedback, year int, month time.Month) map[string]DigestStats {
	stats := map[string]DigestStats{}
	for _, rec := range records {
		if rec.Venue == "" {
			continue
		}
		if rec.CreatedAt.Year() != year || rec.CreatedAt.Month() != month {
			continue
		}

		s := stats[rec.Venue]
		s.Total++
		switch Classify(rec) {
		case SentimentPositive:
			s.Positive++
		case SentimentNegative:
			s.Negative++
		default:
			s.Neutral++
		}
		if rec.PhotoURL != "" {
			s.Photos++
		}
		if rec.AudioURL != "" {
			s.Audio++
		}
		stats[rec.Venue] = s
	}
	return stats
}

func containsAny(body string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(body, kw) {
			return true
		}
	}
	return false
}

package feedback

import (
	"reflect"
	"testing"
	"time"

	"hogis-feedback-backend/internal/models"
)

func rec(reaction models.Reaction, venue, body string) models.Feedback {
	return models.Feedback{
		Name:     "Guest",
		Email:    "guest@example.com",
		Venue:    venue,
		Body:     body,
		Reaction: reaction,
	}
}

func TestClassifyReactionWins(t *testing.T) {
	if got := Classify(rec(models.ReactionPositive, "", "awful experience")); got != SentimentPositive {
		t.Fatalf("positive reaction must classify positive, got %s", got)
	}
	if got := Classify(rec(models.ReactionNegative, "", "nothing notable")); got != SentimentNegative {
		t.Fatalf("negative reaction must classify negative, got %s", got)
	}
}

func TestClassifyKeywordPromotesNeutral(t *testing.T) {
	if got := Classify(rec(models.ReactionNeutral, "", "the staff was GREAT")); got != SentimentPositive {
		t.Fatalf("positive keyword must promote neutral record, got %s", got)
	}
	if got := Classify(rec(models.ReactionNeutral, "", "poor lighting in the hallway")); got != SentimentNegative {
		t.Fatalf("negative keyword must demote neutral record, got %s", got)
	}
	if got := Classify(rec(models.ReactionNeutral, "", "checked in at noon")); got != SentimentNeutral {
		t.Fatalf("no keyword, no reaction signal: expected neutral, got %s", got)
	}
}

func TestClassifyPositiveCheckedBeforeNegative(t *testing.T) {
	// Both a positive and a negative keyword present: first branch wins.
	if got := Classify(rec(models.ReactionNeutral, "", "great room, bad noise at night")); got != SentimentPositive {
		t.Fatalf("positive branch is checked first, got %s", got)
	}
}

func TestAggregateExampleScenario(t *testing.T) {
	records := []models.Feedback{
		{
			Name:     "Amy",
			Email:    "a@x.com",
			Venue:    "Hogis Royale and Apartments",
			Reaction: models.ReactionPositive,
			Body:     "great room, bad noise at night",
		},
	}

	snap := Aggregate(records)

	if snap.Total != 1 {
		t.Fatalf("expected total 1, got %d", snap.Total)
	}
	if snap.Sentiment.Positive != 1 || snap.Sentiment.Negative != 0 || snap.Sentiment.Neutral != 0 {
		t.Fatalf("expected sentiment {1,0,0}, got %+v", snap.Sentiment)
	}
	if snap.Keywords["room"] != 1 || snap.Keywords["noise"] != 1 {
		t.Fatalf("expected room and noise counted once, got %v", snap.Keywords)
	}
	if len(snap.Venues) != 1 || snap.Venues[0].Venue != "Hogis Royale and Apartments" || snap.Venues[0].Count != 1 {
		t.Fatalf("unexpected venue distribution: %v", snap.Venues)
	}
}

func TestAggregateEachRecordCountedOnce(t *testing.T) {
	records := []models.Feedback{
		rec(models.ReactionNeutral, "Hogis Luxury Suites", "great food but terrible service"),
		rec(models.ReactionNegative, "Hogis Luxury Suites", "love the room"),
	}

	snap := Aggregate(records)

	counted := snap.Sentiment.Positive + snap.Sentiment.Neutral + snap.Sentiment.Negative
	if counted != len(records) {
		t.Fatalf("records double-counted: %d classified from %d records", counted, len(records))
	}
	// Both records match a positive keyword, which is checked before the
	// negative branch ever runs, including the declared negative reaction.
	if snap.Sentiment.Positive != 2 {
		t.Fatalf("expected both records positive, got %+v", snap.Sentiment)
	}
}

func TestAggregateDeterministic(t *testing.T) {
	records := []models.Feedback{
		rec(models.ReactionPositive, "Hogis Royale and Apartments", "excellent service"),
		rec(models.ReactionNegative, "Hogis Luxury Suites", "noise and smoking in the room"),
		rec(models.ReactionNeutral, "Hogis Exclusive Suites", "fair price"),
	}

	first := Aggregate(records)
	second := Aggregate(records)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("aggregation is not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestAggregateKeywordCountsMonotonic(t *testing.T) {
	base := []models.Feedback{
		rec(models.ReactionNeutral, "Hogis Luxury Suites", "the food was cold"),
		rec(models.ReactionNeutral, "Hogis Luxury Suites", "room service was slow"),
	}
	grown := append(append([]models.Feedback{}, base...),
		rec(models.ReactionPositive, "Hogis Royale and Apartments", "food and room both great"))

	before := Aggregate(base)
	after := Aggregate(grown)

	for kw, count := range before.Keywords {
		if after.Keywords[kw] < count {
			t.Fatalf("keyword %q count decreased from %d to %d after adding a record", kw, count, after.Keywords[kw])
		}
	}
}

func TestAggregateVenuesSortedByCountDescending(t *testing.T) {
	records := []models.Feedback{
		rec(models.ReactionNeutral, "Hogis Exclusive Suites", "ok"),
		rec(models.ReactionNeutral, "Hogis Luxury Suites", "ok"),
		rec(models.ReactionNeutral, "Hogis Luxury Suites", "ok"),
		rec(models.ReactionNeutral, "", "no venue recorded"),
	}

	snap := Aggregate(records)

	if len(snap.Venues) != 2 {
		t.Fatalf("empty venues must be skipped, got %v", snap.Venues)
	}
	if snap.Venues[0].Venue != "Hogis Luxury Suites" || snap.Venues[0].Count != 2 {
		t.Fatalf("expected highest count first, got %v", snap.Venues)
	}
	if snap.Venues[1].Count != 1 {
		t.Fatalf("unexpected tail of venue distribution: %v", snap.Venues)
	}
}

func TestMonthlyStatsBucketsByVenueAndMonth(t *testing.T) {
	july := time.Date(2026, time.July, 10, 12, 0, 0, 0, time.UTC)
	june := time.Date(2026, time.June, 28, 9, 0, 0, 0, time.UTC)

	records := []models.Feedback{
		{Venue: "Hogis Luxury Suites", Reaction: models.ReactionPositive, Body: "lovely stay", CreatedAt: july, PhotoURL: "https://cdn/p.jpg"},
		{Venue: "Hogis Luxury Suites", Reaction: models.ReactionNegative, Body: "awful elevator", CreatedAt: july, AudioURL: "https://cdn/a.wav"},
		{Venue: "Hogis Luxury Suites", Reaction: models.ReactionNeutral, Body: "fine", CreatedAt: june},
		{Venue: "", Reaction: models.ReactionPositive, Body: "great", CreatedAt: july},
	}

	stats := MonthlyStats(records, 2026, time.July)

	s, ok := stats["Hogis Luxury Suites"]
	if !ok {
		t.Fatalf("expected stats for Hogis Luxury Suites, got %v", stats)
	}
	if s.Total != 2 {
		t.Fatalf("June record leaked into July stats: %+v", s)
	}
	if s.Positive != 1 || s.Negative != 1 || s.Neutral != 0 {
		t.Fatalf("unexpected sentiment split: %+v", s)
	}
	if s.Photos != 1 || s.Audio != 1 {
		t.Fatalf("unexpected media counts: %+v", s)
	}
}

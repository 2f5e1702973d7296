package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Reaction is the submitter-declared sentiment tag.
type Reaction string

const (
	ReactionPositive Reaction = "positive"
	ReactionNeutral  Reaction = "neutral"
	ReactionNegative Reaction = "negative"
)

func (r Reaction) Valid() bool {
	switch r {
	case ReactionPositive, ReactionNeutral, ReactionNegative:
		return true
	}
	return false
}

// Feedback is one persisted feedback record. Records are created once and
// never updated or deleted by this service.
type Feedback struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string        `bson:"name" json:"name"`
	Email     string        `bson:"email" json:"email"`
	Phone     string        `bson:"phone,omitempty" json:"phone,omitempty"`
	Venue     string        `bson:"venue" json:"venue"`
	Body      string        `bson:"feedback" json:"feedback"`
	Reaction  Reaction      `bson:"reaction" json:"reaction"`
	PhotoURL  string        `bson:"photo_url,omitempty" json:"photoURL,omitempty"`
	AudioURL  string        `bson:"audio_url,omitempty" json:"audioURL,omitempty"`
	SessionID string        `bson:"session_id" json:"session_id"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}

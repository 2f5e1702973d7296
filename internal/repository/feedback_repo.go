package repository

import (
	"context"
	"time"

	"hogis-feedback-backend/internal/database"
	"hogis-feedback-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Cursor marks the last record of a page; the next page starts strictly
// after it in (created_at desc, _id desc) order.
type Cursor struct {
	CreatedAt time.Time     `json:"created_at"`
	ID        bson.ObjectID `json:"id"`
}

type FeedbackRepo struct {
	collection *mongo.Collection
}

func NewFeedbackRepo() *FeedbackRepo {
	return &FeedbackRepo{
		collection: database.GetCollection("feedback"),
	}
}

// Create inserts a new feedback record. CreatedAt is assigned here, server
// side, exactly once; any client-supplied value is overwritten.
func (r *FeedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	feedback.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, feedback)
	if err != nil {
		return err
	}
	feedback.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

var pageSort = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// FindPage returns up to limit records in descending creation order starting
// strictly after cursor (nil cursor means the first page), plus the cursor
// for the following page (nil when this page was short).
func (r *FeedbackRepo) FindPage(ctx context.Context, cursor *Cursor, limit int) ([]models.Feedback, *Cursor, error) {
	filter := bson.M{}
	if cursor != nil {
		filter = bson.M{"$or": bson.A{
			bson.M{"created_at": bson.M{"$lt": cursor.CreatedAt}},
			bson.M{"created_at": cursor.CreatedAt, "_id": bson.M{"$lt": cursor.ID}},
		}}
	}

	opts := options.Find().SetSort(pageSort).SetLimit(int64(limit))
	c, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, nil, err
	}

	var records []models.Feedback
	if err := c.All(ctx, &records); err != nil {
		return nil, nil, err
	}

	var next *Cursor
	if len(records) == limit {
		last := records[len(records)-1]
		next = &Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return records, next, nil
}

// FindAll returns every record in descending creation order. Used only to
// feed aggregation; independent of the page-fetch path.
func (r *FeedbackRepo) FindAll(ctx context.Context) ([]models.Feedback, error) {
	c, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(pageSort))
	if err != nil {
		return nil, err
	}

	var records []models.Feedback
	if err := c.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Count returns the total number of stored records.
func (r *FeedbackRepo) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// EnsureIndexes creates necessary indexes for the feedback collection
func (r *FeedbackRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "session_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "venue", Value: 1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

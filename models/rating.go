package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating holds at most one entry per (message, user) pair; writes go through
// an upsert keyed on those two fields.
type Rating struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ChatID    primitive.ObjectID `bson:"chat_id" json:"-"`
	MessageID primitive.ObjectID `bson:"message_id" json:"-"`
	UserID    primitive.ObjectID `bson:"user_id" json:"-"`
	Rating    int                `bson:"rating" json:"rating"` // 1-5 stars
	Feedback  string             `bson:"feedback,omitempty" json:"feedback,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type RatingStats struct {
	AvgRating          float64     `json:"avg_rating"`
	TotalRatings       int64       `json:"total_ratings"`
	RatingDistribution map[int]int `json:"rating_distribution"`
}

package services

import (
	"context"
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tutorhub/models"
)

// UpsertRating stores a rating keyed by (message_id, user_id), overwriting any
// prior rating from the same user for the same message. Returns the hex id of
// the stored document.
func (s *Store) UpsertRating(ctx context.Context, rating *models.Rating) (string, error) {
	filter := bson.M{
		"message_id": rating.MessageID,
		"user_id":    rating.UserID,
	}
	update := bson.M{"$set": bson.M{
		"chat_id":    rating.ChatID,
		"message_id": rating.MessageID,
		"user_id":    rating.UserID,
		"rating":     rating.Rating,
		"feedback":   rating.Feedback,
		"created_at": time.Now().UTC(),
	}}

	result, err := s.ratings().UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return "", err
	}
	if oid, ok := result.UpsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}

	var existing models.Rating
	if err := s.ratings().FindOne(ctx, filter).Decode(&existing); err != nil {
		return "", err
	}
	return existing.ID.Hex(), nil
}

func (s *Store) FindRatingByMessage(ctx context.Context, messageID primitive.ObjectID) (*models.Rating, error) {
	var rating models.Rating
	err := s.ratings().FindOne(ctx, bson.M{"message_id": messageID}).Decode(&rating)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rating, nil
}

// AverageRating returns the platform-wide AI rating average, 0 when nothing
// has been rated yet.
func (s *Store) AverageRating(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":        nil,
			"avg_rating": bson.M{"$avg": "$rating"},
		}}},
	}

	cursor, err := s.ratings().Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		AvgRating float64 `bson:"avg_rating"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return math.Round(results[0].AvgRating*100) / 100, nil
}

// RatingStatsByUser aggregates a user's rating average and 1-5 distribution.
func (s *Store) RatingStatsByUser(ctx context.Context, userID primitive.ObjectID) (models.RatingStats, error) {
	distribution := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	stats := models.RatingStats{RatingDistribution: distribution}

	cursor, err := s.ratings().Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return stats, err
	}
	defer cursor.Close(ctx)

	var ratings []models.Rating
	if err := cursor.All(ctx, &ratings); err != nil {
		return stats, err
	}
	if len(ratings) == 0 {
		return stats, nil
	}

	sum := 0
	for _, r := range ratings {
		sum += r.Rating
		if r.Rating >= 1 && r.Rating <= 5 {
			distribution[r.Rating]++
		}
	}
	stats.TotalRatings = int64(len(ratings))
	stats.AvgRating = math.Round(float64(sum)/float64(len(ratings))*100) / 100
	return stats, nil
}

// RecentFeedback lists the latest ratings carrying feedback text.
func (s *Store) RecentFeedback(ctx context.Context, limit int64) ([]models.Rating, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := s.ratings().Find(ctx,
		bson.M{"feedback": bson.M{"$nin": bson.A{nil, ""}}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ratings []models.Rating
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}

package services

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tutorhub/models"
)

func (s *Store) CreateMessage(ctx context.Context, message *models.Message) (string, error) {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now().UTC()

	if _, err := s.messages().InsertOne(ctx, message); err != nil {
		return "", err
	}
	return message.ID.Hex(), nil
}

func (s *Store) FindMessageByID(ctx context.Context, messageID string) (*models.Message, error) {
	oid, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return nil, ErrNotFound
	}
	var message models.Message
	err = s.messages().FindOne(ctx, bson.M{"_id": oid}).Decode(&message)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &message, nil
}

// FindMessagesByChat pages through a chat's messages in chronological order.
func (s *Store) FindMessagesByChat(ctx context.Context, chatID primitive.ObjectID, limit, skip int64) ([]models.Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)
	cursor, err := s.messages().Find(ctx, bson.M{"chat_id": chatID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// LatestMessages returns the newest count messages of a chat in chronological
// order, for use as model context.
func (s *Store) LatestMessages(ctx context.Context, chatID primitive.ObjectID, count int64) ([]models.Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(count)
	cursor, err := s.messages().Find(ctx, bson.M{"chat_id": chatID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (s *Store) CountMessagesByChat(ctx context.Context, chatID primitive.ObjectID) (int64, error) {
	return s.messages().CountDocuments(ctx, bson.M{"chat_id": chatID})
}

// SearchMessages matches a case-insensitive substring across the given user's
// own chats only.
func (s *Store) SearchMessages(ctx context.Context, userID primitive.ObjectID, query string, limit int64) ([]models.Message, error) {
	chatCursor, err := s.chats().Find(ctx, bson.M{"user_id": userID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer chatCursor.Close(ctx)

	var chatRefs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := chatCursor.All(ctx, &chatRefs); err != nil {
		return nil, err
	}
	chatIDs := make([]primitive.ObjectID, len(chatRefs))
	for i, ref := range chatRefs {
		chatIDs[i] = ref.ID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := s.messages().Find(ctx, bson.M{
		"chat_id": bson.M{"$in": chatIDs},
		"text":    bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// TokenUsage is the AI token rollup used by admin stats.
type TokenUsage struct {
	TotalTokens         int64   `bson:"total_tokens" json:"total_tokens"`
	TotalMessages       int64   `bson:"total_messages" json:"total_messages"`
	AvgTokensPerMessage float64 `bson:"avg_tokens_per_message" json:"avg_tokens_per_message"`
}

// TokenUsageStats aggregates AI-message token usage since the given time.
func (s *Store) TokenUsageStats(ctx context.Context, since time.Time) (TokenUsage, error) {
	match := bson.M{"sender": models.SenderAI}
	if !since.IsZero() {
		match["created_at"] = bson.M{"$gte": since}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":                    nil,
			"total_tokens":           bson.M{"$sum": "$tokens_used"},
			"total_messages":         bson.M{"$sum": 1},
			"avg_tokens_per_message": bson.M{"$avg": "$tokens_used"},
		}}},
	}

	cursor, err := s.messages().Aggregate(ctx, pipeline)
	if err != nil {
		return TokenUsage{}, err
	}
	defer cursor.Close(ctx)

	var results []TokenUsage
	if err := cursor.All(ctx, &results); err != nil {
		return TokenUsage{}, err
	}
	if len(results) == 0 {
		return TokenUsage{}, nil
	}
	return results[0], nil
}

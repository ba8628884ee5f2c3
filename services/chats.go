package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tutorhub/models"
)

func (s *Store) CreateChat(ctx context.Context, chat *models.Chat) (string, error) {
	chat.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	chat.CreatedAt = now
	chat.LastActivity = now
	chat.MessageCount = 0
	chat.TotalTokens = 0

	if _, err := s.chats().InsertOne(ctx, chat); err != nil {
		return "", err
	}
	return chat.ID.Hex(), nil
}

func (s *Store) FindChatByID(ctx context.Context, chatID string) (*models.Chat, error) {
	oid, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return nil, ErrNotFound
	}
	var chat models.Chat
	err = s.chats().FindOne(ctx, bson.M{"_id": oid}).Decode(&chat)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &chat, nil
}

// FindChatsByUser lists a user's chats, most recently active first.
func (s *Store) FindChatsByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Chat, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "last_activity", Value: -1}}).
		SetLimit(limit)
	cursor, err := s.chats().Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var chats []models.Chat
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// TouchChat bumps last_activity and the message counter, folding in token
// usage when present.
func (s *Store) TouchChat(ctx context.Context, chatID primitive.ObjectID, tokenCount int) error {
	inc := bson.M{"message_count": 1}
	if tokenCount > 0 {
		inc["total_tokens"] = tokenCount
	}
	_, err := s.chats().UpdateOne(ctx,
		bson.M{"_id": chatID},
		bson.M{
			"$set": bson.M{"last_activity": time.Now().UTC()},
			"$inc": inc,
		},
	)
	return err
}

func (s *Store) UpdateChatTitle(ctx context.Context, chatID primitive.ObjectID, title string) error {
	_, err := s.chats().UpdateOne(ctx,
		bson.M{"_id": chatID},
		bson.M{"$set": bson.M{"title": title}},
	)
	return err
}

// DeleteChat removes a chat with its messages and ratings after verifying
// ownership. The three deletes run in sequence without a transaction; a crash
// mid-way can leave orphans behind (accepted gap).
func (s *Store) DeleteChat(ctx context.Context, chatID string, userID primitive.ObjectID) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return false, nil
	}

	var chat models.Chat
	err = s.chats().FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&chat)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}

	if _, err := s.messages().DeleteMany(ctx, bson.M{"chat_id": oid}); err != nil {
		return false, err
	}
	if _, err := s.ratings().DeleteMany(ctx, bson.M{"chat_id": oid}); err != nil {
		return false, err
	}
	result, err := s.chats().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

// ChatStatsByUser rolls up a user's chat counters.
func (s *Store) ChatStatsByUser(ctx context.Context, userID primitive.ObjectID) (models.ChatStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":            nil,
			"total_chats":    bson.M{"$sum": 1},
			"total_messages": bson.M{"$sum": "$message_count"},
			"total_tokens":   bson.M{"$sum": "$total_tokens"},
			"ai_sessions": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$is_ai_session", true}}, 1, 0},
			}},
		}}},
	}

	cursor, err := s.chats().Aggregate(ctx, pipeline)
	if err != nil {
		return models.ChatStats{}, err
	}
	defer cursor.Close(ctx)

	var results []models.ChatStats
	if err := cursor.All(ctx, &results); err != nil {
		return models.ChatStats{}, err
	}
	if len(results) == 0 {
		return models.ChatStats{}, nil
	}
	return results[0], nil
}

// FindStaleChats returns chats inactive past the cutoff AND holding fewer
// than minMessages messages. Both conditions are required so active or
// substantial conversations never qualify for cleanup.
func (s *Store) FindStaleChats(ctx context.Context, cutoff time.Time, minMessages int) ([]models.Chat, error) {
	cursor, err := s.chats().Find(ctx, bson.M{
		"last_activity": bson.M{"$lt": cutoff},
		"message_count": bson.M{"$lt": minMessages},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var chats []models.Chat
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

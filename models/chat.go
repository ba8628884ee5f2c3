package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultChatTitle = "New Chat"

type Chat struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID       primitive.ObjectID `bson:"user_id" json:"-"`
	Title        string             `bson:"title" json:"title"`
	IsAISession  bool               `bson:"is_ai_session" json:"is_ai_session"`
	AIModel      string             `bson:"ai_model,omitempty" json:"ai_model,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	LastActivity time.Time          `bson:"last_activity" json:"last_activity"`
	MessageCount int64              `bson:"message_count" json:"message_count"`
	TotalTokens  int64              `bson:"total_tokens" json:"total_tokens"`
}

// ChatStats is the per-user rollup produced by aggregation.
type ChatStats struct {
	TotalChats    int64 `bson:"total_chats" json:"total_chats"`
	TotalMessages int64 `bson:"total_messages" json:"total_messages"`
	TotalTokens   int64 `bson:"total_tokens" json:"total_tokens"`
	AISessions    int64 `bson:"ai_sessions" json:"ai_sessions"`
}

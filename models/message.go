package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SenderUser  = "user"
	SenderAI    = "ai"
	SenderTutor = "tutor"
)

type Message struct {
	ID         primitive.ObjectID     `bson:"_id,omitempty" json:"-"`
	ChatID     primitive.ObjectID     `bson:"chat_id" json:"-"`
	Sender     string                 `bson:"sender" json:"sender"` // user | ai | tutor
	Text       string                 `bson:"text" json:"text"`
	TokensUsed int                    `bson:"tokens_used" json:"tokens_used"`
	Metadata   map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt  time.Time              `bson:"created_at" json:"created_at"`
	IsEdited   bool                   `bson:"is_edited" json:"is_edited"`
	EditedAt   *time.Time             `bson:"edited_at,omitempty" json:"edited_at,omitempty"`
}

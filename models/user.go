package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Name         string             `bson:"name" json:"name"`
	Role         string             `bson:"role" json:"role"` // "student" or "admin"
	School       string             `bson:"school" json:"school"`
	StudentID    string             `bson:"student_id" json:"student_id"`
	IsVerified   bool               `bson:"is_verified" json:"is_verified"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	LastLogin    *time.Time         `bson:"last_login" json:"last_login"`
}

// PublicInfo shapes the user for API responses, with the hex id and no
// credential material.
func (u *User) PublicInfo() map[string]interface{} {
	return map[string]interface{}{
		"id":          u.ID.Hex(),
		"email":       u.Email,
		"name":        u.Name,
		"role":        u.Role,
		"school":      u.School,
		"student_id":  u.StudentID,
		"is_verified": u.IsVerified,
		"created_at":  u.CreatedAt,
		"last_login":  u.LastLogin,
	}
}

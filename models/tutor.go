package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContactInfo struct {
	Email string `bson:"email" json:"email" validate:"required,email"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
}

type Tutor struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Name           string             `bson:"name" json:"name"`
	Subjects       []string           `bson:"subjects" json:"subjects"` // lowercased, trimmed
	HourlyRate     float64            `bson:"hourly_rate" json:"hourly_rate"`
	School         string             `bson:"school" json:"school"`
	GPA            float64            `bson:"gpa" json:"gpa"`
	ContactInfo    ContactInfo        `bson:"contact_info" json:"contact_info"`
	CreatedByAdmin primitive.ObjectID `bson:"created_by_admin" json:"-"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	IsActive       bool               `bson:"is_active" json:"is_active"`
	RatingAverage  float64            `bson:"rating_average" json:"rating_average"`
	TotalSessions  int64              `bson:"total_sessions" json:"total_sessions"`
	// Populated only by the recommendation aggregation.
	SubjectMatchCount int `bson:"subject_match_count,omitempty" json:"-"`
}

// TutorPayload is the admin tutor-creation body. Range checks live in the
// validate tags; subject normalization happens in the service layer.
type TutorPayload struct {
	Name        string      `json:"name" validate:"required"`
	Subjects    []string    `json:"subjects" validate:"required,min=1,dive,required,max=50"`
	HourlyRate  float64     `json:"hourly_rate" validate:"required,gt=0,lte=1000"`
	School      string      `json:"school" validate:"required"`
	GPA         float64     `json:"gpa" validate:"gte=0,lte=4"`
	ContactInfo ContactInfo `json:"contact_info" validate:"required"`
}

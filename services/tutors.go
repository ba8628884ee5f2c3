package services

import (
	"context"
	"errors"
	"math"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tutorhub/helpers"
	"tutorhub/models"
)

func (s *Store) CreateTutor(ctx context.Context, tutor *models.Tutor) (string, error) {
	tutor.ID = primitive.NewObjectID()
	tutor.Subjects = helpers.NormalizeSubjects(tutor.Subjects)
	tutor.CreatedAt = time.Now().UTC()
	tutor.IsActive = true
	tutor.RatingAverage = 0
	tutor.TotalSessions = 0

	if _, err := s.tutors().InsertOne(ctx, tutor); err != nil {
		return "", err
	}
	return tutor.ID.Hex(), nil
}

func (s *Store) FindTutorByID(ctx context.Context, tutorID string) (*models.Tutor, error) {
	oid, err := primitive.ObjectIDFromHex(tutorID)
	if err != nil {
		return nil, ErrNotFound
	}
	var tutor models.Tutor
	err = s.tutors().FindOne(ctx, bson.M{"_id": oid}).Decode(&tutor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tutor, nil
}

// FindTutors lists tutors sorted by GPA, optionally including deactivated
// ones.
func (s *Store) FindTutors(ctx context.Context, activeOnly bool) ([]models.Tutor, error) {
	query := bson.M{}
	if activeOnly {
		query["is_active"] = true
	}
	cursor, err := s.tutors().Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "gpa", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tutors []models.Tutor
	if err := cursor.All(ctx, &tutors); err != nil {
		return nil, err
	}
	return tutors, nil
}

// FindTutorsBySubjects matches any of the given (already normalized)
// subjects, best GPA first.
func (s *Store) FindTutorsBySubjects(ctx context.Context, subjects []string, limit int64) ([]models.Tutor, error) {
	query := bson.M{
		"subjects":  bson.M{"$in": helpers.NormalizeSubjects(subjects)},
		"is_active": true,
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "gpa", Value: -1}, {Key: "rating_average", Value: -1}}).
		SetLimit(limit)
	cursor, err := s.tutors().Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tutors []models.Tutor
	if err := cursor.All(ctx, &tutors); err != nil {
		return nil, err
	}
	return tutors, nil
}

// TutorSearchFilter holds optional tutor directory filters.
type TutorSearchFilter struct {
	School   string
	MinGPA   float64
	Subjects []string
	MaxRate  float64
}

// tutorSearchQuery builds the filter document. The school term is quoted so
// user input never reaches the server as a regex pattern.
func tutorSearchQuery(filter TutorSearchFilter) bson.M {
	query := bson.M{"is_active": true}
	if filter.School != "" {
		query["school"] = bson.M{"$regex": regexp.QuoteMeta(filter.School), "$options": "i"}
	}
	if filter.MinGPA > 0 {
		query["gpa"] = bson.M{"$gte": filter.MinGPA}
	}
	if len(filter.Subjects) > 0 {
		query["subjects"] = bson.M{"$in": helpers.NormalizeSubjects(filter.Subjects)}
	}
	if filter.MaxRate > 0 {
		query["hourly_rate"] = bson.M{"$lte": filter.MaxRate}
	}
	return query
}

func (s *Store) SearchTutors(ctx context.Context, filter TutorSearchFilter) ([]models.Tutor, error) {
	cursor, err := s.tutors().Find(ctx, tutorSearchQuery(filter),
		options.Find().SetSort(bson.D{{Key: "gpa", Value: -1}, {Key: "rating_average", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tutors []models.Tutor
	if err := cursor.All(ctx, &tutors); err != nil {
		return nil, err
	}
	return tutors, nil
}

// RecommendTutors ranks active tutors by subject-match count, then GPA, then
// rating. With no subjects it falls back to top-rated tutors.
func (s *Store) RecommendTutors(ctx context.Context, subjects []string, limit int64) ([]models.Tutor, error) {
	normalized := helpers.NormalizeSubjects(subjects)
	if len(normalized) == 0 {
		cursor, err := s.tutors().Find(ctx, bson.M{"is_active": true},
			options.Find().
				SetSort(bson.D{{Key: "rating_average", Value: -1}, {Key: "gpa", Value: -1}}).
				SetLimit(limit))
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)
		var tutors []models.Tutor
		if err := cursor.All(ctx, &tutors); err != nil {
			return nil, err
		}
		return tutors, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"is_active": true,
			"subjects":  bson.M{"$in": normalized},
		}}},
		{{Key: "$addFields", Value: bson.M{
			"subject_match_count": bson.M{
				"$size": bson.M{"$setIntersection": bson.A{"$subjects", normalized}},
			},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "subject_match_count", Value: -1},
			{Key: "gpa", Value: -1},
			{Key: "rating_average", Value: -1},
		}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := s.tutors().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tutors []models.Tutor
	if err := cursor.All(ctx, &tutors); err != nil {
		return nil, err
	}
	return tutors, nil
}

// SetTutorActive flips the active flag. Returns false when the tutor was
// missing or already in the requested state.
func (s *Store) SetTutorActive(ctx context.Context, tutorID string, active bool) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(tutorID)
	if err != nil {
		return false, nil
	}
	result, err := s.tutors().UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"is_active": active}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

// UpdateTutorStats bumps the session counter and folds a new rating into the
// running average. The read-then-write recompute is last-write-wins under
// concurrent submissions.
func (s *Store) UpdateTutorStats(ctx context.Context, tutorID primitive.ObjectID, newRating *float64) error {
	updates := bson.M{"$inc": bson.M{"total_sessions": 1}}

	if newRating != nil {
		var tutor models.Tutor
		if err := s.tutors().FindOne(ctx, bson.M{"_id": tutorID}).Decode(&tutor); err == nil {
			newAvg := ((tutor.RatingAverage * float64(tutor.TotalSessions)) + *newRating) /
				float64(tutor.TotalSessions+1)
			updates["$set"] = bson.M{"rating_average": math.Round(newAvg*100) / 100}
		}
	}

	_, err := s.tutors().UpdateOne(ctx, bson.M{"_id": tutorID}, updates)
	return err
}

// SubjectCount pairs a subject tag with how many active tutors offer it.
type SubjectCount struct {
	Subject    string `bson:"_id" json:"subject"`
	TutorCount int64  `bson:"tutor_count" json:"tutor_count"`
}

// ListSubjects aggregates the unique subjects offered by active tutors,
// most-offered first.
func (s *Store) ListSubjects(ctx context.Context) ([]SubjectCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"is_active": true}}},
		{{Key: "$unwind", Value: "$subjects"}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$subjects",
			"tutor_count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "tutor_count", Value: -1}}}},
	}

	cursor, err := s.tutors().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subjects []SubjectCount
	if err := cursor.All(ctx, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

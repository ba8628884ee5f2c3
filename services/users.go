package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tutorhub/models"
)

var ErrNotFound = errors.New("not found")

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) (string, error) {
	user.ID = primitive.NewObjectID()
	user.Email = normalizeEmail(user.Email)
	user.CreatedAt = time.Now().UTC()

	if _, err := s.users().InsertOne(ctx, user); err != nil {
		return "", err
	}
	return user.ID.Hex(), nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.users().FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) FindUserByID(ctx context.Context, userID string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	var user models.User
	err = s.users().FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	count, err := s.users().CountDocuments(ctx, bson.M{"email": normalizeEmail(email)})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.users().UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"last_login": time.Now().UTC()}},
	)
	return err
}

// FindStudents lists student accounts, optionally restricted to verified
// ones, newest first.
func (s *Store) FindStudents(ctx context.Context, verifiedOnly bool) ([]models.User, error) {
	query := bson.M{"role": models.RoleStudent}
	if verifiedOnly {
		query["is_verified"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.users().Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// FindPendingStudents lists unverified student accounts.
func (s *Store) FindPendingStudents(ctx context.Context) ([]models.User, error) {
	cursor, err := s.users().Find(ctx,
		bson.M{"role": models.RoleStudent, "is_verified": false},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// VerifyStudent flips the verification flag on a student account. Returns
// false when the account is missing, not a student, or already verified.
func (s *Store) VerifyStudent(ctx context.Context, studentID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(studentID)
	if err != nil {
		return false, nil
	}
	result, err := s.users().UpdateOne(ctx,
		bson.M{"_id": oid, "role": models.RoleStudent},
		bson.M{"$set": bson.M{"is_verified": true}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

// ListUsers returns one page of accounts plus the total count.
func (s *Store) ListUsers(ctx context.Context, page, perPage int) ([]models.User, int64, error) {
	total, err := s.users().CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * perPage)).
		SetLimit(int64(perPage))
	cursor, err := s.users().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateUserProfile applies an allow-listed field update to an account of the
// given role. Returns false when no such account matched.
func (s *Store) UpdateUserProfile(ctx context.Context, userID primitive.ObjectID, role string, fields bson.M) (bool, error) {
	result, err := s.users().UpdateOne(ctx,
		bson.M{"_id": userID, "role": role},
		bson.M{"$set": fields},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

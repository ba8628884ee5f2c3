package services

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// Store is the persistence handle shared by the controllers. It is constructed
// once in main and injected; there are no package-level database globals.
type Store struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) users() *mongo.Collection    { return s.db.Collection("users") }
func (s *Store) tutors() *mongo.Collection   { return s.db.Collection("tutors") }
func (s *Store) chats() *mongo.Collection    { return s.db.Collection("chats") }
func (s *Store) messages() *mongo.Collection { return s.db.Collection("messages") }
func (s *Store) ratings() *mongo.Collection  { return s.db.Collection("ratings") }

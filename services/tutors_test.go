package services

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestTutorSearchQueryQuotesSchool(t *testing.T) {
	query := tutorSearchQuery(TutorSearchFilter{School: "a(b"})

	school, ok := query["school"].(bson.M)
	if !ok {
		t.Fatalf("school clause missing: %v", query)
	}
	if school["$regex"] != `a\(b` {
		t.Errorf("regex = %q, want metacharacters quoted", school["$regex"])
	}
	if school["$options"] != "i" {
		t.Errorf("options = %q, want i", school["$options"])
	}
}

func TestTutorSearchQueryOptionalClauses(t *testing.T) {
	query := tutorSearchQuery(TutorSearchFilter{})
	if len(query) != 1 || query["is_active"] != true {
		t.Errorf("empty filter query = %v, want is_active only", query)
	}

	query = tutorSearchQuery(TutorSearchFilter{
		MinGPA:   3.5,
		MaxRate:  40,
		Subjects: []string{" Math ", ""},
	})
	if query["gpa"] == nil || query["hourly_rate"] == nil {
		t.Errorf("numeric clauses missing: %v", query)
	}
	subjects, ok := query["subjects"].(bson.M)
	if !ok {
		t.Fatalf("subjects clause missing: %v", query)
	}
	in, ok := subjects["$in"].([]string)
	if !ok || len(in) != 1 || in[0] != "math" {
		t.Errorf("subjects $in = %v, want [math]", subjects["$in"])
	}
}

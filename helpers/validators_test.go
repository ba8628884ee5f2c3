package helpers

import (
	"reflect"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"student@university.edu", "a.b+c@school.ac.uk", "x@y.co"}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("%q should be valid", email)
		}
	}
	invalid := []string{"", "no-at-sign", "missing@tld", "@no-local.edu", "spaces in@mail.edu"}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("%q should be invalid", email)
		}
	}
}

func TestIsSchoolEmail(t *testing.T) {
	if !IsSchoolEmail("student@university.edu") {
		t.Error(".edu address rejected")
	}
	if !IsSchoolEmail("student@college.ac.uk") {
		t.Error(".ac.uk address rejected")
	}
	if IsSchoolEmail("someone@gmail.com") {
		t.Error("gmail address accepted")
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
		message  string
	}{
		{"Short1", false, "Password must be at least 8 characters long"},
		{"alllowercase1", false, "Password must contain at least one uppercase letter"},
		{"ALLUPPERCASE1", false, "Password must contain at least one lowercase letter"},
		{"NoDigitsHere", false, "Password must contain at least one number"},
		{"GoodPass1", true, "Password is valid"},
	}
	for _, tc := range cases {
		ok, message := ValidatePassword(tc.password)
		if ok != tc.ok || message != tc.message {
			t.Errorf("ValidatePassword(%q) = (%v, %q), want (%v, %q)",
				tc.password, ok, message, tc.ok, tc.message)
		}
	}
}

func TestValidateStudentID(t *testing.T) {
	if !ValidateStudentID("S12345") {
		t.Error("alphanumeric id rejected")
	}
	if ValidateStudentID("ab") {
		t.Error("too-short id accepted")
	}
	if ValidateStudentID("has spaces") {
		t.Error("id with spaces accepted")
	}
}

func TestValidateRating(t *testing.T) {
	for _, r := range []int{1, 3, 5} {
		if !ValidateRating(r) {
			t.Errorf("rating %d should be valid", r)
		}
	}
	for _, r := range []int{0, 6, -1} {
		if ValidateRating(r) {
			t.Errorf("rating %d should be invalid", r)
		}
	}
}

func TestNormalizeSubjects(t *testing.T) {
	got := NormalizeSubjects([]string{" Math ", "PHYSICS", "", "  "})
	want := []string{"math", "physics"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeSubjects = %v, want %v", got, want)
	}
}

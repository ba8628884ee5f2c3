package helpers

import (
	"regexp"
	"strings"
)

var (
	emailPattern     = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	studentIDPattern = regexp.MustCompile(`^[a-zA-Z0-9]{3,20}$`)
	upperPattern     = regexp.MustCompile(`[A-Z]`)
	lowerPattern     = regexp.MustCompile(`[a-z]`)
	digitPattern     = regexp.MustCompile(`\d`)
)

// Institutional email suffixes accepted at registration.
var schoolEmailSuffixes = []string{".edu", ".ac.uk"}

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsSchoolEmail reports whether the address ends in one of the accepted
// institutional domains.
func IsSchoolEmail(email string) bool {
	for _, suffix := range schoolEmailSuffixes {
		if strings.HasSuffix(email, suffix) {
			return true
		}
	}
	return false
}

// ValidatePassword enforces password strength. The returned message names the
// first failed rule.
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters long"
	}
	if !upperPattern.MatchString(password) {
		return false, "Password must contain at least one uppercase letter"
	}
	if !lowerPattern.MatchString(password) {
		return false, "Password must contain at least one lowercase letter"
	}
	if !digitPattern.MatchString(password) {
		return false, "Password must contain at least one number"
	}
	return true, "Password is valid"
}

func ValidateStudentID(studentID string) bool {
	return studentIDPattern.MatchString(studentID)
}

func ValidateRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

// NormalizeSubjects lowercases and trims subject tags, dropping empties.
func NormalizeSubjects(subjects []string) []string {
	normalized := make([]string, 0, len(subjects))
	for _, s := range subjects {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			normalized = append(normalized, s)
		}
	}
	return normalized
}

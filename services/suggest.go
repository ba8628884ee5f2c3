package services

import "strings"

// Phrases in a student message that signal difficulty with the material.
var complexityKeywords = []string{
	"difficult", "confused", "don't understand", "need help",
	"struggling", "complex", "advanced", "detailed explanation",
}

// Fixed keyword-to-subject table used to map free-form messages onto tutor
// subject tags.
var subjectKeywords = map[string][]string{
	"math":             {"math", "mathematics", "algebra", "calculus", "geometry", "statistics"},
	"physics":          {"physics", "mechanics", "thermodynamics", "quantum"},
	"chemistry":        {"chemistry", "organic", "inorganic", "biochemistry"},
	"biology":          {"biology", "anatomy", "genetics", "molecular"},
	"computer science": {"programming", "coding", "algorithm", "computer science", "software"},
	"english":          {"english", "literature", "writing", "essay", "grammar"},
	"history":          {"history", "historical", "ancient", "modern history"},
	"economics":        {"economics", "microeconomics", "macroeconomics", "finance"},
}

// SignalsDifficulty reports whether the student's language indicates they may
// want a human tutor.
func SignalsDifficulty(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range complexityKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// IsLongResponse reports whether an AI reply is long enough (>200 words) to
// suggest the topic is complex.
func IsLongResponse(response string) bool {
	return len(strings.Fields(response)) > 200
}

// ExtractSubjects maps a message onto the known subject tags it mentions.
func ExtractSubjects(message string) []string {
	lower := strings.ToLower(message)
	var detected []string
	for subject, keywords := range subjectKeywords {
		for _, keyword := range keywords {
			if strings.Contains(lower, keyword) {
				detected = append(detected, subject)
				break
			}
		}
	}
	return detected
}

package services

import (
	"sort"
	"strings"
	"testing"
)

func TestSignalsDifficulty(t *testing.T) {
	positive := []string{
		"I'm really struggling with this",
		"This is so DIFFICULT for me",
		"i don't understand derivatives",
		"Can I get a detailed explanation?",
	}
	for _, msg := range positive {
		if !SignalsDifficulty(msg) {
			t.Errorf("SignalsDifficulty(%q) = false, want true", msg)
		}
	}

	negative := []string{
		"Thanks, that makes sense!",
		"What time is it?",
		"",
	}
	for _, msg := range negative {
		if SignalsDifficulty(msg) {
			t.Errorf("SignalsDifficulty(%q) = true, want false", msg)
		}
	}
}

func TestIsLongResponse(t *testing.T) {
	short := "A short answer."
	if IsLongResponse(short) {
		t.Error("short response flagged as long")
	}

	long := strings.Repeat("word ", 201)
	if !IsLongResponse(long) {
		t.Error("201-word response not flagged as long")
	}

	exactly := strings.Repeat("word ", 200)
	if IsLongResponse(exactly) {
		t.Error("200-word response flagged as long; threshold is strictly greater")
	}
}

func TestExtractSubjects(t *testing.T) {
	got := ExtractSubjects("I need help with calculus and organic chemistry")
	sort.Strings(got)
	want := []string{"chemistry", "math"}
	if len(got) != len(want) {
		t.Fatalf("ExtractSubjects = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ExtractSubjects = %v, want %v", got, want)
		}
	}

	if subjects := ExtractSubjects("hello there"); len(subjects) != 0 {
		t.Errorf("no-subject message yielded %v", subjects)
	}

	got = ExtractSubjects("PROGRAMMING and Physics")
	sort.Strings(got)
	if len(got) != 2 || got[0] != "computer science" || got[1] != "physics" {
		t.Errorf("case-insensitive extraction = %v", got)
	}
}

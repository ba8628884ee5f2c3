package helpers

import (
	"testing"
	"time"
)

func TestEstimateTokens(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"abc", 0},
		{"abcd", 1},
		{"hello world!", 3},
	}
	for _, tc := range cases {
		if got := EstimateTokens(tc.text); got != tc.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestTruncateText(t *testing.T) {
	if got := TruncateText("short", 10, "..."); got != "short" {
		t.Errorf("short text changed: %q", got)
	}
	if got := TruncateText("abcdefghij", 8, "..."); got != "abcde..." {
		t.Errorf("truncated = %q, want %q", got, "abcde...")
	}
	if got := TruncateText("", 5, "..."); got != "" {
		t.Errorf("empty text changed: %q", got)
	}
	if got := TruncateText("abcdefghij", 2, "..."); got != "ab" {
		t.Errorf("maxLength smaller than suffix: %q, want %q", got, "ab")
	}
	if got := TruncateText("abcdefghij", 0, "..."); got != "" {
		t.Errorf("zero maxLength: %q, want empty", got)
	}
	if got := TruncateText("abcdefghij", -1, "..."); got != "" {
		t.Errorf("negative maxLength: %q, want empty", got)
	}
}

func TestGenerateChatTitle(t *testing.T) {
	cases := []struct {
		message string
		max     int
		want    string
	}{
		{"", 50, "New Chat"},
		{"hello    world", 50, "Hello world"},
		{"what is photosynthesis", 50, "What is photosynthesis"},
		{"   ", 50, "New Chat"},
	}
	for _, tc := range cases {
		if got := GenerateChatTitle(tc.message, tc.max); got != tc.want {
			t.Errorf("GenerateChatTitle(%q, %d) = %q, want %q", tc.message, tc.max, got, tc.want)
		}
	}

	long := "explain the difference between mitosis and meiosis in detail please"
	got := GenerateChatTitle(long, 30)
	if len(got) > 30 {
		t.Errorf("title too long: %d chars (%q)", len(got), got)
	}
	if got[len(got)-3:] != "..." {
		t.Errorf("long title missing ellipsis: %q", got)
	}
}

func TestTimeAgo(t *testing.T) {
	if got := TimeAgo(nil); got != "Never" {
		t.Errorf("TimeAgo(nil) = %q, want Never", got)
	}
	var zero time.Time
	if got := TimeAgo(&zero); got != "Never" {
		t.Errorf("TimeAgo(zero) = %q, want Never", got)
	}

	cases := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "Just now"},
		{90 * time.Second, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{90 * time.Minute, "1 hour ago"},
		{3 * time.Hour, "3 hours ago"},
		{25 * time.Hour, "1 day ago"},
		{3 * 24 * time.Hour, "3 days ago"},
		{8 * 24 * time.Hour, "1 week ago"},
		{15 * 24 * time.Hour, "2 weeks ago"},
		{31 * 24 * time.Hour, "1 month ago"},
		{400 * 24 * time.Hour, "13 months ago"},
	}
	for _, tc := range cases {
		at := time.Now().Add(-tc.ago)
		if got := TimeAgo(&at); got != tc.want {
			t.Errorf("TimeAgo(-%v) = %q, want %q", tc.ago, got, tc.want)
		}
	}
}

func TestPaginate(t *testing.T) {
	p := Paginate(1, 20, 45)
	if p.Pages != 3 {
		t.Errorf("pages = %d, want 3", p.Pages)
	}
	if !p.HasNext || p.HasPrev {
		t.Errorf("page 1 of 3: has_next=%v has_prev=%v", p.HasNext, p.HasPrev)
	}

	p = Paginate(3, 20, 45)
	if p.HasNext || !p.HasPrev {
		t.Errorf("page 3 of 3: has_next=%v has_prev=%v", p.HasNext, p.HasPrev)
	}

	p = Paginate(1, 20, 0)
	if p.Pages != 0 || p.HasNext {
		t.Errorf("empty set: pages=%d has_next=%v", p.Pages, p.HasNext)
	}
}

func TestMaskToken(t *testing.T) {
	short := "abc123"
	if got := MaskToken(short); got != short {
		t.Errorf("short token changed: %q", got)
	}

	long := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.payload.sig"
	got := MaskToken(long)
	want := "eyJhbGciOi" + "..." + "ad.sig"
	if got != want {
		t.Errorf("MaskToken = %q, want %q", got, want)
	}
}

func TestGenerateRequestID(t *testing.T) {
	a := GenerateRequestID()
	b := GenerateRequestID()
	if a == "" || a == b {
		t.Errorf("request ids must be unique and non-empty: %q, %q", a, b)
	}
}

package helpers

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateRequestID mints a unique id attached to every request and response.
func GenerateRequestID() string {
	return uuid.NewString()
}

// EstimateTokens approximates token usage for a piece of text. Rough
// estimation: 1 token per 4 characters, integer division.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// TruncateText cuts text to maxLength, appending the suffix when it had to
// cut. When maxLength cannot fit the suffix, the text is cut plain.
func TruncateText(text string, maxLength int, suffix string) string {
	if maxLength <= 0 {
		return ""
	}
	if text == "" || len(text) <= maxLength {
		return text
	}
	if maxLength <= len(suffix) {
		return text[:maxLength]
	}
	return text[:maxLength-len(suffix)] + suffix
}

// GenerateChatTitle derives a chat title from the first message: internal
// whitespace collapsed, truncated, first letter capitalized.
func GenerateChatTitle(firstMessage string, maxLength int) string {
	if firstMessage == "" {
		return "New Chat"
	}

	title := strings.Join(strings.Fields(firstMessage), " ")
	title = TruncateText(title, maxLength-3, "...")

	if title != "" {
		title = strings.ToUpper(title[:1]) + title[1:]
	}
	if title == "" {
		return "New Chat"
	}
	return title
}

// TimeAgo renders a human-readable difference from now.
func TimeAgo(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "Never"
	}

	diff := time.Since(*t)
	days := int(diff.Hours()) / 24

	if days > 0 {
		switch {
		case days == 1:
			return "1 day ago"
		case days < 7:
			return fmt.Sprintf("%d days ago", days)
		case days < 30:
			return plural(days/7, "week")
		default:
			return plural(days/30, "month")
		}
	}

	if hours := int(diff.Hours()); hours > 0 {
		return plural(hours, "hour")
	}
	if minutes := int(diff.Minutes()); minutes > 0 {
		return plural(minutes, "minute")
	}
	return "Just now"
}

func plural(n int, unit string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss ago", n, unit)
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}

// Pagination is the envelope attached to paginated list responses.
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int64 `json:"pages"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

func Paginate(page, perPage int, total int64) Pagination {
	pages := int64(0)
	if perPage > 0 {
		pages = (total + int64(perPage) - 1) / int64(perPage)
	}
	return Pagination{
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   pages,
		HasNext: int64(page*perPage) < total,
		HasPrev: page > 1,
	}
}

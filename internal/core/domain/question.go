package domain

import (
	"strings"
	"time"
)

// Question is a post asking for answers. Answers live in their own collection
// and reference the question by ID.
type Question struct {
	ID             string       `json:"_id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Tags           []string     `json:"tags"`
	AuthorID       string       `json:"-"`
	Author         *UserSummary `json:"author"`
	Views          int64        `json:"views"`
	AcceptedAnswer string       `json:"acceptedAnswer,omitempty"`
	AnswersCount   int64        `json:"answersCount"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// IsOwnedBy reports whether userID authored the question.
func (q *Question) IsOwnedBy(userID string) bool {
	return q.AuthorID != "" && q.AuthorID == userID
}

const maxTags = 10

// NormalizeTags trims, lowercases and de-duplicates tags, preserving the
// order in which they first appear. Empty tags are dropped.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == maxTags {
			break
		}
	}
	return out
}

package domain

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractMentions(t *testing.T) {
	got := ExtractMentions("hey @alice and @bob_2, see @alice")
	assert.Equal(t, map[string]struct{}{"alice": {}, "bob_2": {}}, got)
}

func TestExtractMentions_CaseSensitiveAndBoundaries(t *testing.T) {
	got := MentionList("@Alice @alice mail me at x@y.com, @ alone, @under_score!")
	sort.Strings(got)
	assert.Equal(t, []string{"Alice", "alice", "under_score", "y"}, got)
}

func TestExtractMentions_None(t *testing.T) {
	assert.Empty(t, ExtractMentions("no handles here"))
	assert.Empty(t, MentionList(""))
}

func TestNotificationBuilders(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	n := NewReplyNotification(NotificationAnswer, "owner", "q1", "How to Go?", now)
	assert.Equal(t, NotificationAnswer, n.Type)
	assert.Equal(t, `Someone answered your question: "How to Go?"`, n.Message)
	assert.Equal(t, "/questions/q1", n.Link)
	assert.False(t, n.Read)

	n = NewReplyNotification(NotificationAnswer, "owner", "q1", "Why \"nil\" != nil? café\ttab", now)
	assert.Equal(t, "Someone answered your question: \"Why \"nil\" != nil? café\ttab\"", n.Message,
		"the title is quoted as written, not escaped")

	n = NewReplyNotification(NotificationComment, "owner", "q1", "", now)
	assert.Equal(t, "Someone commented on your answer", n.Message)

	m := NewMentionNotification(NotificationComment, "m", "q1", now)
	assert.Equal(t, NotificationMention, m.Type)
	assert.Equal(t, "You were mentioned in a comment", m.Message)
	assert.Equal(t, "You were mentioned in an answer", NewMentionNotification(NotificationAnswer, "m", "q1", now).Message)
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"go", "mongodb"}, NormalizeTags([]string{" Go", "go", "", "MongoDB "}))
	assert.Empty(t, NormalizeTags(nil))
}

func TestCanDelete(t *testing.T) {
	author := &User{ID: "a", Role: RoleUser}
	other := &User{ID: "b", Role: RoleUser}
	admin := &User{ID: "c", Role: RoleAdmin}

	assert.True(t, CanDelete(author, "a"))
	assert.False(t, CanDelete(other, "a"))
	assert.True(t, CanDelete(admin, "a"))
	assert.False(t, CanDelete(nil, "a"))
}

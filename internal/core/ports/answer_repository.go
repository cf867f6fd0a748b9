package ports

import (
	"context"
	"time"

	"github.com/devforum/qa-board/internal/core/domain"
)

// AnswerRepository defines persistence operations for answers and their
// embedded comments and vote ledger.
type AnswerRepository interface {
	// Create inserts a and assigns a.ID.
	Create(ctx context.Context, a *domain.Answer) error
	FindByID(ctx context.Context, id string) (*domain.Answer, error)
	// ListByQuestion returns a question's answers, newest first.
	ListByQuestion(ctx context.Context, questionID string) ([]*domain.Answer, error)
	// CountByQuestions returns answer counts keyed by question ID. Questions
	// without answers are absent from the map.
	CountByQuestions(ctx context.Context, questionIDs []string) (map[string]int64, error)
	UpdateText(ctx context.Context, id, text string, now time.Time) error
	Delete(ctx context.Context, id string) error
	DeleteByQuestion(ctx context.Context, questionID string) (int64, error)

	// AddComment appends c to the answer's thread and assigns c.ID.
	AddComment(ctx context.Context, answerID string, c *domain.Comment) error
	RemoveComment(ctx context.Context, answerID, commentID string) error

	// RecordVote applies change in a single document update, conditioned on
	// the voter's recorded direction still being change.Previous (absent
	// when empty). Returns domain.ErrVoteRace when the condition fails.
	RecordVote(ctx context.Context, answerID, voterID string, change domain.VoteChange) (*domain.Answer, error)

	// MarkAccepted sets isAccepted on answerID and clears it on every other
	// answer of the question, skipping documents already written with a
	// sequence >= seq.
	MarkAccepted(ctx context.Context, questionID, answerID string, seq int64) error
}

package ports

import (
	"context"

	"github.com/devforum/qa-board/internal/core/domain"
)

// ListQuestionsFilter carries the optional query parameters for listing
// questions. Zero values mean "no filter".
type ListQuestionsFilter struct {
	Tag    string // exact tag match
	Search string // case-insensitive partial match on title or description
	Page   int    // 1-based
	Limit  int    // 0 = no limit
}

// QuestionRepository defines persistence operations for questions.
type QuestionRepository interface {
	// Create inserts q and assigns q.ID.
	Create(ctx context.Context, q *domain.Question) error
	FindByID(ctx context.Context, id string) (*domain.Question, error)
	// List returns questions newest first and the total matching count.
	List(ctx context.Context, filter ListQuestionsFilter) ([]*domain.Question, int64, error)
	// Update persists title, description, tags and updatedAt.
	Update(ctx context.Context, q *domain.Question) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	// NextAcceptSeq records answerID as the accepted answer and returns a
	// fencing sequence strictly greater than any previously issued for the
	// question.
	NextAcceptSeq(ctx context.Context, questionID, answerID string) (int64, error)
}

// ViewCounter decides whether a fetch counts as a new view.
type ViewCounter interface {
	FirstView(ctx context.Context, questionID, viewer string) (bool, error)
}

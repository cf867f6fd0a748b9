package ports

import (
	"context"

	"github.com/devforum/qa-board/internal/core/domain"
)

// CreateQuestionInput carries the data needed to post a question.
type CreateQuestionInput struct {
	AuthorID    string
	Title       string
	Description string
	Tags        []string
}

// UpdateQuestionInput carries a partial edit; nil fields are left unchanged.
type UpdateQuestionInput struct {
	ID          string
	ActorID     string
	Title       *string
	Description *string
	Tags        []string
}

// ListQuestionsInput carries the list endpoint's query parameters.
type ListQuestionsInput struct {
	Tag    string
	Search string
	Page   int
	Limit  int
}

// QuestionService defines use-case operations for questions.
type QuestionService interface {
	List(ctx context.Context, in ListQuestionsInput) ([]*domain.Question, int64, error)
	// Get fetches a question and counts a view for viewer (an opaque key such
	// as a user ID or client IP; empty skips counting).
	Get(ctx context.Context, id, viewer string) (*domain.Question, error)
	Create(ctx context.Context, in CreateQuestionInput) (*domain.Question, error)
	Update(ctx context.Context, in UpdateQuestionInput) (*domain.Question, error)
	// Delete removes the question and all of its answers.
	Delete(ctx context.Context, id, actorID string) error
}

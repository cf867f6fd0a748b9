package ports

import (
	"context"

	"github.com/devforum/qa-board/internal/core/domain"
)

// CreateAnswerInput carries the data needed to answer a question.
type CreateAnswerInput struct {
	QuestionID string
	AuthorID   string
	Text       string
}

// AnswerService defines use-case operations for answers, comments, votes and
// acceptance. Returned answers have authors and comment authors populated.
type AnswerService interface {
	Create(ctx context.Context, in CreateAnswerInput) (*domain.Answer, error)
	Get(ctx context.Context, id string) (*domain.Answer, error)
	ListByQuestion(ctx context.Context, questionID string) ([]*domain.Answer, error)
	Update(ctx context.Context, id, actorID, text string) (*domain.Answer, error)
	Delete(ctx context.Context, id, actorID string) error

	AddComment(ctx context.Context, answerID, authorID, text string) (*domain.Comment, error)
	DeleteComment(ctx context.Context, answerID, commentID, actorID string) error

	Vote(ctx context.Context, answerID, voterID string, dir domain.VoteDirection) (*domain.Answer, error)
	// Accept marks the answer as the accepted one for its question and
	// returns the question's refreshed answer list.
	Accept(ctx context.Context, answerID, requesterID string) ([]*domain.Answer, error)
}

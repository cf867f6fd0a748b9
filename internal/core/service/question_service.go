package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/devforum/qa-board/internal/core/domain"
	"github.com/devforum/qa-board/internal/core/ports"
	"github.com/devforum/qa-board/internal/pkg/richtext"
)

const maxPageSize = 100

type QuestionService struct {
	questions ports.QuestionRepository
	answers   ports.AnswerRepository
	users     ports.UserRepository
	authors   authorDirectory
	views     ports.ViewCounter
	logger    zerolog.Logger
}

func NewQuestionService(
	questions ports.QuestionRepository,
	answers ports.AnswerRepository,
	users ports.UserRepository,
	views ports.ViewCounter,
	logger zerolog.Logger,
) *QuestionService {
	return &QuestionService{
		questions: questions,
		answers:   answers,
		users:     users,
		authors:   authorDirectory{users: users},
		views:     views,
		logger:    logger,
	}
}

// List returns questions newest first with authors and answer counts filled
// in, plus the total number of matches.
func (s *QuestionService) List(ctx context.Context, in ports.ListQuestionsInput) ([]*domain.Question, int64, error) {
	filter := ports.ListQuestionsFilter{
		Tag:    strings.ToLower(strings.TrimSpace(in.Tag)),
		Search: strings.TrimSpace(in.Search),
		Page:   in.Page,
		Limit:  in.Limit,
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Limit < 0 {
		filter.Limit = 0
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	qs, total, err := s.questions.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list questions: %w", err)
	}
	if len(qs) == 0 {
		return []*domain.Question{}, total, nil
	}

	ids := make([]string, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
	}
	counts, err := s.answers.CountByQuestions(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("count answers: %w", err)
	}
	for _, q := range qs {
		q.AnswersCount = counts[q.ID]
	}

	if err := s.authors.populateQuestions(ctx, qs...); err != nil {
		return nil, 0, err
	}
	return qs, total, nil
}

func (s *QuestionService) Get(ctx context.Context, id, viewer string) (*domain.Question, error) {
	q, err := s.questions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if viewer != "" && s.views != nil {
		s.countView(ctx, q, viewer)
	}

	if err := s.authors.populateQuestions(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// countView is best effort: a failed counter never fails the read.
func (s *QuestionService) countView(ctx context.Context, q *domain.Question, viewer string) {
	first, err := s.views.FirstView(ctx, q.ID, viewer)
	if err != nil {
		s.logger.Warn().Err(err).Str("question_id", q.ID).Msg("view dedup check failed")
		return
	}
	if !first {
		return
	}
	if err := s.questions.IncrementViews(ctx, q.ID); err != nil {
		s.logger.Warn().Err(err).Str("question_id", q.ID).Msg("failed to increment views")
		return
	}
	q.Views++
}

func (s *QuestionService) Create(ctx context.Context, in ports.CreateQuestionInput) (*domain.Question, error) {
	title := strings.TrimSpace(in.Title)
	description := richtext.Sanitize(in.Description)
	if title == "" || richtext.IsBlank(description) {
		return nil, domain.Invalid("title and description are required")
	}

	if _, err := s.users.FindByID(ctx, in.AuthorID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	q := &domain.Question{
		Title:       title,
		Description: description,
		Tags:        domain.NormalizeTags(in.Tags),
		AuthorID:    in.AuthorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.questions.Create(ctx, q); err != nil {
		s.logger.Error().Err(err).Msg("failed to create question")
		return nil, err
	}

	s.logger.Info().Str("question_id", q.ID).Str("author_id", q.AuthorID).Msg("question created")

	if err := s.authors.populateQuestions(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) Update(ctx context.Context, in ports.UpdateQuestionInput) (*domain.Question, error) {
	q, err := s.questions.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if !q.IsOwnedBy(in.ActorID) {
		return nil, domain.Forbidden("not authorized to edit this question")
	}

	if in.Title != nil {
		if t := strings.TrimSpace(*in.Title); t != "" {
			q.Title = t
		}
	}
	if in.Description != nil {
		if d := richtext.Sanitize(*in.Description); !richtext.IsBlank(d) {
			q.Description = d
		}
	}
	if in.Tags != nil {
		q.Tags = domain.NormalizeTags(in.Tags)
	}
	q.UpdatedAt = time.Now().UTC()

	if err := s.questions.Update(ctx, q); err != nil {
		return nil, err
	}
	if err := s.authors.populateQuestions(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Delete removes every answer that references the question, then the question
// itself. Answers take their embedded comments with them. A failure leaves the
// question in place so the delete can be retried.
func (s *QuestionService) Delete(ctx context.Context, id, actorID string) error {
	q, err := s.questions.FindByID(ctx, id)
	if err != nil {
		return err
	}
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !domain.CanDelete(actor, q.AuthorID) {
		return domain.Forbidden("not authorized to delete this question")
	}

	removed, err := s.answers.DeleteByQuestion(ctx, id)
	if err != nil {
		return fmt.Errorf("delete answers of question %s: %w", id, err)
	}
	if err := s.questions.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().
		Str("question_id", id).
		Str("actor_id", actorID).
		Int64("answers_removed", removed).
		Msg("question deleted")
	return nil
}

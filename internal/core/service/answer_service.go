package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/devforum/qa-board/internal/core/domain"
	"github.com/devforum/qa-board/internal/core/ports"
	"github.com/devforum/qa-board/internal/pkg/richtext"
)

// voteAttempts bounds how often a vote is re-decided after losing a race
// against another vote by the same user.
const voteAttempts = 3

type AnswerService struct {
	answers   ports.AnswerRepository
	questions ports.QuestionRepository
	users     ports.UserRepository
	authors   authorDirectory
	notifier  ports.NotificationDispatcher
	logger    zerolog.Logger
}

func NewAnswerService(
	answers ports.AnswerRepository,
	questions ports.QuestionRepository,
	users ports.UserRepository,
	notifier ports.NotificationDispatcher,
	logger zerolog.Logger,
) *AnswerService {
	return &AnswerService{
		answers:   answers,
		questions: questions,
		users:     users,
		authors:   authorDirectory{users: users},
		notifier:  notifier,
		logger:    logger,
	}
}

func (s *AnswerService) Create(ctx context.Context, in ports.CreateAnswerInput) (*domain.Answer, error) {
	text := richtext.Sanitize(in.Text)
	if richtext.IsBlank(text) {
		return nil, domain.Invalid("answer text is required")
	}

	q, err := s.questions.FindByID(ctx, in.QuestionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	a := &domain.Answer{
		QuestionID: q.ID,
		AuthorID:   in.AuthorID,
		Text:       text,
		Voters:     map[string]domain.VoteDirection{},
		Comments:   []domain.Comment{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.answers.Create(ctx, a); err != nil {
		s.logger.Error().Err(err).Str("question_id", q.ID).Msg("failed to create answer")
		return nil, err
	}

	s.logger.Info().
		Str("answer_id", a.ID).
		Str("question_id", q.ID).
		Str("author_id", a.AuthorID).
		Msg("answer created")

	s.notify(ports.NotificationJob{
		Source:        domain.NotificationAnswer,
		ActorID:       in.AuthorID,
		RecipientID:   q.AuthorID,
		QuestionID:    q.ID,
		QuestionTitle: q.Title,
		Text:          in.Text, // mentions are scanned on what the author wrote
	})

	if err := s.authors.populateAnswers(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AnswerService) Get(ctx context.Context, id string) (*domain.Answer, error) {
	a, err := s.answers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authors.populateAnswers(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AnswerService) ListByQuestion(ctx context.Context, questionID string) ([]*domain.Answer, error) {
	as, err := s.answers.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if len(as) == 0 {
		return []*domain.Answer{}, nil
	}
	if err := s.authors.populateAnswers(ctx, as...); err != nil {
		return nil, err
	}
	return as, nil
}

func (s *AnswerService) Update(ctx context.Context, id, actorID, text string) (*domain.Answer, error) {
	a, err := s.answers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.IsOwnedBy(actorID) {
		return nil, domain.Forbidden("not authorized to edit this answer")
	}

	clean := richtext.Sanitize(text)
	if richtext.IsBlank(clean) {
		return nil, domain.Invalid("answer text is required")
	}

	now := time.Now().UTC()
	if err := s.answers.UpdateText(ctx, id, clean, now); err != nil {
		return nil, err
	}
	a.Text = clean
	a.UpdatedAt = now

	if err := s.authors.populateAnswers(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AnswerService) Delete(ctx context.Context, id, actorID string) error {
	a, err := s.answers.FindByID(ctx, id)
	if err != nil {
		return err
	}
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !domain.CanDelete(actor, a.AuthorID) {
		return domain.Forbidden("not authorized to delete this answer")
	}

	if err := s.answers.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("answer_id", id).Str("actor_id", actorID).Msg("answer deleted")
	return nil
}

func (s *AnswerService) AddComment(ctx context.Context, answerID, authorID, text string) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.Invalid("comment text is required")
	}

	a, err := s.answers.FindByID(ctx, answerID)
	if err != nil {
		return nil, err
	}

	c := &domain.Comment{
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.answers.AddComment(ctx, answerID, c); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("answer_id", answerID).
		Str("comment_id", c.ID).
		Str("author_id", authorID).
		Msg("comment added")

	s.notify(ports.NotificationJob{
		Source:      domain.NotificationComment,
		ActorID:     authorID,
		RecipientID: a.AuthorID,
		QuestionID:  a.QuestionID,
		Text:        text,
	})

	byID, err := s.authors.lookup(ctx, []string{authorID})
	if err != nil {
		return nil, err
	}
	c.Author = summaryOf(byID, authorID)
	return c, nil
}

func (s *AnswerService) DeleteComment(ctx context.Context, answerID, commentID, actorID string) error {
	a, err := s.answers.FindByID(ctx, answerID)
	if err != nil {
		return err
	}
	c, ok := a.Comment(commentID)
	if !ok {
		return domain.ErrCommentNotFound
	}
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !domain.CanDelete(actor, c.AuthorID) {
		return domain.Forbidden("not authorized to delete this comment")
	}

	if err := s.answers.RemoveComment(ctx, answerID, commentID); err != nil {
		return err
	}
	s.logger.Info().Str("answer_id", answerID).Str("comment_id", commentID).Msg("comment deleted")
	return nil
}

// Vote records voterID's vote. The decision is made against the direction
// currently stored for the voter and committed only if that direction is
// still in place, so concurrent votes by one user cannot double count.
func (s *AnswerService) Vote(ctx context.Context, answerID, voterID string, dir domain.VoteDirection) (*domain.Answer, error) {
	if !dir.Valid() {
		return nil, domain.ErrInvalidVoteType
	}

	for attempt := 1; attempt <= voteAttempts; attempt++ {
		a, err := s.answers.FindByID(ctx, answerID)
		if err != nil {
			return nil, err
		}

		change, err := domain.DecideVote(a.Voters[voterID], dir)
		if err != nil {
			return nil, err
		}

		updated, err := s.answers.RecordVote(ctx, answerID, voterID, change)
		if errors.Is(err, domain.ErrVoteRace) {
			s.logger.Debug().
				Str("answer_id", answerID).
				Str("voter_id", voterID).
				Int("attempt", attempt).
				Msg("vote raced, retrying")
			continue
		}
		if err != nil {
			return nil, err
		}

		if err := s.authors.populateAnswers(ctx, updated); err != nil {
			return nil, err
		}
		return updated, nil
	}

	return nil, &domain.Error{Kind: domain.ErrConflict, Msg: "vote changed concurrently, try again"}
}

// Accept lets the question author pick an answer. Every accept draws a new
// sequence number from the question and the answers only take writes with
// a higher number, so racing accepts converge on a single winner.
func (s *AnswerService) Accept(ctx context.Context, answerID, requesterID string) ([]*domain.Answer, error) {
	a, err := s.answers.FindByID(ctx, answerID)
	if err != nil {
		return nil, err
	}
	q, err := s.questions.FindByID(ctx, a.QuestionID)
	if err != nil {
		return nil, err
	}
	if !q.IsOwnedBy(requesterID) {
		return nil, domain.Forbidden("only the question author can accept an answer")
	}

	seq, err := s.questions.NextAcceptSeq(ctx, q.ID, a.ID)
	if err != nil {
		return nil, err
	}
	if err := s.answers.MarkAccepted(ctx, q.ID, a.ID, seq); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("question_id", q.ID).
		Str("answer_id", a.ID).
		Int64("accept_seq", seq).
		Msg("answer accepted")

	return s.ListByQuestion(ctx, q.ID)
}

func (s *AnswerService) notify(job ports.NotificationJob) {
	if s.notifier == nil {
		return
	}
	s.notifier.Enqueue(job)
}

package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/devforum/qa-board/internal/core/domain"
	"github.com/devforum/qa-board/internal/core/ports"
)

// recentNotifications is how many notifications a user sees at once.
const recentNotifications = 20

type NotificationService struct {
	notifications ports.NotificationRepository
	users         ports.UserRepository
	logger        zerolog.Logger
}

func NewNotificationService(notifications ports.NotificationRepository, users ports.UserRepository, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		logger:        logger,
	}
}

// Dispatch fans one committed answer or comment out into notifications: one
// for the owner of the replied-to content, then one per mentioned user that
// exists. The actor is never notified about their own activity.
func (s *NotificationService) Dispatch(ctx context.Context, job ports.NotificationJob) error {
	now := time.Now().UTC()
	log := s.logger.With().
		Str("question_id", job.QuestionID).
		Str("source", string(job.Source)).
		Logger()

	if job.RecipientID != "" && job.RecipientID != job.ActorID {
		n := domain.NewReplyNotification(job.Source, job.RecipientID, job.QuestionID, job.QuestionTitle, now)
		if err := s.notifications.Create(ctx, n); err != nil {
			return err
		}
		log.Debug().Str("recipient_id", job.RecipientID).Msg("reply notification created")
	}

	handles := domain.MentionList(job.Text)
	if len(handles) == 0 {
		return nil
	}

	mentioned, err := s.users.FindByUsernames(ctx, handles)
	if err != nil {
		return err
	}
	for _, u := range mentioned {
		if u.ID == job.ActorID {
			continue
		}
		n := domain.NewMentionNotification(job.Source, u.ID, job.QuestionID, now)
		if err := s.notifications.Create(ctx, n); err != nil {
			return err
		}
	}
	log.Debug().Int("mentions", len(mentioned)).Msg("mention notifications created")
	return nil
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]*domain.Notification, error) {
	ns, err := s.notifications.ListRecent(ctx, userID, recentNotifications)
	if err != nil {
		return nil, err
	}
	if ns == nil {
		ns = []*domain.Notification{}
	}
	return ns, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) (*domain.Notification, error) {
	return s.notifications.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.logger.Debug().Str("user_id", userID).Int64("updated", n).Msg("notifications marked read")
	return n, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.notifications.CountUnread(ctx, userID)
}

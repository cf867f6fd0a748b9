package ports

import (
	"context"

	"github.com/devforum/qa-board/internal/core/domain"
)

// NotificationJob describes a committed write whose side effects still have
// to be fanned out.
type NotificationJob struct {
	Source        domain.NotificationType // answer or comment
	ActorID       string
	RecipientID   string // owner of the replied-to content
	QuestionID    string
	QuestionTitle string
	Text          string // scanned for @mentions
}

// NotificationService creates and serves notifications.
type NotificationService interface {
	Dispatch(ctx context.Context, job NotificationJob) error
	List(ctx context.Context, userID string) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, userID, id string) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

// NotificationDispatcher hands jobs to the asynchronous pipeline. Enqueue
// never blocks the caller on notification work.
type NotificationDispatcher interface {
	Enqueue(job NotificationJob)
}

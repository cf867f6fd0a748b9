package ports

import (
	"context"

	"github.com/devforum/qa-board/internal/core/domain"
)

// NotificationRepository persists notifications. Only the read flag is ever
// updated after insert.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	// ListRecent returns the user's notifications, newest first.
	ListRecent(ctx context.Context, userID string, limit int) ([]*domain.Notification, error)
	// MarkRead flips read on a notification owned by userID.
	MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
}

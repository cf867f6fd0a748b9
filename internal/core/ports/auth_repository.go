package ports

import (
	"context"
	"time"

	"github.com/devforum/qa-board/internal/core/domain"
)

// UserRepository defines the persistence operations for user identities.
type UserRepository interface {
	// Create inserts user and returns the stored copy with its ID assigned.
	// Returns domain.ErrUserExists when the username or email is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIDs returns the users that exist among ids; unknown or malformed
	// ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	// FindByUsernames resolves handles in one query; unknown handles are
	// skipped.
	FindByUsernames(ctx context.Context, usernames []string) ([]*domain.User, error)
	UpdateRole(ctx context.Context, id, role string) (*domain.User, error)
}

// SessionStore tracks revoked session credentials until they expire.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

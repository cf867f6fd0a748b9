package ports

import (
	"context"
	"time"

	"github.com/devforum/qa-board/internal/core/domain"
)

// RegisterInput carries the fields accepted at sign-up.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Session is an issued credential.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Principal is the identity resolved from a credential.
type Principal struct {
	UserID    string
	Username  string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	// Authenticate validates a raw token and rejects revoked sessions.
	Authenticate(ctx context.Context, token string) (*Principal, error)
	Logout(ctx context.Context, p *Principal) error
	Profile(ctx context.Context, userID string) (*domain.User, error)
	SetRole(ctx context.Context, userID, role string) (*domain.User, error)
}

package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/devforum/qa-board/internal/core/domain"
	"github.com/devforum/qa-board/internal/core/ports"
)

// Context keys set by Auth and OptionalAuth.
const (
	ContextKeyPrincipal = "principal"
	ContextKeyUserID    = "user_id"
	ContextKeyRole      = "role"
)

// TokenCookie is the HTTP-only cookie that carries the session token.
const TokenCookie = "token"

// Authenticator resolves a raw session token to the caller.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*ports.Principal, error)
}

// Auth validates the session token from the cookie or the Authorization
// header and injects the caller into the context. Requests without a valid
// token stop here with an unauthenticated error.
func Auth(authn Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := extractToken(c)
			if err != nil {
				return err
			}

			p, err := authn.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}
			setPrincipal(c, p)
			return next(c)
		}
	}
}

// OptionalAuth injects the caller when a valid token is present and lets
// anonymous requests through untouched.
func OptionalAuth(authn Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token, err := extractToken(c); err == nil {
				if p, err := authn.Authenticate(c.Request().Context(), token); err == nil {
					setPrincipal(c, p)
				}
			}
			return next(c)
		}
	}
}

// extractToken prefers the session cookie and falls back to a bearer header.
func extractToken(c echo.Context) (string, error) {
	if ck, err := c.Cookie(TokenCookie); err == nil && ck.Value != "" {
		return ck.Value, nil
	}

	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", &domain.Error{Kind: domain.ErrUnauthenticated, Msg: "missing credentials"}
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", &domain.Error{Kind: domain.ErrUnauthenticated, Msg: "invalid authorization header"}
	}
	return strings.TrimSpace(parts[1]), nil
}

func setPrincipal(c echo.Context, p *ports.Principal) {
	c.Set(ContextKeyPrincipal, p)
	c.Set(ContextKeyUserID, p.UserID)
	c.Set(ContextKeyRole, p.Role)
}

// PrincipalFrom returns the caller injected by Auth or OptionalAuth, or nil
// for anonymous requests.
func PrincipalFrom(c echo.Context) *ports.Principal {
	p, _ := c.Get(ContextKeyPrincipal).(*ports.Principal)
	return p
}

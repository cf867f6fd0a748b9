package handler

import (
	"net"

	"github.com/labstack/echo/v4"

	"github.com/devforum/qa-board/internal/api/middleware"
	"github.com/devforum/qa-board/internal/core/domain"
	"github.com/devforum/qa-board/internal/core/ports"
)

// currentPrincipal returns the caller injected by the Auth middleware. Its
// absence means the route was wired without Auth, which is reported as
// unauthenticated rather than trusted.
func currentPrincipal(c echo.Context) (*ports.Principal, error) {
	p := middleware.PrincipalFrom(c)
	if p == nil || p.UserID == "" {
		return nil, &domain.Error{Kind: domain.ErrUnauthenticated, Msg: "missing authentication claims"}
	}
	return p, nil
}

// viewerKey identifies the caller for view counting: the user ID when signed
// in, the client IP otherwise.
func viewerKey(c echo.Context) string {
	if p := middleware.PrincipalFrom(c); p != nil && p.UserID != "" {
		return "user:" + p.UserID
	}
	if ip := c.RealIP(); ip != "" {
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
		return "ip:" + ip
	}
	return ""
}

// bindAndValidate decodes the request body into req and runs its validate
// tags. A malformed body is a validation error.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Invalid("invalid payload")
	}
	return c.Validate(req)
}

// messageResponse is the body of operations that return no entity.
type messageResponse struct {
	Message string `json:"message"`
}

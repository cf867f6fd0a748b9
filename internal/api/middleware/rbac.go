package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/devforum/qa-board/internal/core/domain"
)

// RBAC enforces role-based access control on routes behind Auth.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextKeyRole).(string)
			if _, ok := allowed[role]; !ok {
				return domain.Forbidden("insufficient role")
			}
			return next(c)
		}
	}
}

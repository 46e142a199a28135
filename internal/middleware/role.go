package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/driveease/car-rental-api/internal/model"
)

// RequireRole enforces that the authenticated user's role is in the
// allowed set.  The role claim is re-parsed against the closed Role
// enumeration rather than compared as a raw string, so an unknown or
// tampered claim value can never satisfy the check.  JWTAuth must run
// earlier in the chain.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := c.Get("role").(string)
			if !ok {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			role, ok := model.ParseRole(s)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jordanlanch/brokerhub/pkg/models"
	"github.com/jordanlanch/brokerhub/pkg/store"
)

// RequireAdmin middleware ensures the authenticated user has the admin
// role. The role is re-read from the store so a demotion takes effect
// before the token expires. Apply AFTER JWT authentication middleware.
func RequireAdmin(st *store.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := c.Get("user_id").(string)
			if !ok || userID == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error":   "unauthorized",
					"message": "Authentication required",
				})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
			defer cancel()

			u, err := st.UserByID(ctx, userID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error":   "user_not_found",
					"message": "User not found",
				})
			}

			if u.Role != models.RoleAdmin {
				return c.JSON(http.StatusForbidden, map[string]interface{}{
					"error":   "insufficient_permissions",
					"message": "Admin access required",
				})
			}

			c.Set("user_role", u.Role)

			return next(c)
		}
	}
}

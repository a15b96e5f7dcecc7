package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/internal/model"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/internal/store"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/pkg/jwtutil"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/pkg/logger"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/prometheus"
)

// UserContextKey is where Auth stores the resolved user in the echo context.
const UserContextKey = "user"

// Auth validates the Bearer session token and resolves the current user record
// from the directory, so role or active-status changes apply without re-login.
func Auth(jwtUtil *jwtutil.JWTUtil, users store.UserStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing Authorization header")
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "No authorization header",
				})
			}

			// Exactly two space-separated parts with the Bearer scheme.
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Warn("Invalid Authorization header format")
				prometheus.RecordAuthError("invalid_auth_format")
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "Invalid authorization format",
				})
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid session token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "Invalid or expired token",
				})
			}

			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					log.Warn("Session user no longer exists", zap.Uint("user_id", claims.UserID))
					prometheus.RecordAuthError("user_not_found")
					return c.JSON(http.StatusUnauthorized, echo.Map{
						"success": false,
						"message": "User not found",
					})
				}
				log.Error("Failed to resolve session user", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, echo.Map{
					"success": false,
					"message": "Authentication error",
				})
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user stored by Auth.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(UserContextKey).(*model.User)
	return user
}

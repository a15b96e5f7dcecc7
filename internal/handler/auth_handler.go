package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/internal/googleauth"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/internal/middleware"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/internal/store"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/pkg/config"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/pkg/jwtutil"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/pkg/logger"
	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/prometheus"
)

// AuthHandler wires the Google verifier, the user directory, and the session
// issuer behind the /api/auth endpoints.
type AuthHandler struct {
	verifier googleauth.Verifier
	users    store.UserStore
	jwtUtil  *jwtutil.JWTUtil
	google   config.GoogleConfig
}

func NewAuthHandler(verifier googleauth.Verifier, users store.UserStore, jwtUtil *jwtutil.JWTUtil, google config.GoogleConfig) *AuthHandler {
	return &AuthHandler{
		verifier: verifier,
		users:    users,
		jwtUtil:  jwtUtil,
		google:   google,
	}
}

// GoogleLogin exchanges a Google ID token for a session token. Token
// verification runs before the domain gate; only a verified email is checked
// against the campus domain.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginAttemptsCounter.Inc()

	var req struct {
		Token string `json:"token"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Invalid request data",
		})
	}
	if req.Token == "" {
		log.Warn("Login attempt without token")
		prometheus.RecordAuthError("missing_credential")
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Authentication token is required",
		})
	}

	claims, err := h.verifier.Verify(c.Request().Context(), req.Token)
	if err != nil {
		log.Warn("Google token verification failed", zap.Error(err))
		prometheus.RecordAuthError("invalid_credential")
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Authentication failed",
		})
	}

	if err := googleauth.CheckDomain(claims.Email, h.google.AllowedDomain); err != nil {
		log.Warn("Domain restriction failed", zap.String("email", claims.Email))
		prometheus.RecordAuthError("domain_not_allowed")
		return c.JSON(http.StatusForbidden, echo.Map{
			"success":   false,
			"message":   fmt.Sprintf("Only campus students can access this platform. Please use your @%s email address.", h.google.AllowedDomain),
			"emailUsed": claims.Email,
		})
	}

	user, err := h.users.FindOrCreate(c.Request().Context(), claims, h.google.AllowedDomain)
	if err != nil {
		log.Error("Failed to find or create user", zap.Error(err))
		prometheus.RecordAuthError("directory_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Login failed",
		})
	}

	token, err := h.jwtUtil.GenerateToken(user.ID, user.Email, user.Name)
	if err != nil {
		log.Error("Failed to generate session token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Login failed",
		})
	}

	prometheus.LoginSuccessCounter.Inc()
	log.Info("User logged in",
		zap.Uint("user_id", user.ID),
		zap.String("email", user.Email))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user": echo.Map{
			"id":      user.ID,
			"name":    user.Name,
			"email":   user.Email,
			"picture": user.Picture,
		},
	})
}

// VerifySession answers with the current user record behind the auth middleware.
func (h *AuthHandler) VerifySession(c echo.Context) error {
	user := middleware.CurrentUser(c)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user":    user,
	})
}

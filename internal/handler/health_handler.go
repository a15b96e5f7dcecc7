package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthCheck handles the health check endpoint
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": "lostfound-service",
	})
}

// APITest is a self-description ping for quick manual checks.
func APITest(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Lost & Found API is working!",
		"timestamp": time.Now().Format(time.RFC3339),
		"endpoints": echo.Map{
			"auth":  "/api/auth",
			"items": "/api/items",
		},
	})
}

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health answers the editor's readiness probe.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "quartz render service working",
	})
}

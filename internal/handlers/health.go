package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type HealthHandler struct {
	Start time.Time
}

func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.Start).Round(time.Second).String(),
	})
}

func (h *HealthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "riddle-api is running",
	})
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/riddlebox/riddle-api/internal/apperr"
	authmw "github.com/riddlebox/riddle-api/internal/middleware/auth"
	"github.com/riddlebox/riddle-api/internal/service"
)

type PlayerHandler struct {
	Svc *service.PlayerService
}

func (h *PlayerHandler) CreatePlayer(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.InvalidInput("invalid body")
	}

	player, err := h.Svc.CreatePlayer(c.Request().Context(), req.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, player)
}

func (h *PlayerHandler) ListPlayers(c echo.Context) error {
	players, err := h.Svc.ListPlayers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, players)
}

func (h *PlayerHandler) Leaderboard(c echo.Context) error {
	limit := service.DefaultLeaderboardLimit
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	entries, err := h.Svc.Leaderboard(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *PlayerHandler) GetPlayer(c echo.Context) error {
	stats, err := h.Svc.PlayerStats(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *PlayerHandler) SubmitScore(c echo.Context) error {
	user := authmw.CurrentUser(c)
	if user == nil {
		return apperr.Unauthorized("authentication required")
	}

	var req struct {
		RiddleID    uint  `json:"riddle_id"`
		TimeToSolve int64 `json:"time_to_solve"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.InvalidInput("invalid body")
	}

	if err := h.Svc.SubmitScore(c.Request().Context(), user.ID, req.RiddleID, req.TimeToSolve); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

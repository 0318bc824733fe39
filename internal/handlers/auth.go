package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/riddlebox/riddle-api/internal/apperr"
	"github.com/riddlebox/riddle-api/internal/service"
)

type AuthHandler struct {
	Svc *service.AuthService
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Username  string `json:"username"`
		Password  string `json:"password"`
		AdminCode string `json:"admin_code"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.InvalidInput("invalid body")
	}

	res, err := h.Svc.Register(c.Request().Context(), req.Username, req.Password, req.AdminCode)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.InvalidInput("invalid body")
	}

	res, err := h.Svc.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

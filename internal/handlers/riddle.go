package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/riddlebox/riddle-api/internal/apperr"
	"github.com/riddlebox/riddle-api/internal/logging"
	"github.com/riddlebox/riddle-api/internal/models"
	"github.com/riddlebox/riddle-api/internal/mykafka"
	"github.com/riddlebox/riddle-api/internal/repo"
	"github.com/riddlebox/riddle-api/internal/service/search"
)

type RiddleHandler struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
}

func (h *RiddleHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "riddle_events", fmt.Sprint(event["riddle_id"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka_publish_error", "topic", "riddle_events", "error", err)
	}
}

func (h *RiddleHandler) reindex(c echo.Context, riddle *models.Riddle) {
	if err := search.IndexRiddle(c.Request().Context(), h.ES, h.Index, riddle); err != nil {
		logging.FromContext(c.Request().Context()).Error("es_index_error", "riddle_id", riddle.ID, "error", err)
	}
}

func (h *RiddleHandler) ListRiddles(c echo.Context) error {
	riddles, err := h.Repo.ListRiddles(c.Request().Context())
	if err != nil {
		return apperr.Wrap(err)
	}
	return c.JSON(http.StatusOK, riddles)
}

func (h *RiddleHandler) CreateRiddle(c echo.Context) error {
	var req struct {
		Question   string `json:"question"`
		Answer     string `json:"answer"`
		Difficulty string `json:"difficulty"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.InvalidInput("invalid body")
	}
	if req.Question == "" || req.Answer == "" {
		return apperr.InvalidInput("question and answer are required")
	}

	riddle := models.Riddle{
		Question:   req.Question,
		Answer:     req.Answer,
		Difficulty: req.Difficulty,
	}
	if riddle.Difficulty == "" {
		riddle.Difficulty = "medium"
	}

	if err := h.Repo.CreateRiddle(c.Request().Context(), &riddle); err != nil {
		return apperr.Wrap(err)
	}

	h.publish(c, map[string]any{
		"type":      "riddle_created",
		"riddle_id": riddle.ID,
	})
	h.reindex(c, &riddle)

	return c.JSON(http.StatusCreated, riddle)
}

func (h *RiddleHandler) PatchRiddle(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return apperr.InvalidInput("invalid riddle id")
	}

	var req struct {
		Question   *string `json:"question"`
		Answer     *string `json:"answer"`
		Difficulty *string `json:"difficulty"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.InvalidInput("invalid body")
	}

	riddle, err := h.Repo.GetRiddle(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, repo.ErrRiddleNotFound) {
			return apperr.NotFound("Riddle not found")
		}
		return apperr.Wrap(err)
	}

	if req.Question != nil {
		riddle.Question = *req.Question
	}
	if req.Answer != nil {
		riddle.Answer = *req.Answer
	}
	if req.Difficulty != nil {
		riddle.Difficulty = *req.Difficulty
	}

	if err := h.Repo.SaveRiddle(c.Request().Context(), riddle); err != nil {
		return apperr.Wrap(err)
	}

	h.publish(c, map[string]any{
		"type":      "riddle_updated",
		"riddle_id": riddle.ID,
	})
	h.reindex(c, riddle)

	return c.JSON(http.StatusOK, riddle)
}

func (h *RiddleHandler) DeleteRiddle(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return apperr.InvalidInput("invalid riddle id")
	}

	if err := h.Repo.DeleteRiddle(c.Request().Context(), uint(id)); err != nil {
		return apperr.Wrap(err)
	}

	h.publish(c, map[string]any{
		"type":      "riddle_deleted",
		"riddle_id": uint(id),
	})
	if err := search.DeleteRiddle(c.Request().Context(), h.ES, h.Index, uint(id)); err != nil {
		logging.FromContext(c.Request().Context()).Error("es_delete_error", "riddle_id", id, "error", err)
	}

	return c.NoContent(http.StatusNoContent)
}

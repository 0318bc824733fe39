package handlers

import (
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/riddlebox/riddle-api/internal/apperr"
	"github.com/riddlebox/riddle-api/internal/service/search"
	"github.com/riddlebox/riddle-api/internal/util"
)

type SearchHandler struct {
	ES    *elasticsearch.Client
	Index string
}

func (h *SearchHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return apperr.InvalidInput("query parameter q is required")
	}
	if h.ES == nil {
		return apperr.Internal("Search is unavailable", nil)
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	total, riddles, err := search.Search(c.Request().Context(), h.ES, h.Index, q, from, size)
	if err != nil {
		return apperr.Wrap(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "riddles": riddles})
}

package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/riddlebox/riddle-api/internal/apperr"
	"github.com/riddlebox/riddle-api/internal/logging"
)

// ErrorHandler is the single place domain errors become HTTP responses.
// Internal details stay out of responses unless devMode is on.
func ErrorHandler(devMode bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			status  int
			code    string
			message string
		)

		var ae *apperr.Error
		var he *echo.HTTPError
		switch {
		case errors.As(err, &ae):
			status = ae.Kind.HTTPStatus()
			code = ae.Kind.Code()
			message = ae.Message
			if ae.Kind == apperr.KindInternal {
				if devMode {
					message = ae.Error()
				} else {
					message = "Internal server error"
				}
			}
		case errors.As(err, &he):
			status = he.Code
			code = http.StatusText(he.Code)
			message = fmt.Sprint(he.Message)
		default:
			status = http.StatusInternalServerError
			code = apperr.KindInternal.Code()
			if devMode {
				message = err.Error()
			} else {
				message = "Internal server error"
			}
		}

		logging.FromContext(c.Request().Context()).Error("request_failed",
			"status", status,
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"error", err.Error(),
		)

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, echo.Map{
			"error": echo.Map{"code": code, "message": message},
		})
	}
}

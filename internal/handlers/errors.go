package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/propertyhub/internal/domain"
	"github.com/nfrund/propertyhub/internal/middleware"
)

// ErrorHandler answers every failed request with an ErrorResponse.
// Unhandled errors are logged with a stack trace.
func ErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, resp := errorResponse(err)
		logger := middleware.FromContext(c.Request().Context())
		switch {
		case status == http.StatusInternalServerError:
			logger.Error("Internal Server Error (Unhandled)",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"error", err,
				"stack_trace", string(debug.Stack()),
			)
		case status > http.StatusInternalServerError:
			logger.Warn("Upstream failure", "path", c.Request().URL.Path, "status", status, "error", err)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, resp)
		}
		if werr != nil {
			slog.Error("Failed to write error response", "error", werr)
		}
	}
}

func errorResponse(err error) (int, ErrorResponse) {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		msg := fmt.Sprint(he.Message)
		if he.Internal != nil && he.Code == http.StatusBadRequest {
			msg = he.Internal.Error()
		}
		return he.Code, ErrorResponse{Code: statusCode(he.Code), Message: msg}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Code: "not_found", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{Code: "unauthorized", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrorResponse{Code: "invalid_input", Message: err.Error()}
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusBadGateway, ErrorResponse{Code: "backend_unavailable", Message: "the catalog backend is unavailable"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Code: "internal", Message: "internal server error"}
	}
}

func statusCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_input"
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusInternalServerError:
		return "internal"
	}
	return strings.ReplaceAll(strings.ToLower(http.StatusText(status)), " ", "_")
}

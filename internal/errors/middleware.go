package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPErrorsTotal tracks HTTP errors by type
var HTTPErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_errors_total",
		Help: "Total HTTP errors by error type",
	},
	[]string{"type"},
)

// Middleware returns an Echo middleware that handles structured errors.
// It catches errors returned by handlers and converts them to appropriate
// HTTP responses.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			// Echo's own HTTPErrors (404 routes etc.) pass through unchanged
			// so their status codes survive; still counted.
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				HTTPErrorsTotal.WithLabelValues(string(typeForStatus(httpErr.Code))).Inc()
				return err
			}

			structured := AsStructuredError(err)
			HTTPErrorsTotal.WithLabelValues(string(structured.Type)).Inc()
			logError(c, structured)

			if err := c.JSON(structured.HTTPStatus(), structured.ToResponse()); err != nil {
				return fmt.Errorf("failed to write error response: %w", err)
			}
			return nil
		}
	}
}

func typeForStatus(status int) ErrorType {
	switch status {
	case http.StatusBadRequest:
		return TypeValidation
	case http.StatusNotFound:
		return TypeNotFound
	default:
		return TypeInternal
	}
}

// logError logs an error with request context.
func logError(c echo.Context, err *Error) {
	attrs := []any{
		"error_type", err.Type,
		"message", err.Message,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"status", err.HTTPStatus(),
	}
	for k, v := range err.Context {
		attrs = append(attrs, k, v)
	}

	ctx := c.Request().Context()
	switch err.Type {
	case TypeValidation:
		slog.InfoContext(ctx, "Validation error", attrs...)
	case TypeNotFound:
		slog.InfoContext(ctx, "Not found", attrs...)
	default:
		if err.Cause != nil {
			attrs = append(attrs, "cause", err.Cause)
		}
		slog.ErrorContext(ctx, "Internal error", attrs...)
	}
}

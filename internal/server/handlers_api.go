package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrpulse/notify-relay/internal/domain"
	apperrors "github.com/hrpulse/notify-relay/internal/errors"
)

type notifyRequest struct {
	UserID       string              `json:"userId"`
	Notification domain.Notification `json:"notification"`
}

type announceRequest struct {
	Notification domain.Notification `json:"notification"`
}

type deliveryResponse struct {
	Delivered int `json:"delivered"`
}

// handleNotify is the in-process producer path: a validated notification is
// handed straight to the registry, bypassing the wire format. The producer
// remains responsible for durably recording the notification elsewhere; a
// delivered count of 0 just means the user has no open connections right now.
func (s *Server) handleNotify(c echo.Context) error {
	var req notifyRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	if req.UserID == "" {
		return apperrors.ValidationError("userId is required")
	}
	if err := req.Notification.Validate(); err != nil {
		return apperrors.ValidationError(err.Error()).WithContext("user_id", req.UserID)
	}

	payload, err := json.Marshal(req.Notification)
	if err != nil {
		return apperrors.InternalError("failed to marshal notification", err)
	}

	delivered := s.registry.Deliver(req.UserID, payload)
	slog.InfoContext(c.Request().Context(), "Notification delivered", "user_id", req.UserID, "delivered", delivered)

	return c.JSON(http.StatusOK, deliveryResponse{Delivered: delivered})
}

// handleAnnounce pushes a process-wide announcement to every open connection.
func (s *Server) handleAnnounce(c echo.Context) error {
	var req announceRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	if err := req.Notification.Validate(); err != nil {
		return apperrors.ValidationError(err.Error())
	}

	payload, err := json.Marshal(req.Notification)
	if err != nil {
		return apperrors.InternalError("failed to marshal announcement", err)
	}

	delivered := s.registry.BroadcastAll(payload)
	slog.InfoContext(c.Request().Context(), "Announcement broadcast", "delivered", delivered)

	return c.JSON(http.StatusOK, deliveryResponse{Delivered: delivered})
}

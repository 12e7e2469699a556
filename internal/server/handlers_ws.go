package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/hrpulse/notify-relay/internal/metrics"
	"github.com/hrpulse/notify-relay/internal/relay"
)

// handleWebSocket accepts a relay connection. The caller's identity is NOT
// verified here: the surrounding system's session layer is expected to have
// authenticated the user before its page opens this socket, and a hardened
// deployment must ensure subscribe frames carry only server-issued user ids.
func (s *Server) handleWebSocket(c echo.Context) error {
	ip := c.RealIP()

	if ok, reason := s.limits.Acquire(ip); !ok {
		metrics.WebSocketConnectionsRejected.WithLabelValues(string(reason)).Inc()
		slog.WarnContext(c.Request().Context(), "Connection rejected", "reason", reason, "remote_ip", ip)
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "connection limit reached"})
	}

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.limits.Release(ip)
		metrics.WebSocketConnectionsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to upgrade WebSocket: %w", err)
	}
	metrics.WebSocketConnectionsTotal.WithLabelValues("success").Inc()

	clientID := s.registry.Register(conn)

	// Read pump — blocks until the transport closes or errors. Unregister
	// runs in both cases and is idempotent by contract.
	s.readPump(c.Request().Context(), clientID, conn)

	s.registry.Unregister(clientID)
	s.limits.Release(ip)

	return nil
}

// readPump parses inbound frames and dispatches them to the registry.
// Malformed and unknown frames are logged and dropped; only a transport-level
// read error ends the loop.
func (s *Server) readPump(ctx context.Context, clientID uuid.UUID, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.DebugContext(ctx, "Connection read ended", "client_id", clientID, "error", err)
			}
			return
		}

		frame, err := relay.ParseInbound(data)
		if err != nil {
			reason := "malformed"
			if errors.Is(err, relay.ErrUnknownType) {
				reason = "unknown_type"
			}
			metrics.RelayParseErrorsTotal.WithLabelValues(reason).Inc()
			slog.WarnContext(ctx, "Dropping inbound frame", "client_id", clientID, "reason", reason, "error", err)
			continue
		}

		switch frame.Type {
		case relay.TypeSubscribe:
			s.registry.Subscribe(clientID, frame.UserID)
		case relay.TypeNotification:
			delivered := s.registry.Deliver(frame.UserID, frame.Notification)
			slog.DebugContext(ctx, "Wire delivery request processed", "client_id", clientID, "user_id", frame.UserID, "delivered", delivered)
		}
	}
}

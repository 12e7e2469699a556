package server

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrpulse/notify-relay/internal/platform/version"
)

const readinessTimeout = 2 * time.Second

func (s *Server) handleLiveness(c echo.Context) error {
	return c.JSON(200, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startTime).Seconds(),
		"build":  version.Get(),
	})
}

// handleReadiness verifies the registry actor is still draining its command
// channel; the relay has no external backends to check.
func (s *Server) handleReadiness(c echo.Context) error {
	countChannel := make(chan int, 1)
	go func() { countChannel <- s.registry.Count() }()

	select {
	case count := <-countChannel:
		return c.JSON(200, map[string]any{
			"status":      "ready",
			"connections": count,
		})
	case <-time.After(readinessTimeout):
		return c.JSON(503, map[string]any{
			"status":       "unhealthy",
			"failed_check": "relay",
		})
	}
}

package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Relay transport
	s.echo.GET("/ws", s.handleWebSocket)

	// Producer API (in-process delivery path; out-of-process producers use
	// the notification wire frame instead)
	s.echo.POST("/api/notifications", s.handleNotify)
	s.echo.POST("/api/announcements", s.handleAnnounce)
}

package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hrpulse/notify-relay/internal/config"
	apperrors "github.com/hrpulse/notify-relay/internal/errors"
	"github.com/hrpulse/notify-relay/internal/platform/correlation"
	"github.com/hrpulse/notify-relay/internal/relay"
)

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	registry  *relay.Registry
	limits    *ConnectionLimits
	upgrader  websocket.Upgrader
	startTime time.Time
}

func NewServer(cfg *config.Config, registry *relay.Registry) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(correlationMiddleware)
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:     e,
		config:   cfg,
		registry: registry,
		limits:   NewConnectionLimits(int64(cfg.MaxConnections), cfg.MaxConnectionsPerIP, cfg.ConnectionsPerSecond, cfg.ConnectionBurst),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     NewCheckOrigin(cfg.AppURL, cfg.IsDevelopment()),
		},
		startTime: time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// correlationMiddleware tags every request context with a fresh correlation
// ID and echoes it back in the response headers.
func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := correlation.NewID()
		ctx := correlation.WithID(c.Request().Context(), id)
		c.SetRequest(c.Request().WithContext(ctx))
		c.Response().Header().Set("X-Correlation-ID", id)
		return next(c)
	}
}

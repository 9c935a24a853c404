package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/rogrow/internal/adapter/metrics"
	"github.com/pscheid92/rogrow/internal/analytics"
	"github.com/pscheid92/rogrow/internal/app"
	"github.com/pscheid92/rogrow/internal/domain"
	"github.com/pscheid92/rogrow/internal/platform/config"
)

type appService interface {
	Ask(ctx context.Context, question string) (domain.Answer, error)
	AnalyzeStudent(ctx context.Context, nis string) (*analytics.StudentAnalysis, error)
	StudentProfile(ctx context.Context, nis string) (*app.StudentProfile, error)
	Summary(ctx context.Context) *analytics.Summary
	ScoreInsights(ctx context.Context, nis string) (*domain.ScoreInsights, error)
	Status(ctx context.Context) app.Status
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app appService

	registry     *prometheus.Registry
	httpMetrics  *metrics.HTTPMetrics
	healthChecks []HealthCheck
	startTime    time.Time
}

// NewServer wires the HTTP API. A nil registry disables /metrics and request metrics.
func NewServer(cfg *config.Config, app appService, reg *prometheus.Registry, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		config:       cfg,
		app:          app,
		registry:     reg,
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}
	if reg != nil {
		srv.httpMetrics = metrics.NewHTTPMetrics(reg)
	}

	e.HTTPErrorHandler = srv.handleHTTPError
	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

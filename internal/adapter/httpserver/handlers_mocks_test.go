package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/rogrow/internal/analytics"
	"github.com/pscheid92/rogrow/internal/app"
	"github.com/pscheid92/rogrow/internal/domain"
	"github.com/pscheid92/rogrow/internal/platform/config"
)

// --- Mock implementations ---

type mockAppService struct {
	askFn            func(ctx context.Context, question string) (domain.Answer, error)
	analyzeStudentFn func(ctx context.Context, nis string) (*analytics.StudentAnalysis, error)
	studentProfileFn func(ctx context.Context, nis string) (*app.StudentProfile, error)
	summaryFn        func(ctx context.Context) *analytics.Summary
	scoreInsightsFn  func(ctx context.Context, nis string) (*domain.ScoreInsights, error)
	statusFn         func(ctx context.Context) app.Status
}

func (m *mockAppService) Ask(ctx context.Context, question string) (domain.Answer, error) {
	if m.askFn != nil {
		return m.askFn(ctx, question)
	}
	return domain.Answer{}, errors.New("not implemented")
}

func (m *mockAppService) AnalyzeStudent(ctx context.Context, nis string) (*analytics.StudentAnalysis, error) {
	if m.analyzeStudentFn != nil {
		return m.analyzeStudentFn(ctx, nis)
	}
	return nil, domain.ErrStudentNotFound
}

func (m *mockAppService) StudentProfile(ctx context.Context, nis string) (*app.StudentProfile, error) {
	if m.studentProfileFn != nil {
		return m.studentProfileFn(ctx, nis)
	}
	return nil, domain.ErrDirectoryUnavailable
}

func (m *mockAppService) Summary(ctx context.Context) *analytics.Summary {
	if m.summaryFn != nil {
		return m.summaryFn(ctx)
	}
	return &analytics.Summary{}
}

func (m *mockAppService) ScoreInsights(ctx context.Context, nis string) (*domain.ScoreInsights, error) {
	if m.scoreInsightsFn != nil {
		return m.scoreInsightsFn(ctx, nis)
	}
	return nil, domain.ErrInsightsUnavailable
}

func (m *mockAppService) Status(ctx context.Context) app.Status {
	if m.statusFn != nil {
		return m.statusFn(ctx)
	}
	return app.Status{Source: "csv", Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// --- Test helpers ---

func testConfig() *config.Config {
	return &config.Config{
		Port:             "5001",
		CORSAllowOrigins: "http://localhost:5173",
		QueryRateLimit:   100,
		QueryRateBurst:   100,
	}
}

type serverOptions struct {
	cfg          *config.Config
	registry     *prometheus.Registry
	healthChecks []HealthCheck
}

func newTestServer(t *testing.T, app appService, opts ...func(*serverOptions)) *Server {
	t.Helper()

	o := &serverOptions{cfg: testConfig()}
	for _, opt := range opts {
		opt(o)
	}

	return NewServer(o.cfg, app, o.registry, o.healthChecks)
}

func withHealthChecks(checks ...HealthCheck) func(*serverOptions) {
	return func(o *serverOptions) {
		o.healthChecks = checks
	}
}

func withRegistry(reg *prometheus.Registry) func(*serverOptions) {
	return func(o *serverOptions) {
		o.registry = reg
	}
}

func withRateLimit(rate float64, burst int) func(*serverOptions) {
	return func(o *serverOptions) {
		o.cfg.QueryRateLimit = rate
		o.cfg.QueryRateBurst = burst
	}
}

// serve runs a request through the full middleware chain.
func serve(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

// callHandler wraps a handler with error middleware, matching production behavior
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return ErrorHandlingMiddleware()(handler)(c)
}

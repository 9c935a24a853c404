package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/rogrow/internal/app"
	"github.com/pscheid92/rogrow/internal/domain"
	apperrors "github.com/pscheid92/rogrow/internal/platform/errors"
	"github.com/pscheid92/rogrow/internal/platform/version"
)

const (
	queryFailedAnswer    = "Maaf, terjadi kesalahan saat memproses pertanyaan Anda. 😅"
	studentNotFound      = "Siswa tidak ditemukan"
	endpointNotFound     = "Endpoint tidak ditemukan"
	analysisFailed       = "Terjadi kesalahan saat menganalisis data siswa"
	directoryUnavailable = "Data profil siswa tidak tersedia"
	insightsUnavailable  = "Analisis AI tidak tersedia"
	insightsFailed       = "Gagal membuat analisis AI, coba lagi nanti"
)

type queryRequest struct {
	Question string `json:"question"`
}

type queryResponse struct {
	Answer string        `json:"answer"`
	Intent domain.Intent `json:"intent,omitempty"`
	ID     string        `json:"id,omitempty"`
}

type testResponse struct {
	Status      string     `json:"status"`
	Message     string     `json:"message"`
	Timestamp   time.Time  `json:"timestamp"`
	DatasetInfo app.Status `json:"dataset_info"`
}

func (s *Server) registerAPIRoutes(rateLimiter echo.MiddlewareFunc) {
	s.echo.GET("/api/test", s.handleTest)
	s.echo.POST("/api/dataset/query", s.handleQuery, rateLimiter)
	s.echo.GET("/api/dataset/summary", s.handleSummary)
	s.echo.GET("/api/student/:nis/analysis", s.handleStudentAnalysis)
	s.echo.GET("/api/student/:nis/profile", s.handleStudentProfile)
	s.echo.POST("/api/student/:nis/insights", s.handleScoreInsights, rateLimiter)
}

func (s *Server) handleBanner(c echo.Context) error {
	response := map[string]any{
		"status":  "success",
		"message": "RoGrow Chatbot Service",
		"version": version.Get().Version,
		"endpoints": map[string]string{
			"/api/test":                   "Test connection",
			"/api/dataset/query":          "Query dataset (POST)",
			"/api/dataset/summary":        "Dataset summary (GET)",
			"/api/student/<nis>/analysis": "Analyze student (GET)",
			"/api/student/<nis>/profile":  "Student profile (GET)",
			"/api/student/<nis>/insights": "AI score insights (POST)",
		},
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleTest(c echo.Context) error {
	status := s.app.Status(c.Request().Context())

	response := testResponse{
		Status:      "success",
		Message:     "Backend berhasil terhubung!",
		Timestamp:   status.Timestamp,
		DatasetInfo: status,
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleQuery(c echo.Context) error {
	ctx := c.Request().Context()

	var req queryRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	answer, err := s.app.Ask(ctx, req.Question)
	if errors.Is(err, domain.ErrEmptyQuestion) {
		return apperrors.ValidationError("Pertanyaan tidak boleh kosong").WithField("field", "question")
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to answer question", "error", err)
		if err := c.JSON(http.StatusInternalServerError, queryResponse{Answer: queryFailedAnswer}); err != nil {
			return fmt.Errorf("failed to send JSON response: %w", err)
		}
		return nil
	}

	response := queryResponse{
		Answer: answer.Text,
		Intent: answer.Intent,
		ID:     uuid.NewString(),
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleSummary(c echo.Context) error {
	if err := c.JSON(http.StatusOK, s.app.Summary(c.Request().Context())); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleStudentAnalysis(c echo.Context) error {
	nis := strings.TrimSpace(c.Param("nis"))

	analysis, err := s.app.AnalyzeStudent(c.Request().Context(), nis)
	if errors.Is(err, domain.ErrStudentNotFound) {
		return apperrors.NotFoundError(studentNotFound).WithField("nis", nis)
	}
	if err != nil {
		return apperrors.InternalError(analysisFailed, err).WithField("nis", nis)
	}

	if err := c.JSON(http.StatusOK, analysis); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleStudentProfile(c echo.Context) error {
	nis := strings.TrimSpace(c.Param("nis"))

	profile, err := s.app.StudentProfile(c.Request().Context(), nis)
	switch {
	case errors.Is(err, domain.ErrDirectoryUnavailable):
		return apperrors.UnavailableError(directoryUnavailable, err)
	case errors.Is(err, domain.ErrStudentNotFound):
		return apperrors.NotFoundError(studentNotFound).WithField("nis", nis)
	case err != nil:
		return apperrors.InternalError("failed to load student profile", err).WithField("nis", nis)
	}

	if err := c.JSON(http.StatusOK, profile); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleScoreInsights(c echo.Context) error {
	nis := strings.TrimSpace(c.Param("nis"))

	insights, err := s.app.ScoreInsights(c.Request().Context(), nis)
	switch {
	case errors.Is(err, domain.ErrInsightsUnavailable):
		return apperrors.UnavailableError(insightsUnavailable, err)
	case errors.Is(err, domain.ErrStudentNotFound):
		return apperrors.NotFoundError(studentNotFound).WithField("nis", nis)
	case err != nil:
		return apperrors.ExternalError(insightsFailed, err).WithField("nis", nis)
	}

	if err := c.JSON(http.StatusOK, insights); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleNotFound(c echo.Context) error {
	if err := c.JSON(http.StatusNotFound, map[string]string{"error": endpointNotFound}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

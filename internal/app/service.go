package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/rogrow/internal/analytics"
	"github.com/pscheid92/rogrow/internal/dataset"
	"github.com/pscheid92/rogrow/internal/domain"
	"github.com/pscheid92/rogrow/internal/intent"
	"golang.org/x/sync/singleflight"
)

// SnapshotLoader produces dataset snapshots. Load is used once at startup
// and never fails because it falls back to generated data. Reload reports
// failures so a running service can keep its current snapshot.
type SnapshotLoader interface {
	Load(ctx context.Context) *dataset.Snapshot
	Reload(ctx context.Context) (*dataset.Snapshot, error)
}

// state is swapped atomically on reload so in-flight questions keep a
// consistent table and summary.
type state struct {
	snapshot *dataset.Snapshot
	data     intent.Data
}

// StudentProfile joins the directory record with the dataset analysis.
// Analysis is nil when the student is registered but has no scores.
type StudentProfile struct {
	Record   *domain.StudentRecord      `json:"profil"`
	Analysis *analytics.StudentAnalysis `json:"analisis,omitempty"`
}

// Status describes the loaded dataset. Students counts the merged rows
// before cleaning; ValidStudents counts the rows that answer questions.
type Status struct {
	Students      int       `json:"jumlah_siswa"`
	ValidStudents int       `json:"jumlah_siswa_valid"`
	Columns       []string  `json:"columns"`
	Source        string    `json:"source"`
	LoadedAt      time.Time `json:"loaded_at"`
	Timestamp     time.Time `json:"-"`
}

// Service is the application layer. It orchestrates all use cases.
type Service struct {
	loader    SnapshotLoader
	router    *intent.Router
	directory domain.StudentDirectory
	insights  domain.InsightGenerator
	cache     domain.InsightCache
	clock     clockwork.Clock

	current      atomic.Pointer[state]
	insightGroup singleflight.Group
}

// NewService creates the application layer service and loads the first snapshot.
// directory, insights and cache may be nil; the matching operations then
// report the collaborator as unavailable (or skip caching).
func NewService(ctx context.Context, loader SnapshotLoader, router *intent.Router, directory domain.StudentDirectory, insights domain.InsightGenerator, cache domain.InsightCache, clock clockwork.Clock) *Service {
	s := &Service{
		loader:    loader,
		router:    router,
		directory: directory,
		insights:  insights,
		cache:     cache,
		clock:     clock,
	}
	s.activate(ctx, loader.Load(ctx))
	return s
}

// Reload reads the dataset again and swaps it in. On failure the active
// snapshot is kept and returned together with the error.
func (s *Service) Reload(ctx context.Context) (*dataset.Snapshot, error) {
	snap, err := s.loader.Reload(ctx)
	if err != nil {
		current := s.Snapshot()
		slog.WarnContext(ctx, "Dataset reload failed, keeping current snapshot",
			"source", current.Source, "students", current.Table.Len(), "error", err)
		return current, fmt.Errorf("failed to reload dataset: %w", err)
	}
	s.activate(ctx, snap)
	return snap, nil
}

func (s *Service) activate(ctx context.Context, snap *dataset.Snapshot) {
	s.current.Store(&state{snapshot: snap, data: intent.NewData(ctx, snap.Table)})
	slog.InfoContext(ctx, "Dataset snapshot active", "source", snap.Source, "students", snap.Table.Len())
}

func (s *Service) state() *state {
	return s.current.Load()
}

// Snapshot returns the active dataset snapshot.
func (s *Service) Snapshot() *dataset.Snapshot {
	return s.state().snapshot
}

// Ask answers one free-text question against the active snapshot.
func (s *Service) Ask(ctx context.Context, question string) (domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return domain.Answer{}, domain.ErrEmptyQuestion
	}
	return s.router.Answer(ctx, question, s.state().data)
}

// AnalyzeStudent returns the per-subject analysis of the student with the given NIS.
func (s *Service) AnalyzeStudent(_ context.Context, nis string) (*analytics.StudentAnalysis, error) {
	st := s.state()
	student, ok := st.snapshot.Table.ByNIS(nis)
	if !ok {
		return nil, domain.ErrStudentNotFound
	}

	analysis, err := analytics.AnalyzeStudent(st.snapshot.Table, student)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze student: %w", err)
	}
	return analysis, nil
}

// StudentProfile looks the student up in the directory and attaches the
// dataset analysis when the student has scores.
func (s *Service) StudentProfile(ctx context.Context, nis string) (*StudentProfile, error) {
	if s.directory == nil {
		return nil, domain.ErrDirectoryUnavailable
	}

	record, err := s.directory.GetByNIS(ctx, nis)
	if err != nil {
		return nil, err
	}

	profile := &StudentProfile{Record: record}
	analysis, err := s.AnalyzeStudent(ctx, nis)
	switch {
	case errors.Is(err, domain.ErrStudentNotFound):
	case err != nil:
		return nil, err
	default:
		profile.Analysis = analysis
	}
	return profile, nil
}

// Summary returns the dataset-wide statistics of the active snapshot.
func (s *Service) Summary(_ context.Context) *analytics.Summary {
	return s.state().data.Summary
}

// ScoreInsights returns language model insights for one student, read through
// the cache. Concurrent requests for the same student share one generation.
func (s *Service) ScoreInsights(ctx context.Context, nis string) (*domain.ScoreInsights, error) {
	if s.insights == nil {
		return nil, domain.ErrInsightsUnavailable
	}

	nis = strings.TrimSpace(nis)
	st := s.state()
	student, ok := st.snapshot.Table.ByNIS(nis)
	if !ok {
		return nil, domain.ErrStudentNotFound
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, nis)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			slog.WarnContext(ctx, "Insight cache lookup failed", "nis", nis, "error", err)
		}
	}

	v, err, shared := s.insightGroup.Do(nis, func() (any, error) {
		scores := analytics.ScoreSummaries(st.snapshot.Table, student)
		insights, err := s.insights.ScoreInsights(ctx, student.Name, scores)
		if err != nil {
			return nil, fmt.Errorf("failed to generate score insights: %w", err)
		}
		insights.GeneratedAt = s.clock.Now().UTC()

		if s.cache != nil {
			if err := s.cache.Set(ctx, nis, insights); err != nil {
				slog.WarnContext(ctx, "Failed to cache score insights", "nis", nis, "error", err)
			}
		}
		return insights, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.DebugContext(ctx, "Score insights shared with concurrent request", "nis", nis)
	}
	return v.(*domain.ScoreInsights), nil
}

// Status reports the size and shape of the active dataset.
func (s *Service) Status(_ context.Context) Status {
	snap := s.state().snapshot
	return Status{
		Students:      snap.Raw.Len(),
		ValidStudents: snap.Table.Len(),
		Columns:       snap.Table.Columns(),
		Source:        snap.Source,
		LoadedAt:      snap.LoadedAt,
		Timestamp:     s.clock.Now(),
	}
}

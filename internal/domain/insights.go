package domain

import (
	"context"
	"time"
)

// Completer is an opaque text-completion service: prompt in, text out.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Subject     string `json:"subject,omitempty"`
}

type AcademicAnalysis struct {
	StrongestSubject   string `json:"strongest_subject"`
	WeakestSubject     string `json:"weakest_subject"`
	OverallPerformance string `json:"overall_performance"`
	ConsistencyLevel   string `json:"consistency_level"`
}

// ScoreInsights is the language model's structured reading of one student's scores.
type ScoreInsights struct {
	Status           string           `json:"status"`
	Summary          string           `json:"summary"`
	Insights         []string         `json:"insights"`
	Recommendations  []Recommendation `json:"recommendations"`
	AcademicAnalysis AcademicAnalysis `json:"academic_analysis"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

// SubjectScoreSummary is the per-subject input to insight generation.
type SubjectScoreSummary struct {
	Subject    string
	Quiz       float64
	Assignment float64
}

// InsightGenerator produces ScoreInsights for a student.
type InsightGenerator interface {
	ScoreInsights(ctx context.Context, studentName string, scores []SubjectScoreSummary) (*ScoreInsights, error)
}

// InsightCache stores generated insights keyed by NIS.
type InsightCache interface {
	Get(ctx context.Context, nis string) (*ScoreInsights, error)
	Set(ctx context.Context, nis string, insights *ScoreInsights) error
	Invalidate(ctx context.Context, nis string) error
}

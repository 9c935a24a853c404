// Package intent routes a free-text question to the first matching rule and
// renders the rule's answer from the current dataset.
package intent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pscheid92/rogrow/internal/analytics"
	"github.com/pscheid92/rogrow/internal/catalog"
	"github.com/pscheid92/rogrow/internal/dataset"
	"github.com/pscheid92/rogrow/internal/domain"
)

// Data is the dataset view a question is answered against.
type Data struct {
	Table   *dataset.Table
	Summary *analytics.Summary
}

// NewData summarises table once so every question can reuse the result.
func NewData(ctx context.Context, table *dataset.Table) Data {
	return Data{Table: table, Summary: analytics.Summarize(ctx, table)}
}

// Recorder observes which rule answered.
type Recorder interface {
	RecordIntent(intent domain.Intent)
}

type noopRecorder struct{}

func (noopRecorder) RecordIntent(domain.Intent) {}

// rule answers q or reports false to let the next rule try.
type rule struct {
	intent          domain.Intent
	needsAttendance bool
	answer          func(r *Router, q string, d Data) (string, bool)
}

type Router struct {
	catalog   *catalog.Catalog
	rand      Randomizer
	completer domain.Completer
	recorder  Recorder
	rules     []rule
}

type Option func(*Router)

// WithCompleter enables the language model fallback.
func WithCompleter(c domain.Completer) Option {
	return func(r *Router) { r.completer = c }
}

func WithRandomizer(rnd Randomizer) Option {
	return func(r *Router) { r.rand = rnd }
}

func WithRecorder(rec Recorder) Option {
	return func(r *Router) { r.recorder = rec }
}

func New(cat *catalog.Catalog, opts ...Option) *Router {
	r := &Router{
		catalog:  cat,
		rand:     NewRandomizer(0),
		recorder: noopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}

	r.rules = []rule{
		{intent: domain.IntentGreeting, answer: (*Router).greeting},
		{intent: domain.IntentStudentCount, answer: (*Router).studentCount},
		{intent: domain.IntentSubjectList, answer: (*Router).subjectList},
		{intent: domain.IntentAverage, answer: (*Router).average},
		{intent: domain.IntentGoodGrades, needsAttendance: true, answer: (*Router).goodGrades},
		{intent: domain.IntentStudyTips, answer: (*Router).studyTips},
		{intent: domain.IntentTopStudent, needsAttendance: true, answer: (*Router).topStudent},
		{intent: domain.IntentLowestAbsence, needsAttendance: true, answer: (*Router).lowestAbsence},
		{intent: domain.IntentHighestSubject, answer: (*Router).highestSubject},
		{intent: domain.IntentLowestSubject, answer: (*Router).lowestSubject},
		{intent: domain.IntentAgeDistribution, needsAttendance: true, answer: (*Router).ageDistribution},
		{intent: domain.IntentGradeDistribution, needsAttendance: true, answer: (*Router).gradeDistribution},
		{intent: domain.IntentScoreAbsenceCorrelate, needsAttendance: true, answer: (*Router).scoreAbsenceCorrelation},
		{intent: domain.IntentGamification, needsAttendance: true, answer: (*Router).gamification},
		{intent: domain.IntentScorePrediction, needsAttendance: true, answer: (*Router).scorePrediction},
		{intent: domain.IntentClusters, needsAttendance: true, answer: (*Router).clusters},
		{intent: domain.IntentLearningStrategy, answer: (*Router).learningStrategy},
		{intent: domain.IntentPerformanceOverview, answer: (*Router).performanceOverview},
		{intent: domain.IntentDatasetDescription, answer: (*Router).datasetDescription},
	}
	return r
}

// Answer lower-cases and trims question and returns the first matching rule's answer.
// Unmatched questions go to the completer when one is configured, else get the help text.
func (r *Router) Answer(ctx context.Context, question string, d Data) (domain.Answer, error) {
	if err := ctx.Err(); err != nil {
		return domain.Answer{}, err
	}
	if d.Summary == nil {
		d.Summary = analytics.Summarize(ctx, d.Table)
	}

	q := strings.ToLower(strings.TrimSpace(question))

	ans, ok := r.match(q, d)
	if !ok && r.completer != nil {
		ans, ok = r.complete(ctx, question, d)
	}
	if !ok {
		ans = domain.Answer{Intent: domain.IntentFallback, Text: r.catalog.Fallback}
	}

	r.recorder.RecordIntent(ans.Intent)
	slog.DebugContext(ctx, "Question answered", "intent", ans.Intent)
	return ans, nil
}

func (r *Router) match(q string, d Data) (domain.Answer, bool) {
	for _, rl := range r.rules {
		if rl.needsAttendance && !d.Table.HasAttendance() {
			continue
		}
		if text, ok := rl.answer(r, q, d); ok {
			return domain.Answer{Intent: rl.intent, Text: text}, true
		}
	}
	return domain.Answer{}, false
}

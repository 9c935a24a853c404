package analytics

import (
	"errors"
	"fmt"

	"github.com/pscheid92/rogrow/internal/dataset"
	"github.com/pscheid92/rogrow/internal/domain"
)

var ErrNoSubjects = errors.New("dataset has no complete subject columns")

// StudentAnalysis is one student's scores with strongest and weakest subject.
type StudentAnalysis struct {
	Name             string             `json:"nama"`
	NIS              string             `json:"nis"`
	QuizScores       map[string]float64 `json:"rata_rata_kuis"`
	AssignmentScores map[string]float64 `json:"rata_rata_tugas"`
	Weakest          string             `json:"mata_pelajaran_terlemah"`
	Strongest        string             `json:"mata_pelajaran_terkuat"`
	Recommendation   string             `json:"rekomendasi"`
}

// AnalyzeStudent ranks st's subjects by (quiz+assignment)/2. Ties keep catalog order.
func AnalyzeStudent(t *dataset.Table, st domain.Student) (*StudentAnalysis, error) {
	a := &StudentAnalysis{
		Name:             st.Name,
		NIS:              st.NIS,
		QuizScores:       make(map[string]float64),
		AssignmentScores: make(map[string]float64),
	}

	var best, worst float64
	for _, s := range t.Subjects() {
		if !t.HasScores(s) {
			continue
		}
		sc := st.Scores[s.Code]
		a.QuizScores[s.Code] = sc.Quiz
		a.AssignmentScores[s.Code] = sc.Assignment

		avg := sc.Average()
		if a.Strongest == "" || avg > best {
			a.Strongest, best = s.Code, avg
		}
		if a.Weakest == "" || avg < worst {
			a.Weakest, worst = s.Code, avg
		}
	}
	if a.Strongest == "" {
		return nil, ErrNoSubjects
	}

	a.Recommendation = fmt.Sprintf(
		"Halo %s! 🌱 Kamu hebat di %s! Untuk %s, coba latihan lebih sering ya. Ingat, belajar sedikit tapi rutin lebih baik!",
		a.Name, a.Strongest, a.Weakest,
	)
	return a, nil
}

// ScoreSummaries lists st's per-subject scores using subject names.
func ScoreSummaries(t *dataset.Table, st domain.Student) []domain.SubjectScoreSummary {
	var out []domain.SubjectScoreSummary
	for _, s := range t.Subjects() {
		if !t.HasScores(s) {
			continue
		}
		sc := st.Scores[s.Code]
		out = append(out, domain.SubjectScoreSummary{Subject: s.Name, Quiz: sc.Quiz, Assignment: sc.Assignment})
	}
	return out
}

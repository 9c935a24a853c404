package analytics

import (
	"github.com/pscheid92/rogrow/internal/dataset"
	"github.com/pscheid92/rogrow/internal/domain"
	"github.com/samber/lo"
)

// SubjectAverage is the class mean of one subject.
type SubjectAverage struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Quiz       Value  `json:"kuis"`
	Assignment Value  `json:"tugas"`
	Combined   Value  `json:"gabungan"`
}

// SubjectAverages covers every subject with both score columns, in catalog order.
// Combined is (quiz mean + assignment mean) / 2.
func SubjectAverages(t *dataset.Table) []SubjectAverage {
	subjects := lo.Filter(t.Subjects(), func(s domain.Subject, _ int) bool {
		return t.HasScores(s)
	})

	return lo.Map(subjects, func(s domain.Subject, _ int) SubjectAverage {
		quiz, _ := t.Column(s, domain.KindQuiz)
		assignment, _ := t.Column(s, domain.KindAssignment)
		q, a := Mean(quiz), Mean(assignment)
		return SubjectAverage{
			Code:       s.Code,
			Name:       s.Name,
			Quiz:       Value(q),
			Assignment: Value(a),
			Combined:   Value((q + a) / 2),
		}
	})
}

// Best returns the subject with the highest combined mean. Ties keep the earlier subject.
func Best(avgs []SubjectAverage) (SubjectAverage, bool) {
	if len(avgs) == 0 {
		return SubjectAverage{}, false
	}
	return lo.MaxBy(avgs, func(a, b SubjectAverage) bool { return a.Combined > b.Combined }), true
}

// Worst returns the subject with the lowest combined mean. Ties keep the earlier subject.
func Worst(avgs []SubjectAverage) (SubjectAverage, bool) {
	if len(avgs) == 0 {
		return SubjectAverage{}, false
	}
	return lo.MinBy(avgs, func(a, b SubjectAverage) bool { return a.Combined < b.Combined }), true
}

package analytics

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/pscheid92/rogrow/internal/dataset"
	"github.com/pscheid92/rogrow/internal/domain"
	"github.com/samber/lo"
)

// Summary is the dataset-wide analysis computed once per loaded snapshot.
type Summary struct {
	Students                  int              `json:"jumlah_siswa"`
	QuizMeans                 map[string]Value `json:"rata_rata_skor_kuis"`
	AssignmentMeans           map[string]Value `json:"rata_rata_skor_tugas"`
	QuizAssignmentCorrelation map[string]Value `json:"korelasi_kuis_tugas"`
	Subjects                  []SubjectAverage `json:"mata_pelajaran"`

	Attendance *AttendanceSummary `json:"absensi,omitempty"`
}

// AttendanceSummary is only computed when the table carries absences.
type AttendanceSummary struct {
	MeanScore               Value            `json:"rata_rata_skor"`
	MeanAbsences            Value            `json:"rata_rata_absensi"`
	MinScore                Value            `json:"min_skor"`
	MaxScore                Value            `json:"max_skor"`
	MinAbsences             Value            `json:"min_absensi"`
	MaxAbsences             Value            `json:"max_absensi"`
	ScoreAbsenceCorrelation Value            `json:"korelasi_skor_absensi"`
	AgeDistribution         []Bucket[int]    `json:"distribusi_umur,omitempty"`
	GradeDistribution       []Bucket[string] `json:"distribusi_grade,omitempty"`
	TopGradeClass           string           `json:"kelas_terbaik,omitempty"`
	Clusters                []Cluster        `json:"clusters,omitempty"`
	Regression              *Regression      `json:"regresi,omitempty"`
}

// Summarize analyses t. A student's score is the mean of their score columns.
func Summarize(ctx context.Context, t *dataset.Table) *Summary {
	s := &Summary{
		Students:                  t.Len(),
		QuizMeans:                 make(map[string]Value),
		AssignmentMeans:           make(map[string]Value),
		QuizAssignmentCorrelation: make(map[string]Value),
		Subjects:                  SubjectAverages(t),
	}

	for _, subj := range t.Subjects() {
		quiz, hasQuiz := t.Column(subj, domain.KindQuiz)
		assignment, hasAssignment := t.Column(subj, domain.KindAssignment)
		if hasQuiz {
			s.QuizMeans[subj.Code] = Value(Mean(quiz))
		}
		if hasAssignment {
			s.AssignmentMeans[subj.Code] = Value(Mean(assignment))
		}
		if hasQuiz && hasAssignment {
			s.QuizAssignmentCorrelation[subj.Code] = Value(Correlation(quiz, assignment))
		}
	}

	if t.HasAttendance() {
		s.Attendance = summarizeAttendance(ctx, t)
	}
	return s
}

func summarizeAttendance(ctx context.Context, t *dataset.Table) *AttendanceSummary {
	scores := t.OverallScores()
	absences := t.Absences()

	a := &AttendanceSummary{
		MeanScore:               Value(Mean(scores)),
		MeanAbsences:            Value(Mean(absences)),
		MinScore:                Value(Min(scores)),
		MaxScore:                Value(Max(scores)),
		MinAbsences:             Value(Min(absences)),
		MaxAbsences:             Value(Max(absences)),
		ScoreAbsenceCorrelation: Value(Correlation(scores, absences)),
	}

	if t.HasDemographics() {
		students := t.Students()
		a.AgeDistribution = Distribution(lo.Map(students, func(st domain.Student, _ int) int { return st.Age }))
		a.GradeDistribution = Distribution(lo.Map(students, func(st domain.Student, _ int) string { return GradeOf(st.GradeClass) }))
		if classes := ClassMeans(t); len(classes) > 0 {
			a.TopGradeClass = classes[0].Class
		}
	}

	if t.Len() >= MinClusterStudents {
		clusters, err := ClusterStudents(scores, absences, ClusterCount)
		if err != nil {
			slog.WarnContext(ctx, "Failed to cluster students", "error", err)
		} else {
			a.Clusters = clusters
		}
	}

	if t.Len() >= MinRegressionStudents {
		reg, err := FitRegression(absences, scores)
		if err != nil {
			slog.WarnContext(ctx, "Failed to fit score regression", "error", err)
		} else {
			a.Regression = &reg
		}
	}

	return a
}

// ClassMean is the mean student score of one grade class.
type ClassMean struct {
	Class    string `json:"kelas"`
	Mean     Value  `json:"rata_rata"`
	Students int    `json:"jumlah_siswa"`
}

// ClassMeans groups students by grade class, highest mean first. Equal means
// are ordered by class name.
func ClassMeans(t *dataset.Table) []ClassMean {
	groups := lo.GroupBy(t.Students(), func(st domain.Student) string { return st.GradeClass })

	means := make([]ClassMean, 0, len(groups))
	for class, students := range groups {
		scores := lo.Map(students, func(st domain.Student, _ int) float64 { return t.OverallScore(st) })
		means = append(means, ClassMean{Class: class, Mean: Value(Mean(scores)), Students: len(students)})
	}

	slices.SortFunc(means, func(a, b ClassMean) int {
		if c := cmp.Compare(b.Mean, a.Mean); c != 0 {
			return c
		}
		return cmp.Compare(a.Class, b.Class)
	})
	return means
}

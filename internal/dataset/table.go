package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/pscheid92/rogrow/internal/domain"
)

const (
	ColID       = "Id"
	ColName     = "Nama Lengkap"
	ColNIS      = "NIS"
	ColGrade    = "Kelas"
	ColGender   = "Jenis Kelamin"
	ColAge      = "Umur"
	ColAbsences = "Absensi"
)

// JoinKeys identifies a student across the three source files.
var JoinKeys = []string{ColID, ColName, ColNIS}

// Table is the cleaned dataset: every row complete, scores numeric.
type Table struct {
	columns  []string
	present  map[string]bool
	subjects []domain.Subject
	students []domain.Student
	byNIS    map[string]int
}

// Clean coerces score, age and absence columns to numbers, trims NIS and
// drops every row that has a missing or unparseable value in any column.
func Clean(f *Frame, subjects []domain.Subject) *Table {
	t := &Table{
		columns: append([]string(nil), f.Header...),
		present: make(map[string]bool, len(f.Header)),
		byNIS:   make(map[string]int),
	}
	for _, h := range f.Header {
		t.present[h] = true
	}
	for _, s := range subjects {
		if t.present[s.Column(domain.KindQuiz)] || t.present[s.Column(domain.KindAssignment)] {
			t.subjects = append(t.subjects, s)
		}
	}

	for _, row := range f.Rows {
		st, ok := t.parseRow(f, row)
		if !ok {
			continue
		}
		if _, dup := t.byNIS[st.NIS]; !dup {
			t.byNIS[st.NIS] = len(t.students)
		}
		t.students = append(t.students, st)
	}

	return t
}

func (t *Table) parseRow(f *Frame, row []string) (domain.Student, bool) {
	for i := range f.Header {
		if strings.TrimSpace(cell(row, i)) == "" {
			return domain.Student{}, false
		}
	}

	get := func(col string) string {
		return strings.TrimSpace(cell(row, f.Index(col)))
	}

	st := domain.Student{
		Name:       get(ColName),
		NIS:        get(ColNIS),
		GradeClass: get(ColGrade),
		Gender:     get(ColGender),
		Scores:     make(map[string]domain.SubjectScores, len(t.subjects)),
	}
	if id, err := strconv.Atoi(get(ColID)); err == nil {
		st.ID = id
	}

	if t.present[ColAge] {
		v, ok := parseNumber(get(ColAge))
		if !ok {
			return domain.Student{}, false
		}
		st.Age = int(v)
	}
	if t.present[ColAbsences] {
		v, ok := parseNumber(get(ColAbsences))
		if !ok {
			return domain.Student{}, false
		}
		st.Absences = int(v)
	}

	for _, s := range t.subjects {
		var scores domain.SubjectScores
		if col := s.Column(domain.KindQuiz); t.present[col] {
			v, ok := parseNumber(get(col))
			if !ok {
				return domain.Student{}, false
			}
			scores.Quiz = v
		}
		if col := s.Column(domain.KindAssignment); t.present[col] {
			v, ok := parseNumber(get(col))
			if !ok {
				return domain.Student{}, false
			}
			scores.Assignment = v
		}
		st.Scores[s.Code] = scores
	}

	return st, true
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (t *Table) Len() int {
	return len(t.students)
}

// Students returns the rows in file order. The slice must not be modified.
func (t *Table) Students() []domain.Student {
	return t.students
}

// Columns lists the header names in merged order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

func (t *Table) HasColumn(name string) bool {
	return t.present[name]
}

// Subjects lists the catalog subjects that have at least one score column.
func (t *Table) Subjects() []domain.Subject {
	return t.subjects
}

// HasScores reports whether both score columns exist for subject.
func (t *Table) HasScores(s domain.Subject) bool {
	return t.present[s.Column(domain.KindQuiz)] && t.present[s.Column(domain.KindAssignment)]
}

// Column returns the values of one score column in row order.
func (t *Table) Column(s domain.Subject, kind domain.ScoreKind) ([]float64, bool) {
	if !t.present[s.Column(kind)] {
		return nil, false
	}
	values := make([]float64, len(t.students))
	for i, st := range t.students {
		sc := st.Scores[s.Code]
		if kind == domain.KindQuiz {
			values[i] = sc.Quiz
		} else {
			values[i] = sc.Assignment
		}
	}
	return values, true
}

// ByNIS returns the first student with the given NIS.
func (t *Table) ByNIS(nis string) (domain.Student, bool) {
	i, ok := t.byNIS[strings.TrimSpace(nis)]
	if !ok {
		return domain.Student{}, false
	}
	return t.students[i], true
}

func (t *Table) HasAttendance() bool {
	return t.present[ColAbsences]
}

func (t *Table) HasDemographics() bool {
	return t.present[ColAge] && t.present[ColGrade]
}

// Absences returns the absence counts in row order.
func (t *Table) Absences() []float64 {
	values := make([]float64, len(t.students))
	for i, st := range t.students {
		values[i] = float64(st.Absences)
	}
	return values
}

// OverallScores returns each student's mean over all present score columns.
func (t *Table) OverallScores() []float64 {
	values := make([]float64, len(t.students))
	for i, st := range t.students {
		values[i] = t.OverallScore(st)
	}
	return values
}

// OverallScore is the mean of a student's present score columns.
func (t *Table) OverallScore(st domain.Student) float64 {
	var sum float64
	var n int
	for _, s := range t.subjects {
		sc := st.Scores[s.Code]
		if t.present[s.Column(domain.KindQuiz)] {
			sum += sc.Quiz
			n++
		}
		if t.present[s.Column(domain.KindAssignment)] {
			sum += sc.Assignment
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

package domain

import (
	"context"
	"time"
)

// SubjectScores holds one student's quiz and assignment score for a subject.
type SubjectScores struct {
	Quiz       float64 `json:"quiz"`
	Assignment float64 `json:"tugas"`
}

// Average is the combined (quiz+assignment)/2 score.
func (s SubjectScores) Average() float64 {
	return (s.Quiz + s.Assignment) / 2
}

// Student is one row of the merged, cleaned dataset.
// Demographic fields are only meaningful when the table reports them as present.
type Student struct {
	ID         int
	Name       string
	NIS        string
	GradeClass string
	Gender     string
	Age        int
	Absences   int
	Scores     map[string]SubjectScores // keyed by subject code
}

// StudentRecord is the account-level view of a student from the relational directory.
type StudentRecord struct {
	NIS       string    `json:"nis"`
	FullName  string    `json:"nama_lengkap"`
	Phone     string    `json:"no_telepon,omitempty"`
	ParentNIK string    `json:"nik_orangtua,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StudentDirectory looks students up in the school's account database.
type StudentDirectory interface {
	GetByNIS(ctx context.Context, nis string) (*StudentRecord, error)
	List(ctx context.Context) ([]StudentRecord, error)
}

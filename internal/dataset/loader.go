package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/rogrow/internal/domain"
)

const (
	StudentsFile    = "data_siswa.csv"
	QuizFile        = "nilai_kuis.csv"
	AssignmentsFile = "nilai_tugas.csv"

	SourceCSV   = "csv"
	SourceDummy = "dummy"

	dummyStudents = 30
)

// Snapshot is one immutable load of the dataset.
type Snapshot struct {
	Raw      *Frame
	Table    *Table
	LoadedAt time.Time
	Source   string
}

type Loader struct {
	dir      string
	subjects []domain.Subject
	clock    clockwork.Clock
	seed     uint64
}

// NewLoader reads from dir. A zero seed seeds the dummy generator from the clock.
func NewLoader(dir string, subjects []domain.Subject, clock clockwork.Clock, seed uint64) *Loader {
	return &Loader{dir: dir, subjects: subjects, clock: clock, seed: seed}
}

// Load reads and merges the three CSV files. If any of them cannot be read
// or merged it logs a warning and returns a generated dummy dataset instead.
func (l *Loader) Load(ctx context.Context) *Snapshot {
	snap, err := l.Reload(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to load dataset, using dummy data", "dir", l.dir, "error", err)
		return l.snapshot(Dummy(l.subjects, l.rand()), SourceDummy)
	}
	return snap
}

// Reload reads and merges the three CSV files without the dummy fallback.
func (l *Loader) Reload(ctx context.Context) (*Snapshot, error) {
	raw, err := l.LoadCSV()
	if err != nil {
		return nil, err
	}

	snap := l.snapshot(raw, SourceCSV)
	slog.InfoContext(ctx, "Dataset loaded", "rows", raw.Len(), "clean_rows", snap.Table.Len(), "dir", l.dir)
	return snap, nil
}

// LoadCSV returns the merged raw frame without any fallback.
func (l *Loader) LoadCSV() (*Frame, error) {
	students, err := ReadCSVFile(filepath.Join(l.dir, StudentsFile))
	if err != nil {
		return nil, err
	}
	quizzes, err := ReadCSVFile(filepath.Join(l.dir, QuizFile))
	if err != nil {
		return nil, err
	}
	assignments, err := ReadCSVFile(filepath.Join(l.dir, AssignmentsFile))
	if err != nil {
		return nil, err
	}

	merged, err := LeftJoin(students, quizzes, JoinKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to merge quiz scores: %w", err)
	}
	merged, err = LeftJoin(merged, assignments, JoinKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to merge assignment scores: %w", err)
	}
	return merged, nil
}

func (l *Loader) snapshot(raw *Frame, source string) *Snapshot {
	return &Snapshot{
		Raw:      raw,
		Table:    Clean(raw, l.subjects),
		LoadedAt: l.clock.Now(),
		Source:   source,
	}
}

func (l *Loader) rand() *rand.Rand {
	seed := l.seed
	if seed == 0 {
		seed = uint64(l.clock.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Dummy generates 30 students "Siswa 1".."Siswa 30" with NIS 20230101..
// and uniform scores in [50, 100) for every subject column.
func Dummy(subjects []domain.Subject, r *rand.Rand) *Frame {
	header := []string{ColID, ColName, ColNIS}
	for _, s := range subjects {
		header = append(header, s.Column(domain.KindQuiz), s.Column(domain.KindAssignment))
	}

	rows := make([][]string, dummyStudents)
	for i := range rows {
		n := i + 1
		row := []string{strconv.Itoa(n), fmt.Sprintf("Siswa %d", n), fmt.Sprintf("202301%02d", n)}
		for range subjects {
			row = append(row, formatScore(50+50*r.Float64()), formatScore(50+50*r.Float64()))
		}
		rows[i] = row
	}

	return &Frame{Header: header, Rows: rows}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package dataset

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/rogrow/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoader_LoadCSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, StudentsFile, "Id,Nama Lengkap,NIS,Kelas,Jenis Kelamin,Umur,Absensi\n"+
		"1,Ani,2023001,A-1,P,10,2\n"+
		"2,Budi,2023002,B-2,L,11,4\n"+
		"3,Citra,2023003,A-3,P,10,1\n")
	writeFile(t, dir, QuizFile, "Id,Nama Lengkap,NIS,MTK_Quiz\n1,Ani,2023001,80\n2,Budi,2023002,70\n")
	writeFile(t, dir, AssignmentsFile, "Id,Nama Lengkap,NIS,MTK_Tugas\n1,Ani,2023001,90\n2,Budi,2023002,60\n3,Citra,2023003,75\n")

	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	loader := NewLoader(dir, catalog.MustDefault().Subjects, clock, 1)

	snap := loader.Load(context.Background())

	assert.Equal(t, SourceCSV, snap.Source)
	assert.Equal(t, clock.Now(), snap.LoadedAt)
	assert.Equal(t, 3, snap.Raw.Len())
	// Citra has no quiz row and is dropped.
	assert.Equal(t, 2, snap.Table.Len())
	assert.Equal(t, []string{
		"Id", "Nama Lengkap", "NIS", "Kelas", "Jenis Kelamin", "Umur", "Absensi", "MTK_Quiz", "MTK_Tugas",
	}, snap.Table.Columns())
	assert.True(t, snap.Table.HasAttendance())
}

func TestLoader_FallsBackToDummy(t *testing.T) {
	clock := clockwork.NewFakeClock()
	loader := NewLoader(filepath.Join(t.TempDir(), "missing"), catalog.MustDefault().Subjects, clock, 42)

	snap := loader.Load(context.Background())

	assert.Equal(t, SourceDummy, snap.Source)
	require.Equal(t, 30, snap.Table.Len())
	assert.Len(t, snap.Table.Columns(), 3+14)
	assert.False(t, snap.Table.HasAttendance())

	first := snap.Table.Students()[0]
	assert.Equal(t, "Siswa 1", first.Name)
	assert.Equal(t, "20230101", first.NIS)
	last := snap.Table.Students()[29]
	assert.Equal(t, "Siswa 30", last.Name)
	assert.Equal(t, "20230130", last.NIS)

	for _, st := range snap.Table.Students() {
		for code, sc := range st.Scores {
			assert.GreaterOrEqual(t, sc.Quiz, 50.0, code)
			assert.Less(t, sc.Quiz, 100.0, code)
			assert.GreaterOrEqual(t, sc.Assignment, 50.0, code)
			assert.Less(t, sc.Assignment, 100.0, code)
		}
	}
}

func TestLoader_ReloadReportsMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, StudentsFile, "Id,Nama Lengkap,NIS\n1,Ani,01\n")
	writeFile(t, dir, AssignmentsFile, "Id,Nama Lengkap,NIS,MTK_Tugas\n1,Ani,01,90\n")

	snap, err := NewLoader(dir, catalog.MustDefault().Subjects, clockwork.NewFakeClock(), 1).Reload(context.Background())

	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Nil(t, snap)
}

func TestLoader_SeedIsDeterministic(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	subjects := catalog.MustDefault().Subjects

	a := NewLoader(missing, subjects, clockwork.NewFakeClock(), 7).Load(context.Background())
	b := NewLoader(missing, subjects, clockwork.NewFakeClock(), 7).Load(context.Background())

	assert.Equal(t, a.Raw.Rows, b.Raw.Rows)
}

func TestLoader_MissingJoinColumn(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, StudentsFile, "Id,NIS\n1,01\n")
	writeFile(t, dir, QuizFile, "Id,Nama Lengkap,NIS\n1,Ani,01\n")
	writeFile(t, dir, AssignmentsFile, "Id,Nama Lengkap,NIS\n1,Ani,01\n")

	_, err := NewLoader(dir, nil, clockwork.NewFakeClock(), 1).LoadCSV()
	assert.ErrorContains(t, err, "failed to merge quiz scores")
}

func TestDummy_UsesAllSubjects(t *testing.T) {
	subjects := catalog.MustDefault().Subjects
	f := Dummy(subjects, rand.New(rand.NewPCG(1, 2)))

	assert.Equal(t, 30, f.Len())
	assert.Equal(t, "MTK_Quiz", f.Header[3])
	assert.Equal(t, "Seni_Tugas", f.Header[len(f.Header)-1])
}

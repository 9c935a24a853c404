package analytics

import (
	"strings"
	"testing"

	"github.com/pscheid92/rogrow/internal/catalog"
	"github.com/pscheid92/rogrow/internal/dataset"
	"github.com/stretchr/testify/require"
)

func newTable(t *testing.T, doc string) *dataset.Table {
	t.Helper()
	f, err := dataset.ReadCSV(strings.NewReader(doc))
	require.NoError(t, err)
	return dataset.Clean(f, catalog.MustDefault().Subjects)
}

// attendanceTable has 10 students whose mean score falls by 2 per absence.
const attendanceTable = "Id,Nama Lengkap,NIS,Kelas,Umur,Absensi,MTK_Quiz,MTK_Tugas\n" +
	"1,Ani,01,A-1,10,0,90,90\n" +
	"2,Budi,02,A-2,10,1,88,88\n" +
	"3,Citra,03,B-1,11,2,86,86\n" +
	"4,Dedi,04,B-2,11,3,84,84\n" +
	"5,Eka,05,A-1,9,4,82,82\n" +
	"6,Fajar,06,C-1,10,5,80,80\n" +
	"7,Gita,07,C-2,12,6,78,78\n" +
	"8,Hadi,08,A-3,10,7,76,76\n" +
	"9,Intan,09,B-3,11,8,74,74\n" +
	"10,Joko,10,A-1,10,9,72,72\n"

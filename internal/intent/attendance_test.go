package intent

import (
	"strings"
	"testing"

	"github.com/pscheid92/rogrow/internal/catalog"
	"github.com/pscheid92/rogrow/internal/domain"
	"github.com/stretchr/testify/assert"
)

// attendanceCSV has 10 students whose score falls by 2 per day absent.
const attendanceCSV = "Id,Nama Lengkap,NIS,Kelas,Jenis Kelamin,Umur,Absensi,MTK_Quiz,MTK_Tugas\n" +
	"1,Ani,01,A-1,P,10,0,90,90\n" +
	"2,Budi,02,A-2,L,10,1,88,88\n" +
	"3,Citra,03,B-1,P,11,2,86,86\n" +
	"4,Dedi,04,B-2,L,11,3,84,84\n" +
	"5,Eka,05,A-1,P,9,4,82,82\n" +
	"6,Fajar,06,C-1,L,10,5,80,80\n" +
	"7,Gita,07,C-2,P,12,6,78,78\n" +
	"8,Hadi,08,A-3,L,10,7,76,76\n" +
	"9,Intan,09,B-3,P,11,8,74,74\n" +
	"10,Joko,10,A-1,L,10,9,72,72\n"

func TestAnswer_AttendanceIntents(t *testing.T) {
	d := newData(t, attendanceCSV)
	r := New(catalog.MustDefault())

	tests := []struct {
		question string
		intent   domain.Intent
		want     string
	}{
		{
			"siapa siswa dengan nilai tertinggi?",
			domain.IntentTopStudent,
			"Siswa dengan skor tertinggi adalah Ani dengan skor 90.00.",
		},
		{
			"siswa yang absensi paling sedikit",
			domain.IntentLowestAbsence,
			"Siswa dengan absensi terendah adalah Ani dengan 0 hari absen.",
		},
		{
			"nilai tertinggi",
			domain.IntentHighestSubject,
			"🏆 **Mata pelajaran dengan rata-rata tertinggi**: Matematika (81.0)\n\n✨ Kelas ini paling unggul di Matematika!",
		},
		{
			"distribusi umur",
			domain.IntentAgeDistribution,
			"Distribusi umur siswa:\n- 9 tahun: 1 siswa (10.0%)\n- 10 tahun: 5 siswa (50.0%)\n- 11 tahun: 3 siswa (30.0%)\n- 12 tahun: 1 siswa (10.0%)\n",
		},
		{
			"sebaran grade",
			domain.IntentGradeDistribution,
			"Distribusi grade siswa:\n- Grade A: 5 siswa (50.0%)\n- Grade B: 3 siswa (30.0%)\n- Grade C: 2 siswa (20.0%)\n",
		},
		{
			"apa korelasi skor dan absensi?",
			domain.IntentScoreAbsenceCorrelate,
			"Korelasi antara skor mata pelajaran dan absensi adalah -1.000, menunjukkan hubungan kuat dan negatif. Semakin tinggi absensi, semakin rendah skor.",
		},
		{
			"prediksi skor jika absensi 5",
			domain.IntentScorePrediction,
			"Berdasarkan model regresi, dengan absensi 5 hari, skor yang diprediksi adalah 80.00.",
		},
		{
			"ceritakan tentang dataset",
			domain.IntentDatasetDescription,
			"Dataset ini berisi informasi tentang 10 siswa dengan data skor mata pelajaran, tingkat absensi, umur, dan grade kelas. " +
				"Rata-rata skor adalah 81.00 dengan absensi rata-rata 4.50 hari. Rentang umur siswa adalah 9-12 tahun.",
		},
		{
			"bagaimana prestasi akademik siswa",
			domain.IntentPerformanceOverview,
			"Berdasarkan dataset 10 siswa:\n\n" +
				"1. Rata-rata skor siswa adalah 81.00 dari total nilai maksimal 100\n" +
				"2. Skor tertinggi yang dicapai adalah 90.00\n" +
				"3. Mata pelajaran dengan rata-rata tertinggi adalah Matematika\n" +
				"4. Hubungan skor dan absensi bersifat kuat dan negatif",
		},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			ans := ask(t, r, d, tt.question)
			assert.Equal(t, tt.intent, ans.Intent)
			assert.Equal(t, tt.want, ans.Text)
		})
	}
}

func TestAnswer_Gamification(t *testing.T) {
	d := newData(t, attendanceCSV)
	cat := catalog.MustDefault()
	r := New(cat)

	ans := ask(t, r, d, "rekomendasi gamifikasi untuk kelas")

	g := cat.Gamification
	want := []string{g.Intro, g.GoodScore, g.HighAbsence, g.NegativeCorrelation}
	want = append(want, g.General...)
	assert.Equal(t, domain.IntentGamification, ans.Intent)
	assert.Equal(t, strings.Join(want, "\n\n"), ans.Text)
}

func TestAnswer_GamificationLowScoresGoodAttendance(t *testing.T) {
	d := newData(t, "Id,Nama Lengkap,NIS,Absensi,MTK_Quiz,MTK_Tugas\n"+
		"1,Ani,01,1,60,60\n"+
		"2,Budi,02,2,65,65\n"+
		"3,Citra,03,0,50,50\n")
	cat := catalog.MustDefault()
	r := New(cat)

	ans := ask(t, r, d, "strategi motivasi")

	g := cat.Gamification
	want := append([]string{g.Intro, g.LowScore, g.GoodAttendance}, g.General...)
	assert.Equal(t, strings.Join(want, "\n\n"), ans.Text)
}

func TestAnswer_PredictionWithoutRegression(t *testing.T) {
	d := newData(t, "Id,Nama Lengkap,NIS,Absensi,MTK_Quiz,MTK_Tugas\n"+
		"1,Ani,01,2,80,70\n"+
		"2,Budi,02,2,60,50\n"+
		"3,Citra,03,4,90,90\n")
	r := New(catalog.MustDefault())

	ans := ask(t, r, d, "skor dengan absensi 2")
	assert.Equal(t, domain.IntentScorePrediction, ans.Intent)
	assert.Equal(t, "Berdasarkan data siswa dengan absensi 2 hari, skor rata-rata adalah 65.00.", ans.Text)

	ans = ask(t, r, d, "skor dengan absensi 7")
	assert.Equal(t, "Tidak ada data yang cukup untuk memprediksi skor dengan absensi 7 hari.", ans.Text)
}

func TestAnswer_PredictionWithoutNumberFallsThrough(t *testing.T) {
	d := newData(t, attendanceCSV)
	r := New(catalog.MustDefault())

	ans := ask(t, r, d, "prediksi nilai dengan absensi tinggi")
	assert.NotEqual(t, domain.IntentScorePrediction, ans.Intent)
}

func TestAnswer_Clusters(t *testing.T) {
	d := newData(t, attendanceCSV)
	r := New(catalog.MustDefault())

	ans := ask(t, r, d, "kelompok siswa")

	assert.Equal(t, domain.IntentClusters, ans.Intent)
	assert.True(t, strings.HasPrefix(ans.Text, "Berdasarkan analisis clustering, siswa dapat dikelompokkan menjadi:\n\n- Cluster 0: "))
	assert.Contains(t, ans.Text, "- Cluster 2: ")
	assert.Contains(t, ans.Text, "  Rata-rata absensi: ")
}

func TestAnswer_ClustersUnavailable(t *testing.T) {
	d := newData(t, "Id,Nama Lengkap,NIS,Absensi,MTK_Quiz,MTK_Tugas\n1,Ani,01,2,80,70\n")
	r := New(catalog.MustDefault())

	ans := ask(t, r, d, "grup siswa")
	assert.Equal(t, "Maaf, analisis clustering belum tersedia untuk dataset ini.", ans.Text)
}

func TestAnswer_CorrelationUndefined(t *testing.T) {
	d := newData(t, "Id,Nama Lengkap,NIS,Absensi,MTK_Quiz,MTK_Tugas\n1,Ani,01,2,80,70\n2,Budi,02,2,60,50\n")
	r := New(catalog.MustDefault())

	ans := ask(t, r, d, "hubungan kehadiran")
	assert.Equal(t, domain.IntentScoreAbsenceCorrelate, ans.Intent)
	assert.Contains(t, ans.Text, "tidak dapat dihitung")
}

func TestAnswer_LearningStrategy(t *testing.T) {
	d := newData(t, scoresCSV)
	cat := catalog.MustDefault()
	r := New(cat)

	ans := ask(t, r, d, "bagaimana cara meningkatkan nilai")
	assert.Equal(t, domain.IntentLearningStrategy, ans.Intent)
	assert.Equal(t, cat.Strategies, ans.Text)
}

func TestAnswer_GoodGrades(t *testing.T) {
	d := newData(t, attendanceCSV)
	cat := catalog.MustDefault()
	r := New(cat)

	for _, q := range []string{
		"tips mendapatkan nilai bagus",
		"bagaimana cara meningkatkan nilai",
		"meningkatkan skor ujian",
	} {
		ans := ask(t, r, d, q)
		assert.Equal(t, domain.IntentGoodGrades, ans.Intent, q)
		assert.Equal(t, cat.GoodGradeTips(81, "A-2"), ans.Text, q)
	}
}

func TestAnswer_GoodGradesLeavesSubjectTips(t *testing.T) {
	d := newData(t, attendanceCSV)
	cat := catalog.MustDefault()
	r := New(cat)

	ans := ask(t, r, d, "tips nilai matematika")
	assert.Equal(t, domain.IntentStudyTips, ans.Intent)
	assert.Equal(t, strings.Join(cat.Tips.Math, "\n"), ans.Text)
}

func TestAnswer_GoodGradesNeedsGradeClasses(t *testing.T) {
	d := newData(t, scoresCSV)
	r := New(catalog.MustDefault())

	ans := ask(t, r, d, "tips mendapatkan nilai bagus")
	assert.Equal(t, domain.IntentStudyTips, ans.Intent)
}

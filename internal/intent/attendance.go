package intent

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pscheid92/rogrow/internal/analytics"
	"github.com/pscheid92/rogrow/internal/domain"
	"github.com/samber/lo"
)

var (
	topStudentRe       = regexp.MustCompile(`(siapa|siswa).*(skor|nilai) tertinggi`)
	lowestAbsenceRe    = regexp.MustCompile(`siswa (dengan|yang) absensi (terendah|paling sedikit)`)
	ageDistributionRe  = regexp.MustCompile(`(distribusi|sebaran) umur`)
	gradeRe            = regexp.MustCompile(`(distribusi|sebaran) (grade|kelas)`)
	correlationRe      = regexp.MustCompile(`(korelasi|hubungan).*(skor|nilai).*absensi|(korelasi|hubungan).*absensi.*(skor|nilai)`)
	gamificationRe     = regexp.MustCompile(`(rekomendasi|saran|strategi) gamifikasi`)
	predictionRe       = regexp.MustCompile(`(prediksi|perkiraan).*(skor|nilai).*(jika|dengan) absensi|skor.*absensi \d+`)
	predictionAbsentRe = regexp.MustCompile(`absensi (\d+)`)
	clusterRe          = regexp.MustCompile(`(kelompok|cluster|grup) siswa`)
)

func (r *Router) topStudent(q string, d Data) (string, bool) {
	if !topStudentRe.MatchString(q) || d.Table.Len() == 0 {
		return "", false
	}
	scores := d.Table.OverallScores()
	st := d.Table.Students()[analytics.MaxIndex(scores)]
	return fmt.Sprintf("Siswa dengan skor tertinggi adalah %s dengan skor %.2f.", st.Name, d.Table.OverallScore(st)), true
}

func (r *Router) lowestAbsence(q string, d Data) (string, bool) {
	if !lowestAbsenceRe.MatchString(q) && !containsAny(q, "absensi terendah", "absensi paling sedikit") {
		return "", false
	}
	if d.Table.Len() == 0 {
		return "", false
	}
	st := d.Table.Students()[analytics.MinIndex(d.Table.Absences())]
	return fmt.Sprintf("Siswa dengan absensi terendah adalah %s dengan %d hari absen.", st.Name, st.Absences), true
}

// goodGrades answers "how do I get good grades" with the dataset mean and the
// best grade class. Subject questions are left to the tips rules.
func (r *Router) goodGrades(q string, d Data) (string, bool) {
	if !d.Table.HasDemographics() || d.Table.Len() == 0 {
		return "", false
	}
	asksGrades := strings.Contains(q, "nilai") && containsAny(q, "bagus", "tips", "cara") ||
		strings.Contains(q, "meningkatkan") && containsAny(q, "nilai", "skor")
	if !asksGrades {
		return "", false
	}
	if _, ok := r.catalog.DetectSubject(q); ok {
		return "", false
	}

	top := "A-1"
	if a := d.Summary.Attendance; a != nil && a.TopGradeClass != "" {
		top = a.TopGradeClass
	}
	return r.catalog.GoodGradeTips(analytics.Mean(d.Table.OverallScores()), top), true
}

func (r *Router) ageDistribution(q string, d Data) (string, bool) {
	if !d.Table.HasDemographics() {
		return "", false
	}
	if !ageDistributionRe.MatchString(q) && !(strings.Contains(q, "umur") && containsAny(q, "distribusi", "sebaran")) {
		return "", false
	}

	var b strings.Builder
	b.WriteString("Distribusi umur siswa:\n")
	for _, bucket := range d.Summary.Attendance.AgeDistribution {
		fmt.Fprintf(&b, "- %d tahun: %d siswa (%.1f%%)\n", bucket.Key, bucket.Count, bucket.Percent)
	}
	return b.String(), true
}

func (r *Router) gradeDistribution(q string, d Data) (string, bool) {
	if !d.Table.HasDemographics() {
		return "", false
	}
	if !gradeRe.MatchString(q) && !strings.Contains(q, "grade") {
		return "", false
	}

	var b strings.Builder
	b.WriteString("Distribusi grade siswa:\n")
	for _, bucket := range d.Summary.Attendance.GradeDistribution {
		fmt.Fprintf(&b, "- Grade %s: %d siswa (%.1f%%)\n", bucket.Key, bucket.Count, bucket.Percent)
	}
	return b.String(), true
}

func (r *Router) scoreAbsenceCorrelation(q string, d Data) (string, bool) {
	if !correlationRe.MatchString(q) && !(strings.Contains(q, "hubungan") && containsAny(q, "absensi", "kehadiran")) {
		return "", false
	}

	corr := d.Summary.Attendance.ScoreAbsenceCorrelation.Float()
	if math.IsNaN(corr) {
		return "Korelasi antara skor mata pelajaran dan absensi tidak dapat dihitung karena data skor atau absensi tidak bervariasi.", true
	}

	s := analytics.CorrelationStrength(corr)
	trend := "Semakin tinggi absensi, semakin tinggi skor."
	if corr < 0 {
		trend = "Semakin tinggi absensi, semakin rendah skor."
	}
	return fmt.Sprintf("Korelasi antara skor mata pelajaran dan absensi adalah %.3f, menunjukkan hubungan %s dan %s. %s",
		corr, s.Level, s.Direction, trend), true
}

func (r *Router) gamification(q string, d Data) (string, bool) {
	if !gamificationRe.MatchString(q) && !strings.Contains(q, "gamifikasi") &&
		!(strings.Contains(q, "strategi") && strings.Contains(q, "motivasi")) {
		return "", false
	}

	g := r.catalog.Gamification
	a := d.Summary.Attendance
	lines := []string{g.Intro}

	if a.MeanScore.Float() < 70 {
		lines = append(lines, g.LowScore)
	} else {
		lines = append(lines, g.GoodScore)
	}
	if a.MeanAbsences.Float() > 3 {
		lines = append(lines, g.HighAbsence)
	} else {
		lines = append(lines, g.GoodAttendance)
	}
	if a.ScoreAbsenceCorrelation.Float() < -0.3 {
		lines = append(lines, g.NegativeCorrelation)
	}
	lines = append(lines, g.General...)

	return strings.Join(lines, "\n\n"), true
}

func (r *Router) scorePrediction(q string, d Data) (string, bool) {
	if !predictionRe.MatchString(q) {
		return "", false
	}
	m := predictionAbsentRe.FindStringSubmatch(q)
	if m == nil {
		return "", false
	}
	absences, err := strconv.Atoi(m[1])
	if err != nil {
		return "", false
	}

	if reg := d.Summary.Attendance.Regression; reg != nil {
		return fmt.Sprintf("Berdasarkan model regresi, dengan absensi %d hari, skor yang diprediksi adalah %.2f.",
			absences, reg.Predict(float64(absences))), true
	}

	similar := lo.Filter(d.Table.Students(), func(st domain.Student, _ int) bool { return st.Absences == absences })
	if len(similar) == 0 {
		return fmt.Sprintf("Tidak ada data yang cukup untuk memprediksi skor dengan absensi %d hari.", absences), true
	}
	scores := lo.Map(similar, func(st domain.Student, _ int) float64 { return d.Table.OverallScore(st) })
	return fmt.Sprintf("Berdasarkan data siswa dengan absensi %d hari, skor rata-rata adalah %.2f.",
		absences, analytics.Mean(scores)), true
}

func (r *Router) clusters(q string, d Data) (string, bool) {
	if !clusterRe.MatchString(q) {
		return "", false
	}
	clusters := d.Summary.Attendance.Clusters
	if len(clusters) == 0 {
		return "Maaf, analisis clustering belum tersedia untuk dataset ini.", true
	}

	var b strings.Builder
	b.WriteString("Berdasarkan analisis clustering, siswa dapat dikelompokkan menjadi:\n\n")
	for _, c := range clusters {
		fmt.Fprintf(&b, "- %s: %d siswa\n", c.Name, c.Students)
		fmt.Fprintf(&b, "  Rata-rata skor: %.2f\n", c.MeanScore.Float())
		fmt.Fprintf(&b, "  Rata-rata absensi: %.2f hari\n\n", c.MeanAbsences.Float())
	}
	return b.String(), true
}

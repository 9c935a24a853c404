package intent

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/pscheid92/rogrow/internal/analytics"
	"github.com/samber/lo"
)

var (
	educationKeywords = []string{
		"belajar", "nilai", "skor", "tips", "cara", "strategi", "efektif",
		"bagus", "meningkatkan", "tingkatkan", "pelajaran", "siswa", "murid",
		"akademik", "prestasi", "performa", "kinerja", "pendidikan",
	}
	describeDatasetRe = regexp.MustCompile(`(ceritakan|jelaskan|informasi|gambaran).*(tentang|mengenai) dataset`)
)

func educationQuestion(q string) ([]string, bool) {
	words := strings.Fields(q)
	return words, len(lo.Intersect(words, educationKeywords)) > 0
}

func (r *Router) learningStrategy(q string, _ Data) (string, bool) {
	words, ok := educationQuestion(q)
	if !ok || !lo.Some(words, []string{"strategi", "tips", "cara"}) {
		return "", false
	}
	return r.catalog.Strategies, true
}

func (r *Router) performanceOverview(q string, d Data) (string, bool) {
	words, ok := educationQuestion(q)
	if !ok || !lo.Some(words, []string{"performa", "prestasi", "akademik"}) || d.Table.Len() == 0 {
		return "", false
	}

	scores := d.Table.OverallScores()
	lines := []string{
		fmt.Sprintf("Berdasarkan dataset %d siswa:\n", d.Table.Len()),
		fmt.Sprintf("1. Rata-rata skor siswa adalah %.2f dari total nilai maksimal 100", analytics.Mean(scores)),
		fmt.Sprintf("2. Skor tertinggi yang dicapai adalah %.2f", analytics.Max(scores)),
	}
	if best, ok := analytics.Best(d.Summary.Subjects); ok {
		lines = append(lines, fmt.Sprintf("3. Mata pelajaran dengan rata-rata tertinggi adalah %s", best.Name))
	}
	if a := d.Summary.Attendance; a != nil && !math.IsNaN(a.ScoreAbsenceCorrelation.Float()) {
		s := analytics.CorrelationStrength(a.ScoreAbsenceCorrelation.Float())
		lines = append(lines, fmt.Sprintf("%d. Hubungan skor dan absensi bersifat %s dan %s", len(lines), s.Level, s.Direction))
	}
	return strings.Join(lines, "\n"), true
}

func (r *Router) datasetDescription(q string, d Data) (string, bool) {
	if !describeDatasetRe.MatchString(q) && !strings.Contains(q, "dataset") {
		return "", false
	}

	t := d.Table
	if !t.HasAttendance() || !t.HasDemographics() || t.Len() == 0 {
		return fmt.Sprintf("Dataset ini berisi informasi tentang %d siswa dengan nilai kuis dan tugas untuk %d mata pelajaran.",
			t.Len(), len(d.Summary.Subjects)), true
	}

	a := d.Summary.Attendance
	minAge, maxAge := a.AgeDistribution[0].Key, a.AgeDistribution[len(a.AgeDistribution)-1].Key
	return fmt.Sprintf("Dataset ini berisi informasi tentang %d siswa dengan data skor mata pelajaran, tingkat absensi, umur, dan grade kelas. "+
		"Rata-rata skor adalah %.2f dengan absensi rata-rata %.2f hari. Rentang umur siswa adalah %d-%d tahun.",
		t.Len(), a.MeanScore.Float(), a.MeanAbsences.Float(), minAge, maxAge), true
}

package intent

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/pscheid92/rogrow/internal/analytics"
	"github.com/pscheid92/rogrow/internal/domain"
)

var (
	greetingWords  = []string{"halo", "hai", "hi", "hello", "hey", "oi", "p", "hei"}
	studentCountRe = regexp.MustCompile(`berapa (jumlah|banyak|total) siswa`)
	tipsQualifiers = []string{"efektif", "baik", "bagus", "sukses"}
	averageClarify = "📊 Ingin melihat rata-rata nilai mata pelajaran apa?\n\nPilihan:\n• Matematika (MTK)\n• Bahasa Indonesia (BINDO)\n• Bahasa Inggris (BING)\n• IPA\n• IPS\n• PKN\n• Seni\n\nContoh: 'rata-rata MTK Quiz' atau 'rata-rata IPA Tugas'"
)

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func (r *Router) greeting(q string, d Data) (string, bool) {
	if !slices.Contains(greetingWords, q) {
		return "", false
	}
	return r.catalog.Greeting(r.rand.IntN(len(r.catalog.Greetings)), d.Table.Len()), true
}

func (r *Router) studentCount(q string, d Data) (string, bool) {
	if !studentCountRe.MatchString(q) && !containsAny(q, "jumlah siswa", "total siswa", "banyak siswa") {
		return "", false
	}
	return fmt.Sprintf("Terdapat %d siswa dalam dataset kami.", d.Table.Len()), true
}

func (r *Router) subjectList(q string, _ Data) (string, bool) {
	if !containsAny(q, "mata pelajaran", "mapel") {
		return "", false
	}
	return "Mata pelajaran yang tersedia: " + strings.Join(r.catalog.Labels(), ", "), true
}

func (r *Router) average(q string, d Data) (string, bool) {
	if !containsAny(q, "rata-rata", "rata rata") {
		return "", false
	}

	subject, hasSubject := r.catalog.DetectSubject(q)
	var kind domain.ScoreKind
	switch {
	case containsAny(q, "quiz", "kuis"):
		kind = domain.KindQuiz
	case strings.Contains(q, "tugas"):
		kind = domain.KindAssignment
	}

	t := d.Table
	n := t.Len()
	switch {
	case hasSubject && kind != "":
		if values, ok := t.Column(subject, kind); ok {
			return fmt.Sprintf("📊 **Rata-rata %s %s** (dari %d siswa): **%.1f**\n\n"+
				"✨ Ini adalah rata-rata dari seluruh siswa di kelas. Nilai ini bisa menjadi benchmark untuk melihat performa kelas secara keseluruhan!",
				kind.DisplayName(), subject.Name, n, analytics.Mean(values)), true
		}
	case hasSubject:
		if t.HasScores(subject) {
			quiz, _ := t.Column(subject, domain.KindQuiz)
			assignment, _ := t.Column(subject, domain.KindAssignment)
			quizMean, assignmentMean := analytics.Mean(quiz), analytics.Mean(assignment)
			higher := domain.KindAssignment
			if quizMean > assignmentMean {
				higher = domain.KindQuiz
			}
			return fmt.Sprintf("📊 **Rata-rata %s** (dari %d siswa):\n\n🎯 **Kuis**: %.1f\n📝 **Tugas**: %.1f\n\n💡 **Insight**: %s memiliki rata-rata lebih tinggi!",
				subject.Name, n, quizMean, assignmentMean, higher.DisplayName()), true
		}
	}

	if containsAny(q, "semua", "keseluruhan") {
		var b strings.Builder
		fmt.Fprintf(&b, "📊 **Rata-rata Semua Mata Pelajaran** (dari %d siswa):\n\n", n)
		for _, avg := range d.Summary.Subjects {
			fmt.Fprintf(&b, "📚 **%s**: Kuis %.1f | Tugas %.1f\n", avg.Name, avg.Quiz.Float(), avg.Assignment.Float())
		}
		b.WriteString("\n🎯 **Tips**: Bandingkan nilai personal Anda dengan rata-rata ini untuk mengetahui area yang perlu ditingkatkan!")
		return b.String(), true
	}

	return averageClarify, true
}

func (r *Router) studyTips(q string, _ Data) (string, bool) {
	if !strings.Contains(q, "tips") && !(strings.Contains(q, "belajar") && containsAny(q, tipsQualifiers...)) {
		return "", false
	}
	if containsAny(q, "matematika", "mtk") {
		return strings.Join(r.catalog.Tips.Math, "\n"), true
	}
	return strings.Join(sample(r.rand, r.catalog.Tips.General, 3), "\n"), true
}

func (r *Router) highestSubject(q string, d Data) (string, bool) {
	if !containsAny(q, "tertinggi", "terbaik") {
		return "", false
	}
	best, ok := analytics.Best(d.Summary.Subjects)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("🏆 **Mata pelajaran dengan rata-rata tertinggi**: %s (%.1f)\n\n✨ Kelas ini paling unggul di %s!",
		best.Name, best.Combined.Float(), best.Name), true
}

func (r *Router) lowestSubject(q string, d Data) (string, bool) {
	if !containsAny(q, "terendah", "tersulit") {
		return "", false
	}
	worst, ok := analytics.Worst(d.Summary.Subjects)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("📉 **Mata pelajaran yang perlu lebih banyak latihan**: %s (%.1f)\n\n💪 Kelas perlu fokus lebih di %s. Yuk semangat belajar!",
		worst.Name, worst.Combined.Float(), worst.Name), true
}

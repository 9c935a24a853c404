package intent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pscheid92/rogrow/internal/domain"
)

const chatSystemPrompt = "Anda adalah RoGrow, AI chatbot untuk Mindagrow yang membantu siswa, guru, dan orang tua memahami data akademik siswa. " +
	"Jawab dalam Bahasa Indonesia dengan singkat, ramah, dan hanya berdasarkan ringkasan dataset yang diberikan."

func (r *Router) complete(ctx context.Context, question string, d Data) (domain.Answer, bool) {
	text, err := r.completer.Complete(ctx, chatSystemPrompt, buildPrompt(question, d))
	if err != nil {
		slog.WarnContext(ctx, "Language model fallback failed", "error", err)
		return domain.Answer{}, false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Answer{}, false
	}
	return domain.Answer{Intent: domain.IntentLLM, Text: text}, true
}

// buildPrompt pairs the question with a compact description of the dataset.
func buildPrompt(question string, d Data) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ringkasan dataset (%d siswa):\n", d.Table.Len())
	for _, avg := range d.Summary.Subjects {
		fmt.Fprintf(&b, "- %s: rata-rata kuis %.1f, tugas %.1f\n", avg.Name, avg.Quiz.Float(), avg.Assignment.Float())
	}
	if a := d.Summary.Attendance; a != nil {
		fmt.Fprintf(&b, "- Rata-rata absensi: %.1f hari\n", a.MeanAbsences.Float())
		fmt.Fprintf(&b, "- Korelasi skor dan absensi: %.3f\n", a.ScoreAbsenceCorrelation.Float())
	}
	fmt.Fprintf(&b, "\nPertanyaan: %s", strings.TrimSpace(question))
	return b.String()
}

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pscheid92/rogrow/internal/domain"
	openai "github.com/sashabaranov/go-openai"
)

const insightsSystemPrompt = "Anda adalah AI education consultant yang ahli menganalisis nilai akademik siswa dan memberikan rekomendasi untuk meningkatkan performa belajar."

const insightsSchema = `{
  "status": "excellent|good|needs_improvement|concerning",
  "summary": "ringkasan singkat performa akademik",
  "insights": [
    "insight tentang mata pelajaran terbaik/terburuk",
    "insight tentang konsistensi nilai",
    "insight tentang pola nilai"
  ],
  "recommendations": [
    {
      "title": "Judul rekomendasi",
      "description": "Detail rekomendasi",
      "priority": "high|medium|low",
      "subject": "mata pelajaran terkait (jika ada)"
    }
  ],
  "academic_analysis": {
    "strongest_subject": "mata pelajaran dengan nilai tertinggi",
    "weakest_subject": "mata pelajaran yang perlu perbaikan",
    "overall_performance": "deskripsi performa keseluruhan",
    "consistency_level": "tinggi|sedang|rendah"
  }
}`

var errNoJSONObject = errors.New("completion contains no JSON object")

// ScoreInsights asks the model for a structured reading of one student's scores.
func (c *Client) ScoreInsights(ctx context.Context, studentName string, scores []domain.SubjectScoreSummary) (*domain.ScoreInsights, error) {
	if len(scores) == 0 {
		return nil, errors.New("no subject scores to analyze")
	}

	req := c.request(insightsSystemPrompt, buildInsightsPrompt(studentName, scores))
	req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}

	text, err := c.chat(ctx, req)
	if err != nil {
		return nil, err
	}
	return decodeInsights(text)
}

func buildInsightsPrompt(studentName string, scores []domain.SubjectScoreSummary) string {
	var b strings.Builder
	b.WriteString("Analisis data nilai siswa berikut dan berikan insights untuk decision making:\n\n")
	fmt.Fprintf(&b, "Nama siswa: %s\n\n", studentName)
	b.WriteString("Data Nilai per Mata Pelajaran:\n")
	for _, s := range scores {
		fmt.Fprintf(&b, "%s: Kuis %.1f, Tugas %.1f, Rata-rata %.1f\n", s.Subject, s.Quiz, s.Assignment, (s.Quiz+s.Assignment)/2)
	}
	fmt.Fprintf(&b, "\nTotal mata pelajaran: %d\n\n", len(scores))
	b.WriteString("Berikan analisis dalam format JSON dengan struktur:\n")
	b.WriteString(insightsSchema)
	b.WriteString(`

Fokus pada:
1. Identifikasi mata pelajaran yang paling kuat dan yang perlu diperbaiki
2. Analisis konsistensi nilai kuis dan tugas di setiap mata pelajaran
3. Rekomendasi spesifik untuk meningkatkan nilai yang rendah
4. Strategi mempertahankan performa yang sudah baik
5. Tips belajar yang actionable

Jawab dalam Bahasa Indonesia yang mudah dipahami.`)
	return b.String()
}

// decodeInsights tolerates prose or code fences around the JSON object.
func decodeInsights(text string) (*domain.ScoreInsights, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return nil, errNoJSONObject
	}

	var insights domain.ScoreInsights
	if err := json.Unmarshal([]byte(text[start:end+1]), &insights); err != nil {
		return nil, fmt.Errorf("failed to decode insights: %w", err)
	}
	if insights.Summary == "" && len(insights.Insights) == 0 {
		return nil, errors.New("insights response is empty")
	}
	return &insights, nil
}

package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Subjects(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	codes := make([]string, len(c.Subjects))
	for i, s := range c.Subjects {
		codes[i] = s.Code
	}
	assert.Equal(t, []string{"MTK", "BINDO", "BING", "IPA", "IPS", "PKN", "Seni"}, codes)
	assert.Len(t, c.Greetings, 3)
	assert.Len(t, c.Tips.General, 5)
	assert.Len(t, c.Tips.Math, 3)
	assert.NotEmpty(t, c.Fallback)
	assert.Len(t, c.Gamification.General, 3)
	assert.NotEmpty(t, c.Strategies)
}

func TestDetectSubject(t *testing.T) {
	c := MustDefault()

	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"rata-rata matematika", "MTK", true},
		{"rata-rata bahasa inggris tugas", "BING", true},
		{"nilai ipa kuis", "IPA", true},
		{"ilmu pengetahuan sosial", "IPS", true},
		{"pendidikan kewarganegaraan", "PKN", true},
		{"pelajaran seni", "Seni", true},
		{"rata-rata semua", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			s, ok := c.DetectSubject(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, s.Code)
		})
	}
}

func TestDetectSubject_CatalogOrderWins(t *testing.T) {
	c := MustDefault()

	// MTK precedes BING in the catalog.
	s, ok := c.DetectSubject("mtk atau bing")
	require.True(t, ok)
	assert.Equal(t, "MTK", s.Code)
}

func TestLabels(t *testing.T) {
	c := MustDefault()
	assert.Equal(t, []string{
		"MTK (Matematika)", "BINDO (Bahasa Indonesia)", "BING (Bahasa Inggris)",
		"IPA (Ilmu Pengetahuan Alam)", "IPS (Ilmu Pengetahuan Sosial)",
		"PKN (Pendidikan Kewarganegaraan)", "Seni",
	}, c.Labels())
}

func TestGreeting_SubstitutesCount(t *testing.T) {
	c := MustDefault()
	assert.Contains(t, c.Greeting(1, 30), "30 siswa")
	assert.Equal(t, c.Greeting(0, 5), c.Greeting(3, 5))
}

func TestGoodGradeTips(t *testing.T) {
	c := MustDefault()
	text := c.GoodGradeTips(78.456, "B-2")

	assert.True(t, strings.HasPrefix(text, "Berdasarkan analisis dataset dengan rata-rata nilai 78.46, berikut tips mendapatkan nilai bagus:\n\n\n1. Datang"), text)
	assert.Contains(t, text, "3. Siswa di kelas B-2 memiliki rata-rata nilai tertinggi")
	assert.NotContains(t, text, "{")
	assert.Len(t, c.GoodGrades.Steps, 7)
}

func TestSubjectColumn(t *testing.T) {
	c := MustDefault()
	s, ok := c.Subject("MTK")
	require.True(t, ok)
	assert.Equal(t, "MTK_Quiz", s.Column("Quiz"))
	assert.Equal(t, "MTK_Tugas", s.Column("Tugas"))

	_, ok = c.Subject("FIS")
	assert.False(t, ok)
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"not yaml":       "subjects: [",
		"no subjects":    "greetings: [hi]",
		"duplicate code": "subjects:\n  - {code: A, aliases: [a]}\n  - {code: A, aliases: [b]}\ngreetings: [hi]\ntips: {general: [a,b,c]}",
		"no aliases":     "subjects:\n  - {code: A}\ngreetings: [hi]\ntips: {general: [a,b,c]}",
		"few tips":       "subjects:\n  - {code: A, aliases: [a]}\ngreetings: [hi]\ntips: {general: [a]}",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

package domain

// ScoreKind distinguishes quiz scores from assignment scores.
type ScoreKind string

const (
	KindQuiz       ScoreKind = "Quiz"
	KindAssignment ScoreKind = "Tugas"
)

// DisplayName is the Indonesian label used in answers.
func (k ScoreKind) DisplayName() string {
	if k == KindQuiz {
		return "Kuis"
	}
	return "Tugas"
}

// Subject is one school subject. Code doubles as the CSV column prefix
// ("MTK" -> "MTK_Quiz", "MTK_Tugas").
type Subject struct {
	Code    string   `yaml:"code" json:"code"`
	Name    string   `yaml:"name" json:"name"`
	Label   string   `yaml:"label" json:"label"`
	Aliases []string `yaml:"aliases" json:"-"`
}

// Column returns the dataset column name for this subject and kind.
func (s Subject) Column(kind ScoreKind) string {
	return s.Code + "_" + string(kind)
}

// Package catalog holds the static vocabulary of the chatbot: subjects with
// their detection aliases, greeting templates and canned study tips.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pscheid92/rogrow/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type Tips struct {
	General []string `yaml:"general"`
	Math    []string `yaml:"math"`
}

// Gamification holds the recommendation lines picked by dataset thresholds.
type Gamification struct {
	Intro               string   `yaml:"intro"`
	LowScore            string   `yaml:"low_score"`
	GoodScore           string   `yaml:"good_score"`
	HighAbsence         string   `yaml:"high_absence"`
	GoodAttendance      string   `yaml:"good_attendance"`
	NegativeCorrelation string   `yaml:"negative_correlation"`
	General             []string `yaml:"general"`
}

// GoodGrades is the "how do I get good grades" answer. {rata_rata} and
// {kelas} are filled from the dataset.
type GoodGrades struct {
	Intro string   `yaml:"intro"`
	Steps []string `yaml:"steps"`
}

type Catalog struct {
	Subjects     []domain.Subject `yaml:"subjects"`
	Greetings    []string         `yaml:"greetings"`
	Tips         Tips             `yaml:"tips"`
	Strategies   string           `yaml:"strategies"`
	Gamification Gamification     `yaml:"gamification"`
	GoodGrades   GoodGrades       `yaml:"good_grades"`
	Fallback     string           `yaml:"fallback"`
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// MustDefault is Default for program start-up and tests.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	for i := range c.Subjects {
		for j, a := range c.Subjects[i].Aliases {
			c.Subjects[i].Aliases[j] = strings.ToLower(a)
		}
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Subjects) == 0 {
		return errors.New("catalog has no subjects")
	}
	seen := make(map[string]bool, len(c.Subjects))
	for _, s := range c.Subjects {
		if s.Code == "" {
			return errors.New("catalog subject without code")
		}
		if seen[s.Code] {
			return fmt.Errorf("duplicate subject code %q", s.Code)
		}
		seen[s.Code] = true
		if len(s.Aliases) == 0 {
			return fmt.Errorf("subject %q has no aliases", s.Code)
		}
	}
	if len(c.Greetings) == 0 {
		return errors.New("catalog has no greetings")
	}
	if len(c.Tips.General) < 3 {
		return errors.New("catalog needs at least 3 general tips")
	}
	return nil
}

// Subject returns the subject with the given code.
func (c *Catalog) Subject(code string) (domain.Subject, bool) {
	for _, s := range c.Subjects {
		if s.Code == code {
			return s, true
		}
	}
	return domain.Subject{}, false
}

// DetectSubject returns the first subject (in catalog order) whose alias
// occurs as a substring of text.
func (c *Catalog) DetectSubject(text string) (domain.Subject, bool) {
	for _, s := range c.Subjects {
		for _, alias := range s.Aliases {
			if strings.Contains(text, alias) {
				return s, true
			}
		}
	}
	return domain.Subject{}, false
}

// Labels lists the long subject labels in catalog order.
func (c *Catalog) Labels() []string {
	labels := make([]string, len(c.Subjects))
	for i, s := range c.Subjects {
		labels[i] = s.Label
	}
	return labels
}

// Greeting renders greeting i with the student count substituted.
// GoodGradeTips renders the good grades answer for a dataset mean score and
// the grade class with the highest mean.
func (c *Catalog) GoodGradeTips(mean float64, topClass string) string {
	r := strings.NewReplacer("{rata_rata}", strconv.FormatFloat(mean, 'f', 2, 64), "{kelas}", topClass)
	parts := make([]string, 0, len(c.GoodGrades.Steps)+1)
	parts = append(parts, r.Replace(c.GoodGrades.Intro))
	for _, step := range c.GoodGrades.Steps {
		parts = append(parts, r.Replace(step))
	}
	return strings.Join(parts, "\n\n")
}

func (c *Catalog) Greeting(i, count int) string {
	return strings.ReplaceAll(c.Greetings[i%len(c.Greetings)], "{count}", strconv.Itoa(count))
}

// Package analytics computes the aggregates the chatbot answers with.
package analytics

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Value is a float that encodes NaN and infinities as JSON null.
type Value float64

func (v Value) MarshalJSON() ([]byte, error) {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'f', -1, 64), nil
}

func (v Value) Float() float64 {
	return float64(v)
}

// Mean is NaN for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// Min is NaN for an empty slice.
func Min(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return floats.Min(xs)
}

// Max is NaN for an empty slice.
func Max(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return floats.Max(xs)
}

// MaxIndex returns the first index holding the maximum, or -1.
func MaxIndex(xs []float64) int {
	if len(xs) == 0 {
		return -1
	}
	return floats.MaxIdx(xs)
}

// MinIndex returns the first index holding the minimum, or -1.
func MinIndex(xs []float64) int {
	if len(xs) == 0 {
		return -1
	}
	return floats.MinIdx(xs)
}

// Correlation is the Pearson coefficient of x and y. It is NaN when fewer
// than two pairs exist or either series is constant.
func Correlation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	if math.IsInf(r, 0) {
		return math.NaN()
	}
	return r
}

// Strength describes a correlation coefficient in words.
type Strength struct {
	Level     string `json:"level"`
	Direction string `json:"direction"`
}

// CorrelationStrength buckets |r| into lemah (<0.3), sedang (<0.7) or kuat.
// Direction is positif only for r > 0.
func CorrelationStrength(r float64) Strength {
	var s Strength
	switch abs := math.Abs(r); {
	case abs < 0.3:
		s.Level = "lemah"
	case abs < 0.7:
		s.Level = "sedang"
	default:
		s.Level = "kuat"
	}
	if r > 0 {
		s.Direction = "positif"
	} else {
		s.Direction = "negatif"
	}
	return s
}

// Bucket is one value of a distribution.
type Bucket[K cmp.Ordered] struct {
	Key     K       `json:"key"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Distribution counts occurrences of each value, ordered by value.
func Distribution[K cmp.Ordered](values []K) []Bucket[K] {
	counts := lo.CountValues(values)
	keys := lo.Keys(counts)
	slices.Sort(keys)

	return lo.Map(keys, func(k K, _ int) Bucket[K] {
		return Bucket[K]{
			Key:     k,
			Count:   counts[k],
			Percent: float64(counts[k]) * 100 / float64(len(values)),
		}
	})
}

// GradeOf returns the grade part of a class name ("A-3" -> "A").
func GradeOf(gradeClass string) string {
	grade, _, _ := strings.Cut(gradeClass, "-")
	return grade
}

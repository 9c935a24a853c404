package analytics

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// MinRegressionStudents is the smallest table that gets a regression model.
const MinRegressionStudents = 10

// Regression is the least-squares line score = Intercept + Coefficient*absences.
type Regression struct {
	Intercept   float64 `json:"intercept"`
	Coefficient float64 `json:"coef_absensi"`
}

// FitRegression regresses y on x. A constant x yields a flat line at mean(y).
func FitRegression(x, y []float64) (Regression, error) {
	if len(x) != len(y) {
		return Regression{}, fmt.Errorf("series differ in length: %d != %d", len(x), len(y))
	}
	if len(x) == 0 {
		return Regression{}, fmt.Errorf("cannot fit a regression to zero points")
	}
	if len(x) == 1 || stat.Variance(x, nil) == 0 {
		return Regression{Intercept: Mean(y)}, nil
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	return Regression{Intercept: alpha, Coefficient: beta}, nil
}

// Predict evaluates the line at absences.
func (r Regression) Predict(absences float64) float64 {
	return r.Intercept + r.Coefficient*absences
}

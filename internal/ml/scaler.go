/*
Package ml implements the small supervised-learning toolkit used by the
predictive engine: z-score scaling, label encoding, seeded train/test
splitting, CART decision trees, a random-forest classifier and a
gradient-boosted regressor.

Everything here is deterministic under a fixed seed, which is what makes
repeated training runs on identical history reproducible.
*/
package ml

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler is a z-score feature scaler. Its parameters are learned
// once at training time (on the training split only) and reused
// unchanged at prediction time.
type StandardScaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Fit learns per-feature mean and standard deviation. Zero-variance
// features get a standard deviation of 1 so they pass through centered.
func (s *StandardScaler) Fit(x [][]float64) error {
	if len(x) == 0 {
		return fmt.Errorf("cannot fit scaler on empty matrix")
	}

	width := len(x[0])
	s.Mean = make([]float64, width)
	s.Std = make([]float64, width)

	col := make([]float64, len(x))
	for j := 0; j < width; j++ {
		for i, row := range x {
			col[i] = row[j]
		}
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		s.Mean[j] = mean
		s.Std[j] = std
	}
	return nil
}

// Transform scales a matrix with the fitted parameters.
func (s *StandardScaler) Transform(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = s.TransformVector(row)
	}
	return out
}

// TransformVector scales a single feature vector.
func (s *StandardScaler) TransformVector(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out
}

// Fitted reports whether Fit has been called.
func (s *StandardScaler) Fitted() bool {
	return len(s.Mean) > 0
}

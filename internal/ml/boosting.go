package ml

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Default gradient-boosting hyperparameters.
const (
	boostingStages   = 100
	boostingRate     = 0.1
	boostingMaxDepth = 3
)

// GradientBoosting is a gradient-boosted regression tree ensemble with
// squared loss: a mean baseline plus shallow trees fit to residuals.
type GradientBoosting struct {
	NumStages    int         `json:"num_stages"`
	LearningRate float64     `json:"learning_rate"`
	MaxDepth     int         `json:"max_depth"`
	Seed         int64       `json:"seed"`
	Init         float64     `json:"init"`
	Trees        []*TreeNode `json:"trees"`
}

// NewGradientBoosting creates an unfitted regressor with default
// hyperparameters.
func NewGradientBoosting(seed int64) *GradientBoosting {
	return &GradientBoosting{
		NumStages:    boostingStages,
		LearningRate: boostingRate,
		MaxDepth:     boostingMaxDepth,
		Seed:         seed,
	}
}

// Fit trains the ensemble stage by stage against the residuals of the
// running prediction.
func (g *GradientBoosting) Fit(x [][]float64, y []float64) error {
	if len(x) == 0 || len(x) != len(y) {
		return fmt.Errorf("invalid training set: %d rows, %d targets", len(x), len(y))
	}

	n := len(x)
	g.Init = stat.Mean(y, nil)
	g.Trees = make([]*TreeNode, 0, g.NumStages)

	preds := make([]float64, n)
	for i := range preds {
		preds[i] = g.Init
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	cfg := treeConfig{
		maxDepth:   g.MaxDepth,
		minSamples: 2,
	}

	resid := make([]float64, n)
	for stage := 0; stage < g.NumStages; stage++ {
		for i := range resid {
			resid[i] = y[i] - preds[i]
		}

		tree := growTree(x, resid, idx, 0, cfg)
		g.Trees = append(g.Trees, tree)

		for i, row := range x {
			preds[i] += g.LearningRate * predictNode(tree, row).Value
		}
	}

	return nil
}

// Predict returns the predicted target for one feature vector.
func (g *GradientBoosting) Predict(x []float64) float64 {
	out := g.Init
	for _, tree := range g.Trees {
		out += g.LearningRate * predictNode(tree, x).Value
	}
	return out
}

// PredictAll predicts targets for every row.
func (g *GradientBoosting) PredictAll(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = g.Predict(row)
	}
	return out
}

// Fitted reports whether the ensemble has been trained.
func (g *GradientBoosting) Fitted() bool {
	return len(g.Trees) > 0
}

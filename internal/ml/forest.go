package ml

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Default random-forest hyperparameters.
const (
	forestTrees    = 100
	forestMaxDepth = 10
)

// RandomForest is a bagged ensemble of CART classification trees with
// sqrt-feature subsampling. Probabilities are the average of the
// per-tree leaf distributions.
type RandomForest struct {
	NumTrees   int         `json:"num_trees"`
	MaxDepth   int         `json:"max_depth"`
	NumClasses int         `json:"num_classes"`
	Seed       int64       `json:"seed"`
	Trees      []*TreeNode `json:"trees"`
}

// NewRandomForest creates an unfitted forest with default hyperparameters.
func NewRandomForest(seed int64) *RandomForest {
	return &RandomForest{
		NumTrees: forestTrees,
		MaxDepth: forestMaxDepth,
		Seed:     seed,
	}
}

// Fit trains the forest on integer-coded labels in [0, numClasses).
// Training is deterministic for a fixed seed.
func (f *RandomForest) Fit(x [][]float64, y []int, numClasses int) error {
	if len(x) == 0 || len(x) != len(y) {
		return fmt.Errorf("invalid training set: %d rows, %d labels", len(x), len(y))
	}

	n := len(x)
	width := len(x[0])
	maxFeatures := int(math.Sqrt(float64(width)))
	if maxFeatures < 1 {
		maxFeatures = 1
	}

	yf := make([]float64, n)
	for i, c := range y {
		yf[i] = float64(c)
	}

	rng := rand.New(rand.NewSource(f.Seed))
	f.NumClasses = numClasses
	f.Trees = make([]*TreeNode, 0, f.NumTrees)

	cfg := treeConfig{
		maxDepth:    f.MaxDepth,
		minSamples:  2,
		maxFeatures: maxFeatures,
		numClasses:  numClasses,
		rng:         rng,
	}

	for t := 0; t < f.NumTrees; t++ {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		f.Trees = append(f.Trees, growTree(x, yf, idx, 0, cfg))
	}
	return nil
}

// PredictProba returns the probability distribution over class codes.
func (f *RandomForest) PredictProba(x []float64) []float64 {
	dist := make([]float64, f.NumClasses)
	if len(f.Trees) == 0 {
		return dist
	}
	for _, tree := range f.Trees {
		leaf := predictNode(tree, x)
		for j, p := range leaf.Dist {
			dist[j] += p
		}
	}
	for j := range dist {
		dist[j] /= float64(len(f.Trees))
	}
	return dist
}

// Predict returns the most probable class code.
func (f *RandomForest) Predict(x []float64) int {
	return floats.MaxIdx(f.PredictProba(x))
}

// PredictAll predicts class codes for every row.
func (f *RandomForest) PredictAll(x [][]float64) []int {
	out := make([]int, len(x))
	for i, row := range x {
		out[i] = f.Predict(row)
	}
	return out
}

// Fitted reports whether the forest has been trained.
func (f *RandomForest) Fitted() bool {
	return len(f.Trees) > 0
}

package ml

import (
	"math/rand"
	"sort"
)

// TreeNode is one node of a CART tree. Internal nodes route on
// x[Feature] <= Threshold; leaves carry either a class distribution
// (classification) or a mean target (regression).
type TreeNode struct {
	Leaf      bool      `json:"leaf"`
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *TreeNode `json:"left,omitempty"`
	Right     *TreeNode `json:"right,omitempty"`

	// Dist is the class probability distribution at a classification leaf.
	Dist []float64 `json:"dist,omitempty"`

	// Value is the mean target at a regression leaf.
	Value float64 `json:"value,omitempty"`
}

// treeConfig controls tree growth.
type treeConfig struct {
	maxDepth   int
	minSamples int
	// maxFeatures is the number of features considered per split;
	// 0 means all features.
	maxFeatures int
	// numClasses > 0 grows a classification tree over integer-coded
	// labels; 0 grows a regression tree.
	numClasses int
	rng        *rand.Rand
}

// growTree recursively builds a tree over the rows of x selected by idx.
// For classification, y holds integer class codes as float64.
func growTree(x [][]float64, y []float64, idx []int, depth int, cfg treeConfig) *TreeNode {
	if depth >= cfg.maxDepth || len(idx) < cfg.minSamples || isPure(y, idx) {
		return makeLeaf(y, idx, cfg)
	}

	feat, threshold, ok := bestSplit(x, y, idx, cfg)
	if !ok {
		return makeLeaf(y, idx, cfg)
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feat] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return makeLeaf(y, idx, cfg)
	}

	return &TreeNode{
		Feature:   feat,
		Threshold: threshold,
		Left:      growTree(x, y, left, depth+1, cfg),
		Right:     growTree(x, y, right, depth+1, cfg),
	}
}

// predictNode walks a vector down to its leaf.
func predictNode(n *TreeNode, x []float64) *TreeNode {
	for !n.Leaf {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n
}

func isPure(y []float64, idx []int) bool {
	for _, i := range idx[1:] {
		if y[i] != y[idx[0]] {
			return false
		}
	}
	return true
}

func makeLeaf(y []float64, idx []int, cfg treeConfig) *TreeNode {
	if cfg.numClasses > 0 {
		dist := make([]float64, cfg.numClasses)
		for _, i := range idx {
			dist[int(y[i])]++
		}
		for j := range dist {
			dist[j] /= float64(len(idx))
		}
		return &TreeNode{Leaf: true, Dist: dist}
	}

	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	return &TreeNode{Leaf: true, Value: sum / float64(len(idx))}
}

// bestSplit searches candidate features for the threshold minimizing
// weighted impurity (gini for classification, squared error for
// regression). Thresholds are midpoints between distinct adjacent
// feature values.
func bestSplit(x [][]float64, y []float64, idx []int, cfg treeConfig) (int, float64, bool) {
	width := len(x[idx[0]])
	features := candidateFeatures(width, cfg)

	bestImpurity := -1.0
	bestFeat := -1
	bestThreshold := 0.0

	order := make([]int, len(idx))
	for _, feat := range features {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool {
			return x[order[a]][feat] < x[order[b]][feat]
		})

		var impurity, threshold float64
		var ok bool
		if cfg.numClasses > 0 {
			impurity, threshold, ok = scanGini(x, y, order, feat, cfg.numClasses)
		} else {
			impurity, threshold, ok = scanSSE(x, y, order, feat)
		}
		if !ok {
			continue
		}
		if bestFeat == -1 || impurity < bestImpurity {
			bestImpurity = impurity
			bestFeat = feat
			bestThreshold = threshold
		}
	}

	if bestFeat == -1 {
		return 0, 0, false
	}
	return bestFeat, bestThreshold, true
}

// candidateFeatures returns all features or a random subset of
// maxFeatures of them.
func candidateFeatures(width int, cfg treeConfig) []int {
	if cfg.maxFeatures <= 0 || cfg.maxFeatures >= width || cfg.rng == nil {
		all := make([]int, width)
		for i := range all {
			all[i] = i
		}
		return all
	}
	return cfg.rng.Perm(width)[:cfg.maxFeatures]
}

// scanGini sweeps sorted rows maintaining running class counts and
// returns the lowest weighted gini impurity and its threshold.
func scanGini(x [][]float64, y []float64, order []int, feat, numClasses int) (float64, float64, bool) {
	n := len(order)
	leftCounts := make([]float64, numClasses)
	rightCounts := make([]float64, numClasses)
	for _, i := range order {
		rightCounts[int(y[i])]++
	}

	best := -1.0
	bestThreshold := 0.0
	found := false

	for k := 0; k < n-1; k++ {
		c := int(y[order[k]])
		leftCounts[c]++
		rightCounts[c]--

		v, next := x[order[k]][feat], x[order[k+1]][feat]
		if v == next {
			continue
		}

		nl, nr := float64(k+1), float64(n-k-1)
		impurity := (nl*gini(leftCounts, nl) + nr*gini(rightCounts, nr)) / float64(n)
		if !found || impurity < best {
			best = impurity
			bestThreshold = (v + next) / 2
			found = true
		}
	}
	return best, bestThreshold, found
}

func gini(counts []float64, n float64) float64 {
	g := 1.0
	for _, c := range counts {
		p := c / n
		g -= p * p
	}
	return g
}

// scanSSE sweeps sorted rows maintaining running sums and returns the
// lowest total squared error and its threshold.
func scanSSE(x [][]float64, y []float64, order []int, feat int) (float64, float64, bool) {
	n := len(order)
	var totalSum, totalSq float64
	for _, i := range order {
		totalSum += y[i]
		totalSq += y[i] * y[i]
	}

	var leftSum, leftSq float64
	best := -1.0
	bestThreshold := 0.0
	found := false

	for k := 0; k < n-1; k++ {
		yi := y[order[k]]
		leftSum += yi
		leftSq += yi * yi

		v, next := x[order[k]][feat], x[order[k+1]][feat]
		if v == next {
			continue
		}

		nl, nr := float64(k+1), float64(n-k-1)
		rightSum := totalSum - leftSum
		rightSq := totalSq - leftSq
		sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
		if !found || sse < best {
			best = sse
			bestThreshold = (v + next) / 2
			found = true
		}
	}
	return best, bestThreshold, found
}

package model

import (
	"math"
	"math/rand"
	"sort"

	"churnscope/domain/churn"
	"churnscope/domain/core"
)

// ForestConfig controls random-forest training
type ForestConfig struct {
	NumTrees         int
	FeaturesPerSplit int // 0 means floor(sqrt(num_features))
	MinLeaf          int
	MaxDepth         int // 0 means unlimited
	Seed             int64
}

// DefaultForestConfig mirrors the conventional defaults: 500 trees,
// sqrt(p) candidate features per split.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{NumTrees: 500, FeaturesPerSplit: 0, MinLeaf: 1, MaxDepth: 0}
}

func (c ForestConfig) resolve(numFeatures int) (ForestConfig, error) {
	if c.NumTrees <= 0 {
		return c, core.NewConfigurationError("forest.num_trees", "tree count must be positive")
	}
	if c.MinLeaf <= 0 {
		c.MinLeaf = 1
	}
	if c.FeaturesPerSplit == 0 {
		c.FeaturesPerSplit = int(math.Sqrt(float64(numFeatures)))
		if c.FeaturesPerSplit < 1 {
			c.FeaturesPerSplit = 1
		}
	}
	if c.FeaturesPerSplit < 1 || c.FeaturesPerSplit > numFeatures {
		return c, core.NewConfigurationError("forest.features_per_split", "must be in [1, num_features]")
	}
	return c, nil
}

type treeNode struct {
	leaf      bool
	probYes   float64
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

// ForestModel is a fitted random-forest classifier. Immutable after
// fitting. Probability is the fraction of trees voting churn.
type ForestModel struct {
	trees       []*treeNode
	numTrees    int
	importances []churn.FeatureImportance
	oobError    float64
}

// FitForest grows an ensemble of CART trees on bootstrap samples with
// feature subsampling, and computes both importance measures from the fit:
// mean decrease in Gini from split gains and mean decrease in accuracy
// from out-of-bag permutation.
func FitForest(X [][]float64, y []bool, names []string, cfg ForestConfig) (*ForestModel, error) {
	n := len(X)
	if n == 0 {
		return nil, core.NewValidationError("trainer", "-", "no training rows")
	}
	if len(y) != n {
		return nil, core.NewValidationError("trainer", "-", "label count does not match row count")
	}
	p := len(X[0])
	cfg, err := cfg.resolve(p)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	giniDecrease := make([]float64, p)
	accDecrease := make([]float64, p)
	oobVotesYes := make([]int, n)
	oobVotesTotal := make([]int, n)

	trees := make([]*treeNode, cfg.NumTrees)
	for t := 0; t < cfg.NumTrees; t++ {
		inBag := make([]bool, n)
		sample := make([]int, n)
		for i := range sample {
			idx := rng.Intn(n)
			sample[i] = idx
			inBag[idx] = true
		}

		b := &treeBuilder{
			X: X, y: y, cfg: cfg, rng: rng,
			total:        float64(n),
			giniDecrease: giniDecrease,
		}
		trees[t] = b.build(sample, 0)

		// Out-of-bag bookkeeping for this tree
		var oob []int
		for i := 0; i < n; i++ {
			if !inBag[i] {
				oob = append(oob, i)
			}
		}
		if len(oob) == 0 {
			continue
		}
		correct := 0
		for _, i := range oob {
			vote := predictTree(trees[t], X[i]) >= 0.5
			if vote {
				oobVotesYes[i]++
			}
			oobVotesTotal[i]++
			if vote == y[i] {
				correct++
			}
		}
		baseAcc := float64(correct) / float64(len(oob))

		// Permutation importance over the out-of-bag rows
		perm := make([]int, len(oob))
		scratch := make([]float64, p)
		for f := 0; f < p; f++ {
			copy(perm, oob)
			rng.Shuffle(len(perm), func(a, c int) { perm[a], perm[c] = perm[c], perm[a] })
			permCorrect := 0
			for k, i := range oob {
				copy(scratch, X[i])
				scratch[f] = X[perm[k]][f]
				if (predictTree(trees[t], scratch) >= 0.5) == y[i] {
					permCorrect++
				}
			}
			accDecrease[f] += baseAcc - float64(permCorrect)/float64(len(oob))
		}
	}

	importances := make([]churn.FeatureImportance, p)
	for f := 0; f < p; f++ {
		importances[f] = churn.FeatureImportance{
			Feature:          names[f],
			MeanDecreaseAcc:  accDecrease[f] / float64(cfg.NumTrees),
			MeanDecreaseGini: giniDecrease[f] / float64(cfg.NumTrees),
		}
	}

	// Aggregate OOB error at the 0.5 vote majority
	scored, wrong := 0, 0
	for i := 0; i < n; i++ {
		if oobVotesTotal[i] == 0 {
			continue
		}
		scored++
		vote := float64(oobVotesYes[i])/float64(oobVotesTotal[i]) >= 0.5
		if vote != y[i] {
			wrong++
		}
	}
	oobError := 0.0
	if scored > 0 {
		oobError = float64(wrong) / float64(scored)
	}

	return &ForestModel{
		trees:       trees,
		numTrees:    cfg.NumTrees,
		importances: importances,
		oobError:    oobError,
	}, nil
}

type treeBuilder struct {
	X            [][]float64
	y            []bool
	cfg          ForestConfig
	rng          *rand.Rand
	total        float64
	giniDecrease []float64
}

func (b *treeBuilder) build(sample []int, depth int) *treeNode {
	yes := 0
	for _, i := range sample {
		if b.y[i] {
			yes++
		}
	}
	prob := float64(yes) / float64(len(sample))
	if yes == 0 || yes == len(sample) ||
		len(sample) < 2*b.cfg.MinLeaf ||
		(b.cfg.MaxDepth > 0 && depth >= b.cfg.MaxDepth) {
		return &treeNode{leaf: true, probYes: prob}
	}

	feature, threshold, gain := b.bestSplit(sample, prob)
	if gain <= 0 {
		return &treeNode{leaf: true, probYes: prob}
	}
	b.giniDecrease[feature] += gain * float64(len(sample)) / b.total

	var left, right []int
	for _, i := range sample {
		if b.X[i][feature] < threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      b.build(left, depth+1),
		right:     b.build(right, depth+1),
	}
}

// bestSplit scans a random feature subset for the split with the largest
// Gini impurity decrease. Returns gain <= 0 when no admissible split exists.
func (b *treeBuilder) bestSplit(sample []int, parentProb float64) (int, float64, float64) {
	p := len(b.X[0])
	parentImp := giniImpurity(parentProb)
	candidates := b.rng.Perm(p)[:b.cfg.FeaturesPerSplit]

	bestFeature, bestThreshold, bestGain := -1, 0.0, 0.0
	order := make([]int, len(sample))
	for _, f := range candidates {
		copy(order, sample)
		sort.Slice(order, func(a, c int) bool { return b.X[order[a]][f] < b.X[order[c]][f] })

		totalYes := 0
		for _, i := range order {
			if b.y[i] {
				totalYes++
			}
		}
		n := len(order)
		leftYes := 0
		for k := 0; k < n-1; k++ {
			if b.y[order[k]] {
				leftYes++
			}
			nl := k + 1
			nr := n - nl
			if b.X[order[k]][f] == b.X[order[k+1]][f] {
				continue // no threshold separates equal values
			}
			if nl < b.cfg.MinLeaf || nr < b.cfg.MinLeaf {
				continue
			}
			pl := float64(leftYes) / float64(nl)
			pr := float64(totalYes-leftYes) / float64(nr)
			weighted := (float64(nl)*giniImpurity(pl) + float64(nr)*giniImpurity(pr)) / float64(n)
			gain := parentImp - weighted
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = (b.X[order[k]][f] + b.X[order[k+1]][f]) / 2
			}
		}
	}
	if bestFeature < 0 {
		return 0, 0, 0
	}
	return bestFeature, bestThreshold, bestGain
}

func giniImpurity(p float64) float64 {
	return 2 * p * (1 - p)
}

func predictTree(node *treeNode, features []float64) float64 {
	for !node.leaf {
		if features[node.feature] < node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.probYes
}

// Name implements ports.Classifier
func (m *ForestModel) Name() string { return "random_forest" }

// ProbYes implements ports.Classifier: the fraction of trees whose leaf
// majority votes churn.
func (m *ForestModel) ProbYes(features []float64) float64 {
	votes := 0
	for _, tree := range m.trees {
		if predictTree(tree, features) >= 0.5 {
			votes++
		}
	}
	return float64(votes) / float64(m.numTrees)
}

// Importances returns both importance measures per feature
func (m *ForestModel) Importances() []churn.FeatureImportance {
	return append([]churn.FeatureImportance(nil), m.importances...)
}

// OOBError returns the out-of-bag misclassification rate at the 0.5 vote
func (m *ForestModel) OOBError() float64 { return m.oobError }

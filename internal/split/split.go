// Package split provides seeded, stratified partitioning of labeled rows.
// Same seed, same labels: identical membership, bit for bit.
package split

import (
	"math"
	"math/rand"
	"sort"

	"churnscope/domain/core"
)

// Stratified partitions row indices into train and test sets, preserving
// the class proportion in each side. Returned index slices are sorted
// ascending so downstream subsets keep the source row order.
func Stratified(labels []bool, trainFraction float64, seed int64) (train, test []int, err error) {
	if trainFraction <= 0 || trainFraction >= 1 {
		return nil, nil, core.NewConfigurationError("train_fraction", "must be in (0,1)")
	}
	rng := rand.New(rand.NewSource(seed))
	for _, class := range classIndices(labels) {
		shuffled := shuffle(class, rng)
		nTrain := int(math.Round(trainFraction * float64(len(shuffled))))
		train = append(train, shuffled[:nTrain]...)
		test = append(test, shuffled[nTrain:]...)
	}
	sort.Ints(train)
	sort.Ints(test)
	return train, test, nil
}

// KFold partitions row indices into k stratified folds by round-robin
// assignment within each class. Each fold's indices are sorted ascending.
func KFold(labels []bool, folds int, seed int64) ([][]int, error) {
	if folds < 2 {
		return nil, core.NewConfigurationError("folds", "need at least 2 folds")
	}
	if folds > len(labels) {
		return nil, core.NewConfigurationError("folds", "more folds than rows")
	}
	rng := rand.New(rand.NewSource(seed))
	out := make([][]int, folds)
	for _, class := range classIndices(labels) {
		shuffled := shuffle(class, rng)
		for i, idx := range shuffled {
			f := i % folds
			out[f] = append(out[f], idx)
		}
	}
	for _, fold := range out {
		sort.Ints(fold)
	}
	return out, nil
}

// Complement returns all indices of n rows not present in the given fold
func Complement(n int, fold []int) []int {
	in := make(map[int]bool, len(fold))
	for _, i := range fold {
		in[i] = true
	}
	out := make([]int, 0, n-len(fold))
	for i := 0; i < n; i++ {
		if !in[i] {
			out = append(out, i)
		}
	}
	return out
}

// classIndices splits row indices by label, positives first. The fixed
// order keeps RNG consumption deterministic.
func classIndices(labels []bool) [][]int {
	var yes, no []int
	for i, l := range labels {
		if l {
			yes = append(yes, i)
		} else {
			no = append(no, i)
		}
	}
	return [][]int{yes, no}
}

func shuffle(indices []int, rng *rand.Rand) []int {
	out := append([]int(nil), indices...)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

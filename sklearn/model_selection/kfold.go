// Package model_selection provides cross-validation splitters and
// hyperparameter search metaestimators.
//
// GridSearchCV and RandomizedSearchCV wrap an estimator, evaluate parameter
// candidates by K-fold cross-validation, refit the best candidate on the
// full data and delegate optional methods (Predict, Transform, ...) to the
// refitted estimator.
package model_selection

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	scigoErrors "github.com/liamdp12/scikit-learn/pkg/errors"
)

// Fold is a single train/test split of sample indices.
type Fold struct {
	Train []int
	Test  []int
}

// KFold splits samples into k consecutive folds; each fold serves as the
// test set exactly once.
type KFold struct {
	nSplits     int
	shuffle     bool
	randomState int64
}

// KFoldOption configures a KFold splitter.
type KFoldOption func(*KFold)

// WithKFoldShuffle enables shuffling of sample indices before splitting.
func WithKFoldShuffle(shuffle bool) KFoldOption {
	return func(k *KFold) { k.shuffle = shuffle }
}

// WithKFoldRandomState sets the shuffle seed.
func WithKFoldRandomState(seed int64) KFoldOption {
	return func(k *KFold) { k.randomState = seed }
}

// NewKFold creates a KFold splitter with the given number of folds.
func NewKFold(nSplits int, opts ...KFoldOption) *KFold {
	k := &KFold{nSplits: nSplits, randomState: -1}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// NSplits returns the number of folds.
func (k *KFold) NSplits() int {
	return k.nSplits
}

// Split produces the train/test index pairs for nSamples samples.
func (k *KFold) Split(nSamples int) ([]Fold, error) {
	if k.nSplits < 2 {
		return nil, scigoErrors.NewValidationError("n_splits", "must be at least 2", k.nSplits)
	}
	if nSamples < k.nSplits {
		return nil, scigoErrors.NewValidationError(
			"n_samples", "cannot be fewer than n_splits", nSamples)
	}

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}

	if k.shuffle {
		var rng *rand.Rand
		if k.randomState >= 0 {
			rng = rand.New(rand.NewPCG(uint64(k.randomState), uint64(k.randomState)))
		} else {
			rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
		rng.Shuffle(nSamples, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	// The first nSamples % nSplits folds receive one extra sample.
	folds := make([]Fold, 0, k.nSplits)
	foldSize := nSamples / k.nSplits
	extra := nSamples % k.nSplits

	start := 0
	for f := 0; f < k.nSplits; f++ {
		size := foldSize
		if f < extra {
			size++
		}
		test := indices[start : start+size]

		train := make([]int, 0, nSamples-size)
		train = append(train, indices[:start]...)
		train = append(train, indices[start+size:]...)

		folds = append(folds, Fold{Train: train, Test: test})
		start += size
	}

	return folds, nil
}

// subsetRows extracts the given rows of X into a new matrix.
func subsetRows(X mat.Matrix, indices []int) *mat.Dense {
	_, c := X.Dims()
	out := mat.NewDense(len(indices), c, nil)
	for i, idx := range indices {
		out.SetRow(i, mat.Row(nil, idx, X))
	}
	return out
}

// subsetLabels extracts the given rows of a label column vector.
func subsetLabels(y mat.Matrix, indices []int) *mat.VecDense {
	out := mat.NewVecDense(len(indices), nil)
	for i, idx := range indices {
		out.SetVec(i, y.At(idx, 0))
	}
	return out
}

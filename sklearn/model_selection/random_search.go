package model_selection

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// RandomizedSearchCV evaluates a random subset of the parameter combinations
// by cross-validation and refits the best sampled combination.
type RandomizedSearchCV struct {
	baseSearch
	paramDistributions ParamGrid
	nIter              int
}

// NewRandomizedSearchCV creates a RandomizedSearchCV wrapping estimator that
// samples nIter combinations from paramDistributions.
func NewRandomizedSearchCV(estimator interface{}, paramDistributions ParamGrid, nIter int, opts ...SearchOption) *RandomizedSearchCV {
	return &RandomizedSearchCV{
		baseSearch:         newBaseSearch("RandomizedSearchCV", estimator, opts...),
		paramDistributions: paramDistributions,
		nIter:              nIter,
	}
}

// Fit cross-validates nIter sampled combinations and refits the best one.
// Combinations are sampled without replacement; when nIter covers the whole
// grid this degenerates to an exhaustive search in random order.
func (r *RandomizedSearchCV) Fit(X, y mat.Matrix) error {
	combos := r.paramDistributions.Combinations()

	var rng *rand.Rand
	if r.randomState >= 0 {
		rng = rand.New(rand.NewPCG(uint64(r.randomState), uint64(r.randomState)))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	rng.Shuffle(len(combos), func(i, j int) {
		combos[i], combos[j] = combos[j], combos[i]
	})

	if r.nIter > 0 && r.nIter < len(combos) {
		combos = combos[:r.nIter]
	}

	return r.fitCandidates(X, y, combos)
}

// Package ensemble implements ensemble metaestimators.
//
// BaggingClassifier fits clones of a base estimator on bootstrap samples and
// aggregates their predictions. Prediction, probabilities and scoring are
// the ensemble's own aggregations; DecisionFunction is delegated and only
// available when the base estimator exposes it.
//
// AdaBoostClassifier boosts a base classifier by reweighting training
// samples round by round and combines the members by weighted vote.
package ensemble

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/liamdp12/scikit-learn/core/model"
	"github.com/liamdp12/scikit-learn/metrics"
	scigoErrors "github.com/liamdp12/scikit-learn/pkg/errors"
	"github.com/liamdp12/scikit-learn/pkg/log"
)

// BaggingClassifier aggregates base estimators fit on bootstrap samples.
type BaggingClassifier struct {
	state  *model.StateManager
	logger log.Logger

	base        interface{} // prototype, cloned per member
	nEstimators int         // ensemble size
	maxSamples  float64     // bootstrap sample size as a fraction of n_samples
	bootstrap   bool        // sample with replacement
	randomState int64       // RNG seed

	estimators_ []interface{} // fitted ensemble members
	classes_    []float64     // sorted class labels seen during Fit
}

// BaggingOption configures a BaggingClassifier.
type BaggingOption func(*BaggingClassifier)

// WithNEstimators sets the ensemble size (default 10).
func WithNEstimators(n int) BaggingOption {
	return func(b *BaggingClassifier) { b.nEstimators = n }
}

// WithMaxSamples sets the bootstrap sample fraction (default 1.0).
func WithMaxSamples(fraction float64) BaggingOption {
	return func(b *BaggingClassifier) { b.maxSamples = fraction }
}

// WithBootstrap controls sampling with replacement (default true).
func WithBootstrap(bootstrap bool) BaggingOption {
	return func(b *BaggingClassifier) { b.bootstrap = bootstrap }
}

// WithRandomState sets the RNG seed for reproducible ensembles.
func WithRandomState(seed int64) BaggingOption {
	return func(b *BaggingClassifier) { b.randomState = seed }
}

// NewBaggingClassifier creates a BaggingClassifier wrapping base.
// The base estimator must implement Clone and Fit.
func NewBaggingClassifier(base interface{}, opts ...BaggingOption) *BaggingClassifier {
	b := &BaggingClassifier{
		state:       model.NewStateManager(),
		base:        base,
		nEstimators: 10,
		maxSamples:  1.0,
		bootstrap:   true,
		randomState: -1,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = log.GetLoggerWithName("ensemble").With(log.ModelNameKey, "BaggingClassifier")
	return b
}

// HasCapability reports whether the ensemble exposes the optional method
// named by c. Prediction, probabilities and scoring are always the
// ensemble's own aggregations; DecisionFunction follows the base estimator;
// transform-family methods are never exposed.
func (b *BaggingClassifier) HasCapability(c model.Capability) bool {
	switch c {
	case model.CapPredict, model.CapPredictProba, model.CapPredictLogProba, model.CapScore:
		return true
	case model.CapDecisionFunction:
		return model.HasCapability(b.delegate(), c)
	}
	return false
}

// Fit trains nEstimators clones of the base estimator on bootstrap samples.
func (b *BaggingClassifier) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return scigoErrors.NewModelError("BaggingClassifier.Fit", "empty data", scigoErrors.ErrEmptyData)
	}
	if b.nEstimators < 1 {
		return scigoErrors.NewValidationError("n_estimators", "must be at least 1", b.nEstimators)
	}
	if b.maxSamples <= 0 || b.maxSamples > 1 {
		return scigoErrors.NewValidationError("max_samples", "must be in (0, 1]", b.maxSamples)
	}

	yRows, yCols := y.Dims()
	if yCols != 1 {
		return scigoErrors.NewValueError("BaggingClassifier.Fit", "y must be a column vector (n×1 matrix)")
	}
	if yRows != rows {
		return scigoErrors.NewDimensionError("BaggingClassifier.Fit", rows, yRows, 0)
	}

	var rng *rand.Rand
	if b.randomState >= 0 {
		rng = rand.New(rand.NewPCG(uint64(b.randomState), uint64(b.randomState)))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	classSet := make(map[float64]struct{})
	for i := 0; i < rows; i++ {
		classSet[y.At(i, 0)] = struct{}{}
	}
	classes := make([]float64, 0, len(classSet))
	for label := range classSet {
		classes = append(classes, label)
	}
	sort.Float64s(classes)

	sampleSize := int(b.maxSamples * float64(rows))
	if sampleSize < 1 {
		sampleSize = 1
	}

	estimators := make([]interface{}, 0, b.nEstimators)
	for e := 0; e < b.nEstimators; e++ {
		indices := b.sampleIndices(rng, rows, sampleSize)

		member := model.CloneEstimator(b.base)
		if member == nil {
			return scigoErrors.NewValidationError(
				"estimator", "must implement Clone", fmt.Sprintf("%T", b.base))
		}
		fitter, ok := member.(model.Fitter)
		if !ok {
			return scigoErrors.NewValidationError(
				"estimator", "must implement Fit(X, y)", fmt.Sprintf("%T", member))
		}

		if err := fitter.Fit(subsetRows(X, indices), subsetLabels(y, indices)); err != nil {
			return scigoErrors.Wrap(err, fmt.Sprintf("BaggingClassifier: member %d fit failed", e))
		}
		estimators = append(estimators, member)
	}

	b.estimators_ = estimators
	b.classes_ = classes
	b.state.SetNFeatures(cols)
	b.state.SetFitted()

	b.logger.Debug("ensemble fit complete", "n_estimators", len(estimators), "n_samples", rows)
	return nil
}

// Predict returns the majority vote over the ensemble members.
func (b *BaggingClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	votes, err := b.classVotes(X, "Predict")
	if err != nil {
		return nil, err
	}

	rows := len(votes)
	out := mat.NewDense(rows, 1, nil)
	for i, rowVotes := range votes {
		bestClass := b.classes_[0]
		bestCount := -1
		for _, label := range b.classes_ {
			if rowVotes[label] > bestCount {
				bestCount = rowVotes[label]
				bestClass = label
			}
		}
		out.Set(i, 0, bestClass)
	}
	return out, nil
}

// PredictProba returns the per-class fraction of member votes, one column
// per class in sorted class order.
func (b *BaggingClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	votes, err := b.classVotes(X, "PredictProba")
	if err != nil {
		return nil, err
	}

	rows := len(votes)
	out := mat.NewDense(rows, len(b.classes_), nil)
	total := float64(len(b.estimators_))
	for i, rowVotes := range votes {
		for j, label := range b.classes_ {
			out.Set(i, j, float64(rowVotes[label])/total)
		}
	}
	return out, nil
}

// PredictLogProba returns the log of the voted class probabilities.
func (b *BaggingClassifier) PredictLogProba(X mat.Matrix) (mat.Matrix, error) {
	proba, err := b.PredictProba(X)
	if err != nil {
		return nil, err
	}

	rows, cols := proba.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, math.Log(math.Max(proba.At(i, j), 1e-15)))
		}
	}
	return out, nil
}

// DecisionFunction averages the members' decision functions. Only available
// when the base estimator exposes one.
func (b *BaggingClassifier) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	if !b.HasCapability(model.CapDecisionFunction) {
		return nil, scigoErrors.NewAttributeError("BaggingClassifier", "DecisionFunction")
	}
	if !b.state.IsFitted() {
		return nil, scigoErrors.NewNotFittedError("BaggingClassifier", "DecisionFunction")
	}
	if rows, _ := X.Dims(); rows == 0 {
		return nil, scigoErrors.NewModelError(
			"BaggingClassifier.DecisionFunction", "empty data", scigoErrors.ErrEmptyData)
	}

	var sum *mat.Dense
	for _, member := range b.estimators_ {
		fn, ok := member.(model.DecisionFunctioner)
		if !ok {
			return nil, scigoErrors.NewAttributeError("BaggingClassifier", "DecisionFunction")
		}
		scores, err := fn.DecisionFunction(X)
		if err != nil {
			return nil, err
		}
		if sum == nil {
			rows, cols := scores.Dims()
			sum = mat.NewDense(rows, cols, nil)
		}
		sum.Add(sum, scores)
	}

	sum.Scale(1/float64(len(b.estimators_)), sum)
	return sum, nil
}

// Score returns the mean accuracy of the ensemble's majority vote.
func (b *BaggingClassifier) Score(X, y mat.Matrix) (float64, error) {
	if !b.state.IsFitted() {
		return 0, scigoErrors.NewNotFittedError("BaggingClassifier", "Score")
	}

	pred, err := b.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.AccuracyScore(y, pred)
}

// Transform is not exposed by bagging ensembles.
func (b *BaggingClassifier) Transform(X mat.Matrix) (mat.Matrix, error) {
	return nil, scigoErrors.NewAttributeError("BaggingClassifier", "Transform")
}

// InverseTransform is not exposed by bagging ensembles.
func (b *BaggingClassifier) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	return nil, scigoErrors.NewAttributeError("BaggingClassifier", "InverseTransform")
}

// Estimators returns the fitted ensemble members.
func (b *BaggingClassifier) Estimators() []interface{} {
	members := make([]interface{}, len(b.estimators_))
	copy(members, b.estimators_)
	return members
}

// Classes returns the class labels in sorted order.
func (b *BaggingClassifier) Classes() []float64 {
	classes := make([]float64, len(b.classes_))
	copy(classes, b.classes_)
	return classes
}

// IsFitted returns whether Fit has completed.
func (b *BaggingClassifier) IsFitted() bool {
	return b.state.IsFitted()
}

func (b *BaggingClassifier) delegate() interface{} {
	if len(b.estimators_) > 0 {
		return b.estimators_[0]
	}
	return b.base
}

// classVotes collects per-row vote counts from every member's Predict.
func (b *BaggingClassifier) classVotes(X mat.Matrix, method string) ([]map[float64]int, error) {
	if !b.state.IsFitted() {
		return nil, scigoErrors.NewNotFittedError("BaggingClassifier", method)
	}

	rows, _ := X.Dims()
	if rows == 0 {
		return nil, scigoErrors.NewModelError(
			"BaggingClassifier."+method, "empty data", scigoErrors.ErrEmptyData)
	}
	votes := make([]map[float64]int, rows)
	for i := range votes {
		votes[i] = make(map[float64]int, len(b.classes_))
	}

	for _, member := range b.estimators_ {
		predictor, ok := member.(model.Predictor)
		if !ok {
			return nil, scigoErrors.NewAttributeError("BaggingClassifier", method)
		}
		pred, err := predictor.Predict(X)
		if err != nil {
			return nil, err
		}
		for i := 0; i < rows; i++ {
			votes[i][pred.At(i, 0)]++
		}
	}

	return votes, nil
}

// sampleIndices draws a bootstrap (or subsampled) index set.
func (b *BaggingClassifier) sampleIndices(rng *rand.Rand, n, size int) []int {
	indices := make([]int, size)
	if b.bootstrap {
		for i := range indices {
			indices[i] = rng.IntN(n)
		}
		return indices
	}

	perm := rng.Perm(n)
	copy(indices, perm[:size])
	return indices
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

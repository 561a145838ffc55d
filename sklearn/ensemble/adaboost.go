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

// AdaBoostClassifier boosts a base classifier by reweighting training
// samples: each round fits a clone on a weight-resampled dataset, scores it
// on the weighted training set and raises the weight of misclassified
// samples for the next round. Members vote with a weight derived from their
// weighted error.
type AdaBoostClassifier struct {
	state  *model.StateManager
	logger log.Logger

	base         interface{} // prototype, cloned per boosting round
	nEstimators  int         // maximum boosting rounds
	learningRate float64     // shrinkage applied to member weights
	randomState  int64       // RNG seed for weighted resampling

	estimators_       []interface{} // fitted ensemble members
	estimatorWeights_ []float64     // vote weight per member
	estimatorErrors_  []float64     // weighted training error per member
	classes_          []float64     // sorted class labels seen during Fit
}

// AdaBoostOption configures an AdaBoostClassifier.
type AdaBoostOption func(*AdaBoostClassifier)

// WithAdaBoostEstimators sets the maximum number of boosting rounds (default 50).
func WithAdaBoostEstimators(n int) AdaBoostOption {
	return func(a *AdaBoostClassifier) { a.nEstimators = n }
}

// WithAdaBoostLearningRate shrinks the contribution of each member (default 1.0).
func WithAdaBoostLearningRate(lr float64) AdaBoostOption {
	return func(a *AdaBoostClassifier) { a.learningRate = lr }
}

// WithAdaBoostRandomState sets the resampling seed for reproducible ensembles.
func WithAdaBoostRandomState(seed int64) AdaBoostOption {
	return func(a *AdaBoostClassifier) { a.randomState = seed }
}

// NewAdaBoostClassifier creates an AdaBoostClassifier wrapping base.
// The base estimator must implement Clone, Fit and Predict.
func NewAdaBoostClassifier(base interface{}, opts ...AdaBoostOption) *AdaBoostClassifier {
	a := &AdaBoostClassifier{
		state:        model.NewStateManager(),
		base:         base,
		nEstimators:  50,
		learningRate: 1.0,
		randomState:  -1,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = log.GetLoggerWithName("ensemble").With(log.ModelNameKey, "AdaBoostClassifier")
	return a
}

// HasCapability reports whether the ensemble exposes the optional method
// named by c. Every prediction-family method and Score are the ensemble's
// own weighted-vote aggregations; transform-family methods are never exposed.
func (a *AdaBoostClassifier) HasCapability(c model.Capability) bool {
	switch c {
	case model.CapPredict, model.CapPredictProba, model.CapPredictLogProba,
		model.CapDecisionFunction, model.CapScore:
		return true
	}
	return false
}

// Fit runs the boosting rounds. Boosting stops early when a round achieves
// zero weighted error or degrades to worse than random guessing.
func (a *AdaBoostClassifier) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return scigoErrors.NewModelError("AdaBoostClassifier.Fit", "empty data", scigoErrors.ErrEmptyData)
	}
	if a.nEstimators < 1 {
		return scigoErrors.NewValidationError("n_estimators", "must be at least 1", a.nEstimators)
	}
	if a.learningRate <= 0 {
		return scigoErrors.NewValidationError("learning_rate", "must be positive", a.learningRate)
	}

	yRows, yCols := y.Dims()
	if yCols != 1 {
		return scigoErrors.NewValueError("AdaBoostClassifier.Fit", "y must be a column vector (n×1 matrix)")
	}
	if yRows != rows {
		return scigoErrors.NewDimensionError("AdaBoostClassifier.Fit", rows, yRows, 0)
	}

	labels := make([]float64, rows)
	classSet := make(map[float64]struct{})
	for i := 0; i < rows; i++ {
		labels[i] = y.At(i, 0)
		classSet[labels[i]] = struct{}{}
	}
	classes := make([]float64, 0, len(classSet))
	for label := range classSet {
		classes = append(classes, label)
	}
	sort.Float64s(classes)
	if len(classes) != 2 {
		return scigoErrors.NewValidationError(
			"y", "boosting requires exactly 2 classes", len(classes))
	}

	var rng *rand.Rand
	if a.randomState >= 0 {
		rng = rand.New(rand.NewPCG(uint64(a.randomState), uint64(a.randomState)))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	// Uniform sample weights to start.
	weights := make([]float64, rows)
	for i := range weights {
		weights[i] = 1.0 / float64(rows)
	}

	var (
		estimators       []interface{}
		estimatorWeights []float64
		estimatorErrors  []float64
	)

	for round := 0; round < a.nEstimators; round++ {
		indices := sampleByWeight(rng, weights, rows)

		member := model.CloneEstimator(a.base)
		if member == nil {
			return scigoErrors.NewValidationError(
				"estimator", "must implement Clone", fmt.Sprintf("%T", a.base))
		}
		fitter, ok := member.(model.Fitter)
		if !ok {
			return scigoErrors.NewValidationError(
				"estimator", "must implement Fit(X, y)", fmt.Sprintf("%T", member))
		}
		if err := fitter.Fit(subsetRows(X, indices), subsetLabels(y, indices)); err != nil {
			return scigoErrors.Wrap(err, fmt.Sprintf("AdaBoostClassifier: round %d fit failed", round))
		}

		predictor, ok := member.(model.Predictor)
		if !ok {
			return scigoErrors.NewValidationError(
				"estimator", "must implement Predict(X)", fmt.Sprintf("%T", member))
		}
		pred, err := predictor.Predict(X)
		if err != nil {
			return scigoErrors.Wrap(err, fmt.Sprintf("AdaBoostClassifier: round %d predict failed", round))
		}

		// Weighted training error of this round's member.
		weightedErr := 0.0
		misclassified := make([]bool, rows)
		for i := 0; i < rows; i++ {
			if pred.At(i, 0) != labels[i] {
				misclassified[i] = true
				weightedErr += weights[i]
			}
		}

		if weightedErr <= 0 {
			// Perfect member: it decides the vote on its own.
			estimators = append(estimators, member)
			estimatorWeights = append(estimatorWeights, 1.0)
			estimatorErrors = append(estimatorErrors, 0.0)
			break
		}
		if weightedErr >= 0.5 {
			if len(estimators) == 0 {
				return scigoErrors.NewModelError("AdaBoostClassifier.Fit",
					"base estimator is no better than random guessing", scigoErrors.ErrInvalidInput)
			}
			break
		}

		alpha := a.learningRate * math.Log((1-weightedErr)/weightedErr)
		estimators = append(estimators, member)
		estimatorWeights = append(estimatorWeights, alpha)
		estimatorErrors = append(estimatorErrors, weightedErr)

		// Raise weights of misclassified samples, then renormalize.
		total := 0.0
		for i := 0; i < rows; i++ {
			if misclassified[i] {
				weights[i] *= math.Exp(alpha)
			}
			total += weights[i]
		}
		for i := range weights {
			weights[i] /= total
		}
	}

	a.estimators_ = estimators
	a.estimatorWeights_ = estimatorWeights
	a.estimatorErrors_ = estimatorErrors
	a.classes_ = classes
	a.state.SetNFeatures(cols)
	a.state.SetFitted()

	a.logger.Debug("boosting complete", "n_rounds", len(estimators), "n_samples", rows)
	return nil
}

// Predict returns the weighted majority vote over the boosting rounds.
func (a *AdaBoostClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	scores, err := a.classScores(X, len(a.estimators_), "Predict")
	if err != nil {
		return nil, err
	}
	return a.voteFromScores(scores), nil
}

// DecisionFunction returns the normalized vote margin in [-1, 1]: positive
// values favor the higher class label.
func (a *AdaBoostClassifier) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	scores, err := a.classScores(X, len(a.estimators_), "DecisionFunction")
	if err != nil {
		return nil, err
	}

	totalWeight := 0.0
	for _, w := range a.estimatorWeights_ {
		totalWeight += w
	}

	rows := len(scores)
	out := mat.NewDense(rows, 1, nil)
	for i, rowScores := range scores {
		out.Set(i, 0, (rowScores[1]-rowScores[0])/totalWeight)
	}
	return out, nil
}

// PredictProba returns the weighted vote fraction per class, one column per
// class in sorted class order.
func (a *AdaBoostClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	scores, err := a.classScores(X, len(a.estimators_), "PredictProba")
	if err != nil {
		return nil, err
	}

	totalWeight := 0.0
	for _, w := range a.estimatorWeights_ {
		totalWeight += w
	}

	rows := len(scores)
	out := mat.NewDense(rows, 2, nil)
	for i, rowScores := range scores {
		out.Set(i, 0, rowScores[0]/totalWeight)
		out.Set(i, 1, rowScores[1]/totalWeight)
	}
	return out, nil
}

// PredictLogProba returns the log of the weighted vote fractions.
func (a *AdaBoostClassifier) PredictLogProba(X mat.Matrix) (mat.Matrix, error) {
	proba, err := a.PredictProba(X)
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

// Score returns the mean accuracy of the boosted vote.
func (a *AdaBoostClassifier) Score(X, y mat.Matrix) (float64, error) {
	if !a.state.IsFitted() {
		return 0, scigoErrors.NewNotFittedError("AdaBoostClassifier", "Score")
	}

	pred, err := a.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.AccuracyScore(y, pred)
}

// StagedPredict returns the ensemble prediction after each boosting round,
// from the first member alone up to the full ensemble.
func (a *AdaBoostClassifier) StagedPredict(X mat.Matrix) ([]mat.Matrix, error) {
	if !a.state.IsFitted() {
		return nil, scigoErrors.NewNotFittedError("AdaBoostClassifier", "StagedPredict")
	}

	staged := make([]mat.Matrix, 0, len(a.estimators_))
	for stage := 1; stage <= len(a.estimators_); stage++ {
		scores, err := a.classScores(X, stage, "StagedPredict")
		if err != nil {
			return nil, err
		}
		staged = append(staged, a.voteFromScores(scores))
	}
	return staged, nil
}

// StagedScore returns the mean accuracy after each boosting round.
func (a *AdaBoostClassifier) StagedScore(X, y mat.Matrix) ([]float64, error) {
	staged, err := a.StagedPredict(X)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, 0, len(staged))
	for _, pred := range staged {
		score, err := metrics.AccuracyScore(y, pred)
		if err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	return scores, nil
}

// Transform is not exposed by boosting ensembles.
func (a *AdaBoostClassifier) Transform(X mat.Matrix) (mat.Matrix, error) {
	return nil, scigoErrors.NewAttributeError("AdaBoostClassifier", "Transform")
}

// InverseTransform is not exposed by boosting ensembles.
func (a *AdaBoostClassifier) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	return nil, scigoErrors.NewAttributeError("AdaBoostClassifier", "InverseTransform")
}

// Estimators returns the fitted boosting members.
func (a *AdaBoostClassifier) Estimators() []interface{} {
	members := make([]interface{}, len(a.estimators_))
	copy(members, a.estimators_)
	return members
}

// EstimatorWeights returns the vote weight of each boosting member.
func (a *AdaBoostClassifier) EstimatorWeights() []float64 {
	weights := make([]float64, len(a.estimatorWeights_))
	copy(weights, a.estimatorWeights_)
	return weights
}

// EstimatorErrors returns the weighted training error of each member.
func (a *AdaBoostClassifier) EstimatorErrors() []float64 {
	errs := make([]float64, len(a.estimatorErrors_))
	copy(errs, a.estimatorErrors_)
	return errs
}

// Classes returns the class labels in sorted order.
func (a *AdaBoostClassifier) Classes() []float64 {
	classes := make([]float64, len(a.classes_))
	copy(classes, a.classes_)
	return classes
}

// IsFitted returns whether Fit has completed.
func (a *AdaBoostClassifier) IsFitted() bool {
	return a.state.IsFitted()
}

// classScores accumulates the weighted vote per class over the first nStages
// members. Each row maps sorted-class index to its accumulated vote weight.
func (a *AdaBoostClassifier) classScores(X mat.Matrix, nStages int, method string) ([][2]float64, error) {
	if !a.state.IsFitted() {
		return nil, scigoErrors.NewNotFittedError("AdaBoostClassifier", method)
	}

	rows, _ := X.Dims()
	if rows == 0 {
		return nil, scigoErrors.NewModelError(
			"AdaBoostClassifier."+method, "empty data", scigoErrors.ErrEmptyData)
	}

	scores := make([][2]float64, rows)
	for m := 0; m < nStages; m++ {
		predictor := a.estimators_[m].(model.Predictor)
		pred, err := predictor.Predict(X)
		if err != nil {
			return nil, err
		}
		for i := 0; i < rows; i++ {
			if pred.At(i, 0) == a.classes_[1] {
				scores[i][1] += a.estimatorWeights_[m]
			} else {
				scores[i][0] += a.estimatorWeights_[m]
			}
		}
	}
	return scores, nil
}

// voteFromScores picks the class with the larger accumulated vote weight.
func (a *AdaBoostClassifier) voteFromScores(scores [][2]float64) *mat.Dense {
	out := mat.NewDense(len(scores), 1, nil)
	for i, rowScores := range scores {
		if rowScores[1] > rowScores[0] {
			out.Set(i, 0, a.classes_[1])
		} else {
			out.Set(i, 0, a.classes_[0])
		}
	}
	return out
}

// sampleByWeight draws n indices from the weight distribution.
func sampleByWeight(rng *rand.Rand, weights []float64, n int) []int {
	cumulative := make([]float64, len(weights))
	sum := 0.0
	for i, w := range weights {
		sum += w
		cumulative[i] = sum
	}

	indices := make([]int, n)
	for i := range indices {
		r := rng.Float64() * sum
		indices[i] = sort.SearchFloat64s(cumulative, r)
		if indices[i] >= len(weights) {
			indices[i] = len(weights) - 1
		}
	}
	return indices
}

package model_selection

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"

	"github.com/liamdp12/scikit-learn/core/model"
	"github.com/liamdp12/scikit-learn/metrics"
	scigoErrors "github.com/liamdp12/scikit-learn/pkg/errors"
	"github.com/liamdp12/scikit-learn/pkg/log"
)

// CandidateResult records the cross-validated performance of one parameter
// combination.
type CandidateResult struct {
	Params    map[string]interface{}
	MeanScore float64
	StdScore  float64
}

// SearchOption configures a search metaestimator.
type SearchOption func(*baseSearch)

// WithCV sets the number of cross-validation folds (default 5).
func WithCV(cv int) SearchOption {
	return func(s *baseSearch) { s.cv = cv }
}

// WithRandomState sets the RNG seed used by randomized search.
func WithRandomState(seed int64) SearchOption {
	return func(s *baseSearch) { s.randomState = seed }
}

// baseSearch carries the shared state and delegation behavior of
// GridSearchCV and RandomizedSearchCV. The wrapped estimator is cloned for
// every candidate fit; after Fit, optional methods are forwarded to the best
// candidate refitted on the full data.
type baseSearch struct {
	state  *model.StateManager
	logger log.Logger
	name   string

	estimator   interface{}
	cv          int
	randomState int64

	bestEstimator_ interface{}
	bestParams_    map[string]interface{}
	bestScore_     float64
	cvResults_     []CandidateResult
}

func newBaseSearch(name string, estimator interface{}, opts ...SearchOption) baseSearch {
	s := baseSearch{
		state:       model.NewStateManager(),
		name:        name,
		estimator:   estimator,
		cv:          5,
		randomState: -1,
	}
	for _, opt := range opts {
		opt(&s)
	}
	s.logger = log.GetLoggerWithName("model_selection").With(log.ModelNameKey, name)
	return s
}

// HasCapability reports whether the search exposes the optional method named
// by c. Score is always available through the search's own scorer; every
// other capability follows the wrapped estimator.
func (s *baseSearch) HasCapability(c model.Capability) bool {
	if c == model.CapScore {
		return true
	}
	return model.HasCapability(s.delegate(), c)
}

// BestEstimator returns the best candidate refitted on the full data, or nil
// before Fit.
func (s *baseSearch) BestEstimator() interface{} {
	return s.bestEstimator_
}

// BestParams returns the parameter combination with the highest mean CV score.
func (s *baseSearch) BestParams() map[string]interface{} {
	return s.bestParams_
}

// BestScore returns the highest mean CV score observed.
func (s *baseSearch) BestScore() float64 {
	return s.bestScore_
}

// CVResults returns the per-candidate cross-validation results.
func (s *baseSearch) CVResults() []CandidateResult {
	return s.cvResults_
}

// IsFitted returns whether Fit has completed.
func (s *baseSearch) IsFitted() bool {
	return s.state.IsFitted()
}

// Predict forwards to the best estimator.
func (s *baseSearch) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := s.delegationCheck(model.CapPredict, "Predict"); err != nil {
		return nil, err
	}
	predictor, ok := s.bestEstimator_.(model.Predictor)
	if !ok {
		return nil, scigoErrors.NewAttributeError(s.name, "Predict")
	}
	return predictor.Predict(X)
}

// Transform forwards to the best estimator.
func (s *baseSearch) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.delegationCheck(model.CapTransform, "Transform"); err != nil {
		return nil, err
	}
	transformer, ok := s.bestEstimator_.(interface {
		Transform(mat.Matrix) (mat.Matrix, error)
	})
	if !ok {
		return nil, scigoErrors.NewAttributeError(s.name, "Transform")
	}
	return transformer.Transform(X)
}

// InverseTransform forwards to the best estimator.
func (s *baseSearch) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.delegationCheck(model.CapInverseTransform, "InverseTransform"); err != nil {
		return nil, err
	}
	it, ok := s.bestEstimator_.(model.InverseTransformer)
	if !ok {
		return nil, scigoErrors.NewAttributeError(s.name, "InverseTransform")
	}
	return it.InverseTransform(X)
}

// PredictProba forwards to the best estimator.
func (s *baseSearch) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := s.delegationCheck(model.CapPredictProba, "PredictProba"); err != nil {
		return nil, err
	}
	predictor, ok := s.bestEstimator_.(interface {
		PredictProba(mat.Matrix) (mat.Matrix, error)
	})
	if !ok {
		return nil, scigoErrors.NewAttributeError(s.name, "PredictProba")
	}
	return predictor.PredictProba(X)
}

// PredictLogProba forwards to the best estimator.
func (s *baseSearch) PredictLogProba(X mat.Matrix) (mat.Matrix, error) {
	if err := s.delegationCheck(model.CapPredictLogProba, "PredictLogProba"); err != nil {
		return nil, err
	}
	predictor, ok := s.bestEstimator_.(interface {
		PredictLogProba(mat.Matrix) (mat.Matrix, error)
	})
	if !ok {
		return nil, scigoErrors.NewAttributeError(s.name, "PredictLogProba")
	}
	return predictor.PredictLogProba(X)
}

// DecisionFunction forwards to the best estimator.
func (s *baseSearch) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	if err := s.delegationCheck(model.CapDecisionFunction, "DecisionFunction"); err != nil {
		return nil, err
	}
	fn, ok := s.bestEstimator_.(model.DecisionFunctioner)
	if !ok {
		return nil, scigoErrors.NewAttributeError(s.name, "DecisionFunction")
	}
	return fn.DecisionFunction(X)
}

// Score evaluates the best estimator on the given test data with the
// search's own scorer.
func (s *baseSearch) Score(X, y mat.Matrix) (float64, error) {
	if !s.state.IsFitted() {
		return 0, scigoErrors.NewNotFittedError(s.name, "Score")
	}
	return evaluateEstimator(s.bestEstimator_, X, y)
}

// delegate returns the estimator capability probes should consult: the
// refitted best estimator once fitted, otherwise the prototype.
func (s *baseSearch) delegate() interface{} {
	if s.bestEstimator_ != nil {
		return s.bestEstimator_
	}
	return s.estimator
}

func (s *baseSearch) delegationCheck(c model.Capability, method string) error {
	if !model.HasCapability(s.delegate(), c) {
		return scigoErrors.NewAttributeError(s.name, method)
	}
	if !s.state.IsFitted() {
		return scigoErrors.NewNotFittedError(s.name, method)
	}
	return nil
}

// fitCandidates cross-validates every parameter combination, then refits the
// best one on the full data.
func (s *baseSearch) fitCandidates(X, y mat.Matrix, combos []map[string]interface{}) error {
	if len(combos) == 0 {
		return scigoErrors.NewValidationError("param_grid", "no parameter candidates", 0)
	}

	r, _ := X.Dims()
	folds, err := NewKFold(s.cv).Split(r)
	if err != nil {
		return err
	}

	bestIdx := -1
	bestScore := math.Inf(-1)
	results := make([]CandidateResult, 0, len(combos))

	for i, params := range combos {
		scores := make([]float64, 0, len(folds))

		for _, fold := range folds {
			cand, err := s.cloneWithParams(params)
			if err != nil {
				return err
			}

			fitter, ok := cand.(model.Fitter)
			if !ok {
				return scigoErrors.NewValidationError(
					"estimator", "must implement Fit(X, y)", fmt.Sprintf("%T", cand))
			}
			if err := fitter.Fit(subsetRows(X, fold.Train), subsetLabels(y, fold.Train)); err != nil {
				return scigoErrors.Wrap(err, fmt.Sprintf("%s: candidate fit failed", s.name))
			}

			score, err := evaluateEstimator(cand, subsetRows(X, fold.Test), subsetLabels(y, fold.Test))
			if err != nil {
				return err
			}
			scores = append(scores, score)
		}

		mean, err := stats.Mean(scores)
		if err != nil {
			return scigoErrors.Wrap(err, fmt.Sprintf("%s: score aggregation failed", s.name))
		}
		std, err := stats.StandardDeviation(scores)
		if err != nil {
			return scigoErrors.Wrap(err, fmt.Sprintf("%s: score aggregation failed", s.name))
		}

		results = append(results, CandidateResult{Params: params, MeanScore: mean, StdScore: std})
		if mean > bestScore {
			bestScore = mean
			bestIdx = i
		}
	}

	best, err := s.cloneWithParams(combos[bestIdx])
	if err != nil {
		return err
	}
	if err := best.(model.Fitter).Fit(X, y); err != nil {
		return scigoErrors.Wrap(err, fmt.Sprintf("%s: refit of best candidate failed", s.name))
	}

	s.bestEstimator_ = best
	s.bestParams_ = combos[bestIdx]
	s.bestScore_ = bestScore
	s.cvResults_ = results
	s.state.SetFitted()

	s.logger.Debug("search complete",
		"n_candidates", len(combos), "best_score", bestScore)
	return nil
}

// cloneWithParams produces an unfitted copy of the prototype configured with
// the given parameter combination.
func (s *baseSearch) cloneWithParams(params map[string]interface{}) (interface{}, error) {
	cand := model.CloneEstimator(s.estimator)
	if cand == nil {
		return nil, scigoErrors.NewValidationError(
			"estimator", "must implement Clone", fmt.Sprintf("%T", s.estimator))
	}

	if len(params) > 0 {
		setter, ok := cand.(model.ParameterSetter)
		if !ok {
			return nil, scigoErrors.NewValidationError(
				"estimator", "must implement SetParams to be searched", fmt.Sprintf("%T", cand))
		}
		if err := setter.SetParams(params); err != nil {
			return nil, err
		}
	}

	return cand, nil
}

// evaluateEstimator scores est on the test data, preferring the estimator's
// own scorer and falling back to prediction accuracy.
func evaluateEstimator(est interface{}, X, y mat.Matrix) (float64, error) {
	if model.HasCapability(est, model.CapScore) {
		if scorer, ok := est.(model.Scorer); ok {
			return scorer.Score(X, y)
		}
	}

	if model.HasCapability(est, model.CapPredict) {
		if predictor, ok := est.(model.Predictor); ok {
			pred, err := predictor.Predict(X)
			if err != nil {
				return 0, err
			}
			return metrics.AccuracyScore(y, pred)
		}
	}

	return 0, scigoErrors.NewValidationError(
		"estimator", "exposes neither score nor predict", fmt.Sprintf("%T", est))
}

// Package feature_selection implements recursive feature elimination.
//
// RFE repeatedly fits its wrapped estimator and drops the weakest features
// by coefficient magnitude. Transform and InverseTransform operate on the
// selected feature subset and are RFE's own methods; the predict-family
// methods and Score are delegated to the estimator refitted on the selected
// features.
package feature_selection

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/liamdp12/scikit-learn/core/model"
	scigoErrors "github.com/liamdp12/scikit-learn/pkg/errors"
	"github.com/liamdp12/scikit-learn/pkg/log"
)

// RFE selects features by recursive feature elimination.
type RFE struct {
	state  *model.StateManager
	logger log.Logger
	name   string

	estimator         interface{} // prototype, cloned per fit round
	nFeaturesToSelect int         // 0 selects half the features
	step              int         // features removed per round

	estimator_ interface{} // final estimator fitted on selected features
	support_   []bool      // mask of selected features
	ranking_   []int       // 1 for selected, higher for earlier elimination
	nFeatures_ int         // total input features seen during Fit
}

// RFEOption configures an RFE instance.
type RFEOption func(*RFE)

// WithNFeaturesToSelect sets how many features to keep (default: half).
func WithNFeaturesToSelect(n int) RFEOption {
	return func(r *RFE) { r.nFeaturesToSelect = n }
}

// WithStep sets how many features are removed per elimination round (default 1).
func WithStep(step int) RFEOption {
	return func(r *RFE) { r.step = step }
}

// NewRFE creates an RFE wrapping estimator. The estimator must implement
// Clone and expose per-feature weights through Coef or FeatureImportances.
func NewRFE(estimator interface{}, opts ...RFEOption) *RFE {
	r := &RFE{
		state:     model.NewStateManager(),
		name:      "RFE",
		estimator: estimator,
		step:      1,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = log.GetLoggerWithName("feature_selection").With(log.ModelNameKey, r.name)
	return r
}

// HasCapability reports whether the wrapper exposes the optional method
// named by c. Transform and InverseTransform are RFE's own; the rest follow
// the wrapped estimator.
func (r *RFE) HasCapability(c model.Capability) bool {
	switch c {
	case model.CapTransform, model.CapInverseTransform:
		return true
	}
	return model.HasCapability(r.delegate(), c)
}

// Fit performs recursive feature elimination and refits the estimator on the
// selected features.
func (r *RFE) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return scigoErrors.NewModelError(r.name+".Fit", "empty data", scigoErrors.ErrEmptyData)
	}

	nSelect := r.nFeaturesToSelect
	if nSelect <= 0 {
		nSelect = (cols + 1) / 2
	}
	if nSelect > cols {
		return scigoErrors.NewValidationError(
			"n_features_to_select", "exceeds the number of features", nSelect)
	}
	step := r.step
	if step < 1 {
		step = 1
	}

	support := make([]bool, cols)
	for j := range support {
		support[j] = true
	}
	removalRound := make([]int, cols) // 0 = never removed
	remaining := cols
	round := 0

	for remaining > nSelect {
		round++

		cand, err := r.cloneEstimator()
		if err != nil {
			return err
		}
		fitter, ok := cand.(model.Fitter)
		if !ok {
			return scigoErrors.NewValidationError(
				"estimator", "must implement Fit(X, y)", fmt.Sprintf("%T", cand))
		}
		if err := fitter.Fit(selectColumns(X, support), y); err != nil {
			return scigoErrors.Wrap(err, r.name+": elimination fit failed")
		}

		weights, err := featureWeights(cand)
		if err != nil {
			return err
		}
		if len(weights) != remaining {
			return scigoErrors.NewDimensionError(r.name+".Fit", remaining, len(weights), 1)
		}

		// Map weights back to original feature indices and sort by magnitude.
		type weighted struct {
			feature int
			weight  float64
		}
		active := make([]weighted, 0, remaining)
		k := 0
		for j := 0; j < cols; j++ {
			if support[j] {
				active = append(active, weighted{feature: j, weight: math.Abs(weights[k])})
				k++
			}
		}
		sort.Slice(active, func(a, b int) bool { return active[a].weight < active[b].weight })

		nRemove := step
		if remaining-nRemove < nSelect {
			nRemove = remaining - nSelect
		}
		for _, w := range active[:nRemove] {
			support[w.feature] = false
			removalRound[w.feature] = round
		}
		remaining -= nRemove
	}

	// Selected features rank 1; earlier-removed features rank higher.
	ranking := make([]int, cols)
	for j := 0; j < cols; j++ {
		if support[j] {
			ranking[j] = 1
		} else {
			ranking[j] = 1 + (round - removalRound[j] + 1)
		}
	}

	final, err := r.cloneEstimator()
	if err != nil {
		return err
	}
	if err := final.(model.Fitter).Fit(selectColumns(X, support), y); err != nil {
		return scigoErrors.Wrap(err, r.name+": final fit failed")
	}

	r.estimator_ = final
	r.support_ = support
	r.ranking_ = ranking
	r.nFeatures_ = cols
	r.state.SetNFeatures(cols)
	r.state.SetFitted()

	r.logger.Debug("elimination complete", "n_features", cols, "n_selected", remaining)
	return nil
}

// Transform reduces X to the selected features.
func (r *RFE) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !r.state.IsFitted() {
		return nil, scigoErrors.NewNotFittedError(r.name, "Transform")
	}
	if _, c := X.Dims(); c != r.nFeatures_ {
		return nil, scigoErrors.NewDimensionError(r.name+".Transform", r.nFeatures_, c, 1)
	}
	return selectColumns(X, r.support_), nil
}

// InverseTransform scatters reduced data back to the original feature space,
// filling eliminated features with zeros.
func (r *RFE) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !r.state.IsFitted() {
		return nil, scigoErrors.NewNotFittedError(r.name, "InverseTransform")
	}

	rows, c := X.Dims()
	nSelected := 0
	for _, s := range r.support_ {
		if s {
			nSelected++
		}
	}
	if c != nSelected {
		return nil, scigoErrors.NewDimensionError(r.name+".InverseTransform", nSelected, c, 1)
	}

	out := mat.NewDense(rows, r.nFeatures_, nil)
	for i := 0; i < rows; i++ {
		k := 0
		for j := 0; j < r.nFeatures_; j++ {
			if r.support_[j] {
				out.Set(i, j, X.At(i, k))
				k++
			}
		}
	}
	return out, nil
}

// Predict forwards to the estimator fitted on the selected features.
func (r *RFE) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := r.delegationCheck(model.CapPredict, "Predict"); err != nil {
		return nil, err
	}
	Xt, err := r.Transform(X)
	if err != nil {
		return nil, err
	}
	predictor, ok := r.estimator_.(model.Predictor)
	if !ok {
		return nil, scigoErrors.NewAttributeError(r.name, "Predict")
	}
	return predictor.Predict(Xt)
}

// PredictProba forwards to the fitted estimator.
func (r *RFE) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := r.delegationCheck(model.CapPredictProba, "PredictProba"); err != nil {
		return nil, err
	}
	Xt, err := r.Transform(X)
	if err != nil {
		return nil, err
	}
	predictor, ok := r.estimator_.(interface {
		PredictProba(mat.Matrix) (mat.Matrix, error)
	})
	if !ok {
		return nil, scigoErrors.NewAttributeError(r.name, "PredictProba")
	}
	return predictor.PredictProba(Xt)
}

// PredictLogProba forwards to the fitted estimator.
func (r *RFE) PredictLogProba(X mat.Matrix) (mat.Matrix, error) {
	if err := r.delegationCheck(model.CapPredictLogProba, "PredictLogProba"); err != nil {
		return nil, err
	}
	Xt, err := r.Transform(X)
	if err != nil {
		return nil, err
	}
	predictor, ok := r.estimator_.(interface {
		PredictLogProba(mat.Matrix) (mat.Matrix, error)
	})
	if !ok {
		return nil, scigoErrors.NewAttributeError(r.name, "PredictLogProba")
	}
	return predictor.PredictLogProba(Xt)
}

// DecisionFunction forwards to the fitted estimator.
func (r *RFE) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	if err := r.delegationCheck(model.CapDecisionFunction, "DecisionFunction"); err != nil {
		return nil, err
	}
	Xt, err := r.Transform(X)
	if err != nil {
		return nil, err
	}
	fn, ok := r.estimator_.(model.DecisionFunctioner)
	if !ok {
		return nil, scigoErrors.NewAttributeError(r.name, "DecisionFunction")
	}
	return fn.DecisionFunction(Xt)
}

// Score forwards to the fitted estimator on the selected features.
func (r *RFE) Score(X, y mat.Matrix) (float64, error) {
	if err := r.delegationCheck(model.CapScore, "Score"); err != nil {
		return 0, err
	}
	Xt, err := r.Transform(X)
	if err != nil {
		return 0, err
	}
	scorer, ok := r.estimator_.(model.Scorer)
	if !ok {
		return 0, scigoErrors.NewAttributeError(r.name, "Score")
	}
	return scorer.Score(Xt, y)
}

// Support returns the mask of selected features.
func (r *RFE) Support() []bool {
	support := make([]bool, len(r.support_))
	copy(support, r.support_)
	return support
}

// Ranking returns the feature ranking: selected features rank 1, eliminated
// features rank higher the earlier they were removed.
func (r *RFE) Ranking() []int {
	ranking := make([]int, len(r.ranking_))
	copy(ranking, r.ranking_)
	return ranking
}

// NFeaturesSelected returns the number of selected features.
func (r *RFE) NFeaturesSelected() int {
	n := 0
	for _, s := range r.support_ {
		if s {
			n++
		}
	}
	return n
}

// Estimator returns the estimator fitted on the selected features, or nil
// before Fit.
func (r *RFE) Estimator() interface{} {
	return r.estimator_
}

// IsFitted returns whether Fit has completed.
func (r *RFE) IsFitted() bool {
	return r.state.IsFitted()
}

func (r *RFE) delegate() interface{} {
	if r.estimator_ != nil {
		return r.estimator_
	}
	return r.estimator
}

func (r *RFE) delegationCheck(c model.Capability, method string) error {
	if !model.HasCapability(r.delegate(), c) {
		return scigoErrors.NewAttributeError(r.name, method)
	}
	if !r.state.IsFitted() {
		return scigoErrors.NewNotFittedError(r.name, method)
	}
	return nil
}

func (r *RFE) cloneEstimator() (interface{}, error) {
	cand := model.CloneEstimator(r.estimator)
	if cand == nil {
		return nil, scigoErrors.NewValidationError(
			"estimator", "must implement Clone", fmt.Sprintf("%T", r.estimator))
	}
	return cand, nil
}

// featureWeights extracts per-feature weights used to rank features.
func featureWeights(est interface{}) ([]float64, error) {
	switch e := est.(type) {
	case interface{ Coef() []float64 }:
		return e.Coef(), nil
	case interface{ FeatureImportances() []float64 }:
		return e.FeatureImportances(), nil
	}
	return nil, scigoErrors.NewValidationError(
		"estimator", "must expose Coef or FeatureImportances", fmt.Sprintf("%T", est))
}

// selectColumns extracts the columns of X flagged in support.
func selectColumns(X mat.Matrix, support []bool) *mat.Dense {
	rows, cols := X.Dims()
	n := 0
	for _, s := range support {
		if s {
			n++
		}
	}

	out := mat.NewDense(rows, n, nil)
	for i := 0; i < rows; i++ {
		k := 0
		for j := 0; j < cols; j++ {
			if support[j] {
				out.Set(i, k, X.At(i, j))
				k++
			}
		}
	}
	return out
}

package feature_selection

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"

	"github.com/liamdp12/scikit-learn/core/model"
	"github.com/liamdp12/scikit-learn/metrics"
	scigoErrors "github.com/liamdp12/scikit-learn/pkg/errors"
	"github.com/liamdp12/scikit-learn/pkg/log"
	"github.com/liamdp12/scikit-learn/sklearn/model_selection"
)

// RFECV selects the number of features to keep by cross-validating recursive
// feature elimination across every candidate feature count.
type RFECV struct {
	RFE

	cv                  int
	minFeaturesToSelect int
	cvScores_           []float64 // mean CV score per candidate count, index 0 = minFeaturesToSelect
}

// RFECVOption configures an RFECV instance.
type RFECVOption func(*RFECV)

// WithCV sets the number of cross-validation folds (default 5).
func WithCV(cv int) RFECVOption {
	return func(r *RFECV) { r.cv = cv }
}

// WithMinFeaturesToSelect sets the smallest feature count considered (default 1).
func WithMinFeaturesToSelect(n int) RFECVOption {
	return func(r *RFECV) { r.minFeaturesToSelect = n }
}

// WithRFECVStep sets how many features are removed per elimination round.
func WithRFECVStep(step int) RFECVOption {
	return func(r *RFECV) { r.step = step }
}

// NewRFECV creates an RFECV wrapping estimator.
func NewRFECV(estimator interface{}, opts ...RFECVOption) *RFECV {
	r := &RFECV{
		RFE: RFE{
			state:     model.NewStateManager(),
			name:      "RFECV",
			estimator: estimator,
			step:      1,
		},
		cv:                  5,
		minFeaturesToSelect: 1,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = log.GetLoggerWithName("feature_selection").With(log.ModelNameKey, r.name)
	return r
}

// Fit cross-validates every candidate feature count, keeps the count with
// the best mean score and runs a final elimination on the full data.
func (r *RFECV) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return scigoErrors.NewModelError("RFECV.Fit", "empty data", scigoErrors.ErrEmptyData)
	}
	if r.minFeaturesToSelect < 1 || r.minFeaturesToSelect > cols {
		return scigoErrors.NewValidationError(
			"min_features_to_select", "must be between 1 and n_features", r.minFeaturesToSelect)
	}

	folds, err := model_selection.NewKFold(r.cv).Split(rows)
	if err != nil {
		return err
	}

	bestCount := -1
	bestScore := 0.0
	cvScores := make([]float64, 0, cols-r.minFeaturesToSelect+1)

	for count := r.minFeaturesToSelect; count <= cols; count++ {
		scores := make([]float64, 0, len(folds))

		for _, fold := range folds {
			rfe := NewRFE(r.estimator,
				WithNFeaturesToSelect(count),
				WithStep(r.step),
			)

			XTrain := subsetRows(X, fold.Train)
			yTrain := subsetLabels(y, fold.Train)
			if err := rfe.Fit(XTrain, yTrain); err != nil {
				return scigoErrors.Wrap(err, fmt.Sprintf("RFECV: fit with %d features failed", count))
			}

			score, err := scoreEstimator(rfe, subsetRows(X, fold.Test), subsetLabels(y, fold.Test))
			if err != nil {
				return err
			}
			scores = append(scores, score)
		}

		mean, err := stats.Mean(scores)
		if err != nil {
			return scigoErrors.Wrap(err, "RFECV: score aggregation failed")
		}
		cvScores = append(cvScores, mean)

		if bestCount < 0 || mean > bestScore {
			bestScore = mean
			bestCount = count
		}
	}

	r.nFeaturesToSelect = bestCount
	r.cvScores_ = cvScores

	if err := r.RFE.Fit(X, y); err != nil {
		return err
	}

	r.logger.Debug("cross-validated elimination complete",
		"best_n_features", bestCount, "best_score", bestScore)
	return nil
}

// CVScores returns the mean cross-validation score per candidate feature
// count, starting at the minimum count.
func (r *RFECV) CVScores() []float64 {
	scores := make([]float64, len(r.cvScores_))
	copy(scores, r.cvScores_)
	return scores
}

// scoreEstimator evaluates est on the test data, preferring its own scorer
// and falling back to prediction accuracy.
func scoreEstimator(est interface{}, X, y mat.Matrix) (float64, error) {
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

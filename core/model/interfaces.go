// Additional optional-method interfaces probed by delegating metaestimators.
// This file complements the core interfaces in estimator.go and transformer.go.

package model

import "gonum.org/v1/gonum/mat"

// Scorer is the interface for models that can compute a score.
type Scorer interface {
	// Score returns the model's score on the given test data and labels.
	Score(X, y mat.Matrix) (float64, error)
}

// ProbabilityPredictor is the interface for classifiers that estimate class
// probabilities.
type ProbabilityPredictor interface {
	// PredictProba returns probability estimates for each class.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// PredictLogProba returns log probability estimates for each class.
	PredictLogProba(X mat.Matrix) (mat.Matrix, error)
}

// DecisionFunctioner is the interface for classifiers that expose a
// confidence score per sample.
type DecisionFunctioner interface {
	DecisionFunction(X mat.Matrix) (mat.Matrix, error)
}

// Classifier combines the interfaces of classification models.
type Classifier interface {
	Estimator
	Scorer
	ProbabilityPredictor
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// ParameterSetter is the interface for models that allow parameter modification.
type ParameterSetter interface {
	// SetParams sets the model's hyperparameters.
	SetParams(params map[string]interface{}) error
}

// Cloneable is implemented by estimators that can produce an unfitted copy
// of themselves carrying the same hyperparameters. Metaestimators clone
// their delegate before every internal fit.
type Cloneable interface {
	Clone() interface{}
}

// CloneEstimator returns an unfitted copy of est, or nil when est does not
// implement Cloneable.
func CloneEstimator(est interface{}) interface{} {
	if c, ok := est.(Cloneable); ok {
		return c.Clone()
	}
	return nil
}

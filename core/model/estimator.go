package model

import "gonum.org/v1/gonum/mat"

// Fitter is an interface for trainable models.
type Fitter interface {
	// Fit trains the model with training data.
	Fit(X, y mat.Matrix) error
}

// Predictor is an interface for predictive models.
type Predictor interface {
	// Predict performs predictions on input data.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Estimator is an interface for models that can both learn and predict.
type Estimator interface {
	Fitter
	Predictor
}
